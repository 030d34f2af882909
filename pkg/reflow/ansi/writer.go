// ABOUTME: Escape-aware sink that forwards every byte while tracking width and style
// ABOUTME: Accepts tokens directly or raw bytes (scanned internally) via io.Writer

package ansi

import (
	"fmt"
	"io"

	"github.com/mauromedda/termreflow/pkg/reflow/width"
)

// Writer forwards tokens to an underlying io.Writer in arrival order and
// keeps a running visible width and the current Style. It never drops or
// rewrites an escape sequence.
//
// The first error returned by the sink is latched; later writes return it
// without touching the sink.
type Writer struct {
	w       io.Writer
	scanner Scanner
	style   Style
	width   int
	err     error
}

// NewWriter returns a Writer forwarding to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteToken writes a single token.
func (w *Writer) WriteToken(t Token) error {
	if w.err != nil {
		return w.err
	}
	if t.Kind == KindEscape {
		w.style.Apply(t.Data)
	} else {
		w.width += width.String(t.Data)
	}
	return w.emit(t.Data)
}

// WriteTokens writes toks in order, stopping at the first error.
func (w *Writer) WriteTokens(toks ...Token) error {
	for _, t := range toks {
		if err := w.WriteToken(t); err != nil {
			return err
		}
	}
	return nil
}

// Write implements io.Writer. Sequences split across calls are held until
// completed; call Flush after the last Write.
func (w *Writer) Write(p []byte) (int, error) {
	if err := w.WriteTokens(w.scanner.Feed(p)...); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString is Write for strings.
func (w *Writer) WriteString(s string) (int, error) {
	if err := w.WriteTokens(w.scanner.FeedString(s)...); err != nil {
		return 0, err
	}
	return len(s), nil
}

// Flush writes any bytes held back by Write, including an unterminated
// trailing sequence.
func (w *Writer) Flush() error {
	return w.WriteTokens(w.scanner.Finish()...)
}

// VisibleWidth returns the total visible width written so far.
func (w *Writer) VisibleWidth() int { return w.width }

// Style returns a snapshot of the style currently open.
func (w *Writer) Style() Style { return w.style.Clone() }

// ResetStyle writes a full reset if a style is open. The tracked style is
// kept so RestoreStyle can re-assert it.
func (w *Writer) ResetStyle() error {
	if w.err != nil {
		return w.err
	}
	if !w.style.Active() {
		return nil
	}
	return w.emit(Reset)
}

// RestoreStyle re-emits the open style.
func (w *Writer) RestoreStyle() error {
	if w.err != nil {
		return w.err
	}
	if !w.style.Active() {
		return nil
	}
	return w.emit(w.style.String())
}

// Err returns the latched sink error, if any.
func (w *Writer) Err() error { return w.err }

func (w *Writer) emit(s string) error {
	if s == "" {
		return nil
	}
	if _, err := io.WriteString(w.w, s); err != nil {
		w.err = fmt.Errorf("ansi writer: %w", err)
		return w.err
	}
	return nil
}
