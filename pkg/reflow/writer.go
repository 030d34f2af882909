// ABOUTME: io.WriteCloser front end for the pipeline plus one-shot String and Bytes helpers
// ABOUTME: Lines are emitted through an escape-aware writer with '\n' after each terminated line

package reflow

import (
	"io"

	"github.com/mauromedda/termreflow/internal/pool"
	"github.com/mauromedda/termreflow/pkg/reflow/ansi"
)

// Writer reflows everything written to it into an underlying io.Writer.
// Close must be called to flush the last line.
type Writer struct {
	r      *Reflower
	out    *ansi.Writer
	closed bool
}

// NewWriter returns a Writer applying opts to the bytes written to w.
func NewWriter(w io.Writer, opts Options) *Writer {
	return &Writer{r: New(opts), out: ansi.NewWriter(w)}
}

// Write implements io.Writer. Complete lines are written through; a partial
// last line is held until more input or Close.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	if err := w.emit(w.r.Feed(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close flushes the pipeline. Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return w.out.Err()
	}
	w.closed = true
	return w.emit(w.r.Finish())
}

// VisibleWidth returns the total visible width written to the sink.
func (w *Writer) VisibleWidth() int { return w.out.VisibleWidth() }

func (w *Writer) emit(lines []ansi.Line) error {
	for _, l := range lines {
		if err := w.out.WriteTokens(l.Tokens...); err != nil {
			return err
		}
		if l.Newline {
			if err := w.out.WriteToken(ansi.Visible("\n")); err != nil {
				return err
			}
		}
	}
	return nil
}

// String reflows s with opts.
func String(s string, opts Options) string {
	sb := pool.GetBuilder()
	defer pool.PutBuilder(sb)

	w := NewWriter(sb, opts)
	_, _ = io.WriteString(w, s)
	_ = w.Close()
	return sb.String()
}

// Bytes reflows b with opts.
func Bytes(b []byte, opts Options) []byte {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	w := NewWriter(buf, opts)
	_, _ = w.Write(b)
	_ = w.Close()
	return append([]byte(nil), buf.Bytes()...)
}
