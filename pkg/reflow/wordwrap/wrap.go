// ABOUTME: Word wrapper that breaks a token stream into lines no wider than a target
// ABOUTME: Escapes travel with their word; open styles are re-asserted after each break

package wordwrap

import (
	"unicode"
	"unicode/utf8"

	"github.com/mauromedda/termreflow/pkg/reflow/ansi"
	"github.com/mauromedda/termreflow/pkg/reflow/width"
)

// Options configures a Wrapper.
type Options struct {
	// Width is the target line width in columns. Zero degrades to one
	// cluster per line; negative values are treated as zero.
	Width int
	// KeepSpace keeps trailing whitespace at inserted breaks, as much of it
	// as still fits on the broken line.
	KeepSpace bool
	// Compact folds the re-asserted style into a single SGR sequence.
	Compact bool
}

// Wrapper is an incremental word wrapper. Feed it tokens with Push and call
// Finish once at end of input. A Wrapper is not safe for concurrent use.
type Wrapper struct {
	opts Options

	line      []ansi.Token
	lineWidth int
	open      ansi.Style
	style     ansi.Style // after every committed token

	space      []ansi.Token
	spaceWidth int

	word        []ansi.Token
	wordWidth   int
	wordVisible bool

	out []ansi.Line
}

// New returns a Wrapper for opts.
func New(opts Options) *Wrapper {
	if opts.Width < 0 {
		opts.Width = 0
	}
	return &Wrapper{opts: opts}
}

// Push consumes toks and returns the lines they completed.
func (w *Wrapper) Push(toks ...ansi.Token) []ansi.Line {
	for _, t := range toks {
		if t.Kind == ansi.KindEscape {
			w.word = append(w.word, t)
			continue
		}
		s := t.Data
		for s != "" {
			var c string
			var cw int
			c, s, cw = width.FirstCluster(s)
			switch {
			case c == "\n" || c == "\r\n":
				w.newline(c == "\r\n")
			case isSpace(c):
				w.pushSpace(c, cw)
			default:
				w.pushCluster(c, cw)
			}
		}
	}
	return w.take()
}

// Finish flushes the final partial line and resets the Wrapper for reuse.
func (w *Wrapper) Finish() []ansi.Line {
	w.endWord()
	w.flushSpace(true)
	if len(w.line) > 0 {
		w.emit(false)
	}
	out := w.take()
	*w = Wrapper{opts: w.opts}
	return out
}

func (w *Wrapper) take() []ansi.Line {
	out := w.out
	w.out = nil
	return out
}

func (w *Wrapper) newline(crlf bool) {
	w.endWord()
	w.flushSpace(true)
	if crlf {
		w.commit(ansi.Visible("\r"), 0)
	}
	w.emit(true)
	w.open = w.style
}

func (w *Wrapper) pushSpace(c string, cw int) {
	if w.wordVisible {
		w.endWord()
	}
	// Escapes waiting for a word stay in order inside the whitespace run.
	w.space = append(w.space, w.word...)
	w.word = nil
	w.space = ansi.AppendToken(w.space, ansi.Visible(c))
	w.spaceWidth += cw
}

// pushCluster adds c to the current word, breaking first when the word
// would overflow the line. A wide character that does not fit is moved whole
// to the next line, never dropped.
func (w *Wrapper) pushCluster(c string, cw int) {
	limit := w.opts.Width
	if w.lineWidth+w.spaceWidth+w.wordWidth+cw > limit {
		switch {
		case w.wordWidth > 0 && w.wordWidth+cw > limit:
			// The word cannot fit on any line: give it a fresh line and
			// cut it here.
			if w.lineWidth > 0 {
				w.breakLine()
			} else {
				w.flushSpace(false)
			}
			w.commitWord()
			w.breakLine()
		case w.lineWidth > 0:
			w.breakLine()
		default:
			// Leading whitespace that cannot share the line with the word
			// is dropped like whitespace at any inserted break.
			w.flushSpace(false)
		}
	}
	w.word = ansi.AppendToken(w.word, ansi.Visible(c))
	w.wordWidth += cw
	w.wordVisible = true
}

// endWord moves the pending whitespace and word onto the line.
func (w *Wrapper) endWord() {
	if len(w.word) == 0 {
		return
	}
	w.flushSpace(true)
	w.commitWord()
}

func (w *Wrapper) commitWord() {
	for _, t := range w.word {
		w.commit(t, 0)
	}
	w.lineWidth += w.wordWidth
	w.word = nil
	w.wordWidth = 0
	w.wordVisible = false
}

// flushSpace commits the escapes of the pending whitespace run. With keep
// set, visible whitespace is committed too for as long as it fits.
func (w *Wrapper) flushSpace(keep bool) {
	for _, t := range w.space {
		if t.Kind == ansi.KindEscape {
			w.commit(t, 0)
			continue
		}
		if !keep {
			continue
		}
		width.Clusters(t.Data, func(c string, cw int) bool {
			if w.lineWidth+cw > w.opts.Width {
				return false
			}
			w.commit(ansi.Visible(c), cw)
			return true
		})
	}
	w.space = nil
	w.spaceWidth = 0
}

// breakLine ends the current line at an inserted break and starts the next
// one with the open style re-asserted.
func (w *Wrapper) breakLine() {
	w.flushSpace(w.opts.KeepSpace)
	w.emit(true)
	w.open = w.style
	w.line = w.style.Restore(w.opts.Compact)
}

func (w *Wrapper) commit(t ansi.Token, cw int) {
	if t.Kind == ansi.KindEscape {
		w.style.Apply(t.Data)
	}
	w.line = ansi.AppendToken(w.line, t)
	w.lineWidth += cw
}

func (w *Wrapper) emit(newline bool) {
	w.out = append(w.out, ansi.Line{
		Tokens:  w.line,
		Width:   w.lineWidth,
		Open:    w.open,
		Newline: newline,
	})
	w.line = nil
	w.lineWidth = 0
}

// isSpace reports whether c is a breakable whitespace cluster. Line
// terminators and no-break spaces are not.
func isSpace(c string) bool {
	r, size := utf8.DecodeRuneInString(c)
	if size != len(c) {
		return false
	}
	switch r {
	case '\n', '\r', '\u00A0', '\u2007', '\u202F':
		return false
	}
	return unicode.IsSpace(r)
}

// String wraps s at limit columns.
func String(s string, limit int) string {
	w := New(Options{Width: limit})
	lines := w.Push(ansi.Tokenize(s)...)
	lines = append(lines, w.Finish()...)
	return ansi.Join(lines)
}
