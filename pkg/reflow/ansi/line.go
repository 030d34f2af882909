// ABOUTME: Line value passed between stages and a splitter that cuts tokens at newlines
// ABOUTME: Each Line carries its width, inherited style, and whether a newline follows

package ansi

import (
	"strings"

	"github.com/mauromedda/termreflow/pkg/reflow/width"
)

// Line is a run of tokens rendered on one terminal row.
type Line struct {
	Tokens []Token
	// Width is the sum of cluster widths of the visible tokens.
	Width int
	// Open is the style in effect before the first token.
	Open Style
	// Newline is set when a line terminator follows the line.
	Newline bool
}

// NewLine builds a Line from tokens, computing its width.
func NewLine(toks []Token, open Style) Line {
	return Line{Tokens: toks, Width: Width(toks), Open: open}
}

// ParseLine tokenizes s as a single line.
func ParseLine(s string) Line {
	return NewLine(Tokenize(s), Style{})
}

// String returns the raw bytes of the line without the terminator.
func (l Line) String() string { return Concat(l.Tokens) }

// Plain returns the visible text of the line.
func (l Line) Plain() string {
	var b strings.Builder
	for _, t := range l.Tokens {
		if t.Kind == KindVisible {
			b.WriteString(t.Data)
		}
	}
	return b.String()
}

// Close returns the style in effect after the last token.
func (l Line) Close() Style { return StyleOf(l.Open, l.Tokens) }

// Clone returns a copy whose token slice can be appended to freely.
func (l Line) Clone() Line {
	c := l
	c.Tokens = make([]Token, len(l.Tokens), len(l.Tokens)+2)
	copy(c.Tokens, l.Tokens)
	return c
}

// Splitter cuts a token stream into lines at '\n'. It performs no wrapping.
// The zero value is ready to use.
type Splitter struct {
	cur   []Token
	width int
	open  Style
	style Style
}

// Push consumes toks and returns every line completed by a newline.
func (s *Splitter) Push(toks ...Token) []Line {
	var out []Line
	for _, t := range toks {
		if t.Kind == KindEscape {
			s.style.Apply(t.Data)
			s.cur = append(s.cur, t)
			continue
		}
		data := t.Data
		for {
			i := strings.IndexByte(data, '\n')
			if i < 0 {
				break
			}
			s.visible(data[:i])
			out = append(out, s.emit(true))
			data = data[i+1:]
		}
		s.visible(data)
	}
	return out
}

// Finish returns the final unterminated line, if it holds any token.
func (s *Splitter) Finish() []Line {
	if len(s.cur) == 0 {
		*s = Splitter{}
		return nil
	}
	l := s.emit(false)
	*s = Splitter{}
	return []Line{l}
}

func (s *Splitter) visible(text string) {
	if text == "" {
		return
	}
	s.cur = AppendToken(s.cur, Visible(text))
	s.width += width.String(text)
}

func (s *Splitter) emit(newline bool) Line {
	l := Line{Tokens: s.cur, Width: s.width, Open: s.open, Newline: newline}
	s.cur = nil
	s.width = 0
	s.open = s.style
	return l
}

// Join renders lines back to bytes, writing '\n' after each terminated line.
func Join(lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		for _, t := range l.Tokens {
			b.WriteString(t.Data)
		}
		if l.Newline {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
