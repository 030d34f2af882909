// ABOUTME: Prefixes lines with a fixed margin made of a fill character or a custom string
// ABOUTME: Styled margins are closed and the line's own style re-asserted after them

package indent

import (
	"strings"

	"github.com/mauromedda/termreflow/pkg/reflow/ansi"
	"github.com/mauromedda/termreflow/pkg/reflow/width"
)

// Indenter prepends a margin to every line.
type Indenter struct {
	// Width is the number of Char copies used when Margin is empty.
	Width int
	// Char defaults to a space; characters that are not one column wide
	// fall back to a space as well.
	Char rune
	// Margin, when set, is used verbatim instead of Width copies of Char.
	// It may contain escape sequences.
	Margin string
}

// Spaces returns an Indenter with an n-space margin.
func Spaces(n int) Indenter {
	return Indenter{Width: n, Char: ' '}
}

func (in Indenter) margin() []ansi.Token {
	if in.Margin != "" {
		return ansi.Tokenize(in.Margin)
	}
	n := max(in.Width, 0)
	if n == 0 {
		return nil
	}
	ch := in.Char
	if width.Rune(ch) != 1 {
		ch = ' '
	}
	return []ansi.Token{ansi.Visible(strings.Repeat(string(ch), n))}
}

// MarginWidth returns the number of columns the margin occupies.
func (in Indenter) MarginWidth() int {
	return ansi.Width(in.margin())
}

// Indent returns l with the margin prepended. A plain margin leaves the
// style untouched. A margin carrying its own escapes is followed by a reset
// (when it leaves a style open) and the line's inherited style.
func (in Indenter) Indent(l ansi.Line) ansi.Line {
	margin := in.margin()
	if len(margin) == 0 {
		return l
	}

	toks := make([]ansi.Token, 0, len(margin)+len(l.Tokens)+2)
	toks = append(toks, margin...)
	if hasEscape(margin) {
		if ansi.StyleOf(l.Open, margin).Active() {
			toks = append(toks, ansi.Escape(ansi.Reset))
		}
		toks = append(toks, l.Open.Restore(false)...)
	}
	toks = append(toks, l.Tokens...)

	out := l
	out.Tokens = toks
	out.Width = l.Width + ansi.Width(margin)
	return out
}

func hasEscape(toks []ansi.Token) bool {
	for _, t := range toks {
		if t.Kind == ansi.KindEscape {
			return true
		}
	}
	return false
}

// String indents every line of s by n spaces.
func String(s string, n int) string {
	in := Spaces(n)
	var sp ansi.Splitter
	lines := sp.Push(ansi.Tokenize(s)...)
	lines = append(lines, sp.Finish()...)
	for i, l := range lines {
		lines[i] = in.Indent(l)
	}
	return ansi.Join(lines)
}
