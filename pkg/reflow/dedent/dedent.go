// ABOUTME: Removes the indentation shared by every non-blank line of a text
// ABOUTME: Escape sequences inside the removed indentation are kept in place

package dedent

import "github.com/mauromedda/termreflow/pkg/reflow/ansi"

// String removes the common leading whitespace from every line of s.
// Spaces and tabs each count as one unit of indentation. Lines holding only
// whitespace do not take part in finding the common prefix.
func String(s string) string {
	var sp ansi.Splitter
	lines := sp.Push(ansi.Tokenize(s)...)
	lines = append(lines, sp.Finish()...)
	return ansi.Join(Lines(lines))
}

// Lines returns lines with their common indentation removed.
func Lines(lines []ansi.Line) []ansi.Line {
	n := Common(lines)
	if n == 0 {
		return lines
	}
	out := make([]ansi.Line, len(lines))
	for i, l := range lines {
		out[i] = strip(l, n)
	}
	return out
}

// Common returns the indentation shared by every non-blank line.
func Common(lines []ansi.Line) int {
	common := -1
	for _, l := range lines {
		n, blank := leading(l)
		if blank {
			continue
		}
		if common < 0 || n < common {
			common = n
		}
	}
	return max(common, 0)
}

func isIndent(b byte) bool { return b == ' ' || b == '\t' }

// leading counts the indentation of l and reports whether l is blank.
func leading(l ansi.Line) (n int, blank bool) {
	counting := true
	for _, t := range l.Tokens {
		if t.Kind == ansi.KindEscape {
			continue
		}
		for i := 0; i < len(t.Data); i++ {
			c := t.Data[i]
			switch {
			case counting && isIndent(c):
				n++
			case c == '\r' || isIndent(c):
				counting = false
			default:
				return n, false
			}
		}
	}
	return n, true
}

func strip(l ansi.Line, n int) ansi.Line {
	out := l
	out.Tokens = make([]ansi.Token, 0, len(l.Tokens))
	removed := 0
	for _, t := range l.Tokens {
		if t.Kind == ansi.KindEscape || removed == n {
			out.Tokens = append(out.Tokens, t)
			continue
		}
		i := 0
		for i < len(t.Data) && removed < n && isIndent(t.Data[i]) {
			i++
			removed++
		}
		if i < len(t.Data) {
			// Indentation ended inside this token.
			removed = n
			out.Tokens = ansi.AppendToken(out.Tokens, ansi.Visible(t.Data[i:]))
		}
	}
	out.Width = ansi.Width(out.Tokens)
	return out
}
