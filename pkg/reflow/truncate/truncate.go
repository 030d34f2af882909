// ABOUTME: Cuts lines at a target visible width, closing open styles and adding a tail
// ABOUTME: Stream carries the dropped style over to the line that follows a cut

package truncate

import (
	"github.com/mauromedda/termreflow/pkg/reflow/ansi"
	"github.com/mauromedda/termreflow/pkg/reflow/width"
)

// Truncator cuts lines that are wider than a target.
type Truncator struct {
	// Tail is appended after a cut, e.g. "…". It may contain escapes and
	// counts toward the target width.
	Tail string
}

// Truncate returns l cut to at most target columns and reports whether a
// cut happened. Clusters are never split: a wide character that would
// straddle the limit is dropped. If a style is open at the cut, a reset is
// inserted before the tail. Everything after the cut is discarded.
func (t Truncator) Truncate(l ansi.Line, target int) (ansi.Line, bool) {
	target = max(target, 0)
	if l.Width <= target {
		return l, false
	}

	tail := ansi.NewLine(ansi.Tokenize(t.Tail), ansi.Style{})
	if tail.Width > target {
		tail, _ = Truncator{}.Truncate(tail, target)
	}
	limit := target - tail.Width

	out := ansi.Line{Open: l.Open, Newline: l.Newline}
	style := l.Open
	acc := 0
cut:
	for _, tok := range l.Tokens {
		if tok.Kind == ansi.KindEscape {
			style.Apply(tok.Data)
			out.Tokens = append(out.Tokens, tok)
			continue
		}
		s := tok.Data
		for s != "" {
			c, rest, cw := width.FirstCluster(s)
			if acc+cw > limit {
				break cut
			}
			out.Tokens = ansi.AppendToken(out.Tokens, ansi.Visible(c))
			acc += cw
			s = rest
		}
	}

	if style.Active() {
		out.Tokens = append(out.Tokens, ansi.Escape(ansi.Reset))
	}
	for _, tok := range tail.Tokens {
		out.Tokens = ansi.AppendToken(out.Tokens, tok)
	}
	out.Width = acc + tail.Width
	return out, true
}

// Stream truncates consecutive lines of one output stream. When a cut drops
// escapes, the style the original line ended with is re-asserted at the
// start of the next line so later lines render as they would have.
type Stream struct {
	Truncator Truncator
	Width     int
	// Compact folds the re-asserted style into a single SGR sequence.
	Compact bool

	carry ansi.Style
}

// Line truncates l, prefixing it with any style carried from the previous
// cut.
func (s *Stream) Line(l ansi.Line) ansi.Line {
	end := l.Close()
	if s.carry.Active() {
		restore := s.carry.Restore(s.Compact)
		toks := make([]ansi.Token, 0, len(restore)+len(l.Tokens))
		toks = append(toks, restore...)
		l.Tokens = append(toks, l.Tokens...)
		l.Open = ansi.Style{}
	}
	out, cut := s.Truncator.Truncate(l, s.Width)
	if cut {
		s.carry = end
	} else {
		s.carry = ansi.Style{}
	}
	return out
}

// Reset forgets any carried style.
func (s *Stream) Reset() { s.carry = ansi.Style{} }

// String truncates every line of s to target columns, appending tail to
// each line that was cut.
func String(s string, target int, tail string) string {
	var sp ansi.Splitter
	lines := sp.Push(ansi.Tokenize(s)...)
	lines = append(lines, sp.Finish()...)
	st := Stream{Truncator: Truncator{Tail: tail}, Width: target}
	for i, l := range lines {
		lines[i] = st.Line(l)
	}
	return ansi.Join(lines)
}
