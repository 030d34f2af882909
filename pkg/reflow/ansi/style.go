// ABOUTME: Style state: the ordered SGR sequences still open at a point in the stream
// ABOUTME: Values are copy-on-write so snapshots taken at line breaks never change

package ansi

import "strings"

// Style is the ordered list of SGR sequences that are open (not yet closed
// by a full reset). The zero value is the empty style.
//
// Applying a sequence that is already open moves it to the end instead of
// appending a duplicate; for SGR this yields the same rendition and keeps
// the list bounded by the number of distinct sequences.
type Style struct {
	seqs []string
}

// Apply updates the style with an escape sequence. Non-SGR sequences are
// ignored except RIS (ESC c), which clears the style like a full reset.
// It reports whether the style changed.
func (s *Style) Apply(seq string) bool {
	if seq == "\x1bc" {
		return s.clear()
	}
	params, ok := sgrParams(seq)
	if !ok {
		return false
	}
	fields := strings.Split(params, ";")
	if allZero(fields) {
		return s.clear()
	}

	var next []string
	if !isZero(fields[0]) {
		next = make([]string, 0, len(s.seqs)+1)
		for _, open := range s.seqs {
			if open != seq {
				next = append(next, open)
			}
		}
	}
	s.seqs = append(next, seq)
	return true
}

func (s *Style) clear() bool {
	changed := len(s.seqs) > 0
	s.seqs = nil
	return changed
}

// Active reports whether any sequence is open.
func (s Style) Active() bool { return len(s.seqs) > 0 }

// Len returns the number of open sequences.
func (s Style) Len() int { return len(s.seqs) }

// Sequences returns a copy of the open sequences in order.
func (s Style) Sequences() []string {
	if len(s.seqs) == 0 {
		return nil
	}
	out := make([]string, len(s.seqs))
	copy(out, s.seqs)
	return out
}

// String concatenates the open sequences; writing it re-asserts the style.
func (s Style) String() string {
	return strings.Join(s.seqs, "")
}

// Compact folds the open sequences into one equivalent SGR sequence.
func (s Style) Compact() string {
	if len(s.seqs) == 0 {
		return ""
	}
	var t Tracker
	for _, seq := range s.seqs {
		t.Process(seq)
	}
	return t.Restore()
}

// Restore returns escape tokens that re-assert the style, either verbatim or
// folded into a single sequence.
func (s Style) Restore(compact bool) []Token {
	if len(s.seqs) == 0 {
		return nil
	}
	if compact {
		if seq := s.Compact(); seq != "" {
			return []Token{Escape(seq)}
		}
		return nil
	}
	toks := make([]Token, len(s.seqs))
	for i, seq := range s.seqs {
		toks[i] = Escape(seq)
	}
	return toks
}

// Clone returns an independent copy of s.
func (s Style) Clone() Style {
	return Style{seqs: s.Sequences()}
}

// Equal reports whether both styles hold the same sequences in order.
func (s Style) Equal(o Style) bool {
	if len(s.seqs) != len(o.seqs) {
		return false
	}
	for i := range s.seqs {
		if s.seqs[i] != o.seqs[i] {
			return false
		}
	}
	return true
}

// StyleOf returns the style in effect after applying every escape in toks
// on top of open.
func StyleOf(open Style, toks []Token) Style {
	s := open
	for _, t := range toks {
		if t.Kind == KindEscape {
			s.Apply(t.Data)
		}
	}
	return s
}

// sgrParams returns the parameter string of an SGR sequence (ESC [ ... m).
func sgrParams(seq string) (string, bool) {
	if len(seq) < 3 || seq[0] != esc || seq[1] != '[' || seq[len(seq)-1] != 'm' {
		return "", false
	}
	params := seq[2 : len(seq)-1]
	for i := 0; i < len(params); i++ {
		c := params[i]
		if (c < '0' || c > '9') && c != ';' && c != ':' {
			return "", false
		}
	}
	return params, true
}

func isZero(field string) bool {
	for i := 0; i < len(field); i++ {
		if field[i] != '0' {
			return false
		}
	}
	return true
}

func allZero(fields []string) bool {
	for _, f := range fields {
		if !isZero(f) {
			return false
		}
	}
	return true
}

// IsReset reports whether seq clears every attribute.
func IsReset(seq string) bool {
	if seq == "\x1bc" {
		return true
	}
	params, ok := sgrParams(seq)
	return ok && allZero(strings.Split(params, ";"))
}
