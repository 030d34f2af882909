// ABOUTME: Escape sequence boundary detection plus strip/extract/width helpers
// ABOUTME: Handles CSI, OSC, DCS/SOS/PM/APC, nF and two-byte ESC sequences

package ansi

import (
	"strings"

	"github.com/mauromedda/termreflow/pkg/reflow/width"
)

const (
	esc = '\x1b'
	bel = '\x07'

	// Reset is the SGR sequence that clears every text attribute.
	Reset = "\x1b[0m"
)

// sequenceEnd finds the end of the escape sequence starting at s[i], which
// must be ESC. It returns the index of the first byte after the sequence and
// whether a terminator was found. When the input ends first, end is len(s)
// and complete is false.
func sequenceEnd(s string, i int) (end int, complete bool) {
	j := i + 1
	if j >= len(s) {
		return len(s), false
	}

	switch b := s[j]; {
	case b == '[':
		// CSI: parameters and intermediates 0x20-0x3F, final 0x40-0x7E.
		for j++; j < len(s); j++ {
			c := s[j]
			switch {
			case c >= 0x40 && c <= 0x7E:
				return j + 1, true
			case c >= 0x20 && c < 0x40:
			default:
				// Interrupted by a control or non-ASCII byte.
				return j, true
			}
		}
		return len(s), false
	case b == ']':
		// OSC: ended by BEL or ST.
		return stringEnd(s, j+1, true)
	case b == 'P', b == 'X', b == '^', b == '_':
		// DCS, SOS, PM, APC: ended by ST.
		return stringEnd(s, j+1, false)
	case b >= 0x20 && b <= 0x2F:
		// nF: intermediates then a final byte 0x30-0x7E.
		for j++; j < len(s); j++ {
			c := s[j]
			switch {
			case c >= 0x30 && c <= 0x7E:
				return j + 1, true
			case c >= 0x20 && c <= 0x2F:
			default:
				return j, true
			}
		}
		return len(s), false
	case b >= 0x30 && b <= 0x7E:
		return j + 1, true
	default:
		// Lone ESC.
		return j, true
	}
}

// stringEnd scans a control string body starting at s[j] for ST (ESC \) or,
// if allowBEL, BEL. A stray ESC that does not start ST ends the string just
// before it.
func stringEnd(s string, j int, allowBEL bool) (int, bool) {
	for ; j < len(s); j++ {
		switch s[j] {
		case bel:
			if allowBEL {
				return j + 1, true
			}
		case esc:
			if j+1 >= len(s) {
				return len(s), false
			}
			if s[j+1] == '\\' {
				return j + 2, true
			}
			return j, true
		}
	}
	return len(s), false
}

func containsESC(s string) bool {
	return strings.IndexByte(s, esc) >= 0
}

// Strip removes all escape sequences from s.
func Strip(s string) string {
	if !containsESC(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, t := range Tokenize(s) {
		if t.Kind == KindVisible {
			b.WriteString(t.Data)
		}
	}
	return b.String()
}

// Extract returns all escape sequences found in s, in order.
func Extract(s string) []string {
	if !containsESC(s) {
		return nil
	}
	var seqs []string
	for _, t := range Tokenize(s) {
		if t.Kind == KindEscape {
			seqs = append(seqs, t.Data)
		}
	}
	return seqs
}

// VisibleWidth returns the display width of s, ignoring escape sequences.
func VisibleWidth(s string) int {
	if !containsESC(s) {
		return width.String(s)
	}
	return Width(Tokenize(s))
}
