// ABOUTME: SGR state machine that folds a chain of SGR sequences into attributes
// ABOUTME: Restore emits the minimal single sequence re-establishing that state

package ansi

import "strings"

// Tracker maintains the rendition described by a series of SGR sequences.
type Tracker struct {
	bold          bool
	dim           bool
	italic        bool
	underline     bool
	blink         bool
	reverse       bool
	hidden        bool
	strikethrough bool
	fg            string // e.g. "31", "38;5;196" or "38:2::1:2:3"
	bg            string
	ul            string // underline color
}

// Reset clears all SGR state.
func (t *Tracker) Reset() {
	*t = Tracker{}
}

// Process applies an escape sequence. Anything other than a complete SGR
// sequence (e.g. "\x1b[31;1m") is ignored.
func (t *Tracker) Process(seq string) {
	params, ok := sgrParams(seq)
	if !ok {
		return
	}
	parts := strings.Split(params, ";")
	for i := 0; i < len(parts); i++ {
		p := parts[i]
		if strings.Contains(p, ":") {
			// Colon form carries its own sub-parameters.
			t.extended(p[:strings.IndexByte(p, ':')], p)
			continue
		}
		switch p {
		case "", "0", "00":
			t.Reset()
		case "1":
			t.bold = true
		case "2":
			t.dim = true
		case "3":
			t.italic = true
		case "4", "21":
			t.underline = true
		case "5", "6":
			t.blink = true
		case "7":
			t.reverse = true
		case "8":
			t.hidden = true
		case "9":
			t.strikethrough = true
		case "22":
			t.bold, t.dim = false, false
		case "23":
			t.italic = false
		case "24":
			t.underline = false
		case "25":
			t.blink = false
		case "27":
			t.reverse = false
		case "28":
			t.hidden = false
		case "29":
			t.strikethrough = false
		case "39":
			t.fg = ""
		case "49":
			t.bg = ""
		case "59":
			t.ul = ""
		case "38", "48", "58":
			n := extendedLen(parts[i+1:])
			t.extended(p, strings.Join(parts[i:i+1+n], ";"))
			i += n
		default:
			switch {
			case isColor(p, "3"), isColor(p, "9"):
				t.fg = p
			case isColor(p, "4"), isColor(p, "10"):
				t.bg = p
			}
		}
	}
}

func (t *Tracker) extended(code, full string) {
	switch code {
	case "38":
		t.fg = full
	case "48":
		t.bg = full
	case "58":
		t.ul = full
	}
}

// extendedLen returns how many parameters after 38/48/58 belong to it.
func extendedLen(rest []string) int {
	if len(rest) == 0 {
		return 0
	}
	switch rest[0] {
	case "5":
		return min(2, len(rest))
	case "2":
		return min(4, len(rest))
	}
	return 0
}

// isColor matches palette codes such as 31, 47, 93 or 104: prefix followed
// by a single digit 0-7.
func isColor(p, prefix string) bool {
	return len(p) == len(prefix)+1 && strings.HasPrefix(p, prefix) &&
		p[len(prefix)] >= '0' && p[len(prefix)] <= '7'
}

// Restore returns the minimal SGR sequence to re-establish current state.
// Returns empty string if no styling is active.
func (t *Tracker) Restore() string {
	var codes []string

	if t.bold {
		codes = append(codes, "1")
	}
	if t.dim {
		codes = append(codes, "2")
	}
	if t.italic {
		codes = append(codes, "3")
	}
	if t.underline {
		codes = append(codes, "4")
	}
	if t.blink {
		codes = append(codes, "5")
	}
	if t.reverse {
		codes = append(codes, "7")
	}
	if t.hidden {
		codes = append(codes, "8")
	}
	if t.strikethrough {
		codes = append(codes, "9")
	}
	if t.fg != "" {
		codes = append(codes, t.fg)
	}
	if t.bg != "" {
		codes = append(codes, t.bg)
	}
	if t.ul != "" {
		codes = append(codes, t.ul)
	}

	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

// IsActive returns true if any SGR state is set.
func (t *Tracker) IsActive() bool {
	return t.bold || t.dim || t.italic || t.underline || t.blink ||
		t.reverse || t.hidden || t.strikethrough || t.fg != "" || t.bg != "" || t.ul != ""
}
