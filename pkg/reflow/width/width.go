// ABOUTME: Display width oracle for runes, grapheme clusters, and plain strings
// ABOUTME: Zero/Narrow/Wide classes; fast path for ASCII, LRU cache for the rest

package width

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	eaw "golang.org/x/text/width"
)

// Class is the number of terminal columns a character occupies.
type Class uint8

const (
	Zero   Class = 0
	Narrow Class = 1
	Wide   Class = 2
)

func (c Class) String() string {
	switch c {
	case Zero:
		return "zero"
	case Narrow:
		return "narrow"
	case Wide:
		return "wide"
	default:
		return "unknown"
	}
}

const (
	zwnj       = '\u200C'
	zwj        = '\u200D'
	softHyphen = '\u00AD'
	emojiPres  = '\uFE0F'
)

// condition pins go-runewidth to the non-East-Asian locale so results do not
// depend on LANG/LC_ALL of the process.
var condition = &runewidth.Condition{
	EastAsianWidth:     false,
	StrictEmojiNeutral: true,
}

// RuneClass classifies a single rune. Code points without an explicit class
// fall back to Narrow.
func RuneClass(r rune) Class {
	switch {
	case r < 0x20, r >= 0x7F && r < 0xA0:
		return Zero
	case r < 0x7F:
		return Narrow
	case r == softHyphen:
		return Narrow
	case r == zwj, r == zwnj:
		return Zero
	case unicode.In(r, unicode.Mn, unicode.Me, unicode.Mc, unicode.Cf):
		return Zero
	}

	switch eaw.LookupRune(r).Kind() {
	case eaw.EastAsianWide, eaw.EastAsianFullwidth:
		return Wide
	}
	if condition.RuneWidth(r) == 2 {
		return Wide
	}
	return Narrow
}

// Rune returns the column width of r: 0, 1, or 2.
func Rune(r rune) int {
	return int(RuneClass(r))
}

// Cluster returns the display width of a single grapheme cluster. The widest
// rune decides; an emoji presentation selector forces two columns. Bytes that
// are not valid UTF-8 are treated as opaque and occupy no columns.
func Cluster(cluster string) int {
	if len(cluster) == 1 && cluster[0] < utf8.RuneSelf {
		return int(RuneClass(rune(cluster[0])))
	}
	w := Zero
	for i := 0; i < len(cluster); {
		r, size := utf8.DecodeRuneInString(cluster[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		if r == emojiPres && i > 0 {
			return int(Wide)
		}
		i += size
		if c := RuneClass(r); c > w {
			w = c
		}
	}
	return int(w)
}

// FirstCluster splits the first grapheme cluster off s and returns it with
// its width and the remainder of s.
func FirstCluster(s string) (cluster, rest string, w int) {
	if s == "" {
		return "", "", 0
	}
	if b := s[0]; b < utf8.RuneSelf && b != '\r' && (len(s) == 1 || s[1] < utf8.RuneSelf) {
		return s[:1], s[1:], int(RuneClass(rune(b)))
	}
	cluster, rest, _, _ = uniseg.FirstGraphemeClusterInString(s, -1)
	if cluster == "" {
		// uniseg never returns an empty cluster for non-empty input, but
		// guard against an infinite loop in callers anyway.
		cluster, rest = s[:1], s[1:]
	}
	return cluster, rest, Cluster(cluster)
}

// String returns the display width of s. s is expected to contain no escape
// sequences; see ansi.VisibleWidth for styled text.
func String(s string) int {
	if s == "" {
		return 0
	}
	if isPlainASCII(s) {
		return len(s)
	}
	if w, ok := widthCache.get(s); ok {
		return w
	}
	w := computeWidth(s)
	widthCache.put(s, w)
	return w
}

// isPlainASCII returns true if s contains only printable ASCII (0x20-0x7E).
func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b < 0x20 || b > 0x7E {
			return false
		}
	}
	return true
}

func computeWidth(s string) int {
	w := 0
	for s != "" {
		var cw int
		_, s, cw = FirstCluster(s)
		w += cw
	}
	return w
}

// Clusters calls fn for each grapheme cluster of s with its width, stopping
// early when fn returns false.
func Clusters(s string, fn func(cluster string, w int) bool) {
	for s != "" {
		var cluster string
		var w int
		cluster, s, w = FirstCluster(s)
		if !fn(cluster, w) {
			return
		}
	}
}
