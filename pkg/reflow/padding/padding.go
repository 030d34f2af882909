// ABOUTME: Pads lines to a target visible width with a one-column fill character
// ABOUTME: Fill goes after trailing escapes, before leading content, or on both sides

package padding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mauromedda/termreflow/pkg/reflow/ansi"
	"github.com/mauromedda/termreflow/pkg/reflow/width"
)

// ErrInvalidChar is returned by Validate for characters that do not occupy
// exactly one column.
var ErrInvalidChar = errors.New("pad character must be exactly one column wide")

// Side selects where padding is inserted.
type Side uint8

const (
	Trailing Side = iota
	Leading
	Center
)

var sideNames = [...]string{
	Trailing: "trailing",
	Leading:  "leading",
	Center:   "center",
}

func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return fmt.Sprintf("Side(%d)", s)
}

// ParseSide maps a side name ("trailing", "leading", "center") to a Side.
// "right" and "left" are accepted as aliases for trailing and leading.
func ParseSide(name string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "trailing", "right":
		return Trailing, nil
	case "leading", "left":
		return Leading, nil
	case "center", "centre":
		return Center, nil
	}
	return Trailing, fmt.Errorf("unknown pad side %q", name)
}

// Validate reports whether r can be used as a fill character.
func Validate(r rune) error {
	if width.Rune(r) != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidChar, r)
	}
	return nil
}

// Padder fills lines up to a target width. The zero value pads with spaces
// on the trailing side.
type Padder struct {
	// Char is the fill character. Characters rejected by Validate fall back
	// to a space.
	Char rune
	Side Side
}

func (p Padder) fill() string {
	if Validate(p.Char) != nil {
		return " "
	}
	return string(p.Char)
}

// Pad returns l padded to target columns. Lines already at or beyond target
// are returned unchanged, which makes Pad idempotent.
func (p Padder) Pad(l ansi.Line, target int) ansi.Line {
	n := target - l.Width
	if n <= 0 {
		return l
	}
	fill := p.fill()

	var left, right int
	switch p.Side {
	case Leading:
		left = n
	case Center:
		left = n / 2
		right = n - left
	default:
		right = n
	}

	out := l
	out.Tokens = make([]ansi.Token, 0, len(l.Tokens)+2)
	if left > 0 {
		out.Tokens = append(out.Tokens, ansi.Visible(strings.Repeat(fill, left)))
	}
	out.Tokens = append(out.Tokens, l.Tokens...)
	if right > 0 {
		out.Tokens = ansi.AppendToken(out.Tokens, ansi.Visible(strings.Repeat(fill, right)))
	}
	out.Width = l.Width + n
	return out
}

// String pads every line of s to target columns.
func (p Padder) String(s string, target int) string {
	var sp ansi.Splitter
	lines := sp.Push(ansi.Tokenize(s)...)
	lines = append(lines, sp.Finish()...)
	for i, l := range lines {
		lines[i] = p.Pad(l, target)
	}
	return ansi.Join(lines)
}
