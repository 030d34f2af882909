// ABOUTME: Token model shared by every reflow stage: visible runs and escape sequences
// ABOUTME: Concatenating token data in order always reproduces the scanned input

package ansi

import (
	"strings"

	"github.com/mauromedda/termreflow/pkg/reflow/width"
)

// Kind tags a Token as visible text or an escape sequence.
type Kind uint8

const (
	KindVisible Kind = iota
	KindEscape
)

func (k Kind) String() string {
	if k == KindEscape {
		return "escape"
	}
	return "visible"
}

// Token is either a run of visible text or one raw escape sequence.
type Token struct {
	Kind Kind
	Data string
}

// Visible returns a visible text token.
func Visible(s string) Token { return Token{Kind: KindVisible, Data: s} }

// Escape returns an escape sequence token.
func Escape(s string) Token { return Token{Kind: KindEscape, Data: s} }

// IsEscape reports whether t is an escape sequence.
func (t Token) IsEscape() bool { return t.Kind == KindEscape }

// Width returns the number of columns t occupies on screen.
func (t Token) Width() int {
	if t.Kind == KindEscape {
		return 0
	}
	return width.String(t.Data)
}

// Concat joins the raw bytes of toks.
func Concat(toks []Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Data)
	}
	return b.String()
}

// Width sums the visible width of toks.
func Width(toks []Token) int {
	w := 0
	for _, t := range toks {
		w += t.Width()
	}
	return w
}

// AppendToken appends t to toks, merging t into a trailing visible token.
// Empty tokens are dropped.
func AppendToken(toks []Token, t Token) []Token {
	if t.Data == "" {
		return toks
	}
	if t.Kind == KindVisible && len(toks) > 0 && toks[len(toks)-1].Kind == KindVisible {
		toks[len(toks)-1].Data += t.Data
		return toks
	}
	return append(toks, t)
}
