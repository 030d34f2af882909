// ABOUTME: Tests for the word wrapper: breaks, style re-assertion, hard breaks, chunking
// ABOUTME: Property checks cover width bounds and escape preservation across many widths

package wordwrap

import (
	"strings"
	"testing"

	"github.com/mauromedda/termreflow/pkg/reflow/ansi"
	"github.com/mauromedda/termreflow/pkg/reflow/width"
)

func TestString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{
			name:  "style continues on next line",
			input: "\x1b[31mHello World\x1b[0m",
			width: 5,
			want:  "\x1b[31mHello\n\x1b[31mWorld\x1b[0m",
		},
		{name: "fits", input: "hello world", width: 20, want: "hello world"},
		{name: "break between words", input: "hello world foo", width: 11, want: "hello world\nfoo"},
		{name: "inner whitespace preserved", input: "a  b", width: 10, want: "a  b"},
		{name: "trailing whitespace trimmed at break", input: "ab   cd", width: 3, want: "ab\ncd"},
		{name: "hard break", input: "abcdefgh", width: 3, want: "abc\ndef\ngh"},
		{name: "hard break starts fresh line", input: "hi abcdefgh", width: 3, want: "hi\nabc\ndef\ngh"},
		{name: "wide char moves down", input: "abcd你", width: 5, want: "abcd\n你"},
		{name: "wide char moves down with style", input: "\x1b[31mabcd你", width: 5, want: "\x1b[31mabcd\n\x1b[31m你"},
		{name: "wide char alone when wider than target", input: "你好", width: 1, want: "你\n好"},
		{name: "zero width", input: "ab c", width: 0, want: "a\nb\nc"},
		{name: "hard newline kept", input: "\x1b[1mab\ncd", width: 10, want: "\x1b[1mab\ncd"},
		{name: "space before newline kept", input: "ab  \ncd", width: 10, want: "ab  \ncd"},
		{name: "crlf", input: "ab\r\ncd", width: 10, want: "ab\r\ncd"},
		{name: "blank lines", input: "a\n\nb", width: 10, want: "a\n\nb"},
		{name: "trailing newline", input: "a\n", width: 10, want: "a\n"},
		{name: "escape between spaces keeps order", input: "a \x1b[0m b", width: 10, want: "a \x1b[0m b"},
		{name: "no-break space joins words", input: "a\u00A0b c", width: 3, want: "a\u00A0b\nc"},
		{name: "leading whitespace kept", input: "  ab", width: 5, want: "  ab"},
		{name: "leading whitespace kept before break", input: "   ab cd", width: 5, want: "   ab\ncd"},
		{name: "leading whitespace dropped when word cannot share line", input: "   abc", width: 3, want: "abc"},
		{name: "leading whitespace dropped then words wrap", input: "   abc def", width: 5, want: "abc\ndef"},
		{name: "empty", input: "", width: 5, want: ""},
		{name: "only escapes", input: "\x1b[31m\x1b[0m", width: 5, want: "\x1b[31m\x1b[0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := String(tt.input, tt.width); got != tt.want {
				t.Errorf("String(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
		})
	}
}

func TestWrapper_KeepSpace(t *testing.T) {
	t.Parallel()

	w := New(Options{Width: 3, KeepSpace: true})
	lines := append(w.Push(ansi.Tokenize("ab   cd")...), w.Finish()...)
	if got := ansi.Join(lines); got != "ab \ncd" {
		t.Errorf("Join = %q, want %q", got, "ab \ncd")
	}
	if lines[0].Width != 3 {
		t.Errorf("first line width = %d, want 3", lines[0].Width)
	}
}

func TestWrapper_Compact(t *testing.T) {
	t.Parallel()

	w := New(Options{Width: 5, Compact: true})
	lines := append(w.Push(ansi.Tokenize("\x1b[1m\x1b[31mHello World")...), w.Finish()...)
	want := "\x1b[1m\x1b[31mHello\n\x1b[1;31mWorld"
	if got := ansi.Join(lines); got != want {
		t.Errorf("Join = %q, want %q", got, want)
	}
}

func TestWrapper_LineMetadata(t *testing.T) {
	t.Parallel()

	w := New(Options{Width: 5})
	lines := append(w.Push(ansi.Tokenize("\x1b[32mgreen text\nnext")...), w.Finish()...)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(lines), lines)
	}

	wantOpen := []string{"", "\x1b[32m", "\x1b[32m"}
	wantNewline := []bool{true, true, false}
	wantWidth := []int{5, 4, 4}
	for i, l := range lines {
		if l.Open.String() != wantOpen[i] {
			t.Errorf("line %d Open = %q, want %q", i, l.Open.String(), wantOpen[i])
		}
		if l.Newline != wantNewline[i] {
			t.Errorf("line %d Newline = %v, want %v", i, l.Newline, wantNewline[i])
		}
		if l.Width != wantWidth[i] {
			t.Errorf("line %d Width = %d, want %d", i, l.Width, wantWidth[i])
		}
	}
	// Hard newlines do not re-assert the style.
	if got := lines[2].String(); got != "next" {
		t.Errorf("line 2 = %q, want %q", got, "next")
	}
}

func TestWrapper_ChunkedInput(t *testing.T) {
	t.Parallel()

	input := "\x1b[38;5;33mThe quick 棕色 fox\x1b[0m jumps over\nthe \x1b]8;;http://x\x1b\\lazy\x1b]8;;\x1b\\ dog"
	for _, limit := range []int{1, 4, 7, 12, 80} {
		want := String(input, limit)
		for size := 1; size <= 7; size++ {
			var sc ansi.Scanner
			w := New(Options{Width: limit})
			var lines []ansi.Line
			for i := 0; i < len(input); i += size {
				end := min(i+size, len(input))
				lines = append(lines, w.Push(sc.FeedString(input[i:end])...)...)
			}
			lines = append(lines, w.Push(sc.Finish()...)...)
			lines = append(lines, w.Finish()...)
			if got := ansi.Join(lines); got != want {
				t.Fatalf("width %d chunk %d: got %q, want %q", limit, size, got, want)
			}
		}
	}
}

func TestWrapper_Properties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"\x1b[31mHello World\x1b[0m",
		"Lorem ipsum dolor sit amet, \x1b[1mconsectetur\x1b[22m adipiscing elit",
		"你好世界 mixed 幅 width\x1b[4m text\x1b[24m here",
		"supercalifragilisticexpialidocious \x1b[7mword\x1b[27m",
		"tabs\tand  runs   of    spaces",
	}

	for _, input := range inputs {
		for limit := 0; limit <= 20; limit++ {
			w := New(Options{Width: limit})
			lines := append(w.Push(ansi.Tokenize(input)...), w.Finish()...)

			for i, l := range lines {
				if l.Width != width.String(l.Plain()) {
					t.Errorf("%q@%d line %d: Width %d, measured %d", input, limit, i, l.Width, width.String(l.Plain()))
				}
				if l.Width > limit && !singleCluster(l.Plain()) {
					t.Errorf("%q@%d line %d: width %d exceeds target: %q", input, limit, i, l.Width, l.String())
				}
			}

			out := ansi.Join(lines)
			if !subsequence(ansi.Extract(out), ansi.Extract(input)) {
				t.Errorf("%q@%d: escapes lost in %q", input, limit, out)
			}
			if noSpace(ansi.Strip(out)) != noSpace(ansi.Strip(input)) {
				t.Errorf("%q@%d: visible text changed: %q", input, limit, ansi.Strip(out))
			}
		}
	}
}

func singleCluster(s string) bool {
	s = strings.TrimRight(s, " \t")
	_, rest, _ := width.FirstCluster(s)
	return rest == ""
}

// subsequence reports whether want appears in got in order.
func subsequence(got, want []string) bool {
	i := 0
	for _, g := range got {
		if i < len(want) && g == want[i] {
			i++
		}
	}
	return i == len(want)
}

func noSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func BenchmarkString(b *testing.B) {
	s := strings.Repeat("\x1b[31mLorem ipsum\x1b[0m dolor sit amet, 你好 consectetur ", 64)
	for b.Loop() {
		String(s, 40)
	}
}
