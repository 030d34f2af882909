// ABOUTME: Incremental tokenizer splitting byte streams into visible and escape tokens
// ABOUTME: Buffers sequences and UTF-8 runes split across chunks until complete or Finish

package ansi

import "unicode/utf8"

// Scanner tokenizes a stream fed in arbitrary chunks. The zero value is
// ready to use. A Scanner is not safe for concurrent use.
type Scanner struct {
	held []byte

	// scanned counts the bytes handed to the boundary search.
	scanned int
}

// Feed scans p and returns every token completed so far. Bytes that may
// belong to an unfinished escape sequence or rune are held back.
func (s *Scanner) Feed(p []byte) []Token {
	return s.feed(string(p))
}

// FeedString is Feed for string input.
func (s *Scanner) FeedString(p string) []Token {
	return s.feed(p)
}

// Finish flushes held-back bytes. An unterminated sequence is returned as a
// single trailing escape token. The Scanner may be reused afterwards.
func (s *Scanner) Finish() []Token {
	if len(s.held) == 0 {
		return nil
	}
	return s.scan(string(s.held), true)
}

// Pending returns the number of bytes held back.
func (s *Scanner) Pending() int {
	return len(s.held)
}

// Tokenize scans a complete input.
func Tokenize(s string) []Token {
	var sc Scanner
	return sc.scan(s, true)
}

func (s *Scanner) feed(p string) []Token {
	switch {
	case len(s.held) == 0:
		return s.scan(p, false)
	case len(s.held) < 2 || s.held[0] != esc:
		// A lone ESC or a partial rune: at most a few bytes.
		return s.scan(string(s.held)+p, false)
	}
	return s.resume(p)
}

// resume continues the search for the end of the held sequence into p. The
// held body is never searched again: only its introducer, plus a trailing
// ESC that may begin ST, is placed in front of p.
func (s *Scanner) resume(p string) []Token {
	head := string(s.held[:2])
	if n := len(s.held); n > 2 && s.held[n-1] == esc {
		head += "\x1b"
	}
	in := head + p
	s.scanned += len(in)

	end, complete := sequenceEnd(in, 0)
	if !complete {
		s.held = append(s.held, p...)
		return nil
	}

	var seq, rest string
	if k := end - len(head); k >= 0 {
		seq, rest = string(s.held)+p[:k], p[k:]
	} else {
		// The sequence ended before a stray ESC at the end of held.
		n := len(s.held) + k
		seq, rest = string(s.held[:n]), string(s.held[n:])+p
	}
	return append([]Token{Escape(seq)}, s.scan(rest, false)...)
}

func (s *Scanner) scan(in string, final bool) []Token {
	s.held = s.held[:0]
	if in == "" {
		return nil
	}
	s.scanned += len(in)

	var toks []Token
	start := 0
	for i := 0; i < len(in); {
		if in[i] != esc {
			i++
			continue
		}
		end, complete := sequenceEnd(in, i)
		if start < i {
			toks = append(toks, Visible(in[start:i]))
		}
		if !complete && !final {
			s.held = append(s.held, in[i:]...)
			return toks
		}
		toks = append(toks, Escape(in[i:end]))
		i = end
		start = end
	}

	if start < len(in) {
		vis := in[start:]
		if !final {
			if n := partialRuneLen(vis); n > 0 {
				s.held = append(s.held, vis[len(vis)-n:]...)
				vis = vis[:len(vis)-n]
			}
		}
		if vis != "" {
			toks = append(toks, Visible(vis))
		}
	}
	return toks
}

// partialRuneLen returns how many trailing bytes of s form the beginning of
// a multi-byte rune that is not yet complete.
func partialRuneLen(s string) int {
	for n := 1; n < utf8.UTFMax && n <= len(s); n++ {
		i := len(s) - n
		if !utf8.RuneStart(s[i]) {
			continue
		}
		if s[i] < utf8.RuneSelf || utf8.FullRuneInString(s[i:]) {
			return 0
		}
		return n
	}
	return 0
}
