// ABOUTME: --color handling: keep escapes, drop them, or drop them when the output cannot show color
// ABOUTME: "auto" asks termenv for the output's color profile (NO_COLOR, TERM, tty detection)

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/mauromedda/termreflow/internal/log"
	"github.com/mauromedda/termreflow/pkg/reflow/ansi"
)

type colorMode string

const (
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
	colorAuto   colorMode = "auto"
)

func parseColorMode(s string) (colorMode, error) {
	switch m := colorMode(strings.ToLower(s)); m {
	case colorAlways, colorNever, colorAuto:
		return m, nil
	}
	return "", usageErrorf("--color %q: want always, never or auto", s)
}

// stripEscapes reports whether escapes must be removed from output to out.
func (m colorMode) stripEscapes(out io.Writer) bool {
	switch m {
	case colorNever:
		return true
	case colorAuto:
		profile := termenv.NewOutput(out).EnvColorProfile()
		log.Debug("color profile %v", profile)
		return profile == termenv.Ascii
	}
	return false
}

// stripWriter forwards only the visible text of what is written to it.
// Sequences split across writes are reassembled before being dropped.
type stripWriter struct {
	w  io.Writer
	sc ansi.Scanner
}

func (s *stripWriter) Write(p []byte) (int, error) {
	if err := s.forward(s.sc.Feed(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close flushes held-back bytes. It does not close the underlying writer.
func (s *stripWriter) Close() error {
	return s.forward(s.sc.Finish())
}

func (s *stripWriter) forward(toks []ansi.Token) error {
	for _, t := range toks {
		if t.IsEscape() {
			continue
		}
		if _, err := io.WriteString(s.w, t.Data); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return nil
}
