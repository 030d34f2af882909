// ABOUTME: "Did you mean" suggestions for mistyped names, built on sahilm/fuzzy
// ABOUTME: Falls back to shorter prefixes of the input when the full name matches nothing

package suggest

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// minPrefix is the shortest prefix tried when the full name has no match.
const minPrefix = 2

// Closest returns up to limit candidates resembling name, best first.
func Closest(name string, candidates []string, limit int) []string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || len(candidates) == 0 || limit <= 0 {
		return nil
	}
	lower := make([]string, len(candidates))
	for i, c := range candidates {
		lower[i] = strings.ToLower(c)
	}

	for n := len(name); n >= minPrefix; n-- {
		matches := fuzzy.Find(name[:n], lower)
		if len(matches) == 0 {
			continue
		}
		out := make([]string, 0, min(limit, len(matches)))
		for _, m := range matches[:min(limit, len(matches))] {
			out = append(out, candidates[m.Index])
		}
		return out
	}
	return nil
}

// Hint formats suggestions as a sentence suffix, or "" when there are none.
func Hint(suggestions []string) string {
	switch len(suggestions) {
	case 0:
		return ""
	case 1:
		return "did you mean " + quote(suggestions[0]) + "?"
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = quote(s)
	}
	return "did you mean one of " + strings.Join(quoted, ", ") + "?"
}

func quote(s string) string { return `"` + s + `"` }
