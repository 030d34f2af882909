// ABOUTME: Environment handling: ${VAR} expansion in string fields and REFLOW_* overrides
// ABOUTME: Unset ${VAR} references expand to empty strings

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Environment variables read by FromEnv.
const (
	EnvWidth   = "REFLOW_WIDTH"
	EnvProfile = "REFLOW_PROFILE"
)

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// expandEnv replaces ${VAR} with os.Getenv(VAR). Unset vars become "".
func expandEnv(s string) string {
	if s == "" {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func expandProfile(p *Profile) {
	for _, f := range []*string{p.Tail, p.PadChar, p.PadSide, p.MarginString, p.LogLevel} {
		if f != nil {
			*f = expandEnv(*f)
		}
	}
}

// FromEnv returns the overrides found in the environment and the profile
// name selected by REFLOW_PROFILE.
func FromEnv(getenv func(string) string) (Profile, string, error) {
	var p Profile
	if v := strings.TrimSpace(getenv(EnvWidth)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Profile{}, "", &Error{Err: fmt.Errorf("%s=%q: not an integer", EnvWidth, v)}
		}
		p.Width = &n
		if err := p.Validate(); err != nil {
			return Profile{}, "", &Error{Err: fmt.Errorf("%s: %w", EnvWidth, err)}
		}
	}
	return p, strings.TrimSpace(getenv(EnvProfile)), nil
}
