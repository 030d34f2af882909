// ABOUTME: YAML configuration with a defaults block and named profiles of reflow options
// ABOUTME: Unset fields are nil pointers so layers merge field by field

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/mauromedda/termreflow/internal/log"
	"github.com/mauromedda/termreflow/internal/suggest"
	"github.com/mauromedda/termreflow/pkg/reflow"
	"github.com/mauromedda/termreflow/pkg/reflow/padding"
)

// Profile is a partial set of options. Nil fields are unset and leave the
// layer below untouched when merged.
type Profile struct {
	Width        *int    `yaml:"width,omitempty"`
	Wrap         *bool   `yaml:"wrap,omitempty"`
	KeepSpace    *bool   `yaml:"keep_space,omitempty"`
	Compact      *bool   `yaml:"compact,omitempty"`
	Truncate     *bool   `yaml:"truncate,omitempty"`
	Tail         *string `yaml:"tail,omitempty"`
	Pad          *bool   `yaml:"pad,omitempty"`
	PadChar      *string `yaml:"pad_char,omitempty"`
	PadSide      *string `yaml:"pad_side,omitempty"`
	Margin       *int    `yaml:"margin,omitempty"`
	MarginString *string `yaml:"margin_string,omitempty"`
	Dedent       *bool   `yaml:"dedent,omitempty"`
	Jobs         *int    `yaml:"jobs,omitempty"`
	LogLevel     *string `yaml:"log_level,omitempty"`
}

// File is the on-disk configuration.
type File struct {
	Defaults Profile            `yaml:"defaults"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// Error reports a configuration problem, optionally tied to a file.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "config: " + e.Err.Error()
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ProfileError is returned for an unknown profile name.
type ProfileError struct {
	Name        string
	Suggestions []string
}

func (e *ProfileError) Error() string {
	msg := fmt.Sprintf("unknown profile %q", e.Name)
	if hint := suggest.Hint(e.Suggestions); hint != "" {
		msg += ": " + hint
	}
	return msg
}

// Load reads the configuration at path. A missing file yields an empty
// configuration. Unknown keys are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("config %s not found, using built-in defaults", path)
		return &File{}, nil
	}
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	f, err := Parse(data)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	log.Debug("loaded config %s (%d profiles)", path, len(f.Profiles))
	return f, nil
}

// Parse decodes and validates a configuration document. ${VAR} references
// in string fields are expanded from the environment.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}

	expandProfile(&f.Defaults)
	if err := f.Defaults.Validate(); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}
	for name, p := range f.Profiles {
		expandProfile(&p)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		f.Profiles[name] = p
	}
	return &f, nil
}

// ProfileNames returns the configured profile names, sorted.
func (f *File) ProfileNames() []string {
	names := make([]string, 0, len(f.Profiles))
	for name := range f.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the defaults with the named profile merged on top. An
// empty name returns the defaults alone.
func (f *File) Resolve(name string) (Profile, error) {
	if name == "" {
		return f.Defaults, nil
	}
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, &ProfileError{
			Name:        name,
			Suggestions: suggest.Closest(name, f.ProfileNames(), 3),
		}
	}
	return f.Defaults.Merge(p), nil
}

// Merge returns p with every field set in over replacing p's value.
func (p Profile) Merge(over Profile) Profile {
	out := p
	mergeField(&out.Width, over.Width)
	mergeField(&out.Wrap, over.Wrap)
	mergeField(&out.KeepSpace, over.KeepSpace)
	mergeField(&out.Compact, over.Compact)
	mergeField(&out.Truncate, over.Truncate)
	mergeField(&out.Tail, over.Tail)
	mergeField(&out.Pad, over.Pad)
	mergeField(&out.PadChar, over.PadChar)
	mergeField(&out.PadSide, over.PadSide)
	mergeField(&out.Margin, over.Margin)
	mergeField(&out.MarginString, over.MarginString)
	mergeField(&out.Dedent, over.Dedent)
	mergeField(&out.Jobs, over.Jobs)
	mergeField(&out.LogLevel, over.LogLevel)
	return out
}

func mergeField[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

// Validate checks field ranges and formats.
func (p Profile) Validate() error {
	var errs []error
	if p.Width != nil && *p.Width < 0 {
		errs = append(errs, fmt.Errorf("width %d: %w", *p.Width, reflow.ErrNegativeWidth))
	}
	if p.Margin != nil && *p.Margin < 0 {
		errs = append(errs, fmt.Errorf("margin %d: %w", *p.Margin, reflow.ErrNegativeMargin))
	}
	if p.Jobs != nil && *p.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs %d: must not be negative", *p.Jobs))
	}
	if p.PadChar != nil {
		if _, err := ParsePadChar(*p.PadChar); err != nil {
			errs = append(errs, err)
		}
	}
	if p.PadSide != nil {
		if _, err := padding.ParseSide(*p.PadSide); err != nil {
			errs = append(errs, err)
		}
	}
	if p.LogLevel != nil {
		if _, err := log.ParseLevel(*p.LogLevel); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Apply copies every set field onto opts.
func (p Profile) Apply(opts *reflow.Options) error {
	if p.Width != nil {
		opts.Width = *p.Width
	}
	if p.Wrap != nil {
		opts.Wrap = *p.Wrap
	}
	if p.KeepSpace != nil {
		opts.KeepSpace = *p.KeepSpace
	}
	if p.Compact != nil {
		opts.Compact = *p.Compact
	}
	if p.Truncate != nil {
		opts.Truncate = *p.Truncate
	}
	if p.Tail != nil {
		opts.Tail = *p.Tail
	}
	if p.Pad != nil {
		opts.Pad = *p.Pad
	}
	if p.PadChar != nil {
		r, err := ParsePadChar(*p.PadChar)
		if err != nil {
			return err
		}
		opts.PadChar = r
	}
	if p.PadSide != nil {
		side, err := padding.ParseSide(*p.PadSide)
		if err != nil {
			return err
		}
		opts.PadSide = side
	}
	if p.Margin != nil {
		opts.Margin = *p.Margin
	}
	if p.MarginString != nil {
		opts.MarginString = *p.MarginString
	}
	if p.Dedent != nil {
		opts.Dedent = *p.Dedent
	}
	return nil
}

// ParsePadChar parses a pad character given as a one-rune string.
func ParsePadChar(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if s == "" || size != len(s) {
		return 0, fmt.Errorf("pad char %q: %w", s, reflow.ErrPadChar)
	}
	if err := padding.Validate(r); err != nil {
		return 0, fmt.Errorf("%w: %w", reflow.ErrPadChar, err)
	}
	return r, nil
}
