// ABOUTME: Reflow flags and their resolution against config defaults, profiles and REFLOW_* env
// ABOUTME: Precedence is flags > env > profile > defaults; only flags set on the command line count

package cli

import (
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mauromedda/termreflow/internal/config"
	"github.com/mauromedda/termreflow/internal/log"
	"github.com/mauromedda/termreflow/pkg/reflow"
)

// fallbackWidth is used when stdout is not a terminal.
const fallbackWidth = 80

type reflowFlags struct {
	width        int
	wrap         bool
	keepSpace    bool
	compact      bool
	truncate     bool
	tail         string
	pad          bool
	padChar      string
	padSide      string
	margin       int
	marginString string
	dedent       bool
	profile      string
	jobs         int
	color        string
}

func (f *reflowFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVarP(&f.width, "width", "w", 0, "Target width in columns (default: terminal width, else 80)")
	fs.BoolVar(&f.wrap, "wrap", false, "Word-wrap lines at the target width")
	fs.BoolVar(&f.keepSpace, "keep-space", false, "Keep trailing whitespace at wrap points")
	fs.BoolVar(&f.compact, "compact", false, "Re-assert styles as one combined SGR sequence")
	fs.BoolVar(&f.truncate, "truncate", false, "Cut lines wider than the target width")
	fs.StringVar(&f.tail, "tail", "", "Marker appended to truncated lines (e.g. \"…\")")
	fs.BoolVar(&f.pad, "pad", false, "Pad lines narrower than the target width")
	fs.StringVar(&f.padChar, "pad-char", " ", "Single-column fill character for --pad")
	fs.StringVar(&f.padSide, "pad-side", "trailing", "Where to pad: trailing, leading or center")
	fs.IntVar(&f.margin, "margin", 0, "Indent every line by this many spaces")
	fs.StringVar(&f.marginString, "margin-string", "", "Indent every line with this string instead of spaces")
	fs.BoolVar(&f.dedent, "dedent", false, "Remove indentation common to all lines first")
	fs.StringVarP(&f.profile, "profile", "p", "", "Config profile to apply (env: "+config.EnvProfile+")")
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "Files reflowed in parallel (default: number of CPUs)")
	fs.StringVar(&f.color, "color", string(colorAlways), "Keep escape sequences: always, never, or auto (when the output supports color)")
}

// overrides returns the flags set on the command line as a profile layer.
func (f *reflowFlags) overrides(cmd *cobra.Command) (config.Profile, error) {
	var p config.Profile
	changed := cmd.Flags().Changed
	if changed("width") {
		p.Width = &f.width
	}
	if changed("wrap") {
		p.Wrap = &f.wrap
	}
	if changed("keep-space") {
		p.KeepSpace = &f.keepSpace
	}
	if changed("compact") {
		p.Compact = &f.compact
	}
	if changed("truncate") {
		p.Truncate = &f.truncate
	}
	if changed("tail") {
		p.Tail = &f.tail
	}
	if changed("pad") {
		p.Pad = &f.pad
	}
	if changed("pad-char") {
		p.PadChar = &f.padChar
	}
	if changed("pad-side") {
		p.PadSide = &f.padSide
	}
	if changed("margin") {
		p.Margin = &f.margin
	}
	if changed("margin-string") {
		p.MarginString = &f.marginString
	}
	if changed("dedent") {
		p.Dedent = &f.dedent
	}
	if changed("jobs") {
		p.Jobs = &f.jobs
	}
	if err := p.Validate(); err != nil {
		return config.Profile{}, &UsageError{Err: err}
	}
	return p, nil
}

type settings struct {
	opts  reflow.Options
	jobs  int
	color colorMode
}

// resolveSettings layers defaults, the selected profile, the environment
// and the command-line flags into pipeline options.
func resolveSettings(cmd *cobra.Command, f *reflowFlags, getenv func(string) string) (settings, error) {
	flagLayer, err := f.overrides(cmd)
	if err != nil {
		return settings{}, err
	}
	color, err := parseColorMode(f.color)
	if err != nil {
		return settings{}, err
	}

	file, err := loadConfig(cmd)
	if err != nil {
		return settings{}, err
	}

	envLayer, name, err := config.FromEnv(getenv)
	if err != nil {
		return settings{}, err
	}
	if cmd.Flags().Changed("profile") {
		name = f.profile
	}

	p, err := file.Resolve(name)
	if err != nil {
		return settings{}, err
	}
	p = p.Merge(envLayer).Merge(flagLayer)

	if err := applyLogLevel(cmd, p.LogLevel); err != nil {
		return settings{}, err
	}

	s := settings{
		opts:  reflow.Options{Width: defaultWidth(cmd.OutOrStdout()), PadChar: ' '},
		jobs:  runtime.GOMAXPROCS(0),
		color: color,
	}
	if err := p.Apply(&s.opts); err != nil {
		return settings{}, &config.Error{Err: err}
	}
	if p.Jobs != nil && *p.Jobs > 0 {
		s.jobs = *p.Jobs
	}
	if err := s.opts.Validate(); err != nil {
		return settings{}, &UsageError{Err: err}
	}

	log.Debug("profile=%q width=%d wrap=%t truncate=%t pad=%t margin=%d dedent=%t jobs=%d",
		name, s.opts.Width, s.opts.Wrap, s.opts.Truncate, s.opts.Pad, s.opts.Margin, s.opts.Dedent, s.jobs)
	return s, nil
}

// loadConfig reads the file named by --config, or the default location.
// Only an explicitly named file must exist.
func loadConfig(cmd *cobra.Command) (*config.File, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Load(config.DefaultPath())
	}
	if _, err := os.Stat(path); err != nil {
		return nil, &config.Error{Path: path, Err: err}
	}
	return config.Load(path)
}

// applyLogLevel sets the global log level from -v, falling back to the
// profile's log_level.
func applyLogLevel(cmd *cobra.Command, profileLevel *string) error {
	verbose, _ := cmd.Flags().GetCount("verbose")
	switch {
	case verbose >= 2:
		log.SetLevel(log.LevelDebug)
	case verbose == 1:
		log.SetLevel(log.LevelInfo)
	case profileLevel != nil:
		l, err := log.ParseLevel(*profileLevel)
		if err != nil {
			return &config.Error{Err: err}
		}
		log.SetLevel(l)
	}
	return nil
}

// defaultWidth returns the width of the terminal behind out, if any.
func defaultWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fallbackWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		log.Debug("terminal size unavailable, using %d columns: %v", fallbackWidth, err)
		return fallbackWidth
	}
	return w
}
