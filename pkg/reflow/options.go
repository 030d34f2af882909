// ABOUTME: Options for the reflow pipeline and their validation
// ABOUTME: Validation errors wrap sentinels so callers can match them with errors.Is

package reflow

import (
	"errors"
	"fmt"

	"github.com/mauromedda/termreflow/pkg/reflow/indent"
	"github.com/mauromedda/termreflow/pkg/reflow/padding"
)

var (
	ErrNegativeWidth  = errors.New("width must not be negative")
	ErrNegativeMargin = errors.New("margin must not be negative")
	ErrPadChar        = errors.New("invalid pad character")
)

// Options selects the stages of a pipeline. Stages run in a fixed order:
// wrap (or plain line splitting), indent, truncate, pad.
type Options struct {
	// Width is the target line width in columns.
	Width int

	// Wrap word-wraps lines at Width minus the margin width.
	Wrap bool
	// KeepSpace keeps trailing whitespace at wrap breaks.
	KeepSpace bool
	// Compact folds re-asserted styles into one SGR sequence.
	Compact bool

	// Truncate cuts lines wider than Width, appending Tail.
	Truncate bool
	Tail     string

	// Pad fills lines narrower than Width with PadChar on PadSide.
	Pad     bool
	PadChar rune
	PadSide padding.Side

	// Margin indents every line by this many spaces; MarginString, when
	// set, is used as the margin instead.
	Margin       int
	MarginString string

	// Dedent removes indentation common to all input lines before any
	// other stage. It needs the whole input, so output is held until
	// Finish.
	Dedent bool
}

// Validate reports every invalid field, joined.
func (o Options) Validate() error {
	var errs []error
	if o.Width < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrNegativeWidth, o.Width))
	}
	if o.Margin < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrNegativeMargin, o.Margin))
	}
	if o.Pad && o.PadChar != 0 {
		if err := padding.Validate(o.PadChar); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrPadChar, err))
		}
	}
	return errors.Join(errs...)
}

func (o Options) indenter() indent.Indenter {
	return indent.Indenter{Width: o.Margin, Char: ' ', Margin: o.MarginString}
}

// WrapWidth returns the width lines are wrapped at: Width less the margin.
func (o Options) WrapWidth() int {
	return max(o.Width-o.indenter().MarginWidth(), 0)
}
