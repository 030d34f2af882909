// ABOUTME: Streaming pipeline that chains the scanner, wrapper, indenter, truncator, padder
// ABOUTME: Feed accepts arbitrary chunks; Finish flushes the last partial line

// Package reflow reshapes terminal text containing ANSI escape sequences
// without corrupting or losing any of them. The subpackages hold the
// individual stages; this package composes them into a pipeline.
package reflow

import (
	"github.com/mauromedda/termreflow/pkg/reflow/ansi"
	"github.com/mauromedda/termreflow/pkg/reflow/dedent"
	"github.com/mauromedda/termreflow/pkg/reflow/indent"
	"github.com/mauromedda/termreflow/pkg/reflow/padding"
	"github.com/mauromedda/termreflow/pkg/reflow/truncate"
	"github.com/mauromedda/termreflow/pkg/reflow/wordwrap"
)

// breaker turns a token stream into lines.
type breaker interface {
	Push(toks ...ansi.Token) []ansi.Line
	Finish() []ansi.Line
}

// Reflower runs one input stream through the pipeline selected by Options.
// It owns its style state; use one Reflower per stream.
type Reflower struct {
	opts    Options
	scanner ansi.Scanner
	breaker breaker
	indent  indent.Indenter
	trunc   truncate.Stream
	pad     padding.Padder

	held []byte // whole input, when dedenting
}

// New returns a Reflower for opts. Options are not validated; negative
// widths and margins behave as zero.
func New(opts Options) *Reflower {
	opts.Width = max(opts.Width, 0)
	opts.Margin = max(opts.Margin, 0)

	r := &Reflower{
		opts:   opts,
		indent: opts.indenter(),
		trunc: truncate.Stream{
			Truncator: truncate.Truncator{Tail: opts.Tail},
			Width:     opts.Width,
			Compact:   opts.Compact,
		},
		pad: padding.Padder{Char: opts.PadChar, Side: opts.PadSide},
	}
	if opts.Wrap {
		r.breaker = wordwrap.New(wordwrap.Options{
			Width:     opts.WrapWidth(),
			KeepSpace: opts.KeepSpace,
			Compact:   opts.Compact,
		})
	} else {
		r.breaker = &ansi.Splitter{}
	}
	return r
}

// Feed consumes a chunk of input and returns the lines it completed.
// Escape sequences and UTF-8 runes split across chunks are reassembled.
func (r *Reflower) Feed(p []byte) []ansi.Line {
	if r.opts.Dedent {
		r.held = append(r.held, p...)
		return nil
	}
	return r.finishLines(r.breaker.Push(r.scanner.Feed(p)...))
}

// Finish flushes buffered input and returns the remaining lines, including
// a final line without a terminator. The Reflower can then be reused.
func (r *Reflower) Finish() []ansi.Line {
	var lines []ansi.Line
	if r.opts.Dedent {
		lines = r.breaker.Push(ansi.Tokenize(dedent.String(string(r.held)))...)
		r.held = nil
	} else {
		lines = r.breaker.Push(r.scanner.Finish()...)
	}
	lines = append(lines, r.breaker.Finish()...)
	lines = r.finishLines(lines)
	r.trunc.Reset()
	return lines
}

func (r *Reflower) finishLines(lines []ansi.Line) []ansi.Line {
	for i, l := range lines {
		l = r.indent.Indent(l)
		if r.opts.Truncate {
			l = r.trunc.Line(l)
		}
		if r.opts.Pad {
			l = r.pad.Pad(l, r.opts.Width)
		}
		lines[i] = l
	}
	return lines
}
