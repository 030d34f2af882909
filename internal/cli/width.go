// ABOUTME: "reflow width" prints the visible column width of every input line
// ABOUTME: Escape sequences count as zero columns; wide and combining characters are measured

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mauromedda/termreflow/pkg/reflow/ansi"
)

func newWidthCmd() *cobra.Command {
	var (
		showText bool
		maxOnly  bool
	)

	cmd := &cobra.Command{
		Use:   "width [file...]",
		Short: "Print the visible width of each input line",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			widest := 0
			err := eachInput(cmd, args, func(_ string, r io.Reader) error {
				return measureLines(r, func(l ansi.Line) error {
					widest = max(widest, l.Width)
					if maxOnly {
						return nil
					}
					return printWidth(out, l, showText)
				})
			})
			if err != nil {
				return err
			}
			if maxOnly {
				_, err = fmt.Fprintln(out, widest)
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&showText, "text", "t", false, "Print the line's text, escapes removed, after its width")
	cmd.Flags().BoolVar(&maxOnly, "max", false, "Only print the widest line's width")
	return cmd
}

// measureLines splits r into lines and calls fn for each, including a
// final line without a terminator.
func measureLines(r io.Reader, fn func(ansi.Line) error) error {
	var (
		sc ansi.Scanner
		sp ansi.Splitter
	)
	each := func(lines []ansi.Line) error {
		for _, l := range lines {
			if err := fn(l); err != nil {
				return err
			}
		}
		return nil
	}

	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if fnErr := each(sp.Push(sc.Feed(buf[:n])...)); fnErr != nil {
				return fnErr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if err := each(sp.Push(sc.Finish()...)); err != nil {
		return err
	}
	return each(sp.Finish())
}

func printWidth(out io.Writer, l ansi.Line, showText bool) error {
	if !showText {
		_, err := fmt.Fprintln(out, l.Width)
		return err
	}
	_, err := fmt.Fprintf(out, "%d\t%s\n", l.Width, strings.TrimSuffix(l.Plain(), "\r"))
	return err
}
