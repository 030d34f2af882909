// ABOUTME: Runs the reflow pipeline over stdin or files, files in parallel via errgroup
// ABOUTME: Each file gets its own pipeline; output is written in argument order

package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/termreflow/internal/log"
	"github.com/mauromedda/termreflow/internal/pool"
	"github.com/mauromedda/termreflow/pkg/reflow"
)

// stdinName selects stdin when given as a file argument.
const stdinName = "-"

func runReflow(ctx context.Context, cmd *cobra.Command, args []string, s settings) (err error) {
	var out io.Writer = cmd.OutOrStdout()
	if s.color.stripEscapes(out) {
		sw := &stripWriter{w: out}
		defer func() {
			if cerr := sw.Close(); err == nil {
				err = cerr
			}
		}()
		out = sw
	}
	return reflowInputs(ctx, out, cmd.InOrStdin(), args, s)
}

func reflowInputs(ctx context.Context, out io.Writer, stdin io.Reader, args []string, s settings) error {
	if len(args) == 0 {
		return reflowStream(ctx, out, stdin, s.opts)
	}
	if stdinCount(args) > 1 {
		return usageErrorf("stdin (%s) can only be read once", stdinName)
	}

	results := make([]*bytes.Buffer, len(args))
	defer func() {
		for _, buf := range results {
			pool.PutBuffer(buf)
		}
	}()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)
	for i, name := range args {
		if name == stdinName {
			continue
		}
		g.Go(func() error {
			buf := pool.GetBuffer()
			results[i] = buf
			return reflowFile(gCtx, buf, name, s.opts)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, name := range args {
		if name == stdinName {
			if err := reflowStream(ctx, out, stdin, s.opts); err != nil {
				return err
			}
			continue
		}
		if _, err := results[i].WriteTo(out); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return nil
}

func stdinCount(names []string) int {
	n := 0
	for _, name := range names {
		if name == stdinName {
			n++
		}
	}
	return n
}

func reflowFile(ctx context.Context, dst io.Writer, name string, opts reflow.Options) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	log.Debug("reflowing %s", name)
	if err := reflowStream(ctx, dst, f, opts); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// reflowStream copies src through a fresh pipeline into dst, stopping
// between chunks when ctx is cancelled.
func reflowStream(ctx context.Context, dst io.Writer, src io.Reader, opts reflow.Options) error {
	w := reflow.NewWriter(dst, opts)
	if _, err := io.Copy(w, contextReader{ctx: ctx, r: src}); err != nil {
		return err
	}
	return w.Close()
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// eachInput calls fn for every named file in order, or once for stdin when
// names is empty.
func eachInput(cmd *cobra.Command, names []string, fn func(name string, r io.Reader) error) error {
	if len(names) == 0 {
		names = []string{stdinName}
	}
	for _, name := range names {
		if name == stdinName {
			if err := fn(stdinName, contextReader{ctx: cmd.Context(), r: cmd.InOrStdin()}); err != nil {
				return err
			}
			continue
		}
		if err := eachFile(cmd.Context(), name, fn); err != nil {
			return err
		}
	}
	return nil
}

func eachFile(ctx context.Context, name string, fn func(name string, r io.Reader) error) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return fn(name, contextReader{ctx: ctx, r: f})
}
