// ABOUTME: "reflow tokens" dumps the scanner's token stream as JSON lines
// ABOUTME: Records are encoded with easyjson's jwriter, one object per token

package cli

import (
	"io"
	"unicode/utf8"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"
	"github.com/spf13/cobra"

	"github.com/mauromedda/termreflow/pkg/reflow/ansi"
)

// chunkSize is the read size used when scanning input.
const chunkSize = 32 * 1024

// tokenRecord is one scanned token. Offset is the byte offset of Data in
// its source. Data that is not valid UTF-8 is written base64-encoded under
// "data_base64" so that every byte survives.
type tokenRecord struct {
	Source string
	Offset int
	Kind   ansi.Kind
	Data   string
	Width  int
}

var _ easyjson.Marshaler = tokenRecord{}

// MarshalEasyJSON writes the record as a JSON object.
func (r tokenRecord) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"source":`)
	w.String(r.Source)
	w.RawString(`,"offset":`)
	w.Int(r.Offset)
	w.RawString(`,"kind":`)
	w.String(r.Kind.String())
	if utf8.ValidString(r.Data) {
		w.RawString(`,"data":`)
		w.String(r.Data)
	} else {
		w.RawString(`,"data_base64":`)
		w.Base64Bytes([]byte(r.Data))
	}
	w.RawString(`,"width":`)
	w.Int(r.Width)
	w.RawByte('}')
}

func newTokensCmd() *cobra.Command {
	var escapesOnly bool

	cmd := &cobra.Command{
		Use:   "tokens [file...]",
		Short: "Print the escape sequences and visible runs of the input as JSON lines",
		Long: `Print the escape sequences and visible runs of the input as JSON lines.

Each record carries the token's source, byte offset, kind, data and display
width. Tokens holding bytes that are not valid UTF-8 carry "data_base64"
(standard base64) instead of "data", so the input can be rebuilt exactly.`,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return eachInput(cmd, args, func(name string, r io.Reader) error {
				return dumpTokens(out, name, r, escapesOnly)
			})
		},
	}
	cmd.Flags().BoolVarP(&escapesOnly, "escapes", "e", false, "Only print escape sequences")
	return cmd
}

// dumpTokens scans r in chunks and writes one JSON line per token.
func dumpTokens(out io.Writer, source string, r io.Reader, escapesOnly bool) error {
	var (
		sc     ansi.Scanner
		jw     jwriter.Writer
		offset int
	)
	emit := func(toks []ansi.Token) error {
		for _, t := range toks {
			rec := tokenRecord{Source: source, Offset: offset, Kind: t.Kind, Data: t.Data, Width: t.Width()}
			offset += len(t.Data)
			if escapesOnly && !t.IsEscape() {
				continue
			}
			rec.MarshalEasyJSON(&jw)
			jw.RawByte('\n')
		}
		if jw.Error != nil {
			return jw.Error
		}
		_, err := jw.DumpTo(out)
		return err
	}

	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if emitErr := emit(sc.Feed(buf[:n])); emitErr != nil {
				return emitErr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	return emit(sc.Finish())
}
