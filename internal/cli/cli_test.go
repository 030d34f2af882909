// ABOUTME: Tests for the reflow command tree: option precedence, file ordering, subcommands, exit codes
// ABOUTME: Commands run in-process with buffers for stdin, stdout and stderr

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mauromedda/termreflow/internal/config"
	"github.com/mauromedda/termreflow/pkg/reflow"
)

const testConfig = `
defaults:
  width: 10
  pad: true
  pad_char: "."
profiles:
  narrow:
    width: 4
  boxed:
    margin_string: "| "
`

// isolateEnv points the default config location at an empty directory and
// clears REFLOW_* overrides.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvWidth, "")
	t.Setenv(config.EnvProfile, "")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	root := newRootCmd("1.2.3", "abc123", "today")
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	code = execute(context.Background(), root, &errOut)
	return out.String(), errOut.String(), code
}

func TestReflow_Stdin(t *testing.T) {
	isolateEnv(t)

	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{
			name:  "wrap",
			input: "\x1b[31mHello World\x1b[0m",
			args:  []string{"--width", "5", "--wrap"},
			want:  "\x1b[31mHello\n\x1b[31mWorld\x1b[0m",
		},
		{
			name:  "truncate with tail",
			input: "\x1b[32mLongWord\x1b[0m\n",
			args:  []string{"-w", "4", "--truncate", "--tail", "…"},
			want:  "\x1b[32mLon\x1b[0m…\n",
		},
		{
			name:  "margin and centered pad",
			input: "ab",
			args:  []string{"-w", "8", "--margin", "2", "--pad", "--pad-char", "-", "--pad-side", "center"},
			want:  "--  ab--",
		},
		{
			name:  "dedent",
			input: "    a\n      b\n",
			args:  []string{"--dedent"},
			want:  "a\n  b\n",
		},
		{
			name:  "default width without a terminal",
			input: strings.Repeat("x", 100),
			args:  []string{"--truncate"},
			want:  strings.Repeat("x", 80),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCLI(t, tt.input, tt.args...)
			if code != 0 {
				t.Fatalf("exit %d, stderr %q", code, stderr)
			}
			if stdout != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestReflow_FilesInArgumentOrder(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	var args []string
	var want strings.Builder
	for i := range 12 {
		line := strings.Repeat(fmt.Sprint(i%10), 3+i)
		args = append(args, writeFile(t, dir, fmt.Sprintf("f%02d.txt", i), line+"\n"))
		want.WriteString(line[:min(4, len(line))] + "\n")
	}
	args = append(args, "-w", "4", "--truncate", "-j", "3")

	stdout, stderr, code := runCLI(t, "", args...)
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	if stdout != want.String() {
		t.Errorf("stdout = %q, want %q", stdout, want.String())
	}
}

func TestReflow_StdinAmongFiles(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "first\n")
	b := writeFile(t, dir, "b.txt", "third\n")

	stdout, stderr, code := runCLI(t, "second\n", a, "-", b, "-w", "3", "--truncate")
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	if stdout != "fir\nsec\nthi\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestReflow_ColorModes(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CLICOLOR_FORCE", "")
	input := "\x1b[31mHello World\x1b[0m"

	tests := []struct {
		mode string
		want string
	}{
		{mode: "always", want: "\x1b[31mHello\n\x1b[31mWorld\x1b[0m"},
		{mode: "never", want: "Hello\nWorld"},
		// A buffer is not a terminal, so auto strips.
		{mode: "auto", want: "Hello\nWorld"},
	}
	for _, tt := range tests {
		stdout, stderr, code := runCLI(t, input, "-w", "5", "--wrap", "--color", tt.mode)
		if code != 0 {
			t.Fatalf("--color %s: exit %d, stderr %q", tt.mode, code, stderr)
		}
		if stdout != tt.want {
			t.Errorf("--color %s: stdout = %q, want %q", tt.mode, stdout, tt.want)
		}
	}
}

func TestStripWriter_SplitSequence(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	sw := &stripWriter{w: &out}
	for _, chunk := range []string{"a\x1b[3", "1mb\x1b]8;;htt", "p://x\x07c"} {
		if _, err := sw.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := sw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if out.String() != "abc" {
		t.Errorf("stripped = %q, want %q", out.String(), "abc")
	}
}

func TestReflow_Precedence(t *testing.T) {
	isolateEnv(t)
	cfg := writeFile(t, t.TempDir(), "config.yaml", testConfig)

	tests := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{name: "defaults", want: "ab........"},
		{name: "profile", args: []string{"--profile", "narrow"}, want: "ab.."},
		{name: "env profile", env: map[string]string{config.EnvProfile: "narrow"}, want: "ab.."},
		{name: "flag profile beats env profile", env: map[string]string{config.EnvProfile: "narrow"}, args: []string{"-p", "boxed"}, want: "| ab......"},
		{name: "env width beats profile", env: map[string]string{config.EnvWidth: "6"}, args: []string{"-p", "narrow"}, want: "ab...."},
		{name: "flag beats env", env: map[string]string{config.EnvWidth: "6"}, args: []string{"-w", "3"}, want: "ab."},
		{name: "flag turns off profile setting", args: []string{"--pad=false"}, want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			args := append([]string{"--config", cfg}, tt.args...)
			stdout, stderr, code := runCLI(t, "ab", args...)
			if code != 0 {
				t.Fatalf("exit %d, stderr %q", code, stderr)
			}
			if stdout != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestExitCodes(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", testConfig)
	bad := writeFile(t, dir, "bad.yaml", "defaults:\n  width: -1\n")

	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{name: "unknown flag", args: []string{"--bogus"}, code: 2, stderr: "bogus"},
		{name: "negative width", args: []string{"--width=-1"}, code: 2, stderr: "width"},
		{name: "wide pad char", args: []string{"--pad", "--pad-char", "你"}, code: 2, stderr: "pad char"},
		{name: "bad pad side", args: []string{"--pad-side", "middle"}, code: 2, stderr: "middle"},
		{name: "unknown profile", args: []string{"--config", good, "-p", "narow"}, code: 3, stderr: `did you mean "narrow"`},
		{name: "invalid config", args: []string{"--config", bad}, code: 3, stderr: bad},
		{name: "missing config", args: []string{"--config", filepath.Join(dir, "none.yaml")}, code: 3, stderr: "none.yaml"},
		{name: "missing input", args: []string{filepath.Join(dir, "missing.txt")}, code: 1, stderr: "missing.txt"},
		{name: "bad color mode", args: []string{"--color", "sometimes"}, code: 2, stderr: "sometimes"},
		{name: "stdin twice", args: []string{"-", "-"}, code: 2, stderr: "once"},
		{name: "version takes no args", args: []string{"version", "x"}, code: 1, stderr: "reflow:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := runCLI(t, "", tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr %q)", code, tt.code, stderr)
			}
			if !strings.HasPrefix(stderr, "reflow: ") || !strings.Contains(stderr, tt.stderr) {
				t.Errorf("stderr = %q, want it to mention %q", stderr, tt.stderr)
			}
		})
	}
}

func TestExitCode_Wrapped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{err: errors.New("boom"), want: 1},
		{err: fmt.Errorf("run: %w", usageErrorf("bad %s", "flag")), want: 2},
		{err: fmt.Errorf("load: %w", &config.Error{Err: errors.New("x")}), want: 3},
		{err: &config.ProfileError{Name: "x"}, want: 3},
		{err: &UsageError{Err: reflow.ErrNegativeWidth}, want: 2},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestTokensCmd(t *testing.T) {
	isolateEnv(t)

	stdout, stderr, code := runCLI(t, "a\x1b[31mb", "tokens")
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	want := `{"source":"-","offset":0,"kind":"visible","data":"a","width":1}` + "\n" +
		`{"source":"-","offset":1,"kind":"escape","data":"\u001b[31m","width":0}` + "\n" +
		`{"source":"-","offset":6,"kind":"visible","data":"b","width":1}` + "\n"
	if stdout != want {
		t.Errorf("stdout =\n%s\nwant\n%s", stdout, want)
	}

	stdout, _, _ = runCLI(t, "a\x1b[31mb\x1b]8;;http://x\x07", "tokens", "--escapes")
	if got := strings.Count(stdout, "\n"); got != 2 || strings.Contains(stdout, `"visible"`) {
		t.Errorf("--escapes output = %q, want two escape records", stdout)
	}
}

func TestTokensCmd_InvalidUTF8(t *testing.T) {
	isolateEnv(t)

	stdout, stderr, code := runCLI(t, "a\xffb\x1b[1m", "tokens")
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d records, want 2: %q", len(lines), stdout)
	}
	if !strings.Contains(lines[0], `"data_base64":"Yf9i"`) || strings.Contains(lines[0], `"data":`) {
		t.Errorf("record 0 = %s, want base64 data", lines[0])
	}
	if !strings.Contains(lines[1], `"data":"\u001b[1m"`) {
		t.Errorf("record 1 = %s, want plain data", lines[1])
	}
}

func TestTokensCmd_FileSource(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, t.TempDir(), "in.txt", "你")

	stdout, _, code := runCLI(t, "", "tokens", path)
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	want := fmt.Sprintf(`{"source":%q,"offset":0,"kind":"visible","data":"你","width":2}`+"\n", path)
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestWidthCmd(t *testing.T) {
	isolateEnv(t)
	input := "\x1b[1m你好\x1b[0m\nab\r\ne\u0301x"

	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"width"}, want: "4\n2\n2\n"},
		{args: []string{"width", "--text"}, want: "4\t你好\n2\tab\n2\te\u0301x\n"},
		{args: []string{"width", "--max"}, want: "4\n"},
	}
	for _, tt := range tests {
		stdout, stderr, code := runCLI(t, input, tt.args...)
		if code != 0 {
			t.Fatalf("%v: exit %d, stderr %q", tt.args, code, stderr)
		}
		if stdout != tt.want {
			t.Errorf("%v: stdout = %q, want %q", tt.args, stdout, tt.want)
		}
	}
}

func TestProfilesCmd(t *testing.T) {
	isolateEnv(t)
	cfg := writeFile(t, t.TempDir(), "config.yaml", testConfig)

	stdout, _, code := runCLI(t, "", "profiles", "--config", cfg)
	if code != 0 || stdout != "boxed\nnarrow\n" {
		t.Errorf("profiles = %q (exit %d)", stdout, code)
	}

	stdout, _, code = runCLI(t, "", "profiles", "narrow", "--config", cfg)
	if code != 0 {
		t.Fatalf("profiles narrow: exit %d", code)
	}
	for _, want := range []string{"width: 4", "pad: true", "pad_char:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("profiles narrow = %q, want it to contain %q", stdout, want)
		}
	}

	_, stderr, code := runCLI(t, "", "profiles")
	if code != 0 || !strings.Contains(stderr, "No profiles") {
		t.Errorf("profiles without config: exit %d, stderr %q", code, stderr)
	}
}

func TestVersionCmd(t *testing.T) {
	isolateEnv(t)

	stdout, _, code := runCLI(t, "", "version")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if want := "reflow version 1.2.3 (commit: abc123, built: today)\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestReflowStream_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := reflowStream(ctx, &out, strings.NewReader("abc"), reflow.Options{Width: 10})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("reflowStream = %v, want context.Canceled", err)
	}
}

func TestDefaultWidth_NotATerminal(t *testing.T) {
	t.Parallel()

	if got := defaultWidth(&bytes.Buffer{}); got != fallbackWidth {
		t.Errorf("defaultWidth(buffer) = %d, want %d", got, fallbackWidth)
	}
}
