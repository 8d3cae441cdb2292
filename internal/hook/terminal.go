package hook

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalIO implements IO over plain readers and writers.
type TerminalIO struct {
	in          *bufio.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool
}

// NewTerminalIO returns a TerminalIO. interactive controls whether prompts
// are shown at all; see DetectInteractive.
func NewTerminalIO(in io.Reader, out, errOut io.Writer, interactive bool) *TerminalIO {
	return &TerminalIO{
		in:          bufio.NewReader(in),
		out:         out,
		errOut:      errOut,
		interactive: interactive,
	}
}

// DetectInteractive reports whether in is a terminal.
func DetectInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsInteractive reports whether prompts may be shown.
func (t *TerminalIO) IsInteractive() bool { return t.interactive }

// Write prints msg on its own line.
func (t *TerminalIO) Write(msg string) { fmt.Fprintln(t.out, msg) }

// WriteError prints msg on its own line to the error stream.
func (t *TerminalIO) WriteError(msg string) { fmt.Fprintln(t.errOut, msg) }

// Ask prints question and returns the trimmed answer line.
func (t *TerminalIO) Ask(question string) (string, error) {
	fmt.Fprint(t.out, question)
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// AskConfirmation asks a yes/no question. An empty answer or a read failure
// yields def; otherwise answers starting with "y" are a yes.
func (t *TerminalIO) AskConfirmation(question string, def bool) bool {
	answer, err := t.Ask(question)
	if err != nil || answer == "" {
		return def
	}
	return strings.HasPrefix(strings.ToLower(answer), "y")
}
