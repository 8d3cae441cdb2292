package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Runner starts processes and captures their combined stdout and stderr.
type Runner interface {
	// Run executes name with args.
	Run(ctx context.Context, name string, args ...string) (*Output, error)
	// RunShell executes a shell command line.
	RunShell(ctx context.Context, line string) (*Output, error)
}

// Output captures the result of a process run. A non-zero exit is reported
// through ExitCode, not as an error.
type Output struct {
	ExitCode int
	Combined string
}

// ExecRunner is the Runner backed by os/exec. Shell lines are interpreted
// in-process by mvdan.cc/sh so they behave the same on every platform.
type ExecRunner struct {
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env replaces the process environment when non-nil.
	Env []string
}

// Run executes name with args.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (*Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	if r.Env != nil {
		cmd.Env = r.Env
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	output := &Output{Combined: buf.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("running %s: %w", name, err)
	}
	return output, nil
}

// RunShell parses and runs line with a POSIX shell interpreter.
func (r *ExecRunner) RunShell(ctx context.Context, line string) (*Output, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(line), "")
	if err != nil {
		return nil, fmt.Errorf("parsing command line: %w", err)
	}

	var buf syncBuffer
	opts := []interp.RunnerOption{interp.StdIO(nil, &buf, &buf)}
	if r.Dir != "" {
		opts = append(opts, interp.Dir(r.Dir))
	}
	if r.Env != nil {
		opts = append(opts, interp.Env(expand.ListEnviron(r.Env...)))
	}

	sh, err := interp.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating shell: %w", err)
	}

	err = sh.Run(ctx, file)
	output := &Output{Combined: buf.String()}
	if err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			output.ExitCode = int(status)
			return output, nil
		}
		return output, fmt.Errorf("running command line: %w", err)
	}
	return output, nil
}

// Quote returns s quoted for the shell used by RunShell.
func Quote(s string) (string, error) {
	q, err := syntax.Quote(s, syntax.LangPOSIX)
	if err != nil {
		return "", fmt.Errorf("quoting %q: %w", s, err)
	}
	return q, nil
}

// syncBuffer serialises writes from stdout and stderr copiers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
