// Package shell runs the external tools that spa-setup orchestrates.
// Commands inherit the standard streams of the current process and are echoed before they run.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

type (
	Command struct {
		Name string
		Args []string
		// Extra environment variables in the KEY=VALUE form, appended to the inherited environment.
		Env []string
	}

	Runner interface {
		Run(context.Context, Command) error
		Output(context.Context, Command) (string, error)
	}

	Exec struct {
		// Echo receives "$ <command>" before each command runs. Defaults to Stderr.
		Echo   io.Writer
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	ExitError struct {
		Command Command
		Code    int
	}
)

var (
	ErrExitStatus = errors.New("non-zero exit status")

	// waitDelay bounds how long a cancelled command may take to exit after SIGTERM before it is killed.
	waitDelay = 5 * time.Second
)

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}

	return c.Name + " " + strings.Join(c.Args, " ")
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%q exited with status %d", e.Command.String(), e.Code)
}

func (e *ExitError) Unwrap() error {
	return ErrExitStatus
}

// ExitCode returns the exit status carried by err, and false if err did not come from a command that exited non-zero.
func ExitCode(err error) (code int, ok bool) {
	var exitErr *ExitError

	if !errors.As(err, &exitErr) {
		return 0, false
	}

	return exitErr.Code, true
}

func (e *Exec) command(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)

	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	cmd.Stdin = e.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}

	cmd.Stderr = e.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	cmd.WaitDelay = waitDelay
	stopGroup(cmd, terminal(cmd.Stdin))

	return cmd
}

// terminal reports whether r is a terminal. Commands reading from one stay in its foreground process group.
func terminal(r io.Reader) bool {
	f, ok := r.(*os.File)

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (e *Exec) echo(c Command) {
	w := e.Echo
	if w == nil {
		w = e.Stderr
	}

	if w == nil {
		w = os.Stderr
	}

	_, _ = fmt.Fprintf(w, "$ %s\n", c.String())
}

func wait(c Command, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError

	if errors.As(err, &exitErr) {
		return &ExitError{Command: c, Code: exitErr.ExitCode()}
	}

	return fmt.Errorf("failed to run %q: %w", c.String(), err)
}

// Run starts the command, streams its output, and waits for it to exit.
// A cancelled context sends SIGTERM to the process and everything it started.
func (e *Exec) Run(ctx context.Context, c Command) error {
	cmd := e.command(ctx, c)

	cmd.Stdout = e.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}

	e.echo(c)

	err := cmd.Run()
	if ctxErr := ctx.Err(); err != nil && ctxErr != nil {
		return fmt.Errorf("%q was stopped: %w", c.String(), ctxErr)
	}

	return wait(c, err)
}

// Output runs the command and returns its standard output with surrounding whitespace removed.
func (e *Exec) Output(ctx context.Context, c Command) (string, error) {
	var buf bytes.Buffer

	cmd := e.command(ctx, c)
	cmd.Stdout = &buf

	e.echo(c)

	if err := wait(c, cmd.Run()); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}
