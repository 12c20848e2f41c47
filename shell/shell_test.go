package shell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExec() (*Exec, *bytes.Buffer, *bytes.Buffer) {
	var logs, stdout bytes.Buffer

	return &Exec{
		Echo:   &logs,
		Stdin:  &bytes.Buffer{},
		Stdout: &stdout,
		Stderr: &bytes.Buffer{},
	}, &logs, &stdout
}

func TestRun(t *testing.T) {
	t.Run("Echoes and streams", func(t *testing.T) {
		e, logs, stdout := newExec()

		err := e.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo hello"}})
		require.NoError(t, err)

		assert.Equal(t, "$ sh -c echo hello\n", logs.String())
		assert.Equal(t, "hello\n", stdout.String())
	})

	t.Run("Passes extra environment", func(t *testing.T) {
		e, _, stdout := newExec()

		err := e.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo $SPA_SETUP_TEST"}, Env: []string{"SPA_SETUP_TEST=yes"}})
		require.NoError(t, err)

		assert.Equal(t, "yes\n", stdout.String())
	})

	t.Run("Non-zero exit", func(t *testing.T) {
		e, _, _ := newExec()

		err := e.Run(context.Background(), Command{Name: "sh", Args: []string{"-c", "exit 3"}})
		require.ErrorIs(t, err, ErrExitStatus)

		code, ok := ExitCode(err)
		assert.True(t, ok)
		assert.Equal(t, 3, code)
	})

	t.Run("Missing binary", func(t *testing.T) {
		e, _, _ := newExec()

		err := e.Run(context.Background(), Command{Name: "spa-setup-no-such-binary"})
		require.ErrorIs(t, err, exec.ErrNotFound)

		_, ok := ExitCode(err)
		assert.False(t, ok)
	})

	t.Run("Cancelled context stops the process", func(t *testing.T) {
		e, _, _ := newExec()

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		err := e.Run(ctx, Command{Name: "sleep", Args: []string{"10"}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}

func TestEchoDefaultsToStderr(t *testing.T) {
	var stderr bytes.Buffer

	e := &Exec{Stdin: &bytes.Buffer{}, Stdout: &bytes.Buffer{}, Stderr: &stderr}

	require.NoError(t, e.Run(context.Background(), Command{Name: "true"}))
	assert.Equal(t, "$ true\n", stderr.String())
}

func TestTerminal(t *testing.T) {
	assert.False(t, terminal(&bytes.Buffer{}))

	f, err := os.Open(os.DevNull)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.False(t, terminal(f))
}

func TestOutput(t *testing.T) {
	e, logs, stdout := newExec()

	out, err := e.Output(context.Background(), Command{Name: "sh", Args: []string{"-c", "echo '  v20.11.1  '"}})
	require.NoError(t, err)

	assert.Equal(t, "v20.11.1", out)
	assert.Empty(t, stdout.String())
	assert.Contains(t, logs.String(), "$ sh -c")
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "npm start", Command{Name: "npm", Args: []string{"start"}}.String())
	assert.Equal(t, "node", Command{Name: "node"}.String())
}
