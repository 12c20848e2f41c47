package setup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kxue43/spa-setup/prompt"
	"github.com/kxue43/spa-setup/shell"
)

func parseCmd(t *testing.T, args ...string) *Cmd {
	t.Helper()

	var cmd Cmd

	parser, err := kong.New(&cmd, kong.Exit(func(int) { t.Fatal("should not exit") }))
	require.NoError(t, err)

	_, err = parser.Parse(args)
	require.NoError(t, err)

	return &cmd
}

func TestCmdDefaults(t *testing.T) {
	cmd := parseCmd(t)

	assert.Equal(t, []string{"npx", "create-react-app"}, cmd.Generator)
	assert.Equal(t, "npm", cmd.PackageManager)
	assert.Equal(t, "v14.0.0", cmd.MinNodeVersion)
	assert.False(t, cmd.TUI)
	assert.False(t, cmd.Open)

	dir, err := exeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, TemplateName), cmd.TemplatePath)
}

func TestCmdFlags(t *testing.T) {
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	t.Chdir(root)

	cmd := parseCmd(t,
		"--name=demo-app",
		"--template=ci/"+TemplateName,
		"--generator=npx,create-vite",
		"--package-manager=pnpm",
		"--min-node-version=",
		"--open",
		"--port=4000",
	)

	assert.Equal(t, "demo-app", cmd.Name)
	assert.Equal(t, []string{"npx", "create-vite"}, cmd.Generator)
	assert.Equal(t, filepath.Join(root, "ci", TemplateName), cmd.TemplatePath)

	opts := cmd.options()
	assert.Equal(t, "pnpm", opts.PackageManager)
	assert.Empty(t, opts.MinNodeVersion)
	assert.True(t, opts.Open)
	assert.Equal(t, 4000, opts.Port)
}

func TestCmdPrompter(t *testing.T) {
	assert.IsType(t, prompt.Fixed{}, (&Cmd{Name: "x"}).prompter(nil))
	assert.IsType(t, prompt.TUI{}, (&Cmd{TUI: true}).prompter(nil))
	assert.IsType(t, prompt.Line{}, (&Cmd{}).prompter(nil))

	tui, ok := (&Cmd{TUI: true}).prompter(nil).(prompt.TUI)
	require.True(t, ok)
	assert.Contains(t, tui.Hint, "axios, react-router-dom, styled-components")
}

func TestCmdRun(t *testing.T) {
	root, template := workspace(t)

	var out bytes.Buffer

	runner := newFakeRunner()

	cmd := &Cmd{
		stdin:          strings.NewReader("demo-app\n"),
		stdout:         &out,
		TemplatePath:   template,
		Generator:      []string{"npx", "create-react-app"},
		PackageManager: "npm",
		DebugLog:       filepath.Join(root, "messages.log"),
	}

	err := cmd.Run(context.Background(), log.New(&bytes.Buffer{}, "", 0), runner)
	require.NoError(t, err)

	assert.Equal(t, prompt.DefaultLabel, out.String())
	assert.FileExists(t, filepath.Join(root, "demo-app", TemplateName))
	assert.FileExists(t, filepath.Join(root, "messages.log"))
	assert.Len(t, runner.calls, 3)
}

func TestCmdRunBadDebugLog(t *testing.T) {
	cmd := &Cmd{DebugLog: filepath.Join(t.TempDir(), "missing", "messages.log")}

	err := cmd.Run(context.Background(), log.New(&bytes.Buffer{}, "", 0), newFakeRunner())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestExitCode(t *testing.T) {
	var tests = []struct {
		err      error
		expected int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{&StepError{Step: Scaffold, Err: &shell.ExitError{Code: 4}}, 4},
		{&StepError{Step: StartServer, Err: fmt.Errorf("stopped: %w", context.Canceled)}, 130},
		{&StepError{Step: Prompt, Err: prompt.ErrAborted}, 130},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, ExitCode(test.err))
	}
}
