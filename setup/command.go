package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/kxue43/spa-setup/prompt"
	"github.com/kxue43/spa-setup/shell"
)

type (
	Cmd struct {
		stdin            io.Reader
		stdout           io.Writer
		Name             string   `name:"name" help:"Project name. The prompt is skipped when this is set."`
		TemplatePath     string   `name:"template" type:"path" help:"CI template to copy into the project. Defaults to .gitlab-ci.yml next to the executable."`
		Generator        []string `name:"generator" default:"npx,create-react-app" help:"Scaffolding command, comma separated. The project name is appended."`
		PackageManager   string   `name:"package-manager" default:"npm" help:"Package manager used to install dependencies and start the dev server."`
		MinNodeVersion   string   `name:"min-node-version" default:"v14.0.0" help:"Minimum Node.js version. Empty disables the check."`
		DebugLog         string   `name:"debug-log" type:"path" help:"Dump TUI prompt messages to this file."`
		Port             int      `name:"port" help:"Port of the dev server. Defaults to the PORT environment variable or 3000."`
		TUI              bool     `name:"tui" help:"Ask for the project name with an interactive text input."`
		ValidateTemplate bool     `name:"validate-template" help:"Refuse to copy a CI template that is not valid YAML."`
		Open             bool     `name:"open" help:"Open the dev server in the default browser once it answers."`
	}
)

// exeDir is the directory holding the running binary, where the CI template is looked up by default.
func exeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}

	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Dir(exe), nil
}

func (c *Cmd) AfterApply() error {
	if c.TemplatePath != "" {
		return nil
	}

	dir, err := exeDir()
	if err != nil {
		return fmt.Errorf("failed to locate the directory of the executable: %w", err)
	}

	c.TemplatePath = filepath.Join(dir, TemplateName)

	return nil
}

func (c *Cmd) options() Options {
	return Options{
		Generator:        c.Generator,
		PackageManager:   c.PackageManager,
		TemplatePath:     c.TemplatePath,
		MinNodeVersion:   c.MinNodeVersion,
		ValidateTemplate: c.ValidateTemplate,
		Open:             c.Open,
		Port:             c.Port,
	}
}

func (c *Cmd) prompter(dump io.Writer) prompt.Prompter {
	stdin, stdout := c.stdin, c.stdout
	if stdin == nil {
		stdin = os.Stdin
	}

	if stdout == nil {
		stdout = os.Stdout
	}

	switch {
	case c.Name != "":
		return prompt.Fixed{Name: c.Name}
	case c.TUI:
		return prompt.TUI{
			In:   stdin,
			Out:  stdout,
			Hint: "Will install " + strings.Join(Packages(), ", ") + ".",
			Dump: dump,
		}
	default:
		return prompt.Line{R: stdin, W: stdout}
	}
}

// Run is called by kong with the bound context, logger and runner.
func (c *Cmd) Run(ctx context.Context, logger *log.Logger, runner shell.Runner) error {
	var dump io.Writer

	if c.DebugLog != "" {
		fd, err := os.OpenFile(c.DebugLog, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open debug log %q: %w", c.DebugLog, err)
		}

		defer func() { _ = fd.Close() }()

		dump = fd
	}

	return New(c.options(), runner, c.prompter(dump), logger).Run(ctx)
}

// ExitCode maps an error returned by [Cmd.Run] to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, prompt.ErrAborted) {
		return 130
	}

	if code, ok := shell.ExitCode(err); ok && code > 0 {
		return code
	}

	return 1
}
