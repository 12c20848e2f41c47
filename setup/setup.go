// Package setup scaffolds a single-page application project.
//
// The pipeline is strictly linear: prompt for a name, run the generator, enter the new directory,
// install a fixed set of packages, copy the CI template, and start the development server.
// The first failing step ends the run. Nothing is retried or cleaned up.
package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/browser"

	"github.com/kxue43/spa-setup/prompt"
	"github.com/kxue43/spa-setup/shell"
)

type (
	Logger interface {
		Printf(string, ...any)
		Println(...any)
	}

	Step byte

	StepError struct {
		Err  error
		Step Step
	}

	Options struct {
		// Generator is the scaffolding command; the project name is appended as its last argument.
		Generator      []string
		PackageManager string
		// TemplatePath is the CI template to copy. Relative paths are resolved against the starting directory.
		TemplatePath     string
		MinNodeVersion   string
		ValidateTemplate bool
		Open             bool
		Port             int
	}

	Orchestrator struct {
		logger   Logger
		runner   shell.Runner
		prompter prompt.Prompter
		openURL  func(string) error
		opts     Options
	}
)

const (
	Preflight Step = iota
	Prompt
	Scaffold
	Chdir
	InstallDeps
	CopyTemplate
	StartServer
)

// TemplateName is the file name of the CI template, both at the source and in the new project.
const TemplateName = ".gitlab-ci.yml"

var (
	ErrNoGenerator = errors.New("no generator command configured")

	stepNames = [...]string{
		Preflight:    "preflight",
		Prompt:       "prompt",
		Scaffold:     "scaffold",
		Chdir:        "chdir",
		InstallDeps:  "install dependencies",
		CopyTemplate: "copy CI template",
		StartServer:  "start dev server",
	}
)

// Packages returns the dependencies installed into every new project.
func Packages() []string {
	return []string{"axios", "react-router-dom", "styled-components"}
}

func (s Step) String() string {
	if int(s) < len(stepNames) {
		return stepNames[s]
	}

	return fmt.Sprintf("step(%d)", byte(s))
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep reports the step that produced err.
func FailedStep(err error) (step Step, ok bool) {
	var stepErr *StepError

	if !errors.As(err, &stepErr) {
		return 0, false
	}

	return stepErr.Step, true
}

func New(opts Options, runner shell.Runner, prompter prompt.Prompter, logger Logger) *Orchestrator {
	if opts.PackageManager == "" {
		opts.PackageManager = "npm"
	}

	return &Orchestrator{
		logger:   logger,
		runner:   runner,
		prompter: prompter,
		openURL:  browser.OpenURL,
		opts:     opts,
	}
}

func fail(step Step, err error) error {
	return &StepError{Step: step, Err: err}
}

// Run executes every step in order. It returns when the development server exits,
// or when ctx is cancelled, which also stops the server.
// The process working directory is left inside the new project.
func (o *Orchestrator) Run(ctx context.Context) (err error) {
	if len(o.opts.Generator) == 0 {
		return fail(Preflight, ErrNoGenerator)
	}

	templatePath, err := filepath.Abs(o.opts.TemplatePath)
	if err != nil {
		return fail(Preflight, fmt.Errorf("failed to resolve the CI template path %q: %w", o.opts.TemplatePath, err))
	}

	if err = o.checkNode(ctx); err != nil {
		return fail(Preflight, err)
	}

	name, err := o.prompter.ProjectName(ctx)
	if err != nil {
		return fail(Prompt, err)
	}

	o.logger.Printf("Creating project %q.", name)

	if err = o.runner.Run(ctx, o.scaffoldCommand(name)); err != nil {
		return fail(Scaffold, err)
	}

	if err = os.Chdir(name); err != nil {
		return fail(Chdir, fmt.Errorf("failed to enter the project directory: %w", err))
	}

	if err = o.runner.Run(ctx, o.installCommand()); err != nil {
		return fail(InstallDeps, err)
	}

	if err = o.copyTemplate(templatePath); err != nil {
		return fail(CopyTemplate, err)
	}

	if err = o.startServer(ctx); err != nil {
		return fail(StartServer, err)
	}

	return nil
}

func (o *Orchestrator) scaffoldCommand(name string) shell.Command {
	args := make([]string, 0, len(o.opts.Generator))
	args = append(args, o.opts.Generator[1:]...)
	args = append(args, name)

	return shell.Command{Name: o.opts.Generator[0], Args: args}
}

func (o *Orchestrator) installCommand() shell.Command {
	return shell.Command{Name: o.opts.PackageManager, Args: append([]string{"install"}, Packages()...)}
}
