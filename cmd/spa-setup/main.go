package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/kxue43/spa-setup/config"
	"github.com/kxue43/spa-setup/setup"
	"github.com/kxue43/spa-setup/shell"
	"github.com/kxue43/spa-setup/version"
)

const name = "spa-setup"

type CLI struct {
	setup.Cmd `embed:""`

	Version kong.VersionFlag `name:"version" help:"Show version information and quit."`
}

// newParser wires ctx, logger and runner into kong so that they reach [setup.Cmd.Run].
// configPaths are the TOML files consulted for flag values.
func newParser(ctx context.Context, cli *CLI, logger *log.Logger, runner shell.Runner, configPaths ...string) (*kong.Kong, error) {
	return kong.New(
		cli,
		kong.Name(name),
		kong.Description("Scaffold a React single-page application, install axios, react-router-dom and styled-components, copy the CI template, and start the dev server."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version.FromBuildInfo()},
		kong.Configuration(config.TOML, configPaths...),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.BindTo(runner, (*shell.Runner)(nil)),
		kong.Bind(logger),
	)
}

func main() {
	exitCode := 0

	defer func() { os.Exit(exitCode) }()

	logger := log.New(os.Stderr, name+": ", 0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli CLI

	parser, err := newParser(ctx, &cli, logger, &shell.Exec{}, config.Paths(name)...)
	if err != nil {
		logger.Println(err.Error())

		exitCode = 1

		return
	}

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err = kctx.Run(); err != nil {
		logger.Println(err.Error())

		exitCode = setup.ExitCode(err)
	}
}
