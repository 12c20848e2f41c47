package setup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/kxue43/spa-setup/shell"
)

var (
	ErrNodeVersion = errors.New("unsupported Node.js version")
)

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}

	return v
}

// checkNode fails when the installed node is older than MinNodeVersion. An empty MinNodeVersion skips the check.
func (o *Orchestrator) checkNode(ctx context.Context) error {
	required := canonical(o.opts.MinNodeVersion)
	if required == "" {
		return nil
	}

	if !semver.IsValid(required) {
		return fmt.Errorf("%q is not a semantic version", o.opts.MinNodeVersion)
	}

	out, err := o.runner.Output(ctx, shell.Command{Name: "node", Args: []string{"--version"}})
	if err != nil {
		return fmt.Errorf("failed to get the Node.js version: %w", err)
	}

	installed := canonical(out)
	if !semver.IsValid(installed) {
		return fmt.Errorf("%w: cannot parse %q", ErrNodeVersion, out)
	}

	if semver.Compare(installed, required) < 0 {
		return fmt.Errorf("%w: found %s, need at least %s", ErrNodeVersion, installed, required)
	}

	return nil
}
