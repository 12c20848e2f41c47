package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/kxue43/spa-setup/jsonstream"
	"github.com/kxue43/spa-setup/shell"
)

const DefaultPort = 3000

var (
	ErrNoStartScript = errors.New("package.json has no start script")

	pollInterval = 500 * time.Millisecond
)

func startScript(ctx context.Context) (script string, err error) {
	fd, err := os.Open("package.json")
	if err != nil {
		return "", fmt.Errorf("failed to open package.json: %w", err)
	}

	defer func() { _ = fd.Close() }()

	script, err = jsonstream.FindString(ctx, fd, ".scripts.start")
	if errors.Is(err, jsonstream.ErrNotFound) {
		return "", ErrNoStartScript
	} else if err != nil {
		return "", fmt.Errorf("failed to read the start script from package.json: %w", err)
	}

	return script, nil
}

func (o *Orchestrator) port() int {
	if o.opts.Port > 0 {
		return o.opts.Port
	}

	if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil && p > 0 {
		return p
	}

	return DefaultPort
}

func (o *Orchestrator) serverCommand() shell.Command {
	c := shell.Command{Name: o.opts.PackageManager, Args: []string{"start"}}

	if o.opts.Port > 0 {
		c.Env = append(c.Env, "PORT="+strconv.Itoa(o.opts.Port))
	}

	if o.opts.Open {
		c.Env = append(c.Env, "BROWSER=none")
	}

	return c
}

// waitAndOpen polls url until it answers, then opens it in the default browser.
func (o *Orchestrator) waitAndOpen(ctx context.Context, url string) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			o.logger.Printf("Cannot probe %s: %s", url, err)

			return
		}

		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()

			if err = o.openURL(url); err != nil {
				o.logger.Printf("Failed to open %s in the default browser: %s", url, err)
			}

			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// startServer blocks until the dev server exits.
func (o *Orchestrator) startServer(ctx context.Context) error {
	script, err := startScript(ctx)
	if err != nil {
		return err
	}

	o.logger.Printf("Starting dev server (%s). Press Ctrl+C to stop.", script)

	if !o.opts.Open {
		return o.runner.Run(ctx, o.serverCommand())
	}

	probeCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		o.waitAndOpen(probeCtx, fmt.Sprintf("http://localhost:%d", o.port()))
	}()

	err = o.runner.Run(ctx, o.serverCommand())

	cancel()
	wg.Wait()

	return err
}
