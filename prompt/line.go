// Package prompt asks the operator for the name of the project to create.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

type (
	Prompter interface {
		ProjectName(context.Context) (string, error)
	}

	// Line writes a label to W and reads one line from R.
	// Bytes after the line terminator are left in R for the commands that run later.
	Line struct {
		R     io.Reader
		W     io.Writer
		Label string
	}

	// Fixed answers with Name and never touches the terminal.
	Fixed struct {
		Name string
	}

	lineResult struct {
		line string
		err  error
	}
)

const DefaultLabel = "Enter application name: "

var (
	ErrAborted = errors.New("prompt aborted")
)

// readLine consumes R up to and including the first '\n', one byte at a time.
func readLine(r io.Reader) (string, error) {
	var (
		b   strings.Builder
		buf [1]byte
	)

	br, _ := r.(io.ByteReader)

	for {
		var (
			c   byte
			err error
		)

		if br != nil {
			c, err = br.ReadByte()
		} else {
			var n int

			if n, err = r.Read(buf[:]); n == 1 {
				c, err = buf[0], nil
			} else if err == nil {
				continue
			}
		}

		if err != nil {
			return b.String(), err
		}

		if c == '\n' {
			return b.String(), nil
		}

		b.WriteByte(c)
	}
}

// ProjectName returns the line typed by the operator without its line terminator and surrounding spaces.
// An empty line is returned as is. A cancelled ctx ends the wait with its error.
func (p Line) ProjectName(ctx context.Context) (string, error) {
	label := p.Label
	if label == "" {
		label = DefaultLabel
	}

	if _, err := io.WriteString(p.W, label); err != nil {
		return "", fmt.Errorf("failed to prompt for the project name: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrAborted, err)
	}

	// The reader goroutine stays blocked on R after cancellation. The process exits soon after.
	done := make(chan lineResult, 1)

	go func() {
		line, err := readLine(p.R)
		done <- lineResult{line: line, err: err}
	}()

	var res lineResult

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", ErrAborted, ctx.Err())
	case res = <-done:
	}

	if errors.Is(res.err, io.EOF) && res.line == "" {
		return "", fmt.Errorf("%w: input closed before a project name was entered", ErrAborted)
	} else if res.err != nil && !errors.Is(res.err, io.EOF) {
		return "", fmt.Errorf("failed to read the project name from user input: %w", res.err)
	}

	return strings.TrimSpace(res.line), nil
}

func (p Fixed) ProjectName(context.Context) (string, error) {
	return p.Name, nil
}
