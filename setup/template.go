package setup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

type WriteHook func(io.Writer) error

var (
	ErrInvalidTemplate = errors.New("CI template is not valid YAML")
)

// WriteToFile creates or truncates the file name under dir and fills it through hook.
func WriteToFile(dir, name string, hook WriteHook) (err error) {
	fd, err := os.Create(filepath.Clean(filepath.Join(dir, name)))
	if err != nil {
		return fmt.Errorf("failed to create %q file: %w", name, err)
	}

	defer func() {
		if err1 := fd.Close(); err == nil && err1 != nil {
			err = fmt.Errorf("failed to close %q after writing: %w", name, err1)
		}
	}()

	if err = hook(fd); err != nil {
		return fmt.Errorf("failed to write to %q: %w", name, err)
	}

	return nil
}

func validateYAML(contents []byte) error {
	var doc any

	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTemplate, err.Error())
	}

	return nil
}

// copyTemplate writes the bytes of src unchanged to TemplateName in the current directory.
// Nothing is written when src cannot be read.
func (o *Orchestrator) copyTemplate(src string) error {
	contents, err := os.ReadFile(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("failed to read CI template: %w", err)
	}

	if o.opts.ValidateTemplate {
		if err = validateYAML(contents); err != nil {
			return err
		}
	}

	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current working directory: %w", err)
	}

	err = WriteToFile(dir, TemplateName, func(fd io.Writer) error {
		_, err1 := fd.Write(contents)

		return err1
	})
	if err != nil {
		return err
	}

	o.logger.Printf("Copied %s to %s.", src, filepath.Join(dir, TemplateName))

	return nil
}
