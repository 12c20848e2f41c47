// Package config loads flag values from a TOML file through kong's configuration resolver.
// Top-level keys are flag names; dashes and underscores are interchangeable.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
)

const fileName = "config.toml"

var skipped = map[string]bool{"help": true, "version": true}

func stringify(v any) string {
	switch v := v.(type) {
	case []any:
		items := make([]string, len(v))

		for i := range v {
			items[i] = fmt.Sprint(v[i])
		}

		return strings.Join(items, ",")
	default:
		return fmt.Sprint(v)
	}
}

// TOML is a [kong.ConfigurationLoader].
func TOML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}

	if _, err := toml.NewDecoder(r).Decode(&values); err != nil {
		return nil, fmt.Errorf("failed to decode TOML configuration: %w", err)
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		if skipped[flag.Name] {
			return nil, nil
		}

		v, ok := values[flag.Name]
		if !ok {
			v, ok = values[strings.ReplaceAll(flag.Name, "-", "_")]
		}

		if !ok {
			return nil, nil
		}

		return stringify(v), nil
	}

	return f, nil
}

// Paths lists candidate configuration files for app, most specific first.
func Paths(app string) []string {
	paths := make([]string, 0, 2)

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, app, fileName))
	}

	return append(paths, filepath.Join("~", ".config", app, fileName))
}
