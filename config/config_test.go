package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	Generator      []string `name:"generator" default:"npx,create-react-app"`
	PackageManager string   `name:"package-manager" default:"npm"`
	Port           int      `name:"port"`
	Open           bool     `name:"open"`
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), fileName)

	err := os.WriteFile(path, []byte(contents), 0o600)
	require.NoError(t, err, "should be able to write a configuration file")

	return path
}

func parse(t *testing.T, path string, args ...string) cli {
	t.Helper()

	var c cli

	parser, err := kong.New(&c, kong.Configuration(TOML, path))
	require.NoError(t, err)

	_, err = parser.Parse(args)
	require.NoError(t, err)

	return c
}

func TestTOML(t *testing.T) {
	path := writeConfig(t, `
generator = ["npx", "create-vite", "--template", "react"]
package_manager = "pnpm"
port = 4000
open = true
`)

	t.Run("File beats defaults", func(t *testing.T) {
		c := parse(t, path)

		assert.Equal(t, []string{"npx", "create-vite", "--template", "react"}, c.Generator)
		assert.Equal(t, "pnpm", c.PackageManager)
		assert.Equal(t, 4000, c.Port)
		assert.True(t, c.Open)
	})

	t.Run("Flags beat file", func(t *testing.T) {
		c := parse(t, path, "--package-manager=yarn", "--port=5000")

		assert.Equal(t, "yarn", c.PackageManager)
		assert.Equal(t, 5000, c.Port)
	})
}

func TestTOMLDashedKeys(t *testing.T) {
	path := writeConfig(t, `"package-manager" = "yarn"`)

	c := parse(t, path)

	assert.Equal(t, "yarn", c.PackageManager)
	assert.Equal(t, []string{"npx", "create-react-app"}, c.Generator)
}

func TestTOMLMissingFile(t *testing.T) {
	c := parse(t, filepath.Join(t.TempDir(), "absent.toml"))

	assert.Equal(t, "npm", c.PackageManager)
}

func TestTOMLMalformed(t *testing.T) {
	path := writeConfig(t, `port = `)

	var c cli

	_, err := kong.New(&c, kong.Configuration(TOML, path))
	require.Error(t, err)
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	assert.Equal(t, []string{
		filepath.Join("/xdg", "spa-setup", fileName),
		filepath.Join("~", ".config", "spa-setup", fileName),
	}, Paths("spa-setup"))

	t.Setenv("XDG_CONFIG_HOME", "")

	assert.Len(t, Paths("spa-setup"), 1)
}
