// Package jsonstream looks up a single scalar in a JSON document without decoding the whole document.
package jsonstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type (
	finder struct {
		dec  *json.Decoder
		seen strings.Builder
	}
)

var (
	ErrNotFound = errors.New("key not found")
	ErrBadPath  = errors.New("malformed path")
)

func parsePath(path string) (keys []string, err error) {
	if !strings.HasPrefix(path, ".") {
		return nil, fmt.Errorf(`%w: %q must start with the dot character "."`, ErrBadPath, path)
	}

	if len(path) == 1 || strings.HasSuffix(path, ".") {
		return nil, fmt.Errorf(`%w: %q must not end with the dot character "."`, ErrBadPath, path)
	}

	return strings.Split(path, ".")[1:], nil
}

func isDelim(t json.Token, ds ...json.Delim) bool {
	d, ok := t.(json.Delim)
	if !ok {
		return false
	}

	for _, want := range ds {
		if d == want {
			return true
		}
	}

	return false
}

// Find returns the scalar value at path in the JSON document read from r.
// A path is a sequence of object keys, each preceded by a dot, e.g. ".scripts.start".
// Arrays cannot be indexed. Values under non-target keys are skipped token by token.
func Find(ctx context.Context, r io.Reader, path string) (value any, err error) {
	keys, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	f := finder{dec: json.NewDecoder(r)}

	for _, key := range keys {
		if err = f.enter(ctx, key); err != nil {
			return nil, err
		}
	}

	t, err := f.dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read the value at %q: %w", f.seen.String(), err)
	}

	if _, ok := t.(json.Delim); ok {
		return nil, fmt.Errorf("the value at %q is not a scalar", f.seen.String())
	}

	return t, nil
}

// FindString is [Find] for values that must be JSON strings.
func FindString(ctx context.Context, r io.Reader, path string) (string, error) {
	v, err := Find(ctx, r, path)
	if err != nil {
		return "", err
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("the value at %q is not a string", path)
	}

	return s, nil
}

// enter consumes the object at the current position up to and including key.
func (f *finder) enter(ctx context.Context, key string) error {
	parent := f.seen.String()
	if parent == "" {
		parent = "."
	}

	t, err := f.dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read the value at %q: %w", parent, err)
	}

	if !isDelim(t, '{') {
		return fmt.Errorf("the value at %q is not a JSON object", parent)
	}

	f.seen.WriteString(".")
	f.seen.WriteString(key)

	for f.dec.More() {
		if err = context.Cause(ctx); err != nil {
			return fmt.Errorf("gave up looking for %q: %w", f.seen.String(), err)
		}

		if t, err = f.dec.Token(); err != nil {
			return err
		}

		if s, ok := t.(string); ok && s == key {
			return nil
		}

		if err = f.skip(); err != nil {
			return err
		}
	}

	return fmt.Errorf("%w: %q", ErrNotFound, f.seen.String())
}

// skip consumes one complete value.
func (f *finder) skip() error {
	depth := 0

	for {
		t, err := f.dec.Token()
		if err != nil {
			return err
		}

		switch {
		case isDelim(t, '{', '['):
			depth++
		case isDelim(t, '}', ']'):
			depth--
		}

		if depth == 0 {
			return nil
		}
	}
}
