package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

func localName(name string) string {
	dirname := filepath.Dir(name)
	prefixname, ext := splitExt(filepath.Base(name))
	return filepath.Join(dirname, fmt.Sprintf("%s.local.%s", prefixname, ext))
}

// readLayer decodes a single json5 file, found is false when the file does
// not exist or is empty.
func readLayer[T any](path string) (out T, found bool, err error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	if len(contents) == 0 {
		return out, false, nil
	}
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return out, false, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, true, nil
}

// reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
func ReadConfig[T any](name string) (T, error) {
	var zero T
	return ReadWithDefaults(name, zero)
}

// ReadWithDefaults is ReadConfig, but layered on top of `defaults`. Only
// non-zero values from the files override the defaults.
func ReadWithDefaults[T any](name string, defaults T) (T, error) {
	out := defaults
	allNotFound := true

	for _, path := range []string{name, localName(name)} {
		layer, found, err := readLayer[T](path)
		if err != nil {
			return defaults, err
		}
		if !found {
			continue
		}
		err = mergo.Merge(&out, layer, mergo.WithOverride)
		if err != nil {
			return defaults, err
		}
		if path != name {
			slog.Info("merging config with local overrides", "local", path)
		}
		allNotFound = false
	}

	if allNotFound {
		return defaults, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively is ReadWithDefaults, but it recursively goes up the
// filesystem until the root to find a configuration file matching the name.
// It returns the path of the file that was found.
func ReadRecursively[T any](name string, defaults T) (T, string, error) {
	if filepath.IsAbs(name) {
		config, err := ReadWithDefaults(name, defaults)
		return config, name, err
	}

	root, err := filepath.Abs("/")
	if err != nil {
		return defaults, "", err
	}
	current, err := os.Getwd()
	if err != nil {
		return defaults, "", err
	}

	for {
		path := filepath.Join(current, name)
		config, err := ReadWithDefaults(path, defaults)
		if err == nil {
			return config, path, nil
		}
		if !os.IsNotExist(err) {
			return defaults, "", err
		}
		if current == root {
			break
		}
		current = filepath.Dir(current)
	}

	return defaults, "", os.ErrNotExist
}
