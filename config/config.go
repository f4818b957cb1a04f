// The MIT License (MIT)
//
// Copyright (c) 2019 West Damron
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package config loads akane.toml project configuration.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// FileName is the name of the project configuration file.
const FileName = "akane.toml"

// Config represents an akane.toml project configuration file.
type Config struct {
	// Module names the module qualification of compiled units and the generated LLVM module.
	Module string `toml:"module"`

	// TargetTriple is recorded in generated modules, e.g. "x86_64-unknown-linux-gnu".
	TargetTriple string `toml:"target_triple,omitempty"`

	// Entry is the function evaluated by `akanec run`.
	Entry string `toml:"entry"`

	// Output is the path generated IR is written to. Relative paths are resolved against the
	// directory holding akane.toml. Empty means the input path with an .ll extension.
	Output string `toml:"output,omitempty"`

	// MaxInstantiations bounds monomorphization, guarding against polymorphic recursion.
	MaxInstantiations int `toml:"max_instantiations"`

	// MaxCallDepth bounds call nesting when running generated code.
	MaxCallDepth int `toml:"max_call_depth"`

	Log Log `toml:"log"`

	// Dir is the directory holding the loaded file, or empty for defaults.
	Dir string `toml:"-"`
}

// Log configures diagnostics logging.
type Log struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level"`
	// Format is text or json. Text output is colored on terminals.
	Format string `toml:"format"`
}

// Default returns the configuration used when no akane.toml is found.
func Default() *Config {
	return &Config{
		Module:            "main",
		Entry:             "main",
		MaxInstantiations: 1024,
		MaxCallDepth:      10000,
		Log:               Log{Level: "info", Format: "text"},
	}
}

// Load decodes the file at path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.Errorf("parsing %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	cfg.Dir = filepath.Dir(path)
	return cfg, nil
}

// Find searches for akane.toml starting from dir and walking up to parent directories. The search
// stops at a .git boundary. It returns the path of the file found and its configuration, or the
// defaults and an empty path if there is none.
func Find(dir string) (string, *Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			if err != nil {
				return "", nil, err
			}
			return path, cfg, nil
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", Default(), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", Default(), nil
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	if c.Module == "" {
		return errors.New("module must not be empty")
	}
	if c.Entry == "" {
		return errors.New("entry must not be empty")
	}
	if c.MaxInstantiations <= 0 {
		return errors.Errorf("max_instantiations must be positive, got %d", c.MaxInstantiations)
	}
	if c.MaxCallDepth <= 0 {
		return errors.Errorf("max_call_depth must be positive, got %d", c.MaxCallDepth)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// SlogLevel parses Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, errors.Wrap(err, "log level")
	}
	return level, nil
}

// OutputPath returns the path IR generated from input is written to.
func (c *Config) OutputPath(input string) string {
	if c.Output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input)) + ".ll"
	}
	if filepath.IsAbs(c.Output) || c.Dir == "" {
		return c.Output
	}
	return filepath.Join(c.Dir, c.Output)
}
