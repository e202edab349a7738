package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes one generation run. A YAML manifest mirrors the CLI
// flags and adds per-root pattern sets:
//
//	package: assets
//	output: assets/baked_gen.go
//	func: Assets
//	roots:
//	  - path: static
//	    include: ["**/*.css", "**/*.js"]
//	    exclude: ["**/*.map"]
//	  - path: templates
type Config struct {
	Package    string `yaml:"package"`
	Output     string `yaml:"output"`
	Func       string `yaml:"func"`
	MaxSize    int64  `yaml:"max_size"`
	Dotfiles   bool   `yaml:"dotfiles"`
	AllowEmpty bool   `yaml:"allow_empty"`
	Roots      []Root `yaml:"roots"`
}

// Root is one directory to bake, with optional glob filtering. All
// roots accumulate into a single registry; duplicate paths across roots
// surface at program initialization, not at generation time.
type Root struct {
	Path    string   `yaml:"path"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Package == "" {
		c.Package = "main"
	}
	if c.Output == "" {
		c.Output = "baked_gen.go"
	}
	if c.Func == "" {
		c.Func = "Assets"
	}
}
