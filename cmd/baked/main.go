// Command baked generates Go source embedding a directory tree as a
// read-only in-memory file system.
//
// Usage:
//
//	baked -root ./static -pkg assets -o assets/baked_gen.go
//	baked -config baked.yaml
//
// The generated file defines an accessor (default Assets) returning a
// *baked.FS populated at program initialization. Generation fails with
// a non-zero exit when the root is invalid or the total compressed size
// exceeds the configured limit, so a build driving this tool stops too.
package main

import (
	"bytes"
	"flag"
	"log"
	"os"
	"strings"
)

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("baked: ")

	var (
		configPath = flag.String("config", "", "YAML manifest describing roots and options")
		output     = flag.String("o", "", "output file for generated code (default baked_gen.go)")
		pkg        = flag.String("pkg", "", "package name for generated code (default main)")
		funcName   = flag.String("func", "", "name of the generated accessor (default Assets)")
		dotfiles   = flag.Bool("dotfiles", false, "include dotfiles and dot-directories")
		allowEmpty = flag.Bool("allow-empty", false, "succeed even when no files are baked")
		maxSize    = flag.Int64("max-size", 0, "cap on total compressed bytes per root (0 = env or default)")

		roots, include, exclude stringList
	)
	flag.Var(&roots, "root", "directory to bake (repeatable)")
	flag.Var(&include, "include", "glob pattern to include (repeatable)")
	flag.Var(&exclude, "exclude", "glob pattern to exclude (repeatable)")
	flag.Parse()

	cfg := &Config{}
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	for _, r := range roots {
		cfg.Roots = append(cfg.Roots, Root{Path: r, Include: include, Exclude: exclude})
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *pkg != "" {
		cfg.Package = *pkg
	}
	if *funcName != "" {
		cfg.Func = *funcName
	}
	if *maxSize > 0 {
		cfg.MaxSize = *maxSize
	}
	cfg.Dotfiles = cfg.Dotfiles || *dotfiles
	cfg.AllowEmpty = cfg.AllowEmpty || *allowEmpty
	cfg.applyDefaults()

	if len(cfg.Roots) == 0 {
		log.Fatal("no roots given; use -root or a -config manifest")
	}

	var buf bytes.Buffer
	if err := generate(&buf, os.Stderr, cfg); err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(cfg.Output, buf.Bytes(), 0o644); err != nil {
		log.Fatal(err)
	}
}
