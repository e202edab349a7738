package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/schovi/baked-file-system/loader"
)

const modulePath = "github.com/schovi/baked-file-system"

// generate writes the complete generated source file: header, package
// clause, and a registry populated by the loader's statements for every
// root. diag receives the per-root stats reports.
func generate(w io.Writer, diag io.Writer, cfg *Config) error {
	fmt.Fprintln(w, "// Code generated by baked. DO NOT EDIT.")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "package %s\n\n", cfg.Package)
	fmt.Fprintf(w, "import baked %q\n\n", modulePath)
	fmt.Fprintln(w, "var bakedFS = func() *baked.FS {")
	fmt.Fprintln(w, "\tf := baked.New()")

	// Statements buffer so the add binding is only declared when at
	// least one file was baked; an unused binding fails compilation of
	// the generated file.
	var stmts bytes.Buffer
	body := newIndentWriter(&stmts)
	for _, root := range cfg.Roots {
		opts := []loader.Option{
			loader.WithDiagnostics(diag),
			loader.WithInclude(root.Include...),
			loader.WithExclude(root.Exclude...),
		}
		if cfg.MaxSize > 0 {
			opts = append(opts, loader.WithMaxSize(cfg.MaxSize))
		}
		if cfg.Dotfiles {
			opts = append(opts, loader.IncludeDotfiles())
		}
		if cfg.AllowEmpty {
			opts = append(opts, loader.AllowEmpty())
		}
		if err := loader.Load(body, root.Path, opts...); err != nil {
			return fmt.Errorf("bake %s: %w", root.Path, err)
		}
	}
	if stmts.Len() > 0 {
		fmt.Fprintln(w, "\tadd := f.MustAdd")
		if _, err := w.Write(stmts.Bytes()); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "\treturn f")
	fmt.Fprintln(w, "}()")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "// %s returns the baked file system.\n", cfg.Func)
	fmt.Fprintf(w, "func %s() *baked.FS { return bakedFS }\n", cfg.Func)
	return nil
}

// indentWriter indents every line written through it by one tab so the
// loader's statements land inside the generated function body.
type indentWriter struct {
	w         io.Writer
	lineStart bool
}

func newIndentWriter(w io.Writer) *indentWriter {
	return &indentWriter{w: w, lineStart: true}
}

func (iw *indentWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		if iw.lineStart {
			if _, err := iw.w.Write([]byte{'\t'}); err != nil {
				return written, err
			}
			iw.lineStart = false
		}
		chunk := p
		if i := bytes.IndexByte(p, '\n'); i >= 0 {
			chunk = p[:i+1]
			iw.lineStart = true
		}
		n, err := iw.w.Write(chunk)
		written += n
		if err != nil {
			return written, err
		}
		p = p[len(chunk):]
	}
	return written, nil
}
