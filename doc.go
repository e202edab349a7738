// Package baked provides a read-only, in-memory file system for static
// files embedded into a program at build time.
//
// The [loader] subpackage scans a directory tree, gzip-compresses each
// file, and emits one [Record] construction statement per file as Go
// source text. The cmd/baked tool wraps that output into a complete
// generated file that populates an [FS] during program initialization.
//
// # Quick Start
//
// Generate an embedded file system from a directory:
//
//	baked -root ./static -pkg assets -o assets/baked_gen.go
//
// Query it at runtime:
//
//	f, err := assets.Assets().Get("/css/site.css")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	content, err := io.ReadAll(f)
//
// Every Get returns an independent handle over the same immutable bytes,
// so concurrent readers of the same path never share a read cursor.
//
// An [FS] also implements [io/fs.FS], so it can be served directly:
//
//	http.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(assets.Assets())))
package baked
