package baked

import (
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

// FS is a registry of embedded file records with lookup by path.
//
// An FS is populated once during program initialization (generated code
// calls MustAdd) and is safe for unsynchronized concurrent reads
// afterwards: no method mutates the registry except Add/MustAdd, which
// are expected to run only during the single-threaded init window.
//
// FS implements fs.FS and fs.ReadFileFS, so it works with http.FS,
// template.ParseFS, and friends.
type FS struct {
	records []Record
	paths   map[string]int
}

// Interface compliance.
var (
	_ fs.FS         = (*FS)(nil)
	_ fs.ReadFileFS = (*FS)(nil)
)

// New returns an empty file system.
func New() *FS {
	return &FS{paths: make(map[string]int)}
}

// Add appends a record and indexes it by path. It fails with
// [ErrDuplicatePath] when the path is already registered; the existing
// record is left untouched.
func (f *FS) Add(rec Record) error {
	if _, ok := f.paths[rec.Path]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, rec.Path)
	}
	f.paths[rec.Path] = len(f.records)
	f.records = append(f.records, rec)
	return nil
}

// MustAdd is like Add but panics on error. Generated code uses it so a
// duplicate path surfaces at initialization instead of being silently
// overwritten.
func (f *FS) MustAdd(rec Record) {
	if err := f.Add(rec); err != nil {
		panic(err)
	}
}

// Get returns a fresh handle for the record at path, failing with
// [ErrNotExist] when no record matches.
//
// The path is normalized before lookup: surrounding whitespace is
// trimmed and a leading "/" is added when missing.
func (f *FS) Get(path string) (*File, error) {
	file, ok := f.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
	}
	return file, nil
}

// Lookup is the non-fatal variant of Get: it reports absence with a
// false second return instead of an error.
func (f *FS) Lookup(path string) (*File, bool) {
	i, ok := f.paths[normalizePath(path)]
	if !ok {
		return nil, false
	}
	return newFile(&f.records[i]), true
}

// WithFile acquires a handle for path, invokes fn with it, and closes
// the handle on every exit path, including when fn panics.
func (f *FS) WithFile(path string, fn func(*File) error) error {
	file, err := f.Get(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return fn(file)
}

// Records returns a snapshot of all registered records in insertion order.
func (f *FS) Records() []Record {
	return slices.Clone(f.records)
}

// Len returns the number of registered records.
func (f *FS) Len() int {
	return len(f.records)
}

// Open implements fs.FS. Names follow fs.ValidPath conventions
// ("css/site.css", no leading slash) and map onto the registry's
// "/"-prefixed paths.
func (f *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	file, ok := f.Lookup("/" + name)
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return file, nil
}

// ReadFile implements fs.ReadFileFS, returning the decompressed content
// of the named file.
func (f *FS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	file, ok := f.Lookup("/" + name)
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	defer file.Close()
	return file.Bytes(false)
}

// normalizePath maps user-provided paths onto registry keys: trimmed of
// surrounding whitespace and always "/"-prefixed.
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
