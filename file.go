package baked

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/schovi/baked-file-system/internal/sizing"
)

// File is a per-access handle over one embedded record.
//
// Each handle owns private cursor and decoder state, so any number of
// handles for the same path can be read concurrently without
// synchronization. The handle decompresses transparently unless the
// record is flagged pre-compressed.
//
// File implements fs.File, io.Reader, and io.Writer (writes always fail
// with [ErrReadOnly]).
type File struct {
	rec *Record

	r      io.Reader
	gz     *gzip.Reader
	closed bool
}

// Interface compliance.
var (
	_ fs.File   = (*File)(nil)
	_ io.Writer = (*File)(nil)
)

func newFile(rec *Record) *File {
	return &File{rec: rec}
}

// Read implements io.Reader, inflating stored bytes as needed.
// It returns ErrClosed after Close.
func (f *File) Read(p []byte) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	if f.r == nil {
		if err := f.reset(); err != nil {
			return 0, err
		}
	}
	return f.r.Read(p)
}

// Write implements io.Writer and always fails: embedded content is
// immutable.
func (f *File) Write([]byte) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	return 0, ErrReadOnly
}

// Rewind resets the read cursor to the start of the file.
//
// Decompression is forward-only, so rewinding discards the current
// decoder and starts a fresh one over the stored bytes.
func (f *File) Rewind() error {
	if f.closed {
		return ErrClosed
	}
	return f.reset()
}

// Close releases decoder resources. It is idempotent; the first error
// wins and later calls return nil.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.r = nil
	if f.gz != nil {
		err := f.gz.Close()
		f.gz = nil
		return err
	}
	return nil
}

// Closed reports whether Close has been called.
func (f *File) Closed() bool {
	return f.closed
}

// Name returns the record path ("/"-prefixed).
func (f *File) Name() string {
	return f.rec.Path
}

// Size returns the uncompressed size in bytes.
func (f *File) Size() int64 {
	return f.rec.Size
}

// Record returns a copy of the underlying record.
func (f *File) Record() Record {
	return *f.rec
}

// Stat implements fs.File.
func (f *File) Stat() (fs.FileInfo, error) {
	return &fileInfo{rec: f.rec}, nil
}

// Bytes materializes the file content.
//
// With compressed true it returns a copy of the stored bytes exactly as
// embedded. Otherwise it returns the fully decompressed content. Bytes
// never touches the handle's read cursor and remains usable after Close.
func (f *File) Bytes(compressed bool) ([]byte, error) {
	if compressed || f.rec.Compressed {
		return []byte(f.rec.Data), nil
	}
	gz, err := gzip.NewReader(strings.NewReader(f.rec.Data))
	if err != nil {
		return nil, fmt.Errorf("baked: read %s: %w", f.rec.Path, err)
	}
	defer gz.Close()

	size, err := sizing.ToInt(f.rec.Size, ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("baked: read %s: %w", f.rec.Path, err)
	}
	content := make([]byte, size)
	if _, err := io.ReadFull(gz, content); err != nil {
		return nil, fmt.Errorf("baked: read %s: %w", f.rec.Path, err)
	}
	return content, nil
}

// reset rebuilds the read chain over the stored bytes.
func (f *File) reset() error {
	sr := strings.NewReader(f.rec.Data)
	if f.rec.Compressed {
		// Pre-compressed sources are served verbatim.
		f.gz = nil
		f.r = sr
		return nil
	}
	if f.gz != nil {
		if err := f.gz.Reset(sr); err != nil {
			return fmt.Errorf("baked: rewind %s: %w", f.rec.Path, err)
		}
		f.r = f.gz
		return nil
	}
	gz, err := gzip.NewReader(sr)
	if err != nil {
		return fmt.Errorf("baked: open %s: %w", f.rec.Path, err)
	}
	f.gz = gz
	f.r = gz
	return nil
}

// fileInfo implements fs.FileInfo for embedded files. Records do not
// carry timestamps or ownership, so ModTime is the zero time.
type fileInfo struct {
	rec *Record
}

func (fi *fileInfo) Name() string       { return path.Base(fi.rec.Path) }
func (fi *fileInfo) Size() int64        { return fi.rec.Size }
func (fi *fileInfo) Mode() fs.FileMode  { return 0o444 }
func (fi *fileInfo) ModTime() time.Time { return time.Time{} }
func (fi *fileInfo) IsDir() bool        { return false }
func (fi *fileInfo) Sys() any           { return nil }
