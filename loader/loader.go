// Package loader implements the build-time pipeline that turns a
// directory tree into embeddable Go source.
//
// Load walks a root directory, narrows the file set with include and
// exclude glob patterns, gzip-compresses each file (unless the source
// is already gzip-encoded), and emits one self-contained Record
// construction statement per file. Size accounting happens in the same
// streaming pass; the run fails when the total compressed size exceeds
// the configured limit.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"

	"github.com/schovi/baked-file-system/internal/globber"
	"github.com/schovi/baked-file-system/internal/strenc"
)

// Sentinel errors for root path validation and the emptiness policy.
var (
	// ErrNotDirectory is returned when the root path exists but is not a
	// directory.
	ErrNotDirectory = errors.New("loader: not a directory")

	// ErrNotReadable is returned when the root directory cannot be opened
	// for reading.
	ErrNotReadable = errors.New("loader: not readable")

	// ErrNoFiles is returned when no files survive filtering and
	// AllowEmpty was not set.
	ErrNoFiles = errors.New("loader: no files to bake")
)

// Extensions whose content is already gzip-encoded. Such files are
// embedded verbatim and flagged Compressed so they are never gzipped a
// second time.
var precompressedExts = map[string]struct{}{
	".gz":   {},
	".svgz": {},
	".tgz":  {},
}

// config holds settings for one Load run.
type config struct {
	fsys            afero.Fs
	includeDotfiles bool
	include         []string
	exclude         []string
	maxSize         int64
	allowEmpty      bool
	diagnostics     io.Writer
	addFunc         string
	logger          *slog.Logger
}

// Option configures a Load run.
type Option func(*config)

// WithFS sets the source file system to scan. Defaults to the OS file
// system; tests use an in-memory one.
func WithFS(fsys afero.Fs) Option {
	return func(cfg *config) {
		cfg.fsys = fsys
	}
}

// IncludeDotfiles includes files and directories whose name starts with
// a dot. They are excluded by default.
func IncludeDotfiles() Option {
	return func(cfg *config) {
		cfg.includeDotfiles = true
	}
}

// WithInclude adds include patterns. When any are set, only files
// matching at least one of them are baked.
func WithInclude(patterns ...string) Option {
	return func(cfg *config) {
		cfg.include = append(cfg.include, patterns...)
	}
}

// WithExclude adds exclude patterns. Files matching any of them are
// dropped, after includes are applied.
func WithExclude(patterns ...string) Option {
	return func(cfg *config) {
		cfg.exclude = append(cfg.exclude, patterns...)
	}
}

// WithMaxSize caps the total compressed size in bytes for this run,
// taking precedence over the BAKED_MAX_SIZE environment variable.
func WithMaxSize(n int64) Option {
	return func(cfg *config) {
		cfg.maxSize = n
	}
}

// AllowEmpty makes a run that bakes zero files succeed instead of
// failing with ErrNoFiles.
func AllowEmpty() Option {
	return func(cfg *config) {
		cfg.allowEmpty = true
	}
}

// WithDiagnostics sets the writer for the stats report. It is distinct
// from the code output and defaults to io.Discard.
func WithDiagnostics(w io.Writer) Option {
	return func(cfg *config) {
		cfg.diagnostics = w
	}
}

// WithAddFunc sets the function name the emitted statements call.
// Defaults to "add".
func WithAddFunc(name string) Option {
	return func(cfg *config) {
		cfg.addFunc = name
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// log returns the logger, falling back to a discard logger if nil.
func (cfg *config) log() *slog.Logger {
	if cfg.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg.logger
}

// Load bakes every surviving file under root into w, one statement per
// file of the form
//
//	add(baked.Record{Path: "/x", Size: 12, Compressed: false, Data: "..."})
//
// in deterministic (lexical) traversal order. Directories are never
// emitted. The stats report goes to the diagnostics writer after all
// files are written; a total compressed size over the effective limit
// fails the run with ErrSizeExceeded.
//
// Load validates root before traversal and returns a *fs.PathError
// wrapping fs.ErrNotExist, ErrNotDirectory, or ErrNotReadable.
//
// Load does not reject duplicate paths: merging several roots into one
// registry is legal, and uniqueness is enforced by FS.Add at runtime.
func Load(w io.Writer, root string, opts ...Option) error {
	cfg := config{
		fsys:        afero.NewOsFs(),
		diagnostics: io.Discard,
		addFunc:     "add",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := checkRoot(&cfg, root); err != nil {
		return err
	}

	files, err := enumerate(cfg.fsys, root, cfg.includeDotfiles)
	if err != nil {
		return fmt.Errorf("loader: walk %s: %w", root, err)
	}
	files = globber.Filter(files, cfg.include, cfg.exclude)
	if len(files) == 0 && !cfg.allowEmpty {
		return fmt.Errorf("%w under %s", ErrNoFiles, root)
	}

	cfg.log().Info("baking folder", "root", root, "files", len(files))

	stats := &Stats{}
	for _, rel := range files {
		if err := bakeFile(&cfg, w, root, rel, stats); err != nil {
			return err
		}
	}

	return stats.Report(cfg.diagnostics, cfg.maxSize)
}

// checkRoot validates the root path before any traversal. Each failure
// reason is distinct so build tooling can report precisely.
func checkRoot(cfg *config, root string) error {
	info, err := cfg.fsys.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &fs.PathError{Op: "load", Path: root, Err: fs.ErrNotExist}
		}
		return &fs.PathError{Op: "load", Path: root, Err: err}
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "load", Path: root, Err: ErrNotDirectory}
	}
	dir, err := cfg.fsys.Open(root)
	if err != nil {
		return &fs.PathError{Op: "load", Path: root, Err: ErrNotReadable}
	}
	return dir.Close()
}

// enumerate walks root and returns slash-separated paths relative to it,
// in lexical order. Directories are skipped; dotfiles and dot-directories
// are skipped unless dotfiles is set.
func enumerate(fsys afero.Fs, root string, dotfiles bool) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if !dotfiles && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}

// bakeFile compresses and encodes one file into w as a single statement
// and records its sizes. The compressed size is measured by counting
// bytes on their way into the string encoder, so the whole file is
// handled in one streaming pass.
func bakeFile(cfg *config, w io.Writer, root, rel string, stats *Stats) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	src, err := cfg.fsys.Open(full)
	if err != nil {
		return fmt.Errorf("loader: open %s: %w", full, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("loader: stat %s: %w", full, err)
	}
	size := info.Size()
	bakedPath := "/" + rel

	_, pre := precompressedExts[strings.ToLower(path.Ext(rel))]

	if _, err := fmt.Fprintf(w, "%s(baked.Record{Path: %q, Size: %d, Compressed: %t, Data: \"",
		cfg.addFunc, bakedPath, size, pre); err != nil {
		return err
	}

	counter := &countingWriter{w: strenc.New(w)}
	if pre {
		// Already gzip-encoded: embed verbatim.
		if _, err := io.Copy(counter, src); err != nil {
			return fmt.Errorf("loader: copy %s: %w", full, err)
		}
	} else {
		gz, err := gzip.NewWriterLevel(counter, gzip.DefaultCompression)
		if err != nil {
			return fmt.Errorf("loader: gzip %s: %w", full, err)
		}
		if _, err := io.Copy(gz, src); err != nil {
			return fmt.Errorf("loader: compress %s: %w", full, err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("loader: compress %s: %w", full, err)
		}
	}

	if _, err := io.WriteString(w, "\"})\n"); err != nil {
		return err
	}

	stats.AddFile(bakedPath, size, counter.n)
	cfg.log().Debug("baked file",
		"path", bakedPath, "size", size, "compressed_size", counter.n, "precompressed", pre)
	return nil
}
