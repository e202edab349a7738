package loader

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xyproto/env/v2"
)

// Size policy defaults. The totals can be overridden per call
// (WithMaxSize) or via the environment; the per-file advisory threshold
// is fixed.
const (
	// DefaultMaxSize is the hard cap on total compressed bytes (50 MB).
	DefaultMaxSize = 50 << 20

	// DefaultWarningSize is the advisory threshold for total compressed
	// bytes (10 MB).
	DefaultWarningSize = 10 << 20

	// LargeFileSize is the per-file advisory threshold (1 MB compressed).
	LargeFileSize = 1 << 20
)

// Environment variables consumed by Stats.Report. Both hold byte counts.
const (
	EnvMaxSize     = "BAKED_MAX_SIZE"
	EnvWarningSize = "BAKED_WARNING_SIZE"
)

// ErrSizeExceeded is returned by Stats.Report when the total compressed
// size is over the effective limit. It is the only fatal condition in
// size accounting and must abort the surrounding build.
var ErrSizeExceeded = errors.New("loader: total compressed size exceeds limit")

type largeFile struct {
	path           string
	compressedSize int64
}

// Stats accumulates size accounting across one Load run.
type Stats struct {
	FileCount         int
	TotalUncompressed int64
	TotalCompressed   int64

	large []largeFile
}

// AddFile records one baked file. Files at or above LargeFileSize
// compressed are remembered for the report.
func (s *Stats) AddFile(path string, uncompressedSize, compressedSize int64) {
	s.FileCount++
	s.TotalUncompressed += uncompressedSize
	s.TotalCompressed += compressedSize
	if compressedSize >= LargeFileSize {
		s.large = append(s.large, largeFile{path: path, compressedSize: compressedSize})
	}
}

// CompressionRatio returns total compressed bytes as a percentage of
// total uncompressed bytes, or 0 when nothing has been recorded.
func (s *Stats) CompressionRatio() float64 {
	if s.TotalUncompressed == 0 {
		return 0
	}
	return float64(s.TotalCompressed) / float64(s.TotalUncompressed) * 100
}

// Report writes a human-readable summary to w and enforces the size
// policy.
//
// Large files and the aggregate warning are advisories only. The report
// fails with ErrSizeExceeded when total compressed bytes are over the
// effective limit: maxOverride when positive, else EnvMaxSize, else
// DefaultMaxSize.
func (s *Stats) Report(w io.Writer, maxOverride int64) error {
	fmt.Fprintf(w, "baked %d files: %s compressed, %s uncompressed (%.1f%%)\n",
		s.FileCount, byteSize(s.TotalCompressed), byteSize(s.TotalUncompressed), s.CompressionRatio())

	for _, lf := range s.large {
		fmt.Fprintf(w, "  large file %s: %s compressed\n", lf.path, byteSize(lf.compressedSize))
	}

	warning := envSize(EnvWarningSize, DefaultWarningSize)
	if s.TotalCompressed >= warning {
		fmt.Fprintf(w, "warning: total compressed size %s is above %s\n",
			byteSize(s.TotalCompressed), byteSize(warning))
	}

	limit := maxOverride
	if limit <= 0 {
		limit = envSize(EnvMaxSize, DefaultMaxSize)
	}
	if s.TotalCompressed > limit {
		return fmt.Errorf("%w: %s > %s", ErrSizeExceeded,
			byteSize(s.TotalCompressed), byteSize(limit))
	}
	return nil
}

// envSize reads a byte count from the environment, falling back when
// the variable is absent or not a positive integer.
func envSize(name string, fallback int64) int64 {
	s := env.Str(name)
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// byteSize renders a byte count with a binary unit suffix.
func byteSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1fGiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
