package baked

// Record is the build-time-generated, immutable description of one
// embedded file. Records are produced by the loader and held by an [FS]
// for the life of the process.
type Record struct {
	// Path is the file path relative to the baked root. It always starts
	// with "/" and uses forward-slash separators on every platform.
	Path string

	// Size is the uncompressed size in bytes.
	Size int64

	// Compressed reports that the source file was already gzip-encoded
	// (a .gz file, for example). Such bytes are stored and served
	// verbatim; all other records hold the gzip encoding of the source
	// and are inflated transparently on read.
	Compressed bool

	// Data holds the stored bytes. A string keeps the generated literal
	// immutable and allocation-free at init time.
	Data string
}
