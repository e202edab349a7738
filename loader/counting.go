package loader

import "io"

// countingWriter passes writes through and counts bytes written. The
// compressor emits into one of these so the compressed size of each
// file is measured during the single streaming pass, without buffering.
type countingWriter struct {
	w io.Writer
	n int64
}

// Write implements io.Writer.
func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	if n > 0 {
		cw.n += int64(n)
	}
	return n, err
}
