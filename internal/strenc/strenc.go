// Package strenc encodes arbitrary binary data as the body of a
// double-quoted Go string literal.
//
// The transform is lossless: unquoting the emitted text (for example
// with strconv.Unquote) reproduces the exact input bytes. The encoder
// operates as a true stream with bounded memory, so embedded files of
// any size can be rendered without buffering them.
package strenc

import "io"

const upperhex = "0123456789ABCDEF"

// Encoder is a streaming byte-to-literal encoder. Bytes written to it
// are appended to the underlying writer in escaped form.
//
// Escaping rules:
//   - '"' and '\' get a leading backslash.
//   - backspace, tab, newline, vertical tab, form feed, and carriage
//     return use their mnemonic forms (\b, \t, \n, \v, \f, \r).
//   - printable ASCII (0x20-0x7E) passes through unchanged.
//   - every other byte renders as \xHH with uppercase, zero-padded hex.
type Encoder struct {
	w   io.Writer
	buf []byte
}

// New returns an Encoder writing escaped text to w.
func New(w io.Writer) *Encoder {
	return &Encoder{w: w, buf: make([]byte, 0, 4096)}
}

// Write implements io.Writer. On success it reports len(p) bytes
// consumed regardless of how much escaped text was produced.
func (e *Encoder) Write(p []byte) (int, error) {
	done := 0
	e.buf = e.buf[:0]
	for i, b := range p {
		if len(e.buf) > cap(e.buf)-4 {
			if err := e.flush(); err != nil {
				return done, err
			}
			done = i
		}
		switch {
		case b == '"' || b == '\\':
			e.buf = append(e.buf, '\\', b)
		case b == '\b':
			e.buf = append(e.buf, '\\', 'b')
		case b == '\t':
			e.buf = append(e.buf, '\\', 't')
		case b == '\n':
			e.buf = append(e.buf, '\\', 'n')
		case b == '\v':
			e.buf = append(e.buf, '\\', 'v')
		case b == '\f':
			e.buf = append(e.buf, '\\', 'f')
		case b == '\r':
			e.buf = append(e.buf, '\\', 'r')
		case b >= 0x20 && b <= 0x7E:
			e.buf = append(e.buf, b)
		default:
			e.buf = append(e.buf, '\\', 'x', upperhex[b>>4], upperhex[b&0xF])
		}
	}
	if err := e.flush(); err != nil {
		return done, err
	}
	return len(p), nil
}

func (e *Encoder) flush() error {
	if len(e.buf) == 0 {
		return nil
	}
	_, err := e.w.Write(e.buf)
	e.buf = e.buf[:0]
	return err
}
