package tabfile

// streaming.go holds the io.Reader wrappers applied to CSV input before it
// reaches encoding/csv:
//
//   - BOMSkippingReader drops a leading UTF-8 byte order mark
//   - UTF8ValidatingReader fails with ErrEncoding on invalid UTF-8
//   - CountingReader tracks how many bytes were consumed

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BOMSkippingReader removes a UTF-8 BOM from the start of the stream.
type BOMSkippingReader struct {
	reader  io.Reader
	checked bool
	head    []byte
}

// NewBOMSkippingReader wraps r.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{reader: r}
}

// Read implements io.Reader.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		buf := make([]byte, len(utf8BOM))
		n, err := io.ReadFull(r.reader, buf)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return 0, err
		}
		if n == len(utf8BOM) && bytes.Equal(buf, utf8BOM) {
			n = 0
		}
		r.head = buf[:n]
	}

	if len(r.head) > 0 {
		n := copy(p, r.head)
		r.head = r.head[n:]
		return n, nil
	}
	return r.reader.Read(p)
}

// UTF8ValidatingReader passes bytes through unchanged and returns an
// ErrEncoding error at the first invalid UTF-8 sequence. Multi-byte runes
// split across reads are carried over to the next call.
type UTF8ValidatingReader struct {
	reader io.Reader
	buf    []byte
	ready  []byte
	carry  int
	offset int64
	err    error
}

// NewUTF8ValidatingReader wraps r.
func NewUTF8ValidatingReader(r io.Reader) *UTF8ValidatingReader {
	return &UTF8ValidatingReader{reader: r, buf: make([]byte, 32*1024)}
}

// Read implements io.Reader.
func (v *UTF8ValidatingReader) Read(p []byte) (int, error) {
	for len(v.ready) == 0 {
		if v.err != nil {
			return 0, v.err
		}
		v.fill()
	}
	n := copy(p, v.ready)
	v.ready = v.ready[n:]
	return n, nil
}

// fill reads the next chunk and validates everything but an unfinished
// trailing rune, which is kept for the next chunk.
func (v *UTF8ValidatingReader) fill() {
	n, err := v.reader.Read(v.buf[v.carry:])
	n += v.carry
	data := v.buf[:n]

	keep := 0
	if err == nil {
		keep = incompleteTrailingBytes(data)
	}
	complete := data[:n-keep]

	if bad := firstInvalid(complete); bad >= 0 {
		v.err = fmt.Errorf("%w: invalid UTF-8 at byte %d", ErrEncoding, v.offset+int64(bad))
		return
	}

	// Hand out a copy so the buffer can be refilled.
	v.ready = append([]byte(nil), complete...)
	v.carry = copy(v.buf, data[n-keep:])
	v.offset += int64(len(complete))
	v.err = err
}

// firstInvalid returns the index of the first invalid UTF-8 sequence in data,
// or -1.
func firstInvalid(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// incompleteTrailingBytes returns the number of bytes at the end of data
// that start a multi-byte sequence not yet complete.
func incompleteTrailingBytes(data []byte) int {
	for i := 1; i <= 3 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b >= 0xC0 {
			if i < runeLen(b) {
				return i
			}
			return 0
		}
		if b&0xC0 != 0x80 {
			return 0
		}
	}
	return 0
}

// runeLen returns the length of a UTF-8 sequence starting with b.
func runeLen(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	}
	return 4
}

// CountingReader counts the bytes read through it.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
}

// NewCountingReader wraps r.
func NewCountingReader(r io.Reader) *CountingReader {
	return &CountingReader{reader: r}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// WrapCSVInput applies BOM stripping then UTF-8 validation.
func WrapCSVInput(r io.Reader) io.Reader {
	return NewUTF8ValidatingReader(NewBOMSkippingReader(r))
}
