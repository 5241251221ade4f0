package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Faultbox/midgard-robj/pkg/encoding"
)

// ErrTruncated reports a read past the end of a binary file.
var ErrTruncated = errors.New("truncated data")

// binReader reads little-endian values and keeps the first error,
// so parsers can read a whole record and check once.
type binReader struct {
	r   *bytes.Reader
	err error
}

func newBinReader(data []byte) *binReader {
	return &binReader{r: bytes.NewReader(data)}
}

func (b *binReader) read(v any) {
	if b.err != nil {
		return
	}
	if err := binary.Read(b.r, binary.LittleEndian, v); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrTruncated
		}
		b.err = err
	}
}

func (b *binReader) u8() uint8 {
	var v uint8
	b.read(&v)
	return v
}

func (b *binReader) i32() int32 {
	var v int32
	b.read(&v)
	return v
}

func (b *binReader) f32() float32 {
	var v float32
	b.read(&v)
	return v
}

func (b *binReader) vec3() [3]float32 {
	var v [3]float32
	b.read(&v)
	return v
}

// count reads an int32 element count and checks it against limit.
func (b *binReader) count(what string, limit int32) int {
	n := b.i32()
	if b.err == nil && (n < 0 || n > limit) {
		b.err = fmt.Errorf("%w: %s count %d", ErrInvalidCount, what, n)
	}
	if b.err != nil {
		return 0
	}
	return int(n)
}

// str reads a fixed-length, NUL-padded EUC-KR string.
func (b *binReader) str(length int) string {
	buf := make([]byte, length)
	b.read(buf)
	if b.err != nil {
		return ""
	}
	return encoding.FixedStringToUTF8(buf)
}

func (b *binReader) skip(n int64) {
	if b.err != nil {
		return
	}
	if int64(b.r.Len()) < n {
		b.err = ErrTruncated
		return
	}
	_, b.err = b.r.Seek(n, io.SeekCurrent)
}

func (b *binReader) remaining() int {
	return b.r.Len()
}
