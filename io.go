package sdoc

import (
	"io"

	"github.com/pkg/errors"

	"github.com/halvarsson/sdoc/internal/varint"
)

// byteSink adapts an io.Writer to the small, many-small-writes surface the
// encoder needs. Callers are expected to wrap the underlying io.Writer in a
// buffering layer (e.g. bufio.Writer) themselves; this type does not buffer.
type byteSink struct {
	w   io.Writer
	one [1]byte
}

func newByteSink(w io.Writer) *byteSink {
	return &byteSink{w: w}
}

func (s *byteSink) WriteByte(b byte) error {
	s.one[0] = b
	_, err := s.w.Write(s.one[:])
	return err
}

func (s *byteSink) Write(b []byte) error {
	_, err := s.w.Write(b)
	return err
}

func (s *byteSink) writeUnsigned(v uint64) error {
	return varint.WriteUnsigned(s, v)
}

func (s *byteSink) writeSigned(v int64) error {
	return varint.WriteSigned(s, v)
}

// byteSource adapts an io.Reader to the sequential-access surface the
// decoder needs, including the single-byte peek slot unbounded containers
// use to detect the End sentinel without consuming it.
type byteSource struct {
	r         io.Reader
	one       [1]byte
	peeked    bool
	peekByte  byte
	bytesRead uint64
}

func newByteSource(r io.Reader) *byteSource {
	return &byteSource{r: r}
}

func (s *byteSource) ReadByte() (byte, error) {
	if s.peeked {
		s.peeked = false
		s.bytesRead++
		return s.peekByte, nil
	}
	if _, err := io.ReadFull(s.r, s.one[:]); err != nil {
		if err == io.EOF {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, err
	}
	s.bytesRead++
	return s.one[0], nil
}

// peek returns the next byte without consuming it, caching it for the next
// ReadByte/peek call.
func (s *byteSource) peek() (byte, error) {
	if s.peeked {
		return s.peekByte, nil
	}
	if _, err := io.ReadFull(s.r, s.one[:]); err != nil {
		if err == io.EOF {
			return 0, io.ErrUnexpectedEOF
		}
		return 0, err
	}
	s.peeked = true
	s.peekByte = s.one[0]
	return s.peekByte, nil
}

func (s *byteSource) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	start := 0
	if s.peeked && n > 0 {
		buf[0] = s.peekByte
		s.peeked = false
		start = 1
	}
	if start < n {
		if _, err := io.ReadFull(s.r, buf[start:]); err != nil {
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, errors.Wrap(err, "sdoc: short read")
		}
	}
	s.bytesRead += uint64(n - start)
	return buf, nil
}

func (s *byteSource) readUnsigned() (uint64, error) {
	return varint.ReadUnsigned(s)
}

func (s *byteSource) readSigned() (int64, error) {
	return varint.ReadSigned(s)
}
