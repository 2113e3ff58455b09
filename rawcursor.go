package sdoc

import (
	"io"

	"github.com/halvarsson/sdoc/internal/varint"
)

// rawCursor is a position-tracked cursor over an in-memory byte slice, used
// as the io.Reader behind RawValue's inject walk and behind FromBytes and
// ValueFrom. It satisfies both io.ByteReader and io.Reader, so it drops
// straight into newByteSource; every current caller reads it through such a
// byteSource rather than through its own read/readUnsigned/readSigned.
type rawCursor struct {
	bytes    []byte
	position int
}

func newRawCursor(b []byte) *rawCursor {
	return &rawCursor{bytes: b}
}

// ReadByte extracts the next byte, satisfying io.ByteReader.
func (r *rawCursor) ReadByte() (byte, error) {
	if r.position >= len(r.bytes) {
		return 0, io.EOF
	}
	b := r.bytes[r.position]
	r.position++
	return b, nil
}

// Read satisfies io.Reader, copying into p and advancing the cursor.
func (r *rawCursor) Read(p []byte) (int, error) {
	if r.position >= len(r.bytes) {
		return 0, io.EOF
	}
	n := copy(p, r.bytes[r.position:])
	r.position += n
	return n, nil
}

// read extracts the next n bytes as a sub-slice (no copy).
func (r *rawCursor) read(n int) ([]byte, error) {
	if r.position+n > len(r.bytes) {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.bytes[r.position : r.position+n]
	r.position += n
	return b, nil
}

func (r *rawCursor) readUnsigned() (uint64, error) {
	return varint.ReadUnsigned(r)
}

func (r *rawCursor) readSigned() (int64, error) {
	return varint.ReadSigned(r)
}
