// Package varint implements the variable-length integer encodings used on
// the wire: unsigned little-endian base-128, and a signed form that steals
// bit 6 of the first byte for the sign instead of zigzag-encoding.
package varint

import "github.com/pkg/errors"

// ErrValueTooBig is returned when an unsigned varint would overflow the
// requested bit width during decode.
var ErrValueTooBig = errors.New("varint: value too big for target width")

// ErrInvalidSignedValue is returned for a negative-zero bit pattern, or a
// magnitude that exceeds the signed range being decoded into.
var ErrInvalidSignedValue = errors.New("varint: invalid signed value")

// ByteReader is the minimal surface varint decoding needs from a source.
type ByteReader interface {
	ReadByte() (byte, error)
}

// ByteWriter is the minimal surface varint encoding needs from a sink.
type ByteWriter interface {
	WriteByte(byte) error
}

// AppendUnsigned appends the base-128 encoding of v to dst, emitting the
// minimum number of bytes required, and returns the grown slice.
func AppendUnsigned(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// WriteUnsigned streams the base-128 encoding of v to w one byte at a time.
func WriteUnsigned(w ByteWriter, v uint64) error {
	for v >= 0x80 {
		if err := w.WriteByte(byte(v) | 0x80); err != nil {
			return err
		}
		v >>= 7
	}
	return w.WriteByte(byte(v))
}

// ReadUnsigned decodes a base-128 unsigned varint, rejecting accumulations
// that would overflow 64 bits.
func ReadUnsigned(r ByteReader) (uint64, error) {
	var v uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift >= 63 && b > 1 {
			return 0, ErrValueTooBig
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, nil
		}
		shift += 7
	}
}

// ReadUnsignedWidth decodes an unsigned varint that must fit within the
// given bit width (8, 16, 32 or 64).
func ReadUnsignedWidth(r ByteReader, width int) (uint64, error) {
	v, err := ReadUnsigned(r)
	if err != nil {
		return 0, err
	}
	if width < 64 && v>>uint(width) != 0 {
		return 0, ErrValueTooBig
	}
	return v, nil
}

// AppendSigned appends the signed varint encoding of v: the first byte
// dedicates bit 6 to the sign (1 = negative) and bits 0-5 to the six
// least-significant magnitude bits, bit 7 remains the continuation bit.
// Subsequent bytes are identical to the unsigned form.
func AppendSigned(dst []byte, v int64) []byte {
	neg := v < 0
	var mag uint64
	if neg {
		// avoid overflow on math.MinInt64 by biasing before negating
		mag = uint64(-(v + 1)) + 1
	} else {
		mag = uint64(v)
	}

	first := byte(mag & 0x3f)
	mag >>= 6
	if neg {
		first |= 0x40
	}
	if mag == 0 {
		return append(dst, first)
	}
	dst = append(dst, first|0x80)
	return AppendUnsigned(dst, mag)
}

// WriteSigned streams the signed varint encoding of v to w.
func WriteSigned(w ByteWriter, v int64) error {
	neg := v < 0
	var mag uint64
	if neg {
		mag = uint64(-(v + 1)) + 1
	} else {
		mag = uint64(v)
	}

	first := byte(mag & 0x3f)
	mag >>= 6
	if neg {
		first |= 0x40
	}
	if mag == 0 {
		return w.WriteByte(first)
	}
	if err := w.WriteByte(first | 0x80); err != nil {
		return err
	}
	return WriteUnsigned(w, mag)
}

// ReadSigned decodes a signed varint, reconstructing magnitude and sign
// separately. For the minimum representable value it computes
// -(magnitude-1) - 1 to avoid signed overflow during negation.
func ReadSigned(r ByteReader) (int64, error) {
	first, err := r.ReadByte()
	if err != nil {
		return 0, err
	}

	neg := first&0x40 != 0
	mag := uint64(first & 0x3f)

	if first&0x80 != 0 {
		rest, err := ReadUnsigned(r)
		if err != nil {
			return 0, err
		}
		if rest > (1<<58)-1 {
			return 0, ErrInvalidSignedValue
		}
		mag |= rest << 6
	}

	if neg {
		if mag == 0 {
			return 0, ErrInvalidSignedValue
		}
		if mag-1 > 1<<63-1 {
			return 0, ErrInvalidSignedValue
		}
		return -int64(mag-1) - 1, nil
	}

	if mag > 1<<63-1 {
		return 0, ErrInvalidSignedValue
	}
	return int64(mag), nil
}

// ReadSignedWidth decodes a signed varint that must fit within the given
// bit width (8, 16, 32 or 64).
func ReadSignedWidth(r ByteReader, width int) (int64, error) {
	v, err := ReadSigned(r)
	if err != nil {
		return 0, err
	}
	if width < 64 {
		lo := int64(-1) << uint(width-1)
		hi := -lo - 1
		if v < lo || v > hi {
			return 0, ErrInvalidSignedValue
		}
	}
	return v, nil
}

// IsBetterThanFixed reports whether encoding a value with `leadingZeros`
// leading zero bits as a varint would strictly beat a fixed-width encoding
// of `width` bytes by at least one byte. Ties go to fixed.
func IsBetterThanFixed(leadingZeros, width int, signed bool) bool {
	signBits := 7
	if signed {
		signBits = 6
	}
	usefulBits := width*8 - leadingZeros - signBits
	if usefulBits < 0 {
		usefulBits = 0
	}
	varintLen := 1 + (usefulBits+6)/7
	return width > varintLen
}
