package sdoc

import (
	"encoding/binary"
	"math/bits"

	"github.com/halvarsson/sdoc/internal/tag"
	"github.com/halvarsson/sdoc/internal/varint"
)

// The write*Width/readFixedOrVarint* helpers below implement §4.1's "better-than-fixed"
// heuristic per integer width: each chooses, at encode time, between the
// tag's Fixed and Varint forms and writes whichever is strictly shorter
// (ties go to fixed), then tags the choice in the leading byte so decode
// never has to guess.

func putUint128LE(dst []byte, v Uint128) {
	binary.LittleEndian.PutUint64(dst[0:8], v.Lo)
	binary.LittleEndian.PutUint64(dst[8:16], v.Hi)
}

func getUint128LE(b []byte) Uint128 {
	return Uint128{Lo: binary.LittleEndian.Uint64(b[0:8]), Hi: binary.LittleEndian.Uint64(b[8:16])}
}

// appendVarint128 streams a Uint128 as a sequence of base-128 groups, one
// limb-crossing shift at a time: identical bit layout to the 64-bit form,
// just carried out across two words.
func appendVarint128(dst []byte, v Uint128) []byte {
	for {
		b := byte(v.Lo & 0x7f)
		v.Lo >>= 7
		v.Lo |= (v.Hi & 0x7f) << 57
		v.Hi >>= 7
		if v.Lo != 0 || v.Hi != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		return append(dst, b)
	}
}

func readVarint128(src *byteSource) (Uint128, error) {
	var v Uint128
	var shift uint
	for {
		b, err := src.ReadByte()
		if err != nil {
			return Uint128{}, err
		}
		chunk := uint64(b & 0x7f)
		if shift < 64 {
			v.Lo |= chunk << shift
			if shift+7 > 64 {
				v.Hi |= chunk >> (64 - shift)
			}
		} else {
			v.Hi |= chunk << (shift - 64)
		}
		if b&0x80 == 0 {
			return v, nil
		}
		shift += 7
		if shift >= 128 {
			return Uint128{}, varint.ErrValueTooBig
		}
	}
}

func appendSignedVarint128(dst []byte, v Int128) []byte {
	mag, neg := v.abs()
	first := byte(mag.Lo & 0x3f)
	lo := mag.Lo >> 6
	lo |= (mag.Hi & 0x3f) << 58
	hi := mag.Hi >> 6
	if neg {
		first |= 0x40
	}
	if lo == 0 && hi == 0 {
		return append(dst, first)
	}
	dst = append(dst, first|0x80)
	return appendVarint128(dst, Uint128{Hi: hi, Lo: lo})
}

func readSignedVarint128(src *byteSource) (Int128, error) {
	first, err := src.ReadByte()
	if err != nil {
		return Int128{}, err
	}
	neg := first&0x40 != 0
	mag := Uint128{Lo: uint64(first & 0x3f)}

	if first&0x80 != 0 {
		rest, err := readVarint128(src)
		if err != nil {
			return Int128{}, err
		}
		mag.Lo |= rest.Lo << 6
		mag.Hi = (rest.Lo >> 58) | (rest.Hi << 6)
	}

	if neg && mag.Lo == 0 && mag.Hi == 0 {
		return Int128{}, varint.ErrInvalidSignedValue
	}

	return int128FromMagnitude(mag, neg), nil
}

func leadingZeros128(v Uint128) int {
	if v.Hi != 0 {
		return bits.LeadingZeros64(v.Hi)
	}
	return 64 + bits.LeadingZeros64(v.Lo)
}

// --- unsigned integers ---

func (vw *ValueWriter) writeUnsignedWidth(v uint64, width int, fixedTag, varintTag tag.Tag) error {
	lz := bits.LeadingZeros64(v) - (64 - width*8)
	if lz < 0 {
		lz = 0
	}
	if varint.IsBetterThanFixed(lz, width, false) {
		if err := vw.writeTag(varintTag); err != nil {
			return err
		}
		return vw.state.sink.writeUnsigned(v)
	}
	if err := vw.writeTag(fixedTag); err != nil {
		return err
	}
	buf := make([]byte, width)
	switch width {
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(buf, v)
	}
	return vw.state.sink.Write(buf)
}

func (vw *ValueWriter) writeSignedWidth(v int64, width int, fixedTag, varintTag tag.Tag) error {
	var mag uint64
	if v < 0 {
		mag = uint64(-(v + 1)) + 1
	} else {
		mag = uint64(v)
	}
	lz := bits.LeadingZeros64(mag) - (64 - width*8)
	if lz < 0 {
		lz = 0
	}
	if varint.IsBetterThanFixed(lz, width, true) {
		if err := vw.writeTag(varintTag); err != nil {
			return err
		}
		return vw.state.sink.writeSigned(v)
	}
	if err := vw.writeTag(fixedTag); err != nil {
		return err
	}
	buf := make([]byte, width)
	switch width {
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(int16(v)))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(int32(v)))
	case 8:
		binary.LittleEndian.PutUint64(buf, uint64(v))
	}
	return vw.state.sink.Write(buf)
}

func (r *ValueReader) readFixedOrVarintUnsigned(width int, fixed bool) (uint64, error) {
	if !fixed {
		return r.state.source.readUnsigned()
	}
	b, err := r.state.source.read(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(b)), nil
	case 8:
		return binary.LittleEndian.Uint64(b), nil
	}
	return 0, nil
}

func (r *ValueReader) readFixedOrVarintSigned(width int, fixed bool) (int64, error) {
	if !fixed {
		return r.state.source.readSigned()
	}
	b, err := r.state.source.read(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(b))), nil
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(b))), nil
	case 8:
		return int64(binary.LittleEndian.Uint64(b)), nil
	}
	return 0, nil
}
