package varint_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/halvarsson/sdoc/internal/varint"
)

type byteBuf struct{ b []byte }

func (w *byteBuf) WriteByte(c byte) error { w.b = append(w.b, c); return nil }

func TestUnsignedRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 255, 256, 1 << 20, math.MaxUint64, math.MaxUint64 - 1}
	for _, v := range values {
		buf := &byteBuf{}
		if err := varint.WriteUnsigned(buf, v); err != nil {
			t.Fatalf("WriteUnsigned(%d): %v", v, err)
		}
		got, err := varint.ReadUnsigned(bytes.NewReader(buf.b))
		if err != nil {
			t.Fatalf("ReadUnsigned(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d: got %d", v, got)
		}
	}
}

func TestSignedRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 63, -63, 64, -64, 1 << 20, -(1 << 20), math.MaxInt64, math.MinInt64}
	for _, v := range values {
		buf := &byteBuf{}
		if err := varint.WriteSigned(buf, v); err != nil {
			t.Fatalf("WriteSigned(%d): %v", v, err)
		}
		got, err := varint.ReadSigned(bytes.NewReader(buf.b))
		if err != nil {
			t.Fatalf("ReadSigned(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d: got %d", v, got)
		}
	}
}

// TestWriteSignedZeroIsOneByte pins spec.md's wire-format guarantee that
// write_signed(0) emits a single byte with the sign bit clear.
func TestWriteSignedZeroIsOneByte(t *testing.T) {
	buf := &byteBuf{}
	if err := varint.WriteSigned(buf, 0); err != nil {
		t.Fatalf("WriteSigned(0): %v", err)
	}
	if len(buf.b) != 1 {
		t.Fatalf("WriteSigned(0) wrote %d bytes, want 1", len(buf.b))
	}
	if buf.b[0] != 0x00 {
		t.Fatalf("WriteSigned(0) = 0x%02x, want 0x00", buf.b[0])
	}
}

// TestReadSignedRejectsNegativeZero pins the reserved bit pattern: sign bit
// set, zero magnitude, no continuation byte.
func TestReadSignedRejectsNegativeZero(t *testing.T) {
	_, err := varint.ReadSigned(bytes.NewReader([]byte{0x40}))
	if err != varint.ErrInvalidSignedValue {
		t.Fatalf("negative zero: got %v, want ErrInvalidSignedValue", err)
	}
}

func TestReadUnsignedWidthRejectsOverflow(t *testing.T) {
	buf := &byteBuf{}
	if err := varint.WriteUnsigned(buf, 256); err != nil {
		t.Fatalf("WriteUnsigned: %v", err)
	}
	if _, err := varint.ReadUnsignedWidth(bytes.NewReader(buf.b), 8); err != varint.ErrValueTooBig {
		t.Fatalf("256 into width-8: got %v, want ErrValueTooBig", err)
	}
}

func TestReadSignedWidthRejectsOverflow(t *testing.T) {
	buf := &byteBuf{}
	if err := varint.WriteSigned(buf, 200); err != nil {
		t.Fatalf("WriteSigned: %v", err)
	}
	if _, err := varint.ReadSignedWidth(bytes.NewReader(buf.b), 8); err != varint.ErrInvalidSignedValue {
		t.Fatalf("200 into signed width-8: got %v, want ErrInvalidSignedValue", err)
	}
}

// TestIsBetterThanFixedS1 pins spec.md §8 scenario S1's 16-bit boundary:
// 127 is cheaper as a varint (2 bytes total incl. tag vs 3 for fixed), 128
// flips to fixed (3 bytes either way, ties go to fixed).
func TestIsBetterThanFixedS1(t *testing.T) {
	// v=127 fits in 7 bits -> leadingZeros128-equivalent for a 16-bit
	// unsigned value is 9 (16 - 7 useful bits).
	if !varint.IsBetterThanFixed(9, 2, false) {
		t.Fatalf("127 (9 leading zero bits of 16): want varint to win")
	}
	// v=128 needs 8 bits -> leadingZeros is 8, two varint bytes tie a
	// 2-byte fixed width, and ties go to fixed.
	if varint.IsBetterThanFixed(8, 2, false) {
		t.Fatalf("128 (8 leading zero bits of 16): want fixed to win (tie)")
	}
}

func TestIsBetterThanFixedSignedConsumesSignBit(t *testing.T) {
	// The sign bit eats one more bit of headroom than the unsigned case, so
	// the unsigned winning point (9 leading zero bits of 16) is no longer
	// enough to beat fixed once signed: it now only ties.
	if varint.IsBetterThanFixed(9, 2, true) {
		t.Fatalf("signed, 9 leading zero bits: want fixed to win (tie)")
	}
	// One more leading zero bit reclaims the edge.
	if !varint.IsBetterThanFixed(10, 2, true) {
		t.Fatalf("signed, 10 leading zero bits: want varint to win")
	}
}
