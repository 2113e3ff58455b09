package sdoc_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	sdoc "github.com/halvarsson/sdoc"
)

// TestRoundTripEveryShape pins spec.md's property 1: decode(encode(v)) == v,
// for one representative of each Value shape.
func TestRoundTripEveryShape(t *testing.T) {
	cases := map[string]sdoc.Value{
		"unit":          sdoc.UnitValue{},
		"bool true":     sdoc.BoolValue(true),
		"bool false":    sdoc.BoolValue(false),
		"int8 min":      sdoc.Int8Value(math.MinInt8),
		"uint8 max":     sdoc.Uint8Value(math.MaxUint8),
		"int16 small":   sdoc.Int16Value(100),
		"int16 large":   sdoc.Int16Value(math.MinInt16),
		"uint16 small":  sdoc.Uint16Value(127),
		"uint16 large":  sdoc.Uint16Value(60000),
		"int32":         sdoc.Int32Value(-123456),
		"uint32":        sdoc.Uint32Value(math.MaxUint32),
		"int64":         sdoc.Int64Value(math.MinInt64),
		"uint64":        sdoc.Uint64Value(math.MaxUint64),
		"int128 pos":    sdoc.Int128Value(sdoc.Int128FromInt64(123456789012345)),
		"int128 neg":    sdoc.Int128Value(sdoc.Int128FromInt64(-123456789012345)),
		"uint128":       sdoc.Uint128Value(sdoc.Uint128FromUint64(987654321098765)),
		"float32":       sdoc.Float32Value(3.5),
		"float64":       sdoc.Float64Value(-2.25),
		"char":          sdoc.CharValue('A'),
		"char high":     sdoc.CharValue(0x1F600),
		"string empty":  sdoc.StringValue(""),
		"string short":  sdoc.StringValue("hi"),
		"string direct": sdoc.StringValue(string(bytes.Repeat([]byte("z"), 300))),
		"bytes":         sdoc.BytesValue([]byte{0, 1, 2, 255}),
		"option none":   sdoc.OptionValue{},
		"option some":   sdoc.OptionValue{Inner: sdoc.Int32Value(7)},
		"struct unit": sdoc.StructValue{Shape: sdoc.ShapeUnit},
		"struct newtype": sdoc.StructValue{
			Shape: sdoc.ShapeNewtype, Newtype: sdoc.StringValue("wrapped"),
		},
		"struct tuple": sdoc.StructValue{
			Shape: sdoc.ShapeTuple,
			Items: []sdoc.Value{sdoc.Int32Value(1), sdoc.StringValue("two")},
		},
		"struct fields": sdoc.StructValue{
			Shape: sdoc.ShapeFields,
			Fields: []sdoc.Field{
				{Name: "a", Value: sdoc.StringValue("hello")},
				{Name: "b", Value: sdoc.StringValue("hello")},
			},
		},
		"enum unit": sdoc.EnumValue{Variant: "Idle", Shape: sdoc.ShapeUnit},
		"enum newtype": sdoc.EnumValue{
			Variant: "Wrap", Shape: sdoc.ShapeNewtype, Newtype: sdoc.BoolValue(true),
		},
		"enum tuple": sdoc.EnumValue{
			Variant: "Pair", Shape: sdoc.ShapeTuple,
			Items: []sdoc.Value{sdoc.Int32Value(42), sdoc.StringValue("x")},
		},
		"enum fields": sdoc.EnumValue{
			Variant: "Point", Shape: sdoc.ShapeFields,
			Fields: []sdoc.Field{
				{Name: "x", Value: sdoc.Int32Value(1)},
				{Name: "y", Value: sdoc.Int32Value(2)},
			},
		},
		"tuple": sdoc.TupleValue{Items: []sdoc.Value{sdoc.Uint8Value(1), sdoc.BoolValue(false)}},
		"array empty": sdoc.ArrayValue{},
		"array": sdoc.ArrayValue{Items: []sdoc.Value{
			sdoc.Uint8Value(1), sdoc.Uint8Value(2), sdoc.Uint8Value(3),
		}},
		"map empty": sdoc.MapValue{},
		"map": sdoc.MapValue{Entries: []sdoc.MapEntry{
			{Key: sdoc.StringValue("k1"), Value: sdoc.Int32Value(1)},
			{Key: sdoc.StringValue("k2"), Value: sdoc.Int32Value(2)},
		}},
		"nested": sdoc.StructValue{
			Shape: sdoc.ShapeFields,
			Fields: []sdoc.Field{
				{Name: "inner", Value: sdoc.OptionValue{Inner: sdoc.ArrayValue{
					Items: []sdoc.Value{sdoc.StringValue("a"), sdoc.StringValue("a")},
				}}},
			},
		},
	}

	for name, v := range cases {
		t.Run(name, func(t *testing.T) {
			b, err := sdoc.ToBytes(v)
			if err != nil {
				t.Fatalf("ToBytes: %v", err)
			}
			got, err := sdoc.FromBytes(b)
			if err != nil {
				t.Fatalf("FromBytes: %v", err)
			}
			if diff := cmp.Diff(v, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeDecodeViaStreams(t *testing.T) {
	v := sdoc.StructValue{
		Shape: sdoc.ShapeFields,
		Fields: []sdoc.Field{
			{Name: "name", Value: sdoc.StringValue("launcher")},
			{Name: "count", Value: sdoc.Uint32Value(42)},
		},
	}

	var buf bytes.Buffer
	if err := sdoc.Encode(v, &buf, sdoc.DefaultWriterConfig()); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := sdoc.Decode(&buf, sdoc.DefaultReaderConfig())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(v, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRawFromValueFromRoundTrip(t *testing.T) {
	v := sdoc.EnumValue{
		Variant: "Pair", Shape: sdoc.ShapeTuple,
		Items: []sdoc.Value{sdoc.Int32Value(42), sdoc.StringValue("x")},
	}

	raw, err := sdoc.RawFrom(v)
	if err != nil {
		t.Fatalf("RawFrom: %v", err)
	}
	got, err := sdoc.ValueFrom(raw)
	if err != nil {
		t.Fatalf("ValueFrom: %v", err)
	}
	if diff := cmp.Diff(v, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestArrayAndMapAlwaysDecodeLengthPrefixed(t *testing.T) {
	// spec.md §4.6: re-encoding a Value tree always produces the
	// length-prefixed array/map form, even though the wire format also
	// supports an unbounded, End-terminated form (exercised directly at the
	// Writer/Reader level in scenarios_test.go's S4).
	v := sdoc.ArrayValue{Items: []sdoc.Value{sdoc.Uint8Value(9)}}
	b, err := sdoc.ToBytes(v)
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}
	got, err := sdoc.FromBytes(b)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if diff := cmp.Diff(v, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTrailingBytesRejected(t *testing.T) {
	v := sdoc.UnitValue{}
	b, err := sdoc.ToBytes(v)
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}
	b = append(b, 0xFF)

	r, err := sdoc.NewReader(bytes.NewReader(b), sdoc.DefaultReaderConfig())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := sdoc.ReadValue(r.Value()); err != nil {
		t.Fatalf("ReadValue: %v", err)
	}
	if err := r.Done(); err != sdoc.ErrDocumentTrailing {
		t.Fatalf("Done() = %v, want ErrDocumentTrailing", err)
	}
}

func TestUnsupportedVersionRejected(t *testing.T) {
	b := []byte{'s', 'd', 0x01}
	_, err := sdoc.NewReader(bytes.NewReader(b), sdoc.DefaultReaderConfig())
	if err == nil {
		t.Fatalf("expected an UnsupportedVersionError")
	}
	if _, ok := err.(*sdoc.UnsupportedVersionError); !ok {
		t.Fatalf("err = %v (%T), want *UnsupportedVersionError", err, err)
	}
}

func TestInvalidMagicRejected(t *testing.T) {
	b := []byte{'x', 'y', 0x00}
	_, err := sdoc.NewReader(bytes.NewReader(b), sdoc.DefaultReaderConfig())
	if err != sdoc.ErrInvalidHeader {
		t.Fatalf("err = %v, want ErrInvalidHeader", err)
	}
}
