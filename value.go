package sdoc

import "github.com/halvarsson/sdoc/internal/tag"

// Value is the in-memory tree form of a document: every wire shape has a
// concrete Go type implementing it. Decoding via ReadValue then
// re-encoding via WriteValue is lossy in one documented way (spec.md
// §4.6): an unbounded array or map on the wire becomes a length-prefixed
// one, since the tree always knows its own length once built.
type Value interface {
	isValue()
}

type UnitValue struct{}

func (UnitValue) isValue() {}

type BoolValue bool

func (BoolValue) isValue() {}

type Int8Value int8
type Int16Value int16
type Int32Value int32
type Int64Value int64
type Int128Value Int128

func (Int8Value) isValue()   {}
func (Int16Value) isValue()  {}
func (Int32Value) isValue()  {}
func (Int64Value) isValue()  {}
func (Int128Value) isValue() {}

type Uint8Value uint8
type Uint16Value uint16
type Uint32Value uint32
type Uint64Value uint64
type Uint128Value Uint128

func (Uint8Value) isValue()   {}
func (Uint16Value) isValue()  {}
func (Uint32Value) isValue()  {}
func (Uint64Value) isValue()  {}
func (Uint128Value) isValue() {}

type Float32Value float32
type Float64Value float64

func (Float32Value) isValue() {}
func (Float64Value) isValue() {}

type CharValue rune

func (CharValue) isValue() {}

type StringValue string

func (StringValue) isValue() {}

type BytesValue []byte

func (BytesValue) isValue() {}

// OptionValue wraps Inner, which is nil for None.
type OptionValue struct {
	Inner Value
}

func (OptionValue) isValue() {}

// Field is one named child of a Fields-shaped struct or struct variant.
type Field struct {
	Name  string
	Value Value
}

// StructValue covers all four struct shapes; which fields are populated
// depends on Shape.
type StructValue struct {
	Shape   StructShape
	Newtype Value   // Shape == ShapeNewtype
	Items   []Value // Shape == ShapeTuple
	Fields  []Field // Shape == ShapeFields
}

func (StructValue) isValue() {}

// StructShape discriminates the four struct/enum-variant payload shapes.
type StructShape int

const (
	ShapeUnit StructShape = iota
	ShapeNewtype
	ShapeTuple
	ShapeFields
)

// EnumValue is a named variant carrying one of the four struct shapes.
type EnumValue struct {
	Variant string
	Shape   StructShape
	Newtype Value
	Items   []Value
	Fields  []Field
}

func (EnumValue) isValue() {}

// TupleValue is a fixed-arity heterogeneous tuple.
type TupleValue struct {
	Items []Value
}

func (TupleValue) isValue() {}

// ArrayValue is a homogeneous sequence, always re-encoded in the
// length-prefixed form.
type ArrayValue struct {
	Items []Value
}

func (ArrayValue) isValue() {}

// MapEntry is one key/value pair of a MapValue.
type MapEntry struct {
	Key   Value
	Value Value
}

// MapValue is a keyed map, always re-encoded in the length-prefixed form.
type MapValue struct {
	Entries []MapEntry
}

func (MapValue) isValue() {}

// WriteValue emits v through vw, recursing into every nested value.
func WriteValue(vw *ValueWriter, v Value) error {
	switch val := v.(type) {
	case UnitValue:
		return vw.WriteUnit()
	case BoolValue:
		return vw.WriteBool(bool(val))
	case Int8Value:
		return vw.WriteInt8(int8(val))
	case Int16Value:
		return vw.WriteInt16(int16(val))
	case Int32Value:
		return vw.WriteInt32(int32(val))
	case Int64Value:
		return vw.WriteInt64(int64(val))
	case Int128Value:
		return vw.WriteInt128(Int128(val))
	case Uint8Value:
		return vw.WriteUint8(uint8(val))
	case Uint16Value:
		return vw.WriteUint16(uint16(val))
	case Uint32Value:
		return vw.WriteUint32(uint32(val))
	case Uint64Value:
		return vw.WriteUint64(uint64(val))
	case Uint128Value:
		return vw.WriteUint128(Uint128(val))
	case Float32Value:
		return vw.WriteFloat32(float32(val))
	case Float64Value:
		return vw.WriteFloat64(float64(val))
	case CharValue:
		return vw.WriteChar(rune(val))
	case StringValue:
		return vw.WriteString(string(val))
	case BytesValue:
		return vw.WriteBytes([]byte(val))
	case OptionValue:
		return writeOption(vw, val)
	case StructValue:
		return writeStruct(vw, val)
	case EnumValue:
		return writeEnum(vw, val)
	case TupleValue:
		return writeTupleValue(vw, val)
	case ArrayValue:
		return writeArrayValue(vw, val)
	case MapValue:
		return writeMapValue(vw, val)
	}
	return &UnexpectedValueError{Expected: "known Value implementation", Found: "unknown"}
}

func writeOption(vw *ValueWriter, val OptionValue) error {
	if val.Inner == nil {
		return vw.WriteNone()
	}
	inner, err := vw.WriteSome()
	if err != nil {
		return err
	}
	return WriteValue(inner, val.Inner)
}

func writeStruct(vw *ValueWriter, val StructValue) error {
	switch val.Shape {
	case ShapeUnit:
		return vw.WriteUnitStruct()
	case ShapeNewtype:
		inner, err := vw.WriteNewtypeStruct()
		if err != nil {
			return err
		}
		return WriteValue(inner, val.Newtype)
	case ShapeTuple:
		tw, err := vw.WriteTupleStruct(len(val.Items))
		if err != nil {
			return err
		}
		return writeTupleItems(tw, val.Items)
	case ShapeFields:
		sw, err := vw.WriteStruct(len(val.Fields))
		if err != nil {
			return err
		}
		return writeStructFields(sw, val.Fields)
	}
	return &UnexpectedValueError{Expected: "known struct shape", Found: "unknown"}
}

func writeEnum(vw *ValueWriter, val EnumValue) error {
	switch val.Shape {
	case ShapeUnit:
		return vw.WriteUnitVariant(val.Variant)
	case ShapeNewtype:
		inner, err := vw.WriteNewtypeVariant(val.Variant)
		if err != nil {
			return err
		}
		return WriteValue(inner, val.Newtype)
	case ShapeTuple:
		tw, err := vw.WriteTupleVariant(val.Variant, len(val.Items))
		if err != nil {
			return err
		}
		return writeTupleItems(tw, val.Items)
	case ShapeFields:
		sw, err := vw.WriteStructVariant(val.Variant, len(val.Fields))
		if err != nil {
			return err
		}
		return writeStructFields(sw, val.Fields)
	}
	return &UnexpectedValueError{Expected: "known enum shape", Found: "unknown"}
}

func writeTupleItems(tw *SizedTupleWriter, items []Value) error {
	for _, item := range items {
		child, err := tw.WriteValue()
		if err != nil {
			return err
		}
		if err := WriteValue(child, item); err != nil {
			return err
		}
	}
	return nil
}

func writeStructFields(sw *SizedStructWriter, fields []Field) error {
	for _, f := range fields {
		child, err := sw.WriteField(f.Name)
		if err != nil {
			return err
		}
		if err := WriteValue(child, f.Value); err != nil {
			return err
		}
	}
	return nil
}

func writeTupleValue(vw *ValueWriter, val TupleValue) error {
	tw, err := vw.WriteTuple(len(val.Items))
	if err != nil {
		return err
	}
	return writeTupleItems(tw, val.Items)
}

func writeArrayValue(vw *ValueWriter, val ArrayValue) error {
	n := len(val.Items)
	aw, err := vw.WriteSeq(&n)
	if err != nil {
		return err
	}
	for _, item := range val.Items {
		child, err := aw.WriteValue()
		if err != nil {
			return err
		}
		if err := WriteValue(child, item); err != nil {
			return err
		}
	}
	return aw.Finish()
}

func writeMapValue(vw *ValueWriter, val MapValue) error {
	n := len(val.Entries)
	mw, err := vw.WriteMap(&n)
	if err != nil {
		return err
	}
	for _, e := range val.Entries {
		pair, err := mw.WritePair()
		if err != nil {
			return err
		}
		key, err := pair.WriteKey()
		if err != nil {
			return err
		}
		if err := WriteValue(key, e.Key); err != nil {
			return err
		}
		valw, err := pair.WriteValue()
		if err != nil {
			return err
		}
		if err := WriteValue(valw, e.Value); err != nil {
			return err
		}
	}
	return mw.Finish()
}

// ReadValue recursively decodes the value at vr into the in-memory tree.
func ReadValue(vr *ValueReader) (Value, error) {
	reading, err := vr.Read()
	if err != nil {
		return nil, err
	}
	t := reading.Tag()
	return readValueReading(reading, t)
}

func readValueReading(reading ValueReading, t tag.Tag) (Value, error) {
	switch t {
	case tag.Unit:
		return UnitValue{}, reading.TakeUnit()
	case tag.False, tag.True:
		b, err := reading.TakeBool()
		return BoolValue(b), err
	case tag.Int8:
		v, err := reading.TakeInt8()
		return Int8Value(v), err
	case tag.Int16Fixed, tag.Int16Varint:
		v, err := reading.TakeInt16()
		return Int16Value(v), err
	case tag.Int32Fixed, tag.Int32Varint:
		v, err := reading.TakeInt32()
		return Int32Value(v), err
	case tag.Int64Fixed, tag.Int64Varint:
		v, err := reading.TakeInt64()
		return Int64Value(v), err
	case tag.Int128Fixed, tag.Int128Varint:
		v, err := reading.TakeInt128()
		return Int128Value(v), err
	case tag.Uint8:
		v, err := reading.TakeUint8()
		return Uint8Value(v), err
	case tag.Uint16Fixed, tag.Uint16Varint:
		v, err := reading.TakeUint16()
		return Uint16Value(v), err
	case tag.Uint32Fixed, tag.Uint32Varint:
		v, err := reading.TakeUint32()
		return Uint32Value(v), err
	case tag.Uint64Fixed, tag.Uint64Varint:
		v, err := reading.TakeUint64()
		return Uint64Value(v), err
	case tag.Uint128Fixed, tag.Uint128Varint:
		v, err := reading.TakeUint128()
		return Uint128Value(v), err
	case tag.Float32:
		v, err := reading.TakeFloat32()
		return Float32Value(v), err
	case tag.Float64:
		v, err := reading.TakeFloat64()
		return Float64Value(v), err
	case tag.CharFixed, tag.CharVarint:
		v, err := reading.TakeChar()
		return CharValue(v), err
	case tag.Str, tag.StrDirect, tag.EmptyStr:
		s, err := reading.TakeString()
		return StringValue(s), err
	case tag.Bytes:
		b, err := reading.TakeBytes()
		return BytesValue(b), err
	case tag.OptionNone:
		return OptionValue{}, reading.TakeNone()
	case tag.OptionSome:
		inner, err := reading.TakeSome()
		if err != nil {
			return nil, err
		}
		v, err := ReadValue(inner)
		if err != nil {
			return nil, err
		}
		return OptionValue{Inner: v}, nil
	case tag.StructUnit:
		return StructValue{Shape: ShapeUnit}, reading.TakeUnitStruct()
	case tag.StructNewtype:
		inner, err := reading.TakeNewtypeStruct()
		if err != nil {
			return nil, err
		}
		v, err := ReadValue(inner)
		if err != nil {
			return nil, err
		}
		return StructValue{Shape: ShapeNewtype, Newtype: v}, nil
	case tag.StructTuple:
		tr, err := reading.TakeTupleStruct()
		if err != nil {
			return nil, err
		}
		items, err := readTupleItems(tr)
		if err != nil {
			return nil, err
		}
		return StructValue{Shape: ShapeTuple, Items: items}, nil
	case tag.StructFields:
		sr, err := reading.TakeStruct()
		if err != nil {
			return nil, err
		}
		fields, err := readStructFields(sr)
		if err != nil {
			return nil, err
		}
		return StructValue{Shape: ShapeFields, Fields: fields}, nil
	case tag.EnumUnit:
		name, err := reading.TakeUnitVariant()
		return EnumValue{Variant: name, Shape: ShapeUnit}, err
	case tag.EnumNewtype:
		name, inner, err := reading.TakeNewtypeVariant()
		if err != nil {
			return nil, err
		}
		v, err := ReadValue(inner)
		if err != nil {
			return nil, err
		}
		return EnumValue{Variant: name, Shape: ShapeNewtype, Newtype: v}, nil
	case tag.EnumTuple:
		name, tr, err := reading.TakeTupleVariant()
		if err != nil {
			return nil, err
		}
		items, err := readTupleItems(tr)
		if err != nil {
			return nil, err
		}
		return EnumValue{Variant: name, Shape: ShapeTuple, Items: items}, nil
	case tag.EnumStruct:
		name, sr, err := reading.TakeStructVariant()
		if err != nil {
			return nil, err
		}
		fields, err := readStructFields(sr)
		if err != nil {
			return nil, err
		}
		return EnumValue{Variant: name, Shape: ShapeFields, Fields: fields}, nil
	case tag.Tuple:
		tr, err := reading.TakeTuple()
		if err != nil {
			return nil, err
		}
		items, err := readTupleItems(tr)
		if err != nil {
			return nil, err
		}
		return TupleValue{Items: items}, nil
	case tag.ArrayLen, tag.ArrayUnbounded:
		ar, err := reading.TakeSeq()
		if err != nil {
			return nil, err
		}
		items, err := readArrayItems(ar)
		if err != nil {
			return nil, err
		}
		return ArrayValue{Items: items}, nil
	case tag.MapLen, tag.MapUnbounded:
		mr, err := reading.TakeMap()
		if err != nil {
			return nil, err
		}
		entries, err := readMapEntries(mr)
		if err != nil {
			return nil, err
		}
		return MapValue{Entries: entries}, nil
	}
	return nil, &InvalidTagError{Byte: byte(t)}
}

func readTupleItems(tr *TupleReader) ([]Value, error) {
	items := make([]Value, 0, tr.Len())
	for tr.Len() > 0 {
		child, err := tr.NextValue()
		if err != nil {
			return nil, err
		}
		v, err := ReadValue(child)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func readStructFields(sr *StructReader) ([]Field, error) {
	fields := make([]Field, 0, sr.Len())
	for sr.Len() > 0 {
		name, child, err := sr.NextField()
		if err != nil {
			return nil, err
		}
		v, err := ReadValue(child)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Value: v})
	}
	return fields, nil
}

func readArrayItems(ar *ArrayReader) ([]Value, error) {
	var items []Value
	for {
		has, err := ar.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		child, err := ar.NextValue()
		if err != nil {
			return nil, err
		}
		v, err := ReadValue(child)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, ar.Finish()
}

func readMapEntries(mr *MapReader) ([]MapEntry, error) {
	var entries []MapEntry
	for {
		has, err := mr.HasNext()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		pair, err := mr.NextPair()
		if err != nil {
			return nil, err
		}
		keyR, err := pair.NextKey()
		if err != nil {
			return nil, err
		}
		key, err := ReadValue(keyR)
		if err != nil {
			return nil, err
		}
		valR, err := pair.NextValue()
		if err != nil {
			return nil, err
		}
		val, err := ReadValue(valR)
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: key, Value: val})
	}
	return entries, mr.Finish()
}
