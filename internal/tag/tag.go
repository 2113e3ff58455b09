// Package tag defines the closed set of one-byte wire tags and the
// parameter descriptors that tell a generic copier what payload bytes
// follow each tag, without requiring it to understand the value.
package tag

import "fmt"

// Tag identifies the shape of the value that follows it on the wire.
type Tag byte

const (
	Unit Tag = iota
	False
	True

	Int8
	Int16Fixed
	Int16Varint
	Int32Fixed
	Int32Varint
	Int64Fixed
	Int64Varint
	Int128Fixed
	Int128Varint

	Uint8
	Uint16Fixed
	Uint16Varint
	Uint32Fixed
	Uint32Varint
	Uint64Fixed
	Uint64Varint
	Uint128Fixed
	Uint128Varint

	Float32
	Float64

	CharFixed
	CharVarint

	Str // interned: signed-varint id, sign bit discriminates new/index (§6)
	StrDirect
	EmptyStr

	Bytes

	OptionNone
	OptionSome

	StructUnit
	StructNewtype
	StructTuple
	StructFields

	EnumUnit
	EnumNewtype
	EnumTuple
	EnumStruct

	Tuple
	ArrayLen
	ArrayUnbounded
	MapLen
	MapUnbounded

	End

	maxTag
)

// String renders a human readable tag name, primarily for diagnostics.
func (t Tag) String() string {
	switch t {
	case Unit:
		return "Unit"
	case False:
		return "False"
	case True:
		return "True"
	case Int8:
		return "Int8"
	case Int16Fixed:
		return "Int16Fixed"
	case Int16Varint:
		return "Int16Varint"
	case Int32Fixed:
		return "Int32Fixed"
	case Int32Varint:
		return "Int32Varint"
	case Int64Fixed:
		return "Int64Fixed"
	case Int64Varint:
		return "Int64Varint"
	case Int128Fixed:
		return "Int128Fixed"
	case Int128Varint:
		return "Int128Varint"
	case Uint8:
		return "Uint8"
	case Uint16Fixed:
		return "Uint16Fixed"
	case Uint16Varint:
		return "Uint16Varint"
	case Uint32Fixed:
		return "Uint32Fixed"
	case Uint32Varint:
		return "Uint32Varint"
	case Uint64Fixed:
		return "Uint64Fixed"
	case Uint64Varint:
		return "Uint64Varint"
	case Uint128Fixed:
		return "Uint128Fixed"
	case Uint128Varint:
		return "Uint128Varint"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case CharFixed:
		return "CharFixed"
	case CharVarint:
		return "CharVarint"
	case Str:
		return "Str"
	case StrDirect:
		return "StrDirect"
	case EmptyStr:
		return "EmptyStr"
	case Bytes:
		return "Bytes"
	case OptionNone:
		return "OptionNone"
	case OptionSome:
		return "OptionSome"
	case StructUnit:
		return "StructUnit"
	case StructNewtype:
		return "StructNewtype"
	case StructTuple:
		return "StructTuple"
	case StructFields:
		return "StructFields"
	case EnumUnit:
		return "EnumUnit"
	case EnumNewtype:
		return "EnumNewtype"
	case EnumTuple:
		return "EnumTuple"
	case EnumStruct:
		return "EnumStruct"
	case Tuple:
		return "Tuple"
	case ArrayLen:
		return "ArrayLen"
	case ArrayUnbounded:
		return "ArrayUnbounded"
	case MapLen:
		return "MapLen"
	case MapUnbounded:
		return "MapUnbounded"
	case End:
		return "End"
	default:
		return fmt.Sprintf("Tag(%d)", byte(t))
	}
}

// Valid reports whether b names a tag in the closed set.
func Valid(b byte) bool {
	return Tag(b) < maxTag
}

// FromByte converts a wire byte to a Tag, reporting ok=false for any byte
// outside the closed set.
func FromByte(b byte) (Tag, bool) {
	if !Valid(b) {
		return 0, false
	}
	return Tag(b), true
}

// Param is one element of a tag's payload descriptor: an instruction a
// generic copier (the raw-value passthrough) follows without interpreting
// the bytes it moves.
type Param int

const (
	// FixedBytes copies a statically-known number of bytes verbatim.
	FixedBytes Param = iota
	// Varint copies one unsigned varint verbatim.
	Varint
	// SignedVarint copies one signed varint verbatim.
	SignedVarint
	// LengthPrefixedBytes copies a varint length followed by that many bytes.
	LengthPrefixedBytes
	// InternedString resolves (or defines) a string-table entry encoded as
	// the Str tag's own sign-discriminated signed varint; it is rewritten
	// across string tables rather than copied byte-for-byte.
	InternedString
	// InternedName resolves (or defines) a string-table entry encoded via
	// the marker-byte scheme used for struct field names and enum variant
	// names, which carry no tag byte of their own to discriminate new vs
	// index — see §6's "other families that carry a name" aside.
	InternedName
)

// Descriptor is an ordered list of payload parameters following a tag.
// Width carries the fixed-byte width for FixedBytes params; it is ignored
// for others.
type Descriptor struct {
	Params []Param
	Width  int // byte width for a single leading FixedBytes param, if any
}

// Params returns the payload descriptor for t — what bytes follow the tag
// byte itself, used by the raw-value copier to shuttle bytes without
// interpreting them.
func Params(t Tag) Descriptor {
	switch t {
	case Unit, False, True, OptionNone, End,
		StructUnit:
		return Descriptor{}

	case Int8, Uint8:
		return Descriptor{Params: []Param{FixedBytes}, Width: 1}

	case Int16Fixed, Uint16Fixed:
		return Descriptor{Params: []Param{FixedBytes}, Width: 2}
	case Int32Fixed, Uint32Fixed, Float32, CharFixed:
		return Descriptor{Params: []Param{FixedBytes}, Width: 4}
	case Int64Fixed, Uint64Fixed, Float64:
		return Descriptor{Params: []Param{FixedBytes}, Width: 8}
	case Int128Fixed, Uint128Fixed:
		return Descriptor{Params: []Param{FixedBytes}, Width: 16}

	case Int16Varint, Int32Varint, Int64Varint, Int128Varint:
		return Descriptor{Params: []Param{SignedVarint}}
	case Uint16Varint, Uint32Varint, Uint64Varint, Uint128Varint, CharVarint:
		return Descriptor{Params: []Param{Varint}}

	case Str:
		return Descriptor{Params: []Param{InternedString}}
	case StrDirect:
		return Descriptor{Params: []Param{LengthPrefixedBytes}}
	case EmptyStr:
		return Descriptor{}

	case Bytes:
		return Descriptor{Params: []Param{LengthPrefixedBytes}}

	case OptionSome:
		return Descriptor{} // one child value follows, not a flat param

	case StructNewtype:
		return Descriptor{} // one child value follows
	case StructTuple, StructFields, Tuple, ArrayLen, MapLen:
		return Descriptor{Params: []Param{Varint}} // count/length, children follow
	case ArrayUnbounded, MapUnbounded:
		return Descriptor{} // children follow, terminated by End

	case EnumUnit:
		return Descriptor{Params: []Param{InternedName}} // name only

	case EnumNewtype:
		return Descriptor{Params: []Param{InternedName}} // name, then one child value
	case EnumTuple, EnumStruct:
		return Descriptor{Params: []Param{InternedName, Varint}} // name, count, then children
	}

	return Descriptor{}
}
