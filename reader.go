package sdoc

import (
	"io"
	"math"

	"github.com/halvarsson/sdoc/internal/tag"
)

// readerState is the reader-side counterpart to writerState: one shared
// byte source, one shared reader-side string table, and the level
// discipline counter.
type readerState struct {
	source  *byteSource
	strings *stringReaderTable
	levels  levelTracker
	cfg     ReaderConfig
}

// Reader is the top-level handle for consuming one document: framing,
// then exactly one value.
type Reader struct {
	state *readerState
}

// NewReader validates the "sd" magic and version byte, then returns a
// Reader ready to consume the document's single top-level value.
func NewReader(src io.Reader, cfg ReaderConfig) (*Reader, error) {
	st := newBareReaderState(src, cfg)
	if _, err := readFraming(st.source); err != nil {
		return nil, err
	}
	return &Reader{state: st}, nil
}

// NewBareReader skips framing validation, for documents embedded in an
// outer format that already frames them.
func NewBareReader(src io.Reader, cfg ReaderConfig) *Reader {
	return &Reader{state: newBareReaderState(src, cfg)}
}

// newBareReaderState wraps cfg verbatim: the zero value imposes no length
// limits, matching ReaderConfig's documented field defaults. Call
// DefaultReaderConfig for bounds suitable against untrusted input.
func newBareReaderState(src io.Reader, cfg ReaderConfig) *readerState {
	return &readerState{
		source:  newByteSource(src),
		strings: newStringReaderTable(),
		cfg:     cfg,
	}
}

// Value returns the ValueReader for the document's single top-level value.
func (r *Reader) Value() *ValueReader {
	return &ValueReader{state: r.state, level: 0}
}

// Done reports whether the top-level value has been fully consumed and,
// if so, checks for trailing bytes (spec.md §7's DocumentTrailing check).
func (r *Reader) Done() error {
	if !r.state.levels.closed() {
		return ErrScaffoldOutOfOrder
	}
	if _, err := r.state.source.peek(); err != io.ErrUnexpectedEOF {
		if err == nil {
			return ErrDocumentTrailing
		}
		return err
	}
	return nil
}

// ValueReader is the one-shot per-value scaffold mirroring ValueWriter.
type ValueReader struct {
	state *readerState
	level int
}

func (r *ValueReader) assertActive() error {
	if !r.state.levels.active(r.level) {
		return ErrScaffoldOutOfOrder
	}
	return nil
}

func (r *ValueReader) finish() error {
	return r.state.levels.retire(r.level)
}

func unexpected(found tag.Tag, expected string) error {
	return &UnexpectedValueError{Expected: expected, Found: found.String()}
}

// Read consumes this slot's tag byte and returns a ValueReading the caller
// uses to dispatch on shape via its Take* accessors.
func (r *ValueReader) Read() (ValueReading, error) {
	if err := r.assertActive(); err != nil {
		return ValueReading{}, err
	}
	b, err := r.state.source.ReadByte()
	if err != nil {
		return ValueReading{}, err
	}
	t, ok := tag.FromByte(b)
	if !ok {
		return ValueReading{}, &InvalidTagError{Byte: b}
	}
	return ValueReading{r: r, tag: t}, nil
}

// ValueReading is the tag-dispatch handle returned by ValueReader.Read.
type ValueReading struct {
	r   *ValueReader
	tag tag.Tag
}

// Tag reports the wire tag this value was written with, for callers doing
// their own dispatch instead of using the Take* accessors.
func (v ValueReading) Tag() tag.Tag { return v.tag }

func (v ValueReading) TakeUnit() error {
	if v.tag != tag.Unit {
		return unexpected(v.tag, "unit")
	}
	return v.r.finish()
}

func (v ValueReading) TakeBool() (bool, error) {
	switch v.tag {
	case tag.False:
		return false, v.r.finish()
	case tag.True:
		return true, v.r.finish()
	}
	return false, unexpected(v.tag, "bool")
}

func (v ValueReading) TakeInt8() (int8, error) {
	if v.tag != tag.Int8 {
		return 0, unexpected(v.tag, "int8")
	}
	b, err := v.r.state.source.ReadByte()
	if err != nil {
		return 0, err
	}
	return int8(b), v.r.finish()
}

func (v ValueReading) TakeUint8() (uint8, error) {
	if v.tag != tag.Uint8 {
		return 0, unexpected(v.tag, "uint8")
	}
	b, err := v.r.state.source.ReadByte()
	if err != nil {
		return 0, err
	}
	return b, v.r.finish()
}

func (v ValueReading) takeSignedWidth(width int, fixedTag, varintTag tag.Tag, what string) (int64, error) {
	var fixed bool
	switch v.tag {
	case fixedTag:
		fixed = true
	case varintTag:
		fixed = false
	default:
		return 0, unexpected(v.tag, what)
	}
	n, err := v.r.readFixedOrVarintSigned(width, fixed)
	if err != nil {
		return 0, err
	}
	return n, v.r.finish()
}

func (v ValueReading) takeUnsignedWidth(width int, fixedTag, varintTag tag.Tag, what string) (uint64, error) {
	var fixed bool
	switch v.tag {
	case fixedTag:
		fixed = true
	case varintTag:
		fixed = false
	default:
		return 0, unexpected(v.tag, what)
	}
	n, err := v.r.readFixedOrVarintUnsigned(width, fixed)
	if err != nil {
		return 0, err
	}
	return n, v.r.finish()
}

func (v ValueReading) TakeInt16() (int16, error) {
	n, err := v.takeSignedWidth(2, tag.Int16Fixed, tag.Int16Varint, "int16")
	return int16(n), err
}

func (v ValueReading) TakeUint16() (uint16, error) {
	n, err := v.takeUnsignedWidth(2, tag.Uint16Fixed, tag.Uint16Varint, "uint16")
	return uint16(n), err
}

func (v ValueReading) TakeInt32() (int32, error) {
	n, err := v.takeSignedWidth(4, tag.Int32Fixed, tag.Int32Varint, "int32")
	return int32(n), err
}

func (v ValueReading) TakeUint32() (uint32, error) {
	n, err := v.takeUnsignedWidth(4, tag.Uint32Fixed, tag.Uint32Varint, "uint32")
	return uint32(n), err
}

func (v ValueReading) TakeInt64() (int64, error) {
	return v.takeSignedWidth(8, tag.Int64Fixed, tag.Int64Varint, "int64")
}

func (v ValueReading) TakeUint64() (uint64, error) {
	return v.takeUnsignedWidth(8, tag.Uint64Fixed, tag.Uint64Varint, "uint64")
}

func (v ValueReading) TakeInt128() (Int128, error) {
	switch v.tag {
	case tag.Int128Fixed:
		b, err := v.r.state.source.read(16)
		if err != nil {
			return Int128{}, err
		}
		u := getUint128LE(b)
		return Int128{Hi: int64(u.Hi), Lo: u.Lo}, v.r.finish()
	case tag.Int128Varint:
		n, err := readSignedVarint128(v.r.state.source)
		if err != nil {
			return Int128{}, err
		}
		return n, v.r.finish()
	}
	return Int128{}, unexpected(v.tag, "int128")
}

func (v ValueReading) TakeUint128() (Uint128, error) {
	switch v.tag {
	case tag.Uint128Fixed:
		b, err := v.r.state.source.read(16)
		if err != nil {
			return Uint128{}, err
		}
		return getUint128LE(b), v.r.finish()
	case tag.Uint128Varint:
		n, err := readVarint128(v.r.state.source)
		if err != nil {
			return Uint128{}, err
		}
		return n, v.r.finish()
	}
	return Uint128{}, unexpected(v.tag, "uint128")
}

func (v ValueReading) TakeFloat32() (float32, error) {
	if v.tag != tag.Float32 {
		return 0, unexpected(v.tag, "float32")
	}
	b, err := v.r.state.source.read(4)
	if err != nil {
		return 0, err
	}
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits), v.r.finish()
}

func (v ValueReading) TakeFloat64() (float64, error) {
	if v.tag != tag.Float64 {
		return 0, unexpected(v.tag, "float64")
	}
	b, err := v.r.state.source.read(8)
	if err != nil {
		return 0, err
	}
	var bits uint64
	for i := 0; i < 8; i++ {
		bits |= uint64(b[i]) << (8 * i)
	}
	return math.Float64frombits(bits), v.r.finish()
}

func (v ValueReading) TakeChar() (rune, error) {
	n, err := v.takeUnsignedWidth(4, tag.CharFixed, tag.CharVarint, "char")
	if err != nil {
		return 0, err
	}
	if n > 0x10FFFF || (n >= 0xD800 && n <= 0xDFFF) {
		return 0, &InvalidCharError{Value: uint32(n)}
	}
	return rune(n), nil
}

func (v ValueReading) TakeString() (string, error) {
	switch v.tag {
	case tag.EmptyStr, tag.StrDirect, tag.Str:
		s, err := readStringBody(v.tag, v.r.state.source, v.r.state.strings, v.r.state.cfg)
		if err != nil {
			return "", err
		}
		return s, v.r.finish()
	}
	return "", unexpected(v.tag, "string")
}

func (v ValueReading) TakeBytes() ([]byte, error) {
	if v.tag != tag.Bytes {
		return nil, unexpected(v.tag, "bytes")
	}
	b, err := readBytesBody(v.r.state.source, v.r.state.cfg)
	if err != nil {
		return nil, err
	}
	return b, v.r.finish()
}

// TakeNone consumes Option::None.
func (v ValueReading) TakeNone() error {
	if v.tag != tag.OptionNone {
		return unexpected(v.tag, "none")
	}
	return v.r.finish()
}

// TakeSome, on Option::Some, returns a ValueReader for the inline payload
// at the same level.
func (v ValueReading) TakeSome() (*ValueReader, error) {
	if v.tag != tag.OptionSome {
		return nil, unexpected(v.tag, "some")
	}
	return &ValueReader{state: v.r.state, level: v.r.level}, nil
}

// IsOption reports whether this value is None or Some, for callers that
// want to branch before committing to a Take call.
func (v ValueReading) IsOption() bool {
	return v.tag == tag.OptionNone || v.tag == tag.OptionSome
}

func (v ValueReading) TakeUnitStruct() error {
	if v.tag != tag.StructUnit {
		return unexpected(v.tag, "unit struct")
	}
	return v.r.finish()
}

func (v ValueReading) TakeNewtypeStruct() (*ValueReader, error) {
	if v.tag != tag.StructNewtype {
		return nil, unexpected(v.tag, "newtype struct")
	}
	return &ValueReader{state: v.r.state, level: v.r.level}, nil
}

func (v ValueReading) TakeTupleStruct() (*TupleReader, error) {
	if v.tag != tag.StructTuple {
		return nil, unexpected(v.tag, "tuple struct")
	}
	return v.r.enterTuple()
}

func (v ValueReading) TakeStruct() (*StructReader, error) {
	if v.tag != tag.StructFields {
		return nil, unexpected(v.tag, "struct")
	}
	return v.r.enterStruct()
}

func (v ValueReading) TakeUnitVariant() (string, error) {
	if v.tag != tag.EnumUnit {
		return "", unexpected(v.tag, "unit variant")
	}
	name, err := readInternedName(v.r.state.source, v.r.state.strings)
	if err != nil {
		return "", err
	}
	return name, v.r.finish()
}

func (v ValueReading) TakeNewtypeVariant() (string, *ValueReader, error) {
	if v.tag != tag.EnumNewtype {
		return "", nil, unexpected(v.tag, "newtype variant")
	}
	name, err := readInternedName(v.r.state.source, v.r.state.strings)
	if err != nil {
		return "", nil, err
	}
	return name, &ValueReader{state: v.r.state, level: v.r.level}, nil
}

func (v ValueReading) TakeTupleVariant() (string, *TupleReader, error) {
	if v.tag != tag.EnumTuple {
		return "", nil, unexpected(v.tag, "tuple variant")
	}
	name, err := readInternedName(v.r.state.source, v.r.state.strings)
	if err != nil {
		return "", nil, err
	}
	tr, err := v.r.enterTuple()
	return name, tr, err
}

func (v ValueReading) TakeStructVariant() (string, *StructReader, error) {
	if v.tag != tag.EnumStruct {
		return "", nil, unexpected(v.tag, "struct variant")
	}
	name, err := readInternedName(v.r.state.source, v.r.state.strings)
	if err != nil {
		return "", nil, err
	}
	sr, err := v.r.enterStruct()
	return name, sr, err
}

func (v ValueReading) TakeTuple() (*TupleReader, error) {
	if v.tag != tag.Tuple {
		return nil, unexpected(v.tag, "tuple")
	}
	return v.r.enterTuple()
}

// TakeSeq handles both the length-prefixed and unbounded (End-terminated)
// array forms.
func (v ValueReading) TakeSeq() (*ArrayReader, error) {
	switch v.tag {
	case tag.ArrayLen:
		n, err := v.r.state.source.readUnsigned()
		if err != nil {
			return nil, err
		}
		if err := v.r.state.cfg.checkLen(n, v.r.state.cfg.MaxContainerLen, "array"); err != nil {
			return nil, err
		}
		return v.r.enterArray(&n)
	case tag.ArrayUnbounded:
		return v.r.enterArray(nil)
	}
	return nil, unexpected(v.tag, "seq")
}

// TakeMap handles both the length-prefixed and unbounded map forms.
func (v ValueReading) TakeMap() (*MapReader, error) {
	switch v.tag {
	case tag.MapLen:
		n, err := v.r.state.source.readUnsigned()
		if err != nil {
			return nil, err
		}
		if err := v.r.state.cfg.checkLen(n, v.r.state.cfg.MaxContainerLen, "map"); err != nil {
			return nil, err
		}
		return v.r.enterMap(&n)
	case tag.MapUnbounded:
		return v.r.enterMap(nil)
	}
	return nil, unexpected(v.tag, "map")
}

func (r *ValueReader) enterTuple() (*TupleReader, error) {
	n, err := r.state.source.readUnsigned()
	if err != nil {
		return nil, err
	}
	if err := r.state.cfg.checkLen(n, r.state.cfg.MaxContainerLen, "tuple"); err != nil {
		return nil, err
	}
	if n == 0 {
		if err := r.finish(); err != nil {
			return nil, err
		}
		return &TupleReader{state: r.state, level: r.level, remaining: 0, done: true}, nil
	}
	newLevel, err := r.state.levels.begin(r.level)
	if err != nil {
		return nil, err
	}
	if err := r.state.levels.retire(r.level); err != nil {
		return nil, err
	}
	return &TupleReader{state: r.state, level: newLevel, remaining: int(n)}, nil
}

func (r *ValueReader) enterStruct() (*StructReader, error) {
	n, err := r.state.source.readUnsigned()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if err := r.finish(); err != nil {
			return nil, err
		}
		return &StructReader{state: r.state, level: r.level, remaining: 0, done: true}, nil
	}
	newLevel, err := r.state.levels.begin(r.level)
	if err != nil {
		return nil, err
	}
	if err := r.state.levels.retire(r.level); err != nil {
		return nil, err
	}
	return &StructReader{state: r.state, level: newLevel, remaining: int(n)}, nil
}

func (r *ValueReader) enterArray(length *uint64) (*ArrayReader, error) {
	newLevel, err := r.state.levels.begin(r.level)
	if err != nil {
		return nil, err
	}
	if err := r.state.levels.retire(r.level); err != nil {
		return nil, err
	}
	var remaining *int
	if length != nil {
		v := int(*length)
		remaining = &v
	}
	return &ArrayReader{state: r.state, level: newLevel, remaining: remaining}, nil
}

func (r *ValueReader) enterMap(length *uint64) (*MapReader, error) {
	newLevel, err := r.state.levels.begin(r.level)
	if err != nil {
		return nil, err
	}
	if err := r.state.levels.retire(r.level); err != nil {
		return nil, err
	}
	var remaining *int
	if length != nil {
		v := int(*length)
		remaining = &v
	}
	return &MapReader{state: r.state, level: newLevel, remaining: remaining}, nil
}

// readFixedOrVarintSigned/readFixedOrVarintUnsigned live in numeric.go.

// TupleReader hands out unnamed child value readers for a fixed-arity
// tuple/tuple-struct/tuple-variant/tuple-value.
type TupleReader struct {
	state     *readerState
	level     int
	remaining int
	done      bool
}

// Len reports how many children are still to be read: the declared arity
// before the first NextValue, one less after each call.
func (t *TupleReader) Len() int { return t.remaining }

// NextValue returns the next child's ValueReader. Reading past the
// declared count is a misuse.
func (t *TupleReader) NextValue() (*ValueReader, error) {
	if t.done || t.remaining <= 0 {
		return nil, ErrMoreThanPromised
	}
	if !t.state.levels.active(t.level) {
		return nil, ErrScaffoldOutOfOrder
	}
	newLevel, err := t.state.levels.begin(t.level)
	if err != nil {
		return nil, err
	}
	t.remaining--
	if t.remaining == 0 {
		t.done = true
		if err := t.state.levels.retire(t.level); err != nil {
			return nil, err
		}
	}
	return &ValueReader{state: t.state, level: newLevel}, nil
}

// StructReader hands out named child value readers for a fixed-arity
// named-field struct/struct-variant.
type StructReader struct {
	state     *readerState
	level     int
	remaining int
	done      bool
}

// Len reports how many fields are still to be read: the declared field
// count before the first NextField, one less after each call.
func (s *StructReader) Len() int { return s.remaining }

// NextField reads the next field's interned name and returns a
// ValueReader for its value.
func (s *StructReader) NextField() (string, *ValueReader, error) {
	if s.done || s.remaining <= 0 {
		return "", nil, ErrMoreThanPromised
	}
	if !s.state.levels.active(s.level) {
		return "", nil, ErrScaffoldOutOfOrder
	}
	name, err := readInternedName(s.state.source, s.state.strings)
	if err != nil {
		return "", nil, err
	}
	newLevel, err := s.state.levels.begin(s.level)
	if err != nil {
		return "", nil, err
	}
	s.remaining--
	if s.remaining == 0 {
		s.done = true
		if err := s.state.levels.retire(s.level); err != nil {
			return "", nil, err
		}
	}
	return name, &ValueReader{state: s.state, level: newLevel}, nil
}

// ArrayReader hands out child value readers for a homogeneous sequence,
// bounded or End-terminated.
type ArrayReader struct {
	state     *readerState
	level     int
	remaining *int // nil: unbounded
}

// Len reports how many elements are still to be read (the declared length
// before the first NextValue), or -1 for the unbounded form.
func (a *ArrayReader) Len() int {
	if a.remaining == nil {
		return -1
	}
	return *a.remaining
}

// HasNext reports whether another element follows: for the bounded form
// this is a simple counter check; for the unbounded form it peeks for the
// End sentinel without consuming it.
func (a *ArrayReader) HasNext() (bool, error) {
	if a.remaining != nil {
		return *a.remaining > 0, nil
	}
	b, err := a.state.source.peek()
	if err != nil {
		return false, err
	}
	return b != byte(tag.End), nil
}

// NextValue returns the next element's ValueReader.
func (a *ArrayReader) NextValue() (*ValueReader, error) {
	if !a.state.levels.active(a.level) {
		return nil, ErrScaffoldOutOfOrder
	}
	if a.remaining != nil {
		if *a.remaining <= 0 {
			return nil, ErrMoreThanPromised
		}
		*a.remaining--
	}
	newLevel, err := a.state.levels.begin(a.level)
	if err != nil {
		return nil, err
	}
	return &ValueReader{state: a.state, level: newLevel}, nil
}

// Finish verifies the container is exhausted (bounded form) or consumes
// the End sentinel (unbounded form), then retires the array's own level.
func (a *ArrayReader) Finish() error {
	if a.remaining != nil && *a.remaining != 0 {
		return ErrLessThanPromised
	}
	if a.remaining == nil {
		if !a.state.levels.active(a.level) {
			return ErrScaffoldOutOfOrder
		}
		b, err := a.state.source.ReadByte()
		if err != nil {
			return err
		}
		if b != byte(tag.End) {
			return &InvalidTagError{Byte: b}
		}
	}
	return a.state.levels.retire(a.level)
}

// MapReader hands out MapPairReaders for a keyed map, bounded or
// End-terminated.
type MapReader struct {
	state     *readerState
	level     int
	remaining *int // nil: unbounded
}

// Len reports how many pairs are still to be read (the declared length
// before the first pair's value is begun), or -1 for the unbounded form.
func (m *MapReader) Len() int {
	if m.remaining == nil {
		return -1
	}
	return *m.remaining
}

// HasNext mirrors ArrayReader.HasNext.
func (m *MapReader) HasNext() (bool, error) {
	if m.remaining != nil {
		return *m.remaining > 0, nil
	}
	b, err := m.state.source.peek()
	if err != nil {
		return false, err
	}
	return b != byte(tag.End), nil
}

// NextPair begins the next key/value pair.
func (m *MapReader) NextPair() (*MapPairReader, error) {
	if !m.state.levels.active(m.level) {
		return nil, ErrScaffoldOutOfOrder
	}
	if m.remaining != nil && *m.remaining <= 0 {
		return nil, ErrMoreThanPromised
	}
	return &MapPairReader{mr: m, want: mapWantKey}, nil
}

// Finish mirrors ArrayReader.Finish.
func (m *MapReader) Finish() error {
	if m.remaining != nil && *m.remaining != 0 {
		return ErrLessThanPromised
	}
	if m.remaining == nil {
		if !m.state.levels.active(m.level) {
			return ErrScaffoldOutOfOrder
		}
		b, err := m.state.source.ReadByte()
		if err != nil {
			return err
		}
		if b != byte(tag.End) {
			return &InvalidTagError{Byte: b}
		}
	}
	return m.state.levels.retire(m.level)
}

// MapPairReader enforces key-then-value read order for one map entry.
type MapPairReader struct {
	mr   *MapReader
	want mapPairWant
}

// NextKey returns a ValueReader for the pair's key.
func (p *MapPairReader) NextKey() (*ValueReader, error) {
	if p.want != mapWantKey {
		return nil, ErrValueExpectedGotKey
	}
	newLevel, err := p.mr.state.levels.begin(p.mr.level)
	if err != nil {
		return nil, err
	}
	p.want = mapWantValue
	return &ValueReader{state: p.mr.state, level: newLevel}, nil
}

// NextValue returns a ValueReader for the pair's value.
func (p *MapPairReader) NextValue() (*ValueReader, error) {
	if p.want != mapWantValue {
		return nil, ErrKeyExpectedGotValue
	}
	newLevel, err := p.mr.state.levels.begin(p.mr.level)
	if err != nil {
		return nil, err
	}
	p.want = mapPairDone
	if p.mr.remaining != nil {
		*p.mr.remaining--
	}
	return &ValueReader{state: p.mr.state, level: newLevel}, nil
}
