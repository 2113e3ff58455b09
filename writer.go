package sdoc

import (
	"io"
	"math"

	"github.com/halvarsson/sdoc/internal/strtable"
	"github.com/halvarsson/sdoc/internal/tag"
)

// writerState is the shared block a Writer owns and every scaffold it hands
// out borrows mutably: the byte sink, the string table, and the level
// counter (spec.md §9 design notes).
type writerState struct {
	sink    *byteSink
	strings *strtable.Writer
	levels  levelTracker
	cfg     WriterConfig
}

func (s *writerState) misuse(err error) error {
	s.cfg.logf(logWarn, "sdoc: %v", err)
	if s.cfg.Strict {
		panic(err)
	}
	return err
}

// Writer is the top-level handle for emitting one document: framing, then
// exactly one value.
type Writer struct {
	state *writerState
}

// NewWriter wraps sink, writes the "sd" magic and current format version,
// and returns a Writer ready to emit its single top-level value.
func NewWriter(sink io.Writer, cfg WriterConfig) (*Writer, error) {
	w := newBareWriterState(sink, cfg)
	if err := writeFraming(w.sink, currentVersion); err != nil {
		return nil, err
	}
	return &Writer{state: w}, nil
}

// NewBareWriter wraps sink without emitting framing, for embedded use (raw
// value buffers carry their own framing-free inner documents).
func NewBareWriter(sink io.Writer, cfg WriterConfig) *Writer {
	return &Writer{state: newBareWriterState(sink, cfg)}
}

// newBareWriterState wraps cfg verbatim: the zero value disables strict
// misuse-panicking, and a zero MaxInternStringLen falls back to 255, matching
// WriterConfig's documented field defaults. Call DefaultWriterConfig for the package's recommended
// policy instead.
func newBareWriterState(sink io.Writer, cfg WriterConfig) *writerState {
	return &writerState{
		sink:    newByteSink(sink),
		strings: strtable.NewWriter(),
		cfg:     cfg,
	}
}

// Value returns the one-shot ValueWriter for the document's single
// top-level value, at level 0.
func (w *Writer) Value() *ValueWriter {
	return &ValueWriter{state: w.state, level: 0}
}

// Closed reports whether the top-level value has been fully written.
func (w *Writer) Closed() bool {
	return w.state.levels.closed()
}

// ValueWriter is the one-shot per-value scaffold of spec.md §4.4.
type ValueWriter struct {
	state *writerState
	level int
}

func (vw *ValueWriter) assertActive() error {
	if !vw.state.levels.active(vw.level) {
		return vw.state.misuse(ErrScaffoldOutOfOrder)
	}
	return nil
}

func (vw *ValueWriter) writeTag(t tag.Tag) error {
	return vw.state.sink.WriteByte(byte(t))
}

func (vw *ValueWriter) finish() error {
	return vw.state.levels.retire(vw.level)
}

// --- primitives ---

// WriteUnit emits the Unit tag.
func (vw *ValueWriter) WriteUnit() error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeTag(tag.Unit); err != nil {
		return err
	}
	return vw.finish()
}

// WriteBool emits a bool as False or True.
func (vw *ValueWriter) WriteBool(v bool) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	t := tag.False
	if v {
		t = tag.True
	}
	if err := vw.writeTag(t); err != nil {
		return err
	}
	return vw.finish()
}

// WriteInt8 emits a fixed signed byte (8-bit has no varint form, §3).
func (vw *ValueWriter) WriteInt8(v int8) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeTag(tag.Int8); err != nil {
		return err
	}
	if err := vw.state.sink.WriteByte(byte(v)); err != nil {
		return err
	}
	return vw.finish()
}

// WriteUint8 emits a fixed unsigned byte.
func (vw *ValueWriter) WriteUint8(v uint8) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeTag(tag.Uint8); err != nil {
		return err
	}
	if err := vw.state.sink.WriteByte(v); err != nil {
		return err
	}
	return vw.finish()
}

// WriteInt16 chooses fixed vs. varint per the §4.1 heuristic.
func (vw *ValueWriter) WriteInt16(v int16) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeSignedWidth(int64(v), 2, tag.Int16Fixed, tag.Int16Varint); err != nil {
		return err
	}
	return vw.finish()
}

// WriteUint16 chooses fixed vs. varint per the §4.1 heuristic.
func (vw *ValueWriter) WriteUint16(v uint16) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeUnsignedWidth(uint64(v), 2, tag.Uint16Fixed, tag.Uint16Varint); err != nil {
		return err
	}
	return vw.finish()
}

// WriteInt32 chooses fixed vs. varint per the §4.1 heuristic.
func (vw *ValueWriter) WriteInt32(v int32) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeSignedWidth(int64(v), 4, tag.Int32Fixed, tag.Int32Varint); err != nil {
		return err
	}
	return vw.finish()
}

// WriteUint32 chooses fixed vs. varint per the §4.1 heuristic.
func (vw *ValueWriter) WriteUint32(v uint32) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeUnsignedWidth(uint64(v), 4, tag.Uint32Fixed, tag.Uint32Varint); err != nil {
		return err
	}
	return vw.finish()
}

// WriteInt64 chooses fixed vs. varint per the §4.1 heuristic.
func (vw *ValueWriter) WriteInt64(v int64) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeSignedWidth(v, 8, tag.Int64Fixed, tag.Int64Varint); err != nil {
		return err
	}
	return vw.finish()
}

// WriteUint64 chooses fixed vs. varint per the §4.1 heuristic.
func (vw *ValueWriter) WriteUint64(v uint64) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeUnsignedWidth(v, 8, tag.Uint64Fixed, tag.Uint64Varint); err != nil {
		return err
	}
	return vw.finish()
}

// WriteInt128 chooses fixed vs. varint per the §4.1 heuristic.
func (vw *ValueWriter) WriteInt128(v Int128) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	mag, _ := v.abs()
	lz := leadingZeros128(mag)
	if varintIsBetterThanFixed128(lz, true) {
		if err := vw.writeTag(tag.Int128Varint); err != nil {
			return err
		}
		b := appendSignedVarint128(nil, v)
		if err := vw.state.sink.Write(b); err != nil {
			return err
		}
	} else {
		if err := vw.writeTag(tag.Int128Fixed); err != nil {
			return err
		}
		buf := make([]byte, 16)
		putUint128LE(buf, Uint128{Hi: uint64(v.Hi), Lo: v.Lo})
		if err := vw.state.sink.Write(buf); err != nil {
			return err
		}
	}
	return vw.finish()
}

// WriteUint128 chooses fixed vs. varint per the §4.1 heuristic.
func (vw *ValueWriter) WriteUint128(v Uint128) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	lz := leadingZeros128(v)
	if varint128Better(lz, false) {
		if err := vw.writeTag(tag.Uint128Varint); err != nil {
			return err
		}
		b := appendVarint128(nil, v)
		if err := vw.state.sink.Write(b); err != nil {
			return err
		}
	} else {
		if err := vw.writeTag(tag.Uint128Fixed); err != nil {
			return err
		}
		buf := make([]byte, 16)
		putUint128LE(buf, v)
		if err := vw.state.sink.Write(buf); err != nil {
			return err
		}
	}
	return vw.finish()
}

func varint128Better(leadingZeros int, signed bool) bool {
	signBits := 7
	if signed {
		signBits = 6
	}
	usefulBits := 128 - leadingZeros - signBits
	if usefulBits < 0 {
		usefulBits = 0
	}
	varintLen := 1 + (usefulBits+6)/7
	return 16 > varintLen
}

func varintIsBetterThanFixed128(leadingZeros int, signed bool) bool {
	return varint128Better(leadingZeros, signed)
}

// WriteFloat32 always uses the fixed 4-byte form (§3: Float has no varint
// form).
func (vw *ValueWriter) WriteFloat32(v float32) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeTag(tag.Float32); err != nil {
		return err
	}
	bits := math.Float32bits(v)
	buf := []byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
	if err := vw.state.sink.Write(buf); err != nil {
		return err
	}
	return vw.finish()
}

// WriteFloat64 always uses the fixed 8-byte form.
func (vw *ValueWriter) WriteFloat64(v float64) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeTag(tag.Float64); err != nil {
		return err
	}
	bits := math.Float64bits(v)
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> (8 * i))
	}
	if err := vw.state.sink.Write(buf); err != nil {
		return err
	}
	return vw.finish()
}

// WriteChar emits a Unicode code point as a 32-bit integer, fixed or
// varint per the heuristic.
func (vw *ValueWriter) WriteChar(r rune) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeUnsignedWidth(uint64(uint32(r)), 4, tag.CharFixed, tag.CharVarint); err != nil {
		return err
	}
	return vw.finish()
}

// WriteString chooses empty/direct/interned per policy (§4.3).
func (vw *ValueWriter) WriteString(s string) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeString(s); err != nil {
		return err
	}
	return vw.finish()
}

// WriteBytes emits a length-prefixed byte blob.
func (vw *ValueWriter) WriteBytes(b []byte) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeBytes(b); err != nil {
		return err
	}
	return vw.finish()
}

// --- option ---

// WriteNone emits Option::None.
func (vw *ValueWriter) WriteNone() error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeTag(tag.OptionNone); err != nil {
		return err
	}
	return vw.finish()
}

// WriteSome emits the Some tag and returns a ValueWriter for the inline
// payload, continuing at the same level.
func (vw *ValueWriter) WriteSome() (*ValueWriter, error) {
	if err := vw.assertActive(); err != nil {
		return nil, err
	}
	if err := vw.writeTag(tag.OptionSome); err != nil {
		return nil, err
	}
	return &ValueWriter{state: vw.state, level: vw.level}, nil
}

// --- struct shapes ---

// WriteUnitStruct emits a zero-field struct.
func (vw *ValueWriter) WriteUnitStruct() error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeTag(tag.StructUnit); err != nil {
		return err
	}
	return vw.finish()
}

// WriteNewtypeStruct emits the Newtype tag and returns a ValueWriter for
// the inline single field, continuing at the same level.
func (vw *ValueWriter) WriteNewtypeStruct() (*ValueWriter, error) {
	if err := vw.assertActive(); err != nil {
		return nil, err
	}
	if err := vw.writeTag(tag.StructNewtype); err != nil {
		return nil, err
	}
	return &ValueWriter{state: vw.state, level: vw.level}, nil
}

// WriteTupleStruct emits a fixed-arity unnamed struct. A new level is
// entered only when n>0; for n==0 the value finishes immediately.
func (vw *ValueWriter) WriteTupleStruct(n int) (*SizedTupleWriter, error) {
	if err := vw.assertActive(); err != nil {
		return nil, err
	}
	if err := vw.writeTag(tag.StructTuple); err != nil {
		return nil, err
	}
	return vw.enterSizedTuple(n)
}

// WriteStruct emits a fixed-arity named-field struct, same level-entry
// rule as WriteTupleStruct.
func (vw *ValueWriter) WriteStruct(n int) (*SizedStructWriter, error) {
	if err := vw.assertActive(); err != nil {
		return nil, err
	}
	if err := vw.writeTag(tag.StructFields); err != nil {
		return nil, err
	}
	return vw.enterSizedStruct(n)
}

func (vw *ValueWriter) enterSizedTuple(n int) (*SizedTupleWriter, error) {
	if err := vw.state.sink.writeUnsigned(uint64(n)); err != nil {
		return nil, err
	}
	if n == 0 {
		if err := vw.finish(); err != nil {
			return nil, err
		}
		return &SizedTupleWriter{state: vw.state, level: vw.level, remaining: 0, done: true}, nil
	}
	newLevel, err := vw.state.levels.begin(vw.level)
	if err != nil {
		return nil, vw.state.misuse(err)
	}
	// vw's own slot cannot retire until every child does; register that now
	// so it cascades in once the child scope (newLevel) itself retires.
	if err := vw.state.levels.retire(vw.level); err != nil {
		return nil, vw.state.misuse(err)
	}
	return &SizedTupleWriter{state: vw.state, level: newLevel, parent: vw.level, remaining: n}, nil
}

func (vw *ValueWriter) enterSizedStruct(n int) (*SizedStructWriter, error) {
	if err := vw.state.sink.writeUnsigned(uint64(n)); err != nil {
		return nil, err
	}
	if n == 0 {
		if err := vw.finish(); err != nil {
			return nil, err
		}
		return &SizedStructWriter{state: vw.state, level: vw.level, remaining: 0, done: true}, nil
	}
	newLevel, err := vw.state.levels.begin(vw.level)
	if err != nil {
		return nil, vw.state.misuse(err)
	}
	if err := vw.state.levels.retire(vw.level); err != nil {
		return nil, vw.state.misuse(err)
	}
	return &SizedStructWriter{state: vw.state, level: newLevel, parent: vw.level, remaining: n}, nil
}

// --- enum variants ---

// WriteUnitVariant emits a nullary enum variant named name.
func (vw *ValueWriter) WriteUnitVariant(name string) error {
	if err := vw.assertActive(); err != nil {
		return err
	}
	if err := vw.writeTag(tag.EnumUnit); err != nil {
		return err
	}
	if err := vw.writeInternedName(name); err != nil {
		return err
	}
	return vw.finish()
}

// WriteNewtypeVariant emits the variant name and returns a ValueWriter for
// its inline payload, continuing at the same level.
func (vw *ValueWriter) WriteNewtypeVariant(name string) (*ValueWriter, error) {
	if err := vw.assertActive(); err != nil {
		return nil, err
	}
	if err := vw.writeTag(tag.EnumNewtype); err != nil {
		return nil, err
	}
	if err := vw.writeInternedName(name); err != nil {
		return nil, err
	}
	return &ValueWriter{state: vw.state, level: vw.level}, nil
}

// WriteTupleVariant emits a fixed-arity unnamed-field variant.
func (vw *ValueWriter) WriteTupleVariant(name string, n int) (*SizedTupleWriter, error) {
	if err := vw.assertActive(); err != nil {
		return nil, err
	}
	if err := vw.writeTag(tag.EnumTuple); err != nil {
		return nil, err
	}
	if err := vw.writeInternedName(name); err != nil {
		return nil, err
	}
	return vw.enterSizedTuple(n)
}

// WriteStructVariant emits a fixed-arity named-field variant. It gets its
// own tag distinct from Tuple/EnumTuple (spec.md §9's open question,
// resolved here in favor of a dedicated tag — see DESIGN.md).
func (vw *ValueWriter) WriteStructVariant(name string, n int) (*SizedStructWriter, error) {
	if err := vw.assertActive(); err != nil {
		return nil, err
	}
	if err := vw.writeTag(tag.EnumStruct); err != nil {
		return nil, err
	}
	if err := vw.writeInternedName(name); err != nil {
		return nil, err
	}
	return vw.enterSizedStruct(n)
}

// --- tuple / seq / map ---

// WriteTuple emits a fixed-arity heterogeneous tuple.
func (vw *ValueWriter) WriteTuple(n int) (*SizedTupleWriter, error) {
	if err := vw.assertActive(); err != nil {
		return nil, err
	}
	if err := vw.writeTag(tag.Tuple); err != nil {
		return nil, err
	}
	return vw.enterSizedTuple(n)
}

// WriteSeq begins a homogeneous sequence. A nil length writes the
// unbounded form, terminated by an explicit Finish() call that emits End.
func (vw *ValueWriter) WriteSeq(length *int) (*ArrayWriter, error) {
	if err := vw.assertActive(); err != nil {
		return nil, err
	}
	if length != nil {
		if err := vw.writeTag(tag.ArrayLen); err != nil {
			return nil, err
		}
		if err := vw.state.sink.writeUnsigned(uint64(*length)); err != nil {
			return nil, err
		}
	} else if err := vw.writeTag(tag.ArrayUnbounded); err != nil {
		return nil, err
	}

	newLevel, err := vw.state.levels.begin(vw.level)
	if err != nil {
		return nil, vw.state.misuse(err)
	}
	if err := vw.state.levels.retire(vw.level); err != nil {
		return nil, vw.state.misuse(err)
	}

	var remaining *int
	if length != nil {
		v := *length
		remaining = &v
	}
	return &ArrayWriter{state: vw.state, level: newLevel, parent: vw.level, remaining: remaining}, nil
}

// WriteMap begins a keyed map. A nil length writes the unbounded form.
func (vw *ValueWriter) WriteMap(length *int) (*MapWriter, error) {
	if err := vw.assertActive(); err != nil {
		return nil, err
	}
	if length != nil {
		if err := vw.writeTag(tag.MapLen); err != nil {
			return nil, err
		}
		if err := vw.state.sink.writeUnsigned(uint64(*length)); err != nil {
			return nil, err
		}
	} else if err := vw.writeTag(tag.MapUnbounded); err != nil {
		return nil, err
	}

	newLevel, err := vw.state.levels.begin(vw.level)
	if err != nil {
		return nil, vw.state.misuse(err)
	}
	if err := vw.state.levels.retire(vw.level); err != nil {
		return nil, vw.state.misuse(err)
	}

	var remaining *int
	if length != nil {
		v := *length
		remaining = &v
	}
	return &MapWriter{state: vw.state, level: newLevel, parent: vw.level, remaining: remaining}, nil
}

// SizedTupleWriter hands out unnamed child value writers for a fixed-arity
// tuple/tuple-struct/tuple-variant.
type SizedTupleWriter struct {
	state     *writerState
	level     int
	parent    int
	remaining int
	done      bool
}

// WriteValue returns the next child's ValueWriter, at a deeper level.
// Writing past the promised count is a misuse (MoreElementsThanPromised).
func (s *SizedTupleWriter) WriteValue() (*ValueWriter, error) {
	if s.done || s.remaining <= 0 {
		return nil, s.state.misuse(ErrMoreThanPromised)
	}
	if !s.state.levels.active(s.level) {
		return nil, s.state.misuse(ErrScaffoldOutOfOrder)
	}

	newLevel, err := s.state.levels.begin(s.level)
	if err != nil {
		return nil, s.state.misuse(err)
	}
	s.remaining--
	if s.remaining == 0 {
		s.done = true
		// Retiring our own scope cascades into the deferred parent slot
		// registered at creation, once this last child itself finishes.
		if err := s.state.levels.retire(s.level); err != nil {
			return nil, s.state.misuse(err)
		}
	}
	return &ValueWriter{state: s.state, level: newLevel}, nil
}

// SizedStructWriter hands out named child value writers for a fixed-arity
// named-field struct/struct-variant.
type SizedStructWriter struct {
	state     *writerState
	level     int
	parent    int
	remaining int
	done      bool
}

// WriteField emits the field's interned name, then returns a ValueWriter
// for its value exactly like SizedTupleWriter.WriteValue.
func (s *SizedStructWriter) WriteField(name string) (*ValueWriter, error) {
	if s.done || s.remaining <= 0 {
		return nil, s.state.misuse(ErrMoreThanPromised)
	}
	if !s.state.levels.active(s.level) {
		return nil, s.state.misuse(ErrScaffoldOutOfOrder)
	}

	vw := &ValueWriter{state: s.state, level: s.level}
	if err := vw.writeInternedName(name); err != nil {
		return nil, err
	}

	newLevel, err := s.state.levels.begin(s.level)
	if err != nil {
		return nil, s.state.misuse(err)
	}
	s.remaining--
	if s.remaining == 0 {
		s.done = true
		if err := s.state.levels.retire(s.level); err != nil {
			return nil, s.state.misuse(err)
		}
	}
	return &ValueWriter{state: s.state, level: newLevel}, nil
}

// ArrayWriter hands out child value writers for a homogeneous sequence.
type ArrayWriter struct {
	state     *writerState
	level     int
	parent    int
	remaining *int // nil: unbounded
}

// WriteValue returns the next element's ValueWriter. With a known length,
// each call consumes one slot; writing past it is a misuse.
func (a *ArrayWriter) WriteValue() (*ValueWriter, error) {
	if !a.state.levels.active(a.level) {
		return nil, a.state.misuse(ErrScaffoldOutOfOrder)
	}
	if a.remaining != nil {
		if *a.remaining <= 0 {
			return nil, a.state.misuse(ErrMoreThanPromised)
		}
		*a.remaining--
	}
	newLevel, err := a.state.levels.begin(a.level)
	if err != nil {
		return nil, a.state.misuse(err)
	}
	return &ValueWriter{state: a.state, level: newLevel}, nil
}

// Finish closes the array: for the unbounded form it emits the End
// sentinel; for the bounded form it verifies all promised elements were
// written. Either way it retires the array's level. The bounded form defers
// that retirement if the last element's scaffold has not yet itself
// finished; the unbounded form requires the array's level to be active and
// reports ErrScaffoldOutOfOrder otherwise.
func (a *ArrayWriter) Finish() error {
	if a.remaining != nil && *a.remaining != 0 {
		return a.state.misuse(ErrLessThanPromised)
	}
	if a.remaining == nil {
		if !a.state.levels.active(a.level) {
			return a.state.misuse(ErrScaffoldOutOfOrder)
		}
		if err := a.state.sink.WriteByte(byte(tag.End)); err != nil {
			return err
		}
	}
	return a.state.levels.retire(a.level)
}

// MapWriter hands out MapPairWriters for a keyed map.
type MapWriter struct {
	state     *writerState
	level     int
	parent    int
	remaining *int // nil: unbounded
}

// WritePair begins the next key/value pair.
func (m *MapWriter) WritePair() (*MapPairWriter, error) {
	if !m.state.levels.active(m.level) {
		return nil, m.state.misuse(ErrScaffoldOutOfOrder)
	}
	if m.remaining != nil && *m.remaining <= 0 {
		return nil, m.state.misuse(ErrMoreThanPromised)
	}
	return &MapPairWriter{mw: m, want: mapWantKey}, nil
}

// Finish closes the map, symmetric to ArrayWriter.Finish.
func (m *MapWriter) Finish() error {
	if m.remaining != nil && *m.remaining != 0 {
		return m.state.misuse(ErrLessThanPromised)
	}
	if m.remaining == nil {
		if !m.state.levels.active(m.level) {
			return m.state.misuse(ErrScaffoldOutOfOrder)
		}
		if err := m.state.sink.WriteByte(byte(tag.End)); err != nil {
			return err
		}
	}
	return m.state.levels.retire(m.level)
}

type mapPairWant int

const (
	mapWantKey mapPairWant = iota
	mapWantValue
	mapPairDone
)

// MapPairWriter enforces key-then-value order for one map entry.
type MapPairWriter struct {
	mw   *MapWriter
	want mapPairWant
}

// WriteKey returns a ValueWriter for the pair's key. Calling this twice
// without an intervening WriteValue is a misuse.
func (p *MapPairWriter) WriteKey() (*ValueWriter, error) {
	if p.want != mapWantKey {
		return nil, p.mw.state.misuse(ErrValueExpectedGotKey)
	}
	newLevel, err := p.mw.state.levels.begin(p.mw.level)
	if err != nil {
		return nil, p.mw.state.misuse(err)
	}
	p.want = mapWantValue
	return &ValueWriter{state: p.mw.state, level: newLevel}, nil
}

// WriteValue returns a ValueWriter for the pair's value. Calling this
// before WriteKey is a misuse.
func (p *MapPairWriter) WriteValue() (*ValueWriter, error) {
	if p.want != mapWantValue {
		return nil, p.mw.state.misuse(ErrKeyExpectedGotValue)
	}
	newLevel, err := p.mw.state.levels.begin(p.mw.level)
	if err != nil {
		return nil, p.mw.state.misuse(err)
	}
	p.want = mapPairDone
	if p.mw.remaining != nil {
		*p.mw.remaining--
	}
	return &ValueWriter{state: p.mw.state, level: newLevel}, nil
}
