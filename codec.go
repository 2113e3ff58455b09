package sdoc

import "io"

// Encode writes v as one framed document to sink, using cfg's encoder
// policy. It is the one-shot counterpart to building a Writer and walking
// vw.* calls by hand (spec.md §6's encode(value, sink)).
func Encode(v Value, sink io.Writer, cfg WriterConfig) error {
	w, err := NewWriter(sink, cfg)
	if err != nil {
		return err
	}
	return WriteValue(w.Value(), v)
}

// Decode reads one framed document from source and returns its generic
// Value tree (spec.md §6's decode(source) → value). It does not check for
// trailing bytes after the document; callers that need that guarantee
// should use a Reader directly and call Done.
func Decode(source io.Reader, cfg ReaderConfig) (Value, error) {
	r, err := NewReader(source, cfg)
	if err != nil {
		return nil, err
	}
	return ReadValue(r.Value())
}

// ToBytes encodes v into a freshly allocated byte slice using
// DefaultWriterConfig.
func ToBytes(v Value) ([]byte, error) {
	buf := newRawBufferFromPool()
	defer buf.returnToPool()

	if err := Encode(v, buf, DefaultWriterConfig()); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.Bytes...), nil
}

// FromBytes decodes a document previously produced by ToBytes, using
// DefaultReaderConfig.
func FromBytes(b []byte) (Value, error) {
	return Decode(newRawCursor(b), DefaultReaderConfig())
}

// RawFrom encodes v and wraps the result as a RawValue, suitable for
// storing alongside a document and splicing in later with InjectRawValue
// (spec.md §6's raw_from(value) → RawBuffer).
func RawFrom(v Value) (RawValue, error) {
	buf := newRawBufferFromPool()
	defer buf.returnToPool()

	w := NewBareWriter(buf, WriterConfig{})
	if err := WriteValue(w.Value(), v); err != nil {
		return RawValue{}, err
	}
	return RawValue{bytes: append([]byte(nil), buf.Bytes...)}, nil
}

// ValueFrom decodes a RawValue back into the generic Value tree (spec.md
// §6's value_from(raw) → value).
func ValueFrom(rv RawValue) (Value, error) {
	r := NewBareReader(newRawCursor(rv.bytes), DefaultReaderConfig())
	return ReadValue(r.Value())
}
