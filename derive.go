package sdoc

import "io"

// SelfWriter is the capability a derive-generated product or sum type
// implements to serialize itself through a ValueWriter (spec.md §4.9's
// write(&self, ValueWriter) -> io::Result<()>). The generator is out of
// core scope; this interface is the contract it targets.
type SelfWriter interface {
	WriteSdoc(vw *ValueWriter) error
}

// SelfReader is the read-side counterpart to SelfWriter (spec.md §4.9's
// read(ValueReader) -> Result<Self, ReadError>). Go has no bare
// return-type polymorphism over Self, so the contract is expressed the
// way encoding/json's Unmarshaler is: a pointer receiver populates the
// zero value it's called on instead of returning a fresh one.
type SelfReader interface {
	ReadSdoc(vr *ValueReader) error
}

// EncodeSelf is the SelfWriter-capability counterpart to Encode, for a
// type that serializes itself directly instead of building a generic
// Value tree first.
func EncodeSelf(w SelfWriter, sink io.Writer, cfg WriterConfig) error {
	wr, err := NewWriter(sink, cfg)
	if err != nil {
		return err
	}
	return w.WriteSdoc(wr.Value())
}

// DecodeSelf is the SelfReader-capability counterpart to Decode.
func DecodeSelf(r SelfReader, source io.Reader, cfg ReaderConfig) error {
	rd, err := NewReader(source, cfg)
	if err != nil {
		return err
	}
	return r.ReadSdoc(rd.Value())
}

// VersionProbe is implemented by a derive-generated type that opts an
// optional struct field into the wire-omission optimization (spec.md
// §4.9): a field of this type may be left off the wire entirely when its
// value is None, instead of being written as an explicit None marker.
// MinFormatVersion reports the lowest document format version that is
// guaranteed to carry the field when present, so a reader on an older
// document can tell "field omitted because it's None" apart from "field
// omitted because this document predates the field".
type VersionProbe interface {
	MinFormatVersion() byte
}

// FieldOmittable reports whether a None-valued optional field backed by
// probe may be dropped from the wire rather than written out, for a
// document declaring the given format version. Derive-generated Write
// implementations call this once per opted-in optional field before
// deciding whether to skip it or emit WriteNone.
func FieldOmittable(probe VersionProbe, version byte) bool {
	return version >= probe.MinFormatVersion()
}
