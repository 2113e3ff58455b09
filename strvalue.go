package sdoc

import (
	"unicode/utf8"

	"github.com/halvarsson/sdoc/internal/tag"
)

// writeString implements spec.md §4.3's emission path for the String tag
// family (policy: empty/direct/interned) and §6's choice for that family —
// a single Str tag whose payload is a signed varint id, sign bit
// discriminating definition (negative) from back-reference (positive).
func (vw *ValueWriter) writeString(s string) error {
	if len(s) == 0 {
		return vw.writeTag(tag.EmptyStr)
	}

	if len(s) > vw.state.cfg.maxInternLen() {
		if err := vw.writeTag(tag.StrDirect); err != nil {
			return err
		}
		if err := vw.state.sink.writeUnsigned(uint64(len(s))); err != nil {
			return err
		}
		return vw.state.sink.Write([]byte(s))
	}

	if err := vw.writeTag(tag.Str); err != nil {
		return err
	}

	if id, ok := vw.state.strings.Lookup(s); ok {
		// positive = back-reference
		return vw.state.sink.writeSigned(int64(id))
	}

	id := vw.state.strings.Intern(s)
	vw.state.cfg.logf(logDebug, "sdoc: interning string id=%d len=%d", id, len(s))
	// negative = definition; bias by one so id 0 still encodes as -1, never
	// producing the reserved negative-zero bit pattern.
	if err := vw.state.sink.writeSigned(-(int64(id) + 1)); err != nil {
		return err
	}
	if err := vw.state.sink.writeUnsigned(uint64(len(s))); err != nil {
		return err
	}
	return vw.state.sink.Write([]byte(s))
}

// readStringBody mirrors writeString's Str/StrDirect/EmptyStr dispatch.
func readStringBody(t tag.Tag, src *byteSource, table *stringReaderTable, cfg ReaderConfig) (string, error) {
	switch t {
	case tag.EmptyStr:
		return "", nil

	case tag.StrDirect:
		n, err := src.readUnsigned()
		if err != nil {
			return "", err
		}
		if err := cfg.checkLen(n, cfg.MaxStringLen, "string"); err != nil {
			return "", err
		}
		b, err := src.read(int(n))
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", ErrInvalidUtf8
		}
		return string(b), nil

	case tag.Str:
		id, err := src.readSigned()
		if err != nil {
			return "", err
		}
		if id >= 0 {
			return table.lookup(int(id))
		}

		realID := int(-id - 1)
		n, err := src.readUnsigned()
		if err != nil {
			return "", err
		}
		if err := cfg.checkLen(n, cfg.MaxStringLen, "string"); err != nil {
			return "", err
		}
		b, err := src.read(int(n))
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", ErrInvalidUtf8
		}
		s := string(b)
		table.define(realID, s)
		return s, nil
	}

	return "", &InvalidTagError{Byte: byte(t)}
}

// writeBytes writes a length-prefixed byte blob (never interned).
func (vw *ValueWriter) writeBytes(b []byte) error {
	if err := vw.writeTag(tag.Bytes); err != nil {
		return err
	}
	if err := vw.state.sink.writeUnsigned(uint64(len(b))); err != nil {
		return err
	}
	return vw.state.sink.Write(b)
}

func readBytesBody(src *byteSource, cfg ReaderConfig) ([]byte, error) {
	n, err := src.readUnsigned()
	if err != nil {
		return nil, err
	}
	if err := cfg.checkLen(n, cfg.MaxBytesLen, "bytes"); err != nil {
		return nil, err
	}
	return src.read(int(n))
}
