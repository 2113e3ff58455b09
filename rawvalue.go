package sdoc

import (
	"github.com/halvarsson/sdoc/internal/tag"
)

// RawValue is an already-encoded subtree, captured with its own
// self-contained string table starting at id 0 (spec.md §4.7). It can be
// stored, passed around, and later spliced into a different document
// without a caller ever needing to know what shape the value has.
type RawValue struct {
	bytes []byte
}

// Bytes returns the raw encoded payload, framing-free.
func (rv RawValue) Bytes() []byte { return append([]byte(nil), rv.bytes...) }

// ExtractRawValue re-emits the value at vr into a fresh, self-contained
// buffer: a bare child Writer with its own string table, fed by a tag-
// descriptor-driven generic copier so it never has to understand what the
// value actually is. Grounded on the teacher's Walker/fieldBytes dispatch
// (walker.go), generalized from glint's own wire shapes to this format's
// tag set.
func ExtractRawValue(vr *ValueReader) (RawValue, error) {
	buf := newRawBufferFromPool()
	defer buf.returnToPool()

	w := NewBareWriter(buf, WriterConfig{})
	out := w.Value()
	if err := copyValue(vr, out); err != nil {
		return RawValue{}, err
	}
	// copyValue only moves bytes; retiring vr's own level is this call's
	// responsibility, same as any other Take* accessor, so the caller's
	// reader can continue with the next sibling value afterward.
	if err := vr.finish(); err != nil {
		return RawValue{}, err
	}
	if err := out.finish(); err != nil {
		return RawValue{}, err
	}
	return RawValue{bytes: append([]byte(nil), buf.Bytes...)}, nil
}

// InjectRawValue splices rv into the document being written at vw,
// re-interning any strings it carries against vw's own string table so
// back-references keep working across the splice.
func InjectRawValue(vw *ValueWriter, rv RawValue) error {
	src := newByteSource(newRawCursor(rv.bytes))
	inner := &Reader{state: &readerState{
		source:  src,
		strings: newStringReaderTable(),
		cfg:     DefaultReaderConfig(),
	}}
	vr := inner.Value()
	if err := copyValue(vr, vw); err != nil {
		return &RawValueReadFailedError{Cause: err}
	}
	return vw.finish()
}

// copyValue walks one value's tag and descriptor-declared payload,
// re-emitting it through dst. Interned strings and names are read through
// src's table and re-written (re-interned) through dst's, so the two
// documents' tables never need to agree; every other payload shape is
// moved byte-for-byte.
func copyValue(src *ValueReader, dst *ValueWriter) error {
	if err := src.assertActive(); err != nil {
		return err
	}
	if err := dst.assertActive(); err != nil {
		return err
	}

	b, err := src.state.source.ReadByte()
	if err != nil {
		return err
	}
	t, ok := tag.FromByte(b)
	if !ok {
		return &InvalidTagError{Byte: b}
	}
	if err := dst.writeTag(t); err != nil {
		return err
	}

	switch t {
	case tag.OptionSome, tag.StructNewtype:
		return copyValue(&ValueReader{state: src.state, level: src.level}, &ValueWriter{state: dst.state, level: dst.level})

	case tag.EnumUnit:
		return copyName(src, dst)

	case tag.EnumNewtype:
		if err := copyName(src, dst); err != nil {
			return err
		}
		return copyValue(&ValueReader{state: src.state, level: src.level}, &ValueWriter{state: dst.state, level: dst.level})

	case tag.EnumTuple, tag.EnumStruct:
		if err := copyName(src, dst); err != nil {
			return err
		}
		return copyCountedChildren(src, dst, t == tag.EnumStruct)

	case tag.StructTuple, tag.StructFields, tag.Tuple, tag.ArrayLen:
		return copyCountedChildren(src, dst, t == tag.StructFields)

	case tag.MapLen:
		return copyCountedPairs(src, dst)

	case tag.ArrayUnbounded:
		return copyUntilEnd(src, dst)

	case tag.MapUnbounded:
		return copyPairsUntilEnd(src, dst)

	case tag.Str:
		return copyInternedString(src, dst)

	case tag.Uint128Varint:
		n, err := readVarint128(src.state.source)
		if err != nil {
			return err
		}
		return dst.state.sink.Write(appendVarint128(nil, n))

	case tag.Int128Varint:
		n, err := readSignedVarint128(src.state.source)
		if err != nil {
			return err
		}
		return dst.state.sink.Write(appendSignedVarint128(nil, n))
	}

	desc := tag.Params(t)
	for _, p := range desc.Params {
		switch p {
		case tag.FixedBytes:
			buf, err := src.state.source.read(desc.Width)
			if err != nil {
				return err
			}
			if err := dst.state.sink.Write(buf); err != nil {
				return err
			}
		case tag.Varint:
			n, err := src.state.source.readUnsigned()
			if err != nil {
				return err
			}
			if err := dst.state.sink.writeUnsigned(n); err != nil {
				return err
			}
		case tag.SignedVarint:
			n, err := src.state.source.readSigned()
			if err != nil {
				return err
			}
			if err := dst.state.sink.writeSigned(n); err != nil {
				return err
			}
		case tag.LengthPrefixedBytes:
			n, err := src.state.source.readUnsigned()
			if err != nil {
				return err
			}
			buf, err := src.state.source.read(int(n))
			if err != nil {
				return err
			}
			if err := dst.state.sink.writeUnsigned(n); err != nil {
				return err
			}
			if err := dst.state.sink.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyName re-interns a struct-field/enum-variant name across the two
// tables instead of copying its marker byte verbatim (spec.md §6's
// InternedName aside — names have no tag byte budget of their own, so
// the new/index discriminator means nothing outside the table it was
// written against).
func copyName(src *ValueReader, dst *ValueWriter) error {
	name, err := readInternedName(src.state.source, src.state.strings)
	if err != nil {
		return err
	}
	return dst.writeInternedName(name)
}

// copyInternedString mirrors copyName for the Str value tag's sign-bit
// discriminated payload.
func copyInternedString(src *ValueReader, dst *ValueWriter) error {
	s, err := readStringBody(tag.Str, src.state.source, src.state.strings, src.state.cfg)
	if err != nil {
		return err
	}
	return dst.writeString(s)
}

// copyCountedChildren copies a fixed-arity children sequence (tuple,
// struct, array-with-length; length-prefixed maps go through
// copyCountedPairs). When named is set, each child is preceded by its
// interned field name, which is re-interned like any other name. Each child
// gets its own begin/retire pair at both ends, exactly as the public
// Reader/Writer API would produce, so the level tracker stays consistent
// with what a normal decode-then-encode round trip leaves behind.
func copyCountedChildren(src *ValueReader, dst *ValueWriter, named bool) error {
	n, err := src.state.source.readUnsigned()
	if err != nil {
		return err
	}
	if err := dst.state.sink.writeUnsigned(n); err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		if named {
			if err := copyName(src, dst); err != nil {
				return err
			}
		}
		if err := copyOneChild(src, dst); err != nil {
			return err
		}
	}
	return nil
}

func copyUntilEnd(src *ValueReader, dst *ValueWriter) error {
	for {
		b, err := src.state.source.peek()
		if err != nil {
			return err
		}
		if b == byte(tag.End) {
			if _, err := src.state.source.ReadByte(); err != nil { // consume the peeked End
				return err
			}
			break
		}
		if err := copyOneChild(src, dst); err != nil {
			return err
		}
	}
	return dst.state.sink.WriteByte(byte(tag.End))
}

// copyCountedPairs mirrors copyCountedChildren for a length-prefixed map:
// n is a pair count, so 2n values follow (key, value, key, value, ...).
func copyCountedPairs(src *ValueReader, dst *ValueWriter) error {
	n, err := src.state.source.readUnsigned()
	if err != nil {
		return err
	}
	if err := dst.state.sink.writeUnsigned(n); err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		if err := copyOneChild(src, dst); err != nil {
			return err
		}
		if err := copyOneChild(src, dst); err != nil {
			return err
		}
	}
	return nil
}

// copyPairsUntilEnd mirrors copyUntilEnd for an unbounded map: each
// non-End iteration is a full key/value pair.
func copyPairsUntilEnd(src *ValueReader, dst *ValueWriter) error {
	for {
		b, err := src.state.source.peek()
		if err != nil {
			return err
		}
		if b == byte(tag.End) {
			if _, err := src.state.source.ReadByte(); err != nil {
				return err
			}
			break
		}
		if err := copyOneChild(src, dst); err != nil {
			return err
		}
		if err := copyOneChild(src, dst); err != nil {
			return err
		}
	}
	return dst.state.sink.WriteByte(byte(tag.End))
}

func copyOneChild(src *ValueReader, dst *ValueWriter) error {
	srcLevel, err := src.state.levels.begin(src.level)
	if err != nil {
		return err
	}
	dstLevel, err := dst.state.levels.begin(dst.level)
	if err != nil {
		return err
	}
	cs := &ValueReader{state: src.state, level: srcLevel}
	cd := &ValueWriter{state: dst.state, level: dstLevel}
	if err := copyValue(cs, cd); err != nil {
		return err
	}
	if err := src.state.levels.retire(srcLevel); err != nil {
		return err
	}
	return dst.state.levels.retire(dstLevel)
}
