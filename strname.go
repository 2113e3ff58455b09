package sdoc

// Struct field names and enum variant names are interned strings with no
// tag byte of their own to carry a new/index discriminator (they are
// embedded inline ahead of a StructFields/EnumVariant tag's children, not a
// standalone tagged value). This module resolves spec.md §9's open question
// by giving them their own one-byte discriminator distinct from the Str
// value tag's sign-bit convention — see DESIGN.md.
const (
	nameIndexMarker byte = 0
	nameNewMarker   byte = 1
)

func (vw *ValueWriter) writeInternedName(name string) error {
	if id, ok := vw.state.strings.Lookup(name); ok {
		if err := vw.state.sink.WriteByte(nameIndexMarker); err != nil {
			return err
		}
		return vw.state.sink.writeUnsigned(uint64(id))
	}

	id := vw.state.strings.Intern(name)
	if err := vw.state.sink.WriteByte(nameNewMarker); err != nil {
		return err
	}
	if err := vw.state.sink.writeUnsigned(uint64(id)); err != nil {
		return err
	}
	if err := vw.state.sink.writeUnsigned(uint64(len(name))); err != nil {
		return err
	}
	return vw.state.sink.Write([]byte(name))
}

func readInternedName(src *byteSource, table *stringReaderTable) (string, error) {
	marker, err := src.ReadByte()
	if err != nil {
		return "", err
	}

	id64, err := src.readUnsigned()
	if err != nil {
		return "", err
	}
	id := int(id64)

	if marker == nameNewMarker {
		length, err := src.readUnsigned()
		if err != nil {
			return "", err
		}
		b, err := src.read(int(length))
		if err != nil {
			return "", err
		}
		s := string(b)
		table.define(id, s)
		return s, nil
	}

	return table.lookup(id)
}
