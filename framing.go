package sdoc

// currentVersion is the format version this build writes and the highest
// version it can read (spec.md §5 framing: magic "sd" + one version byte).
const currentVersion byte = 0

var magic = [2]byte{'s', 'd'}

// writeFraming emits the two-byte magic and a single version byte ahead of
// a document's top-level value. Bare writers/readers skip this entirely,
// for embedding a document inside another format that already frames it.
func writeFraming(sink *byteSink, version byte) error {
	if err := sink.Write(magic[:]); err != nil {
		return err
	}
	return sink.WriteByte(version)
}

// readFraming validates the magic and returns the version byte, rejecting
// anything this build does not know how to read.
func readFraming(src *byteSource) (byte, error) {
	b, err := src.read(2)
	if err != nil {
		return 0, err
	}
	if b[0] != magic[0] || b[1] != magic[1] {
		return 0, ErrInvalidHeader
	}
	version, err := src.ReadByte()
	if err != nil {
		return 0, err
	}
	if version > currentVersion {
		return 0, &UnsupportedVersionError{Version: version}
	}
	return version, nil
}
