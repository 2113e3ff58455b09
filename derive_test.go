package sdoc_test

import (
	"bytes"
	"testing"

	sdoc "github.com/halvarsson/sdoc"
)

// point is a hand-written stand-in for what a derive generator would emit
// for a simple product type (spec.md §4.9): WriteSdoc/ReadSdoc implement
// SelfWriter/SelfReader directly against a ValueWriter/ValueReader instead
// of going through the generic Value tree.
type point struct {
	X, Y int32
}

func (p *point) WriteSdoc(vw *sdoc.ValueWriter) error {
	sw, err := vw.WriteStruct(2)
	if err != nil {
		return err
	}
	xf, err := sw.WriteField("x")
	if err != nil {
		return err
	}
	if err := xf.WriteInt32(p.X); err != nil {
		return err
	}
	yf, err := sw.WriteField("y")
	if err != nil {
		return err
	}
	return yf.WriteInt32(p.Y)
}

func (p *point) ReadSdoc(vr *sdoc.ValueReader) error {
	reading, err := vr.Read()
	if err != nil {
		return err
	}
	sr, err := reading.TakeStruct()
	if err != nil {
		return err
	}
	for i := 0; i < 2; i++ {
		name, fvr, err := sr.NextField()
		if err != nil {
			return err
		}
		fr, err := fvr.Read()
		if err != nil {
			return err
		}
		v, err := fr.TakeInt32()
		if err != nil {
			return err
		}
		switch name {
		case "x":
			p.X = v
		case "y":
			p.Y = v
		}
	}
	return nil
}

func TestEncodeSelfDecodeSelfRoundTrip(t *testing.T) {
	want := &point{X: 3, Y: -4}

	var buf bytes.Buffer
	if err := sdoc.EncodeSelf(want, &buf, sdoc.DefaultWriterConfig()); err != nil {
		t.Fatalf("EncodeSelf: %v", err)
	}

	var got point
	if err := sdoc.DecodeSelf(&got, &buf, sdoc.DefaultReaderConfig()); err != nil {
		t.Fatalf("DecodeSelf: %v", err)
	}
	if got != *want {
		t.Fatalf("round trip = %+v, want %+v", got, *want)
	}
}

// versionedField is a minimal VersionProbe: its optional field is only
// guaranteed present on documents at format version 2 or later.
type versionedField struct{}

func (versionedField) MinFormatVersion() byte { return 2 }

func TestFieldOmittable(t *testing.T) {
	var probe versionedField

	if sdoc.FieldOmittable(probe, 1) {
		t.Fatalf("version 1 predates the field; it must not be treated as omittable-but-present")
	}
	if !sdoc.FieldOmittable(probe, 2) {
		t.Fatalf("version 2 should allow omitting a None-valued field")
	}
	if !sdoc.FieldOmittable(probe, 3) {
		t.Fatalf("version 3 should allow omitting a None-valued field")
	}
}
