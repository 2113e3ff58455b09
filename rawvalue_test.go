package sdoc_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	sdoc "github.com/halvarsson/sdoc"
)

// TestScenarioS6RawValueExtractPreservesSemantics pins spec.md §8's S6:
// extracting one field of a struct as a RawValue and decoding it
// independently must equal decoding that same field as part of the whole
// document.
func TestScenarioS6RawValueExtractPreservesSemantics(t *testing.T) {
	doc := sdoc.StructValue{
		Shape: sdoc.ShapeFields,
		Fields: []sdoc.Field{
			{Name: "meta", Value: sdoc.UnitValue{}},
			{Name: "payload", Value: sdoc.EnumValue{
				Variant: "Pair", Shape: sdoc.ShapeTuple,
				Items: []sdoc.Value{sdoc.Int32Value(42), sdoc.StringValue("x")},
			}},
			{Name: "trailer", Value: sdoc.Int32Value(99)},
		},
	}

	b, err := sdoc.ToBytes(doc)
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}

	// Decode the whole document via the generic Value tree, as a reference.
	wholeDoc, err := sdoc.FromBytes(b)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	wantPayload := wholeDoc.(sdoc.StructValue).Fields[1].Value
	wantTrailer := wholeDoc.(sdoc.StructValue).Fields[2].Value

	// Independently, walk to the "payload" field with a fresh Reader and
	// extract it as a RawValue without decoding it in place.
	r, err := sdoc.NewReader(bytes.NewReader(b), sdoc.DefaultReaderConfig())
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	reading, err := r.Value().Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	sr, err := reading.TakeStruct()
	if err != nil {
		t.Fatalf("TakeStruct: %v", err)
	}
	name, metaVR, err := sr.NextField()
	if err != nil || name != "meta" {
		t.Fatalf("NextField meta: %q, %v", name, err)
	}
	if _, err := sdoc.ReadValue(metaVR); err != nil {
		t.Fatalf("ReadValue meta: %v", err)
	}
	name, payloadVR, err := sr.NextField()
	if err != nil || name != "payload" {
		t.Fatalf("NextField payload: %q, %v", name, err)
	}

	raw, err := sdoc.ExtractRawValue(payloadVR)
	if err != nil {
		t.Fatalf("ExtractRawValue: %v", err)
	}

	gotPayload, err := sdoc.ValueFrom(raw)
	if err != nil {
		t.Fatalf("ValueFrom: %v", err)
	}

	if diff := cmp.Diff(wantPayload, gotPayload); diff != "" {
		t.Fatalf("extracted payload mismatch (-want +got):\n%s", diff)
	}

	// Extracting "payload" must retire its own level, leaving sr free to
	// continue on to the next sibling field exactly as a normal Take call
	// would.
	name, trailerVR, err := sr.NextField()
	if err != nil || name != "trailer" {
		t.Fatalf("NextField trailer after extract: %q, %v", name, err)
	}
	gotTrailer, err := sdoc.ReadValue(trailerVR)
	if err != nil {
		t.Fatalf("ReadValue trailer: %v", err)
	}
	if diff := cmp.Diff(wantTrailer, gotTrailer); diff != "" {
		t.Fatalf("trailer mismatch after extract (-want +got):\n%s", diff)
	}
}

// TestInjectRawValueSplicesIntoNewDocument exercises the write side of
// RawValue: a subtree captured from one document is spliced as a struct
// field's value in an entirely new document, re-interning its strings
// against the new document's own table.
func TestInjectRawValueSplicesIntoNewDocument(t *testing.T) {
	inner := sdoc.TupleValue{Items: []sdoc.Value{
		sdoc.StringValue("shared"), sdoc.StringValue("shared"),
	}}
	raw, err := sdoc.RawFrom(inner)
	if err != nil {
		t.Fatalf("RawFrom: %v", err)
	}

	var buf bytes.Buffer
	w, err := sdoc.NewWriter(&buf, sdoc.DefaultWriterConfig())
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	sw, err := w.Value().WriteStruct(2)
	if err != nil {
		t.Fatalf("WriteStruct: %v", err)
	}
	tagField, err := sw.WriteField("tag")
	if err != nil {
		t.Fatalf("WriteField tag: %v", err)
	}
	if err := tagField.WriteString("shared"); err != nil { // pre-populate the new document's table
		t.Fatalf("WriteString tag: %v", err)
	}
	spliced, err := sw.WriteField("spliced")
	if err != nil {
		t.Fatalf("WriteField spliced: %v", err)
	}
	if err := sdoc.InjectRawValue(spliced, raw); err != nil {
		t.Fatalf("InjectRawValue: %v", err)
	}

	got, err := sdoc.FromBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	want := sdoc.StructValue{
		Shape: sdoc.ShapeFields,
		Fields: []sdoc.Field{
			{Name: "tag", Value: sdoc.StringValue("shared")},
			{Name: "spliced", Value: inner},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("injected document mismatch (-want +got):\n%s", diff)
	}
}
