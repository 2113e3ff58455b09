package sdoc

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reader-side and writer-side sentinel errors (spec.md §7).
var (
	ErrInvalidHeader      = errors.New("sdoc: invalid magic header")
	ErrUnexpectedEnd      = errors.New("sdoc: unexpected End sentinel")
	ErrInvalidUtf8        = errors.New("sdoc: string is not valid utf-8")
	ErrInvalidStringRef   = errors.New("sdoc: reference to undefined string id")
	ErrDocumentTrailing   = errors.New("sdoc: trailing bytes after top-level value")
	ErrScaffoldOutOfOrder = errors.New("sdoc: scaffold used out of order")
	ErrMoreThanPromised   = errors.New("sdoc: more elements written than promised")
	ErrLessThanPromised   = errors.New("sdoc: fewer elements written than promised")
	ErrKeyExpectedGotValue = errors.New("sdoc: map pair wrote a value before its key")
	ErrValueExpectedGotKey = errors.New("sdoc: map pair wrote a second key before a value")
)

// UnsupportedVersionError reports a document whose format version this
// build does not understand.
type UnsupportedVersionError struct {
	Version byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("sdoc: unsupported format version %d", e.Version)
}

// InvalidTagError reports a byte that does not name any tag in the closed
// set.
type InvalidTagError struct {
	Byte byte
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("sdoc: invalid tag byte 0x%02x", e.Byte)
}

// InvalidCharError reports a varint or fixed value that does not decode to
// a valid Unicode code point.
type InvalidCharError struct {
	Value uint32
}

func (e *InvalidCharError) Error() string {
	return fmt.Sprintf("sdoc: invalid char code point %d", e.Value)
}

// UnexpectedValueError reports a typed "take" accessor invoked against a
// value of the wrong kind, optionally decorated with the domain type and
// variant name the caller was trying to decode into.
type UnexpectedValueError struct {
	Expected    string
	Found       string
	TypeName    string
	VariantName string
}

func (e *UnexpectedValueError) Error() string {
	base := fmt.Sprintf("sdoc: expected %s, found %s", e.Expected, e.Found)
	if e.VariantName != "" {
		return fmt.Sprintf("%s (decoding variant %q of %s)", base, e.VariantName, e.TypeName)
	}
	if e.TypeName != "" {
		return fmt.Sprintf("%s (decoding %s)", base, e.TypeName)
	}
	return base
}

// WithType returns a copy of the error decorated with the domain type name
// being decoded, for upward annotation by callers (typically derived code).
func (e *UnexpectedValueError) WithType(typeName string) *UnexpectedValueError {
	cp := *e
	cp.TypeName = typeName
	return &cp
}

// WithVariant returns a copy of the error decorated with the enum variant
// name being decoded.
func (e *UnexpectedValueError) WithVariant(variantName string) *UnexpectedValueError {
	cp := *e
	cp.VariantName = variantName
	return &cp
}

// UnexpectedLengthError reports a fixed-arity tuple or tuple variant whose
// declared child count does not match what the caller expected.
type UnexpectedLengthError struct {
	Expected int
	Got      int
	TypeName string
}

func (e *UnexpectedLengthError) Error() string {
	return fmt.Sprintf("sdoc: expected %d elements, got %d (decoding %s)", e.Expected, e.Got, e.TypeName)
}

// struct-field and enum-variant invariants enforced by the derive-facing
// layer (§4.9), reported by generated or hand-written Read implementations.

// DuplicateStructFieldError reports a field appearing twice in one struct.
type DuplicateStructFieldError struct {
	Name     string
	TypeName string
}

func (e *DuplicateStructFieldError) Error() string {
	return fmt.Sprintf("sdoc: duplicate field %q in %s", e.Name, e.TypeName)
}

// MissingStructFieldError reports a required field absent from the wire.
type MissingStructFieldError struct {
	Name     string
	TypeName string
}

func (e *MissingStructFieldError) Error() string {
	return fmt.Sprintf("sdoc: missing field %q in %s", e.Name, e.TypeName)
}

// UnexpectedStructFieldError reports a field on the wire unknown to the
// target type.
type UnexpectedStructFieldError struct {
	Name     string
	TypeName string
}

func (e *UnexpectedStructFieldError) Error() string {
	return fmt.Sprintf("sdoc: unexpected field %q in %s", e.Name, e.TypeName)
}

// UnexpectedEnumVariantError reports a variant name on the wire unknown to
// the target enum type.
type UnexpectedEnumVariantError struct {
	Name     string
	TypeName string
}

func (e *UnexpectedEnumVariantError) Error() string {
	return fmt.Sprintf("sdoc: unexpected variant %q in %s", e.Name, e.TypeName)
}

// RawValueReadFailedError wraps a failure re-parsing a raw value buffer
// during inject.
type RawValueReadFailedError struct {
	Cause error
}

func (e *RawValueReadFailedError) Error() string {
	return fmt.Sprintf("sdoc: raw value inject failed: %v", e.Cause)
}

func (e *RawValueReadFailedError) Unwrap() error { return e.Cause }

// LimitExceededError reports a decoded length exceeding a configured
// ReaderConfig bound.
type LimitExceededError struct {
	What  string
	Got   uint64
	Limit uint64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("sdoc: %s length %d exceeds limit %d", e.What, e.Got, e.Limit)
}

func errorsNewLimit(what string, got, limit uint64) error {
	return &LimitExceededError{What: what, Got: got, Limit: limit}
}
