package sdoc

import "github.com/sirupsen/logrus"

// WriterConfig tunes encoder-side policy: the string-interning threshold
// (spec.md §6 max_intern_str_len) and how programmer-misuse conditions are
// reported.
type WriterConfig struct {
	// MaxInternStringLen bounds the length (in bytes) a string may have and
	// still be eligible for interning; strings strictly longer bypass the
	// table entirely and are written with StrDirect. Zero selects the
	// package default of 255.
	MaxInternStringLen int

	// Strict, when true, turns scaffold-misuse conditions
	// (ScaffoldUsedOutOfOrder, writing past a sized container's promised
	// count, writing a map value before its key) into panics instead of
	// returned errors. The zero value is false; DefaultWriterConfig sets
	// it true.
	Strict bool

	// Logger receives Debug/Warn traces of level-discipline and
	// string-table activity. Nil disables tracing.
	Logger *logrus.Logger
}

// DefaultWriterConfig returns the package's default encoder policy.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		MaxInternStringLen: 255,
		Strict:             true,
	}
}

func (c WriterConfig) maxInternLen() int {
	if c.MaxInternStringLen <= 0 {
		return 255
	}
	return c.MaxInternStringLen
}

func (c WriterConfig) logf(level logrus.Level, format string, args ...any) {
	if c.Logger == nil {
		return
	}
	c.Logger.Logf(level, format, args...)
}

// ReaderConfig tunes decoder-side bounds checking, guarding against
// malformed or hostile input the way the teacher repo's DecodeLimits does.
type ReaderConfig struct {
	// MaxStringLen bounds the byte length of any decoded string. Zero means
	// unlimited.
	MaxStringLen uint64
	// MaxBytesLen bounds the byte length of any decoded byte blob. Zero
	// means unlimited.
	MaxBytesLen uint64
	// MaxContainerLen bounds the declared length of any length-prefixed
	// tuple, array or map. Zero means unlimited.
	MaxContainerLen uint64

	// Logger is carried with the config, but the reader emits no traces to
	// it; decode activity is not logged.
	Logger *logrus.Logger
}

// DefaultReaderConfig returns sensible bounds for untrusted input, modeled
// on the teacher repo's DefaultLimits.
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		MaxStringLen:    50 * 1024 * 1024,
		MaxBytesLen:     100 * 1024 * 1024,
		MaxContainerLen: 10_000_000,
	}
}

func (c ReaderConfig) checkLen(n uint64, limit uint64, what string) error {
	if limit > 0 && n > limit {
		return errorsNewLimit(what, n, limit)
	}
	return nil
}

func (c ReaderConfig) logf(level logrus.Level, format string, args ...any) {
	if c.Logger == nil {
		return
	}
	c.Logger.Logf(level, format, args...)
}
