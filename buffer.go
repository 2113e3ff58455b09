package sdoc

import "sync"

// rawBuffer accumulates bytes during RawValue extraction: a subtree is
// re-emitted into one of these with its own string table starting at 0, so
// it can later be spliced standalone or injected into another document
// (spec.md §4.7's extract/inject pair). Append-only, pooled for reuse
// across repeated extracts in a hot path.
type rawBuffer struct {
	Bytes []byte
}

func (b *rawBuffer) Reset() {
	b.Bytes = b.Bytes[:0]
}

var rawBufferPool = sync.Pool{
	New: func() any { return &rawBuffer{} },
}

// newRawBufferFromPool obtains a reset rawBuffer from the pool. Callers
// must call returnToPool when finished with it.
func newRawBufferFromPool() *rawBuffer {
	b := rawBufferPool.Get().(*rawBuffer)
	b.Reset()
	return b
}

// returnToPool releases the buffer back to the pool. Using it afterward is
// undefined behavior.
func (b *rawBuffer) returnToPool() {
	rawBufferPool.Put(b)
}

func (b *rawBuffer) WriteByte(c byte) error {
	b.Bytes = append(b.Bytes, c)
	return nil
}

func (b *rawBuffer) Write(p []byte) (int, error) {
	b.Bytes = append(b.Bytes, p...)
	return len(p), nil
}
