package util

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// maxPooledBuffer caps what is kept for reuse so one huge record does not
// pin its memory in the pool.
const maxPooledBuffer = 1 << 20

// BufferPool provides pooling for the buffers records are encoded into
type BufferPool struct {
	pool sync.Pool

	// Metrics
	hits   atomic.Int64
	misses atomic.Int64
}

var defaultBufferPool = &BufferPool{}

// Get retrieves an empty buffer from the pool or creates a new one
func (p *BufferPool) Get() *bytes.Buffer {
	if b, ok := p.pool.Get().(*bytes.Buffer); ok {
		p.hits.Add(1)
		b.Reset()
		return b
	}
	p.misses.Add(1)
	return new(bytes.Buffer)
}

// Put returns a buffer to the pool. The caller must not use its contents
// afterwards.
func (p *BufferPool) Put(b *bytes.Buffer) {
	if b == nil || b.Cap() > maxPooledBuffer {
		return
	}
	p.pool.Put(b)
}

// GetMetrics returns pool usage statistics
func (p *BufferPool) GetMetrics() (hits, misses int64) {
	return p.hits.Load(), p.misses.Load()
}

func GetBuffer() *bytes.Buffer {
	return defaultBufferPool.Get()
}

func PutBuffer(b *bytes.Buffer) {
	defaultBufferPool.Put(b)
}

// GetPoolMetrics returns hit and miss counts for the shared pool
func GetPoolMetrics() map[string]int64 {
	hits, misses := defaultBufferPool.GetMetrics()
	return map[string]int64{"hits": hits, "misses": misses}
}
