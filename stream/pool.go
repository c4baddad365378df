package stream

// Pool hands out a fixed number of equally sized byte buffers. A buffered
// channel holds the free list so Acquire never allocates.
type Pool struct {
	free chan []byte
	size int
}

// NewPool preallocates count buffers of size bytes each.
func NewPool(count, size int) *Pool {
	p := &Pool{
		free: make(chan []byte, count),
		size: size,
	}
	for i := 0; i < count; i++ {
		p.free <- make([]byte, 0, size)
	}
	return p
}

// Acquire takes a buffer from the pool. It reports false when every buffer is
// in use; it never blocks.
func (p *Pool) Acquire() ([]byte, bool) {
	select {
	case b := <-p.free:
		return b[:0], true
	default:
		return nil, false
	}
}

// Release returns b to the pool. Buffers that do not belong to a pool of this
// shape are ignored.
func (p *Pool) Release(b []byte) {
	if b == nil || cap(b) != p.size {
		return
	}
	select {
	case p.free <- b[:0]:
	default:
	}
}

// Available returns the number of free buffers.
func (p *Pool) Available() int {
	return len(p.free)
}

// BufferSize is the capacity of each pooled buffer.
func (p *Pool) BufferSize() int {
	return p.size
}
