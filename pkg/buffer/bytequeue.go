package buffer

// DefaultCapacity is the initial allocation for a new queue when no size
// hint is given. Sized to hold several typical frames without growing.
const DefaultCapacity = 16 * 1024

// ByteQueue is a FIFO of bytes with an explicit consumed offset.
//
// Bytes are appended at the tail and consumed from the head. Consumed bytes
// are not copied out immediately; the head offset advances and the underlying
// storage is compacted only when the dead prefix dominates the buffer.
type ByteQueue struct {
	buf []byte
	off int

	stats Statistics
}

// Statistics tracks queue activity. Values are owned by the queue's single
// goroutine and are only meaningful when read from it.
type Statistics struct {
	Appended    uint64 // total bytes appended
	Consumed    uint64 // total bytes discarded after decoding
	Resets      uint64 // full discards after protocol errors
	Compactions uint64 // storage compactions performed
}

// NewByteQueue creates a queue with the given initial capacity.
// A non-positive capacity uses DefaultCapacity.
func NewByteQueue(capacity int) *ByteQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ByteQueue{buf: make([]byte, 0, capacity)}
}

// Append adds bytes to the tail of the queue.
func (q *ByteQueue) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	q.compactIfNeeded(len(p))
	q.buf = append(q.buf, p...)
	q.stats.Appended += uint64(len(p))
}

// Bytes returns the unconsumed portion of the queue without copying.
// The slice is invalidated by the next Append, Discard, or Reset.
func (q *ByteQueue) Bytes() []byte {
	return q.buf[q.off:]
}

// Len returns the number of unconsumed bytes.
func (q *ByteQueue) Len() int {
	return len(q.buf) - q.off
}

// Discard advances the head past n consumed bytes.
// Discarding more than Len panics: that is a framing bug in the caller.
func (q *ByteQueue) Discard(n int) {
	if n < 0 || n > q.Len() {
		panic("buffer: discard beyond unconsumed bytes")
	}
	q.off += n
	q.stats.Consumed += uint64(n)
	if q.off == len(q.buf) {
		// Everything consumed: rewind in place, keep capacity.
		q.buf = q.buf[:0]
		q.off = 0
	}
}

// Reset drops all buffered bytes, consumed and unconsumed.
// Used when the stream is corrupted beyond a recoverable frame boundary.
func (q *ByteQueue) Reset() {
	q.stats.Resets++
	q.buf = q.buf[:0]
	q.off = 0
}

// Stats returns a snapshot of queue activity counters.
func (q *ByteQueue) Stats() Statistics {
	return q.stats
}

// compactIfNeeded slides unconsumed bytes to the front when the consumed
// prefix is larger than the live data and an append is about to grow the
// backing array anyway.
func (q *ByteQueue) compactIfNeeded(incoming int) {
	if q.off == 0 {
		return
	}
	if len(q.buf)+incoming <= cap(q.buf) && q.off < len(q.buf)/2 {
		return
	}
	n := copy(q.buf, q.buf[q.off:])
	q.buf = q.buf[:n]
	q.off = 0
	q.stats.Compactions++
}
