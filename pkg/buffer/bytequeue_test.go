package buffer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteQueue_AppendAndBytes(t *testing.T) {
	q := NewByteQueue(0)
	assert.Equal(t, 0, q.Len())

	q.Append([]byte("hello"))
	q.Append([]byte(" world"))

	assert.Equal(t, 11, q.Len())
	assert.Equal(t, []byte("hello world"), q.Bytes())
}

func TestByteQueue_Discard(t *testing.T) {
	q := NewByteQueue(0)
	q.Append([]byte("abcdef"))

	q.Discard(3)
	assert.Equal(t, []byte("def"), q.Bytes())

	q.Discard(3)
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Bytes())
}

func TestByteQueue_DiscardBeyondLenPanics(t *testing.T) {
	q := NewByteQueue(0)
	q.Append([]byte("ab"))

	assert.Panics(t, func() { q.Discard(3) })
	assert.Panics(t, func() { q.Discard(-1) })
}

func TestByteQueue_Reset(t *testing.T) {
	q := NewByteQueue(0)
	q.Append([]byte("garbage"))
	q.Discard(2)

	q.Reset()

	assert.Equal(t, 0, q.Len())
	assert.Equal(t, uint64(1), q.Stats().Resets)
}

func TestByteQueue_InterleavedAppendDiscard(t *testing.T) {
	// Drive the queue past its initial capacity with partial consumption,
	// verifying FIFO order survives compaction.
	q := NewByteQueue(8)

	var want bytes.Buffer
	var got bytes.Buffer

	chunk := []byte("0123456789abcdef")
	for i := 0; i < 1000; i++ {
		q.Append(chunk)
		want.Write(chunk)

		// Consume in an unaligned stride to land mid-chunk.
		for q.Len() >= 7 {
			got.Write(q.Bytes()[:7])
			q.Discard(7)
		}
	}
	got.Write(q.Bytes())
	q.Discard(q.Len())

	require.Equal(t, want.Bytes(), got.Bytes())

	stats := q.Stats()
	assert.Equal(t, uint64(16000), stats.Appended)
	assert.Equal(t, uint64(16000), stats.Consumed)
	assert.NotZero(t, stats.Compactions)
}

func TestByteQueue_FullConsumptionRewinds(t *testing.T) {
	q := NewByteQueue(0)
	q.Append([]byte("abc"))
	q.Discard(3)

	// After full consumption the queue reuses its storage from offset zero.
	q.Append([]byte("xyz"))
	assert.Equal(t, []byte("xyz"), q.Bytes())
}
