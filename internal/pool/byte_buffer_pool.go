// Package pool provides pooled byte buffers for the codec encode path.
package pool

import "sync"

const (
	// BufferDefaultSize is the starting capacity of a pooled buffer.
	BufferDefaultSize = 16 * 1024
	// BufferMaxThreshold is the largest buffer returned to the pool.
	// Oversized buffers are dropped so one huge series does not pin
	// memory for the life of the process.
	BufferMaxThreshold = 128 * 1024
)

// ByteBuffer is a growable byte slice with append-style write helpers.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a buffer with the given starting capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Len returns the current length of the buffer.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Reset empties the buffer while keeping its allocation.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// MustWrite appends data to the buffer, growing it as needed.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// WriteByte appends a single byte. The error is always nil; the signature
// satisfies io.ByteWriter.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// Grow ensures the buffer can hold n more bytes without reallocating.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}
	grown := make([]byte, len(bb.B), cap(bb.B)+n)
	copy(grown, bb.B)
	bb.B = grown
}

var bufferPool = sync.Pool{
	New: func() any {
		return NewByteBuffer(BufferDefaultSize)
	},
}

// GetBuffer obtains a reset buffer from the pool.
func GetBuffer() *ByteBuffer {
	buf, _ := bufferPool.Get().(*ByteBuffer)
	buf.Reset()

	return buf
}

// PutBuffer returns a buffer to the pool unless it grew past the
// retention threshold.
func PutBuffer(buf *ByteBuffer) {
	if buf == nil || cap(buf.B) > BufferMaxThreshold {
		return
	}
	bufferPool.Put(buf)
}
