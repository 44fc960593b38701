// Package ring provides a fixed-size circular buffer that overwrites its
// oldest element once full.
package ring

// Buffer keeps the last size values pushed into it. It is not safe for
// concurrent use.
type Buffer[T any] struct {
	buf   []T
	start int // index of the oldest element
	n     int // elements stored
}

// New returns an empty buffer holding up to size elements. Sizes below one
// are raised to one.
func New[T any](size int) *Buffer[T] {
	if size < 1 {
		size = 1
	}
	return &Buffer[T]{buf: make([]T, size)}
}

// Push appends v. When the buffer is full the oldest value is dropped and
// returned with evicted set to true.
func (b *Buffer[T]) Push(v T) (dropped T, evicted bool) {
	if b.n < len(b.buf) {
		b.buf[(b.start+b.n)%len(b.buf)] = v
		b.n++
		return dropped, false
	}

	dropped = b.buf[b.start]
	b.buf[b.start] = v
	b.start = (b.start + 1) % len(b.buf)
	return dropped, true
}

// Len returns the number of stored values.
func (b *Buffer[T]) Len() int { return b.n }

// Full reports whether the buffer holds as many values as its size.
func (b *Buffer[T]) Full() bool { return b.n == len(b.buf) }

// At returns the i-th stored value, 0 being the oldest. It panics when i is
// out of range.
func (b *Buffer[T]) At(i int) T {
	if i < 0 || i >= b.n {
		panic("ring: index out of range")
	}
	return b.buf[(b.start+i)%len(b.buf)]
}

// Oldest returns the oldest value.
func (b *Buffer[T]) Oldest() (v T, ok bool) {
	if b.n == 0 {
		return v, false
	}
	return b.At(0), true
}

// Reset drops every stored value.
func (b *Buffer[T]) Reset() {
	var zero T
	for i := range b.buf {
		b.buf[i] = zero
	}
	b.start = 0
	b.n = 0
}
