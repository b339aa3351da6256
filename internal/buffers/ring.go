package buffers

// Ring is a fixed-capacity FIFO buffer. When full, Push discards the oldest
// element before appending. Ring is not safe for concurrent use; owners guard it.
type Ring[T any] struct {
	items []T
	head  int // index of the oldest element
	size  int
}

func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

func (r *Ring[T]) Cap() int { return len(r.items) }

func (r *Ring[T]) Len() int { return r.size }

// Push appends v and reports whether the oldest element was evicted to make room.
func (r *Ring[T]) Push(v T) bool {
	if r.size < len(r.items) {
		r.items[(r.head+r.size)%len(r.items)] = v
		r.size++
		return false
	}
	r.items[r.head] = v
	r.head = (r.head + 1) % len(r.items)
	return true
}

// Snapshot returns a copy of the contents in insertion order.
func (r *Ring[T]) Snapshot() []T {
	out := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.items[(r.head+i)%len(r.items)]
	}
	return out
}

// Each calls fn for every element in insertion order.
func (r *Ring[T]) Each(fn func(T)) {
	for i := 0; i < r.size; i++ {
		fn(r.items[(r.head+i)%len(r.items)])
	}
}

// Retain keeps only the elements for which keep returns true, preserving order,
// and returns the number of elements removed.
func (r *Ring[T]) Retain(keep func(T) bool) int {
	kept := make([]T, 0, r.size)
	r.Each(func(v T) {
		if keep(v) {
			kept = append(kept, v)
		}
	})
	removed := r.size - len(kept)
	if removed == 0 {
		return 0
	}
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	copy(r.items, kept)
	r.head = 0
	r.size = len(kept)
	return removed
}

func (r *Ring[T]) Clear() {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.head = 0
	r.size = 0
}
