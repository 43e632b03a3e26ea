package history

// Window is a fixed-capacity FIFO that keeps the most recently pushed items.
// Pushing onto a full window evicts the oldest item.
type Window[T any] struct {
	items []T
	start int
	size  int
}

// NewWindow creates a window holding up to capacity items.
// A non-positive capacity holds nothing.
func NewWindow[T any](capacity int) *Window[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Window[T]{items: make([]T, capacity)}
}

// Push adds item as the newest entry.
func (w *Window[T]) Push(item T) {
	capacity := len(w.items)
	if capacity == 0 {
		return
	}

	if w.size < capacity {
		w.items[(w.start+w.size)%capacity] = item
		w.size++
		return
	}

	// Full: overwrite the oldest slot and advance.
	w.items[w.start] = item
	w.start = (w.start + 1) % capacity
}

// Len returns the number of items held.
func (w *Window[T]) Len() int {
	return w.size
}

// Cap returns the capacity.
func (w *Window[T]) Cap() int {
	return len(w.items)
}

// Items returns the held items oldest first.
func (w *Window[T]) Items() []T {
	out := make([]T, 0, w.size)
	for i := 0; i < w.size; i++ {
		out = append(out, w.items[(w.start+i)%len(w.items)])
	}
	return out
}
