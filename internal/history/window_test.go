package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	t.Run("keeps insertion order below capacity", func(t *testing.T) {
		w := NewWindow[int](3)
		w.Push(1)
		w.Push(2)

		assert.Equal(t, 2, w.Len())
		assert.Equal(t, 3, w.Cap())
		assert.Equal(t, []int{1, 2}, w.Items())
	})

	t.Run("evicts oldest when full", func(t *testing.T) {
		w := NewWindow[int](3)
		for i := 1; i <= 7; i++ {
			w.Push(i)
		}

		assert.Equal(t, 3, w.Len())
		assert.Equal(t, []int{5, 6, 7}, w.Items())
	})

	t.Run("empty window", func(t *testing.T) {
		w := NewWindow[string](10)
		assert.Equal(t, 0, w.Len())
		assert.Empty(t, w.Items())
	})

	t.Run("zero capacity drops everything", func(t *testing.T) {
		w := NewWindow[string](0)
		w.Push("a")
		assert.Equal(t, 0, w.Len())
		assert.Empty(t, w.Items())
	})

	t.Run("negative capacity behaves like zero", func(t *testing.T) {
		w := NewWindow[string](-4)
		w.Push("a")
		assert.Equal(t, 0, w.Cap())
	})
}
