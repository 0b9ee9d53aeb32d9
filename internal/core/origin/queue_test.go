package origin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keysOf(q *orderedQueue[string, int]) []string {
	out := make([]string, 0, q.Len())
	for _, it := range q.Items() {
		out = append(out, it.key)
	}
	return out
}

func TestOrderedQueue_PushAndRotate(t *testing.T) {
	q := newOrderedQueue[string, int]()
	require.True(t, q.PushBack("a", 1, 1))
	require.True(t, q.PushBack("b", 2, 2))
	require.True(t, q.PushBack("c", 3, 3))
	assert.False(t, q.PushBack("a", 9, 9), "重复键不入队")

	k, v, ok := q.Front()
	require.True(t, ok)
	assert.Equal(t, "a", k)
	assert.Equal(t, 1, v)

	require.True(t, q.MoveToBack("a", 4))
	assert.Equal(t, []string{"b", "c", "a"}, keysOf(q))
	seq, _ := q.Seq("a")
	assert.Equal(t, uint64(4), seq)
	assert.False(t, q.MoveToBack("zz", 5))
}

func TestOrderedQueue_InsertOrdered(t *testing.T) {
	less := func(a, b int) bool { return a < b }
	q := newOrderedQueue[string, int]()
	q.InsertOrdered("x", 20, 1, less)
	q.InsertOrdered("y", 10, 2, less)
	q.InsertOrdered("z", 20, 3, less)
	q.InsertOrdered("w", 30, 4, less)

	assert.Equal(t, []string{"y", "x", "z", "w"}, keysOf(q))
	assert.Equal(t, []int{10, 20, 20, 30}, q.Values())
}

func TestOrderedQueue_RemoveRestore(t *testing.T) {
	t.Run("恢复到原位置", func(t *testing.T) {
		q := newOrderedQueue[string, int]()
		q.PushBack("a", 1, 1)
		q.PushBack("b", 2, 2)
		q.PushBack("c", 3, 3)

		restore, ok := q.Remove("b")
		require.True(t, ok)
		assert.False(t, q.Has("b"))
		assert.Equal(t, 2, q.Len())

		restore()
		assert.Equal(t, []string{"a", "b", "c"}, keysOf(q))
	})

	t.Run("后继已移除时放到队尾", func(t *testing.T) {
		q := newOrderedQueue[string, int]()
		q.PushBack("a", 1, 1)
		q.PushBack("b", 2, 2)
		q.PushBack("c", 3, 3)

		restore, _ := q.Remove("b")
		q.Remove("c")
		restore()
		assert.Equal(t, []string{"a", "b"}, keysOf(q))
	})

	t.Run("移除不存在的键", func(t *testing.T) {
		q := newOrderedQueue[string, int]()
		restore, ok := q.Remove("nope")
		assert.False(t, ok)
		restore()
		assert.Equal(t, 0, q.Len())
	})
}

func TestOrderedQueue_Reset(t *testing.T) {
	q := newOrderedQueue[string, int]()
	q.PushBack("a", 1, 1)
	q.Reset()
	assert.Equal(t, 0, q.Len())
	_, _, ok := q.Front()
	assert.False(t, ok)
	_, ok = q.Get("a")
	assert.False(t, ok)
}
