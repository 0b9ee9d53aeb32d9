package origin

import "container/list"

// queueItem 队列元素，seq 为入队序号（持久化后用于恢复顺序）
type queueItem[K comparable, V any] struct {
	key   K
	value V
	seq   uint64
}

// orderedQueue 按插入顺序排列、可按键定位的队列
type orderedQueue[K comparable, V any] struct {
	l   *list.List
	idx map[K]*list.Element
}

func newOrderedQueue[K comparable, V any]() *orderedQueue[K, V] {
	return &orderedQueue[K, V]{l: list.New(), idx: make(map[K]*list.Element)}
}

func (q *orderedQueue[K, V]) Len() int {
	return q.l.Len()
}

func (q *orderedQueue[K, V]) Has(key K) bool {
	_, ok := q.idx[key]
	return ok
}

func (q *orderedQueue[K, V]) Get(key K) (V, bool) {
	if e, ok := q.idx[key]; ok {
		return e.Value.(*queueItem[K, V]).value, true
	}
	var zero V
	return zero, false
}

// PushBack 追加到队尾，键已存在时不做任何事
func (q *orderedQueue[K, V]) PushBack(key K, value V, seq uint64) bool {
	if q.Has(key) {
		return false
	}
	q.idx[key] = q.l.PushBack(&queueItem[K, V]{key: key, value: value, seq: seq})
	return true
}

// InsertOrdered 插入到第一个满足 less(value, 现有元素) 的元素之前，相等元素保持先后
func (q *orderedQueue[K, V]) InsertOrdered(key K, value V, seq uint64, less func(a, b V) bool) bool {
	if q.Has(key) {
		return false
	}
	item := &queueItem[K, V]{key: key, value: value, seq: seq}
	for e := q.l.Front(); e != nil; e = e.Next() {
		if less(value, e.Value.(*queueItem[K, V]).value) {
			q.idx[key] = q.l.InsertBefore(item, e)
			return true
		}
	}
	q.idx[key] = q.l.PushBack(item)
	return true
}

func (q *orderedQueue[K, V]) Front() (K, V, bool) {
	e := q.l.Front()
	if e == nil {
		var (
			zk K
			zv V
		)
		return zk, zv, false
	}
	item := e.Value.(*queueItem[K, V])
	return item.key, item.value, true
}

// MoveToBack 移到队尾并更新序号
func (q *orderedQueue[K, V]) MoveToBack(key K, seq uint64) bool {
	e, ok := q.idx[key]
	if !ok {
		return false
	}
	e.Value.(*queueItem[K, V]).seq = seq
	q.l.MoveToBack(e)
	return true
}

// Remove 移除元素，返回的 restore 把元素放回原位置
func (q *orderedQueue[K, V]) Remove(key K) (restore func(), ok bool) {
	e, ok := q.idx[key]
	if !ok {
		return func() {}, false
	}
	next := e.Next()
	item := q.l.Remove(e).(*queueItem[K, V])
	delete(q.idx, key)

	return func() {
		if next != nil {
			if cur, alive := q.idx[next.Value.(*queueItem[K, V]).key]; alive && cur == next {
				q.idx[key] = q.l.InsertBefore(item, next)
				return
			}
		}
		q.idx[key] = q.l.PushBack(item)
	}, true
}

// Items 按队列顺序返回全部元素
func (q *orderedQueue[K, V]) Items() []queueItem[K, V] {
	out := make([]queueItem[K, V], 0, q.l.Len())
	for e := q.l.Front(); e != nil; e = e.Next() {
		out = append(out, *e.Value.(*queueItem[K, V]))
	}
	return out
}

// Values 按队列顺序返回全部值
func (q *orderedQueue[K, V]) Values() []V {
	out := make([]V, 0, q.l.Len())
	for e := q.l.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*queueItem[K, V]).value)
	}
	return out
}

// Seq 返回元素序号
func (q *orderedQueue[K, V]) Seq(key K) (uint64, bool) {
	if e, ok := q.idx[key]; ok {
		return e.Value.(*queueItem[K, V]).seq, true
	}
	return 0, false
}

func (q *orderedQueue[K, V]) Reset() {
	q.l.Init()
	q.idx = make(map[K]*list.Element)
}
