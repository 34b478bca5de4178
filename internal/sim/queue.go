package sim

// queue buffers entities spawned mid-tick until the next drain. The World is
// single-threaded, so unlike a channel-backed queue it needs no locking.
type queue[T any] struct {
	items []T
}

func (q *queue[T]) push(items ...T) {
	q.items = append(q.items, items...)
}

func (q *queue[T]) len() int { return len(q.items) }

// drain returns everything queued so far and empties the queue. Items pushed
// while the caller walks the result land in a fresh buffer.
func (q *queue[T]) drain() []T {
	out := q.items
	q.items = make([]T, 0, cap(out))
	return out
}
