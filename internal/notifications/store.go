package notifications

import "sync"

// DefaultQueueSize bounds how many undelivered toasts a Queue keeps.
const DefaultQueueSize = 8

// Queue holds notifications nobody has seen yet, oldest first. When full the
// oldest entry is discarded.
type Queue struct {
	mu    sync.Mutex
	items []Notification
	limit int
}

// NewQueue creates a queue holding at most limit notifications.
func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = DefaultQueueSize
	}
	return &Queue{limit: limit}
}

// Push appends n and reports whether an older entry had to be dropped.
func (q *Queue) Push(n Notification) (dropped bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.limit {
		q.items = q.items[1:]
		dropped = true
	}
	q.items = append(q.items, n)
	return dropped
}

// Drain removes and returns everything queued.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
