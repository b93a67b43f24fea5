package notifications

import (
	"sync"
	"time"
)

// Recorder is a Notifier that keeps everything it is told. Tests use it to
// count toasts.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(kind Kind, message, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{
		Kind:        kind,
		Message:     message,
		Description: description,
		CreatedAt:   time.Now(),
	})
}

// All returns a copy of every recorded notification.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Count returns how many notifications of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.items {
		if it.Kind == kind {
			n++
		}
	}
	return n
}
