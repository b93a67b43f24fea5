package notifications

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/glyengineering/glyweb/internal/clock"
)

// Dispatcher fans notifications out to live subscribers. While nobody is
// subscribed it queues them so the next rendered page can flash them.
type Dispatcher struct {
	mu     sync.Mutex
	subs   map[int]chan Notification
	nextID int
	queue  *Queue
	clock  clock.Clock
	logger *zap.Logger
}

// DispatcherOptions configures a Dispatcher. Zero values use defaults.
type DispatcherOptions struct {
	QueueSize int
	Clock     clock.Clock
	Logger    *zap.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Dispatcher{
		subs:   make(map[int]chan Notification),
		queue:  NewQueue(opts.QueueSize),
		clock:  opts.Clock,
		logger: opts.Logger,
	}
}

// Notify implements Notifier.
func (d *Dispatcher) Notify(kind Kind, message, description string) {
	if !kind.Valid() {
		kind = KindInfo
	}
	d.Dispatch(Notification{
		ID:          uuid.New().String(),
		Kind:        kind,
		Message:     message,
		Description: description,
		CreatedAt:   d.clock.Now(),
	})
}

// Dispatch delivers n to every subscriber without blocking. A subscriber
// whose buffer is full misses it.
func (d *Dispatcher) Dispatch(n Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.subs) == 0 {
		if d.queue.Push(n) {
			d.logger.Debug("notification queue full, dropped oldest")
		}
		return
	}
	for id, ch := range d.subs {
		select {
		case ch <- n:
		default:
			d.logger.Debug("subscriber slow, notification dropped",
				zap.Int("subscriber", id), zap.String("notification", n.ID))
		}
	}
}

// Subscribe registers a subscriber with the given buffer size. Anything
// queued while nobody was listening is delivered first. The returned func
// unsubscribes and closes the channel.
func (d *Dispatcher) Subscribe(buffer int) (<-chan Notification, func()) {
	if buffer <= 0 {
		buffer = DefaultQueueSize
	}
	ch := make(chan Notification, buffer)

	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = ch
	for _, n := range d.queue.Drain() {
		select {
		case ch <- n:
		default:
		}
	}
	d.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, id)
			d.mu.Unlock()
			close(ch)
		})
	}
}

// Drain returns and clears the notifications queued for the next render.
func (d *Dispatcher) Drain() []Notification {
	return d.queue.Drain()
}

// Pending returns the number of queued notifications.
func (d *Dispatcher) Pending() int {
	return d.queue.Len()
}
