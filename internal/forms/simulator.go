package forms

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/glyengineering/glyweb/internal/clock"
	"github.com/glyengineering/glyweb/internal/notifications"
)

// DefaultSubmitDelay is how long a simulated submission takes.
const DefaultSubmitDelay = 1500 * time.Millisecond

var (
	// ErrSubmitting is returned while a submission is pending; the submit
	// control is disabled.
	ErrSubmitting = errors.New("forms: submission in progress")
	// ErrClosed is returned once the owning page has unmounted.
	ErrClosed = errors.New("forms: form closed")
)

// Event reports a change in a simulator's state.
type Event struct {
	Form       Kind              `json:"form"`
	Submitting bool              `json:"submitting"`
	Completed  bool              `json:"completed"`
	Values     map[string]string `json:"values"`
}

// Options configures a Simulator. Zero values use defaults.
type Options struct {
	Clock    clock.Clock
	Delay    time.Duration
	Notifier notifications.Notifier
	OnChange func(Event)
}

// Pending is an in-flight submission.
type Pending struct {
	done chan struct{}
	err  error
}

func newPending() *Pending { return &Pending{done: make(chan struct{})} }

func (p *Pending) resolve(err error) {
	p.err = err
	close(p.done)
}

// Done is closed when the submission completes or is abandoned.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Err returns nil for a completed submission and ErrClosed for an abandoned
// one. It is only meaningful after Done is closed.
func (p *Pending) Err() error { return p.err }

// Wait blocks until the submission settles or ctx is done.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Simulator owns one form's state for the lifetime of a mounted page.
type Simulator[F Form[F]] struct {
	mu         sync.Mutex
	state      F
	opts       Options
	submitting bool
	pending    *Pending
	timer      clock.Timer
	gen        uint64
	closed     bool
}

// NewSimulator creates a simulator holding initial.
func NewSimulator[F Form[F]](initial F, opts Options) *Simulator[F] {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultSubmitDelay
	}
	return &Simulator[F]{state: initial, opts: opts}
}

// Kind returns the form this simulator drives.
func (s *Simulator[F]) Kind() Kind {
	var zero F
	return zero.Kind()
}

// State returns the current form values.
func (s *Simulator[F]) State() F {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submitting reports whether a submission is pending.
func (s *Simulator[F]) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Set replaces the whole form, as on every keystroke.
func (s *Simulator[F]) Set(f F) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.state = f
	ev := s.eventLocked(false)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// SetField updates a single field.
func (s *Simulator[F]) SetField(name, value string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	next, err := s.state.With(name, value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	ev := s.eventLocked(false)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// Submit validates the form and starts the simulated submission. An invalid
// form returns a *ValidationError and changes nothing. A second call while
// one is pending returns ErrSubmitting.
func (s *Simulator[F]) Submit() (*Pending, error) {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return nil, ErrClosed
	case s.submitting:
		s.mu.Unlock()
		return nil, ErrSubmitting
	}
	if err := s.state.Validate(); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	s.submitting = true
	s.pending = newPending()
	s.gen++
	gen := s.gen
	s.timer = s.opts.Clock.AfterFunc(s.opts.Delay, func() { s.complete(gen) })
	p := s.pending
	ev := s.eventLocked(false)
	s.mu.Unlock()

	s.emit(ev)
	return p, nil
}

func (s *Simulator[F]) complete(gen uint64) {
	s.mu.Lock()
	if s.closed || !s.submitting || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.state = s.state.Empty()
	s.submitting = false
	s.timer = nil
	p := s.pending
	s.pending = nil
	ev := s.eventLocked(true)
	s.mu.Unlock()

	if s.opts.Notifier != nil {
		msg := SuccessFor(s.Kind())
		s.opts.Notifier.Notify(notifications.KindSuccess, msg.Message, msg.Description)
	}
	s.emit(ev)
	p.resolve(nil)
}

// Reset clears the form, as when the visitor cancels a dialog. It is
// refused while a submission is pending.
func (s *Simulator[F]) Reset() error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.submitting:
		s.mu.Unlock()
		return ErrSubmitting
	}
	s.state = s.state.Empty()
	ev := s.eventLocked(false)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// Close abandons any pending submission without notifying. The simulator
// rejects every call afterwards.
func (s *Simulator[F]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	p := s.pending
	s.pending = nil
	s.submitting = false
	s.mu.Unlock()

	if p != nil {
		p.resolve(ErrClosed)
	}
}

func (s *Simulator[F]) eventLocked(completed bool) Event {
	return Event{
		Form:       s.Kind(),
		Submitting: s.submitting,
		Completed:  completed,
		Values:     s.state.Values(),
	}
}

func (s *Simulator[F]) emit(ev Event) {
	if s.opts.OnChange != nil {
		s.opts.OnChange(ev)
	}
}
