package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/glyengineering/glyweb/internal/notifications"
)

const (
	// Header names the page-load session a partial render belongs to.
	Header = "X-Glyweb-Session"
	// FlashCookie identifies a browser for toasts flashed across a redirect.
	FlashCookie = "glyweb_visitor"

	DefaultIdleTimeout   = 30 * time.Minute
	DefaultSweepSchedule = "@every 1m"
	DefaultMaxSessions   = 10000
)

// ErrStoreFull is returned by Create once MaxSessions sessions are live.
var ErrStoreFull = errors.New("session: too many live sessions")

// StoreOptions configures a Store.
type StoreOptions struct {
	IdleTimeout   time.Duration
	SweepSchedule string
	// MaxSessions bounds live sessions and pending flash queues alike.
	MaxSessions int
	// Secure marks the flash cookie HTTPS-only.
	Secure bool
}

type flash struct {
	queue *notifications.Queue
	at    time.Time
}

// Store tracks every live session. A session belongs to one page load: the
// live channel creates it and removes it when the socket closes, so two tabs
// of one browser never share state.
type Store struct {
	opts     Options
	storeOpt StoreOptions
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	flashes  map[string]*flash
	cron     *cron.Cron
}

// NewStore creates an empty store. Sessions it creates share opts.
func NewStore(opts Options, storeOpts StoreOptions) (*Store, error) {
	opts = opts.withDefaults()
	if storeOpts.IdleTimeout <= 0 {
		storeOpts.IdleTimeout = DefaultIdleTimeout
	}
	if storeOpts.SweepSchedule == "" {
		storeOpts.SweepSchedule = DefaultSweepSchedule
	}
	if storeOpts.MaxSessions <= 0 {
		storeOpts.MaxSessions = DefaultMaxSessions
	}
	if _, err := cron.ParseStandard(storeOpts.SweepSchedule); err != nil {
		return nil, fmt.Errorf("parsing sweep schedule %q: %w", storeOpts.SweepSchedule, err)
	}
	return &Store{
		opts:     opts,
		storeOpt: storeOpts,
		logger:   opts.Logger.Named("sessions"),
		sessions: make(map[string]*Session),
		flashes:  make(map[string]*flash),
	}, nil
}

// Create starts a new session on path.
func (st *Store) Create(path string) (*Session, error) {
	st.mu.Lock()
	if len(st.sessions) >= st.storeOpt.MaxSessions {
		st.mu.Unlock()
		return nil, ErrStoreFull
	}
	st.mu.Unlock()

	s := New(uuid.New().String(), path, st.opts)

	st.mu.Lock()
	st.sessions[s.ID()] = s
	n := len(st.sessions)
	st.mu.Unlock()

	st.opts.Observer.SessionsActive(n)
	st.logger.Debug("session created", zap.String("session", s.ID()), zap.String("path", path))
	return s, nil
}

// Get returns the session with id.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Remove closes and forgets the session with id.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()

	if ok {
		s.Close()
		st.opts.Observer.SessionsActive(n)
	}
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep closes sessions idle for longer than the idle timeout, drops flash
// queues nobody collected, and returns how many sessions were removed.
func (st *Store) Sweep(now time.Time) int {
	cutoff := now.Add(-st.storeOpt.IdleTimeout)

	st.mu.Lock()
	var stale []*Session
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(st.sessions, id)
		}
	}
	for id, f := range st.flashes {
		if f.at.Before(cutoff) {
			delete(st.flashes, id)
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	if len(stale) > 0 {
		st.opts.Observer.SessionsActive(n)
		st.logger.Info("idle sessions swept", zap.Int("removed", len(stale)), zap.Int("remaining", n))
	}
	return len(stale)
}

// Start schedules the idle sweep.
func (st *Store) Start() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.cron != nil {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(st.storeOpt.SweepSchedule, func() {
		st.Sweep(st.opts.Clock.Now())
	}); err != nil {
		return fmt.Errorf("scheduling session sweep: %w", err)
	}
	c.Start()
	st.cron = c
	st.logger.Info("session sweep scheduled",
		zap.String("schedule", st.storeOpt.SweepSchedule),
		zap.Duration("idle_timeout", st.storeOpt.IdleTimeout),
		zap.Int("max_sessions", st.storeOpt.MaxSessions))
	return nil
}

// Stop halts the sweep and closes every session.
func (st *Store) Stop(ctx context.Context) {
	st.mu.Lock()
	c := st.cron
	st.cron = nil
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.flashes = make(map[string]*flash)
	st.mu.Unlock()

	if c != nil {
		select {
		case <-c.Stop().Done():
		case <-ctx.Done():
			st.logger.Warn("session sweep stop timed out")
		}
	}
	for _, s := range sessions {
		s.Close()
	}
	st.opts.Observer.SessionsActive(0)
}

// FromRequest returns the session named by r's session header.
func (st *Store) FromRequest(r *http.Request) (*Session, bool) {
	id := r.Header.Get(Header)
	if id == "" {
		return nil, false
	}
	s, ok := st.Get(id)
	if ok {
		s.Touch()
	}
	return s, ok
}

// Flash keeps notes for the browser making r until its next full page
// render, setting the visitor cookie when it has none.
func (st *Store) Flash(w http.ResponseWriter, r *http.Request, notes []notifications.Notification) {
	if len(notes) == 0 {
		return
	}
	visitor := ""
	if c, err := r.Cookie(FlashCookie); err == nil {
		visitor = c.Value
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	f, ok := st.flashes[visitor]
	if !ok {
		if len(st.flashes) >= st.storeOpt.MaxSessions {
			st.logger.Debug("flash queues full, toast dropped")
			return
		}
		if visitor == "" {
			visitor = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     FlashCookie,
				Value:    visitor,
				Path:     "/",
				HttpOnly: true,
				Secure:   st.storeOpt.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		f = &flash{queue: notifications.NewQueue(0)}
		st.flashes[visitor] = f
	}
	f.at = st.opts.Clock.Now()
	for _, n := range notes {
		f.queue.Push(n)
	}
}

// TakeFlash returns and forgets the notes flashed for the browser making r.
func (st *Store) TakeFlash(r *http.Request) []notifications.Notification {
	c, err := r.Cookie(FlashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	st.mu.Lock()
	f, ok := st.flashes[c.Value]
	delete(st.flashes, c.Value)
	st.mu.Unlock()
	if !ok {
		return nil
	}
	return f.queue.Drain()
}
