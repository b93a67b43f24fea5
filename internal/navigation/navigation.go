// Package navigation sequences route changes behind a timed transition
// overlay. A Controller is the single source of truth for a visitor's
// current path.
package navigation

import (
	"strings"
	"sync"
	"time"

	"github.com/glyengineering/glyweb/internal/clock"
)

const (
	DefaultTransitionDelay  = 1500 * time.Millisecond
	DefaultInitialLoadDelay = 2000 * time.Millisecond
)

// State is a snapshot of the controller.
type State struct {
	CurrentPath     string `json:"current_path"`
	PendingPath     string `json:"pending_path,omitempty"`
	IsTransitioning bool   `json:"is_transitioning"`
	IsLoading       bool   `json:"is_loading"`
}

// OverlayVisible reports whether the loading overlay covers the page.
func (s State) OverlayVisible() bool {
	return s.IsLoading || s.IsTransitioning
}

// EventKind identifies what changed.
type EventKind string

const (
	EventTransitionStarted EventKind = "transition_started"
	EventCommitted         EventKind = "committed"
	EventLoaded            EventKind = "loaded"
)

// Event is delivered to Options.OnChange after every state change.
type Event struct {
	Kind  EventKind
	State State
	// Previous is the path that was current before a commit.
	Previous string
	// ScrollReset asks the view to jump to the top of the viewport.
	ScrollReset bool
}

// Options configures a Controller. Zero values fall back to defaults.
type Options struct {
	Clock            clock.Clock
	TransitionDelay  time.Duration
	InitialLoadDelay time.Duration
	OnChange         func(Event)
}

// Controller owns the current route and the two overlay timers.
type Controller struct {
	mu       sync.Mutex
	clock    clock.Clock
	delay    time.Duration
	onChange func(Event)

	state      State
	loadTimer  clock.Timer
	transTimer clock.Timer
	// gen invalidates a transition timer that fired after being replaced.
	gen    uint64
	closed bool
}

// New creates a controller at initialPath and starts the one-shot
// initial-load timer.
func New(initialPath string, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.TransitionDelay <= 0 {
		opts.TransitionDelay = DefaultTransitionDelay
	}
	if opts.InitialLoadDelay <= 0 {
		opts.InitialLoadDelay = DefaultInitialLoadDelay
	}

	c := &Controller{
		clock:    opts.Clock,
		delay:    opts.TransitionDelay,
		onChange: opts.OnChange,
		state: State{
			CurrentPath: Normalize(initialPath),
			IsLoading:   true,
		},
	}
	c.loadTimer = c.clock.AfterFunc(opts.InitialLoadDelay, c.finishLoading)
	return c
}

// State returns a snapshot of the controller.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// RequestNavigate starts a transition to path. It returns false when path is
// already current or already pending. A request that arrives during a
// transition retargets it and restarts the timer.
func (c *Controller) RequestNavigate(path string) bool {
	path = Normalize(path)

	c.mu.Lock()
	if c.closed || path == c.state.CurrentPath {
		c.mu.Unlock()
		return false
	}
	if c.state.IsTransitioning && path == c.state.PendingPath {
		c.mu.Unlock()
		return false
	}

	if c.transTimer != nil {
		c.transTimer.Stop()
	}
	c.gen++
	gen := c.gen
	c.state.PendingPath = path
	c.state.IsTransitioning = true
	c.transTimer = c.clock.AfterFunc(c.delay, func() { c.commit(gen) })
	ev := Event{Kind: EventTransitionStarted, State: c.state}
	c.mu.Unlock()

	c.emit(ev)
	return true
}

// Close cancels both timers. Timers that were already due no longer change
// state once Close has returned.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.gen++
	if c.loadTimer != nil {
		c.loadTimer.Stop()
	}
	if c.transTimer != nil {
		c.transTimer.Stop()
	}
}

func (c *Controller) commit(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen || !c.state.IsTransitioning {
		c.mu.Unlock()
		return
	}
	prev := c.state.CurrentPath
	c.state.CurrentPath = c.state.PendingPath
	c.state.PendingPath = ""
	c.state.IsTransitioning = false
	c.transTimer = nil
	ev := Event{Kind: EventCommitted, State: c.state, Previous: prev, ScrollReset: true}
	c.mu.Unlock()

	c.emit(ev)
}

func (c *Controller) finishLoading() {
	c.mu.Lock()
	if c.closed || !c.state.IsLoading {
		c.mu.Unlock()
		return
	}
	c.state.IsLoading = false
	c.loadTimer = nil
	ev := Event{Kind: EventLoaded, State: c.state}
	c.mu.Unlock()

	c.emit(ev)
}

func (c *Controller) emit(ev Event) {
	if c.onChange != nil {
		c.onChange(ev)
	}
}

// Normalize returns path with a leading slash and without a trailing one.
// Query strings and fragments are dropped.
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

// IsActive reports whether a navigation item for itemPath should be
// highlighted while current is displayed. The root only matches itself.
func IsActive(current, itemPath string) bool {
	current, itemPath = Normalize(current), Normalize(itemPath)
	if itemPath == "/" {
		return current == "/"
	}
	return current == itemPath || strings.HasPrefix(current, itemPath+"/")
}
