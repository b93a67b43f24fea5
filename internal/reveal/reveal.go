// Package reveal fires one-shot fade-and-rise animations when page sections
// scroll into view. The tweening itself belongs to an Engine; this package
// only decides when each section's animation plays.
package reveal

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	DefaultThreshold = 0.85
	DefaultOffset    = 40
	DefaultDuration  = 700 * time.Millisecond
	DefaultEasing    = "power3.out"

	// Class marks an element as revealable in rendered markup.
	Class = "reveal-up"
)

var (
	ErrReverted        = errors.New("reveal: context has been reverted")
	ErrDuplicateTarget = errors.New("reveal: target already registered")
)

// Style is one end of an animation.
type Style struct {
	Opacity    float64 `json:"opacity"`
	TranslateY float64 `json:"y"`
}

// Descriptor is the declarative animation handed to the Engine.
type Descriptor struct {
	Target   string        `json:"target"`
	From     Style         `json:"from"`
	To       Style         `json:"to"`
	Duration time.Duration `json:"duration"`
	Easing   string        `json:"easing"`
	Trigger  string        `json:"trigger"`
}

// Engine plays animations.
type Engine interface {
	Play(Descriptor)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(Descriptor)

func (f EngineFunc) Play(d Descriptor) { f(d) }

// Options tunes a Context. Zero values use the defaults.
type Options struct {
	Threshold float64
	Offset    float64
	Duration  time.Duration
	Easing    string
}

type trigger struct {
	target string
	top    float64
	fired  bool
}

// Context holds the triggers registered by one page instance. Create it when
// the page mounts and Revert it when the page goes away.
type Context struct {
	mu       sync.Mutex
	page     string
	engine   Engine
	opts     Options
	triggers []*trigger
	byTarget map[string]*trigger
	lastY    float64
	scrolled bool
	reverted bool
}

// NewContext returns an empty registration context for page.
func NewContext(page string, engine Engine, opts Options) *Context {
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Offset == 0 {
		opts.Offset = DefaultOffset
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Easing == "" {
		opts.Easing = DefaultEasing
	}
	return &Context{
		page:     page,
		engine:   engine,
		opts:     opts,
		byTarget: make(map[string]*trigger),
	}
}

// Page returns the page this context belongs to.
func (c *Context) Page() string { return c.page }

// Register adds a trigger for target whose top edge sits at top pixels from
// the top of the document.
func (c *Context) Register(target string, top float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reverted {
		return ErrReverted
	}
	if _, ok := c.byTarget[target]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTarget, target)
	}
	t := &trigger{target: target, top: top}
	c.triggers = append(c.triggers, t)
	c.byTarget[target] = t
	return nil
}

// Scroll reports a new scroll position. Every unfired trigger whose top edge
// has crossed the threshold line plays its animation, in registration order.
// Upward scrolling never fires anything. It returns the targets played.
func (c *Context) Scroll(scrollY, viewportHeight float64) []string {
	c.mu.Lock()
	if c.reverted || c.engine == nil {
		c.mu.Unlock()
		return nil
	}
	if c.scrolled && scrollY < c.lastY {
		c.lastY = scrollY
		c.mu.Unlock()
		return nil
	}
	c.scrolled = true
	c.lastY = scrollY

	line := scrollY + c.opts.Threshold*viewportHeight
	var fired []Descriptor
	for _, t := range c.triggers {
		if t.fired || t.top > line {
			continue
		}
		t.fired = true
		fired = append(fired, c.descriptorLocked(t.target))
	}
	c.mu.Unlock()

	targets := make([]string, 0, len(fired))
	for _, d := range fired {
		c.engine.Play(d)
		targets = append(targets, d.Target)
	}
	return targets
}

// Revert unregisters every trigger. The context is inert afterwards.
func (c *Context) Revert() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reverted = true
	c.triggers = nil
	c.byTarget = nil
}

// Active returns the number of registered triggers that have not fired.
func (c *Context) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.triggers {
		if !t.fired {
			n++
		}
	}
	return n
}

// Descriptor returns the animation that target would play.
func (c *Context) Descriptor(target string) Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.descriptorLocked(target)
}

func (c *Context) descriptorLocked(target string) Descriptor {
	return Descriptor{
		Target:   target,
		From:     Style{Opacity: 0, TranslateY: c.opts.Offset},
		To:       Style{Opacity: 1, TranslateY: 0},
		Duration: c.opts.Duration,
		Easing:   c.opts.Easing,
		Trigger:  fmt.Sprintf("top %d%%", int(c.opts.Threshold*100+0.5)),
	}
}
