// Package typing implements the hero's typewriter effect: a state machine
// that types a phrase one character at a time, holds it, deletes it, and
// moves on to the next phrase forever.
package typing

import (
	"errors"
	"sync"
	"time"

	"github.com/glyengineering/glyweb/internal/clock"
)

const (
	DefaultTypeInterval   = 90 * time.Millisecond
	DefaultPauseDuration  = 1400 * time.Millisecond
	DefaultDeleteInterval = 45 * time.Millisecond
)

// DefaultPhrases are the hero phrases shown on the home page.
var DefaultPhrases = []string{"Designed for Impact", "Built to Last", "Engineering the Future"}

// ErrNoPhrases is returned when a cycler is built without phrases.
var ErrNoPhrases = errors.New("typing: at least one phrase is required")

// Phase is the cycler's state.
type Phase int

const (
	Typing Phase = iota
	Pausing
	Deleting
)

func (p Phase) String() string {
	switch p {
	case Typing:
		return "typing"
	case Pausing:
		return "pausing"
	case Deleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// MarshalText renders the phase name in JSON events.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Frame is what the view renders after each step.
type Frame struct {
	Text   string `json:"text"`
	Phase  Phase  `json:"phase"`
	Index  int    `json:"index"`
	Target string `json:"target"`
}

// Options tunes a Cycler. Zero durations use the defaults.
type Options struct {
	Clock          clock.Clock
	TypeInterval   time.Duration
	PauseDuration  time.Duration
	DeleteInterval time.Duration
	OnFrame        func(Frame)
}

// Cycler cycles through a fixed list of phrases.
type Cycler struct {
	mu      sync.Mutex
	phrases [][]rune
	opts    Options

	text  []rune
	index int
	phase Phase

	timer   clock.Timer
	gen     uint64
	running bool
	stopped bool
}

// New builds a cycler positioned at the start of the first phrase.
func New(phrases []string, opts Options) (*Cycler, error) {
	if len(phrases) == 0 {
		return nil, ErrNoPhrases
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.TypeInterval <= 0 {
		opts.TypeInterval = DefaultTypeInterval
	}
	if opts.PauseDuration <= 0 {
		opts.PauseDuration = DefaultPauseDuration
	}
	if opts.DeleteInterval <= 0 {
		opts.DeleteInterval = DefaultDeleteInterval
	}

	c := &Cycler{opts: opts}
	for _, p := range phrases {
		c.phrases = append(c.phrases, []rune(p))
	}
	c.settleLocked()
	return c, nil
}

// Frame returns the current frame.
func (c *Cycler) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameLocked()
}

// Delay returns how long the machine waits before the next Step.
func (c *Cycler) Delay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delayLocked()
}

// Step performs exactly one transition and returns the resulting frame:
// one character typed, the pause ending, or one character deleted.
func (c *Cycler) Step() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stepLocked()
	return c.frameLocked()
}

// Start schedules steps on the clock and reports every frame to OnFrame.
// A stopped cycler cannot be restarted.
func (c *Cycler) Start() {
	c.mu.Lock()
	if c.running || c.stopped {
		c.mu.Unlock()
		return
	}
	c.running = true
	frame := c.frameLocked()
	c.scheduleLocked()
	c.mu.Unlock()

	c.emit(frame)
}

// Stop cancels the pending step.
func (c *Cycler) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.running = false
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Cycler) tick(gen uint64) {
	c.mu.Lock()
	if !c.running || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.stepLocked()
	frame := c.frameLocked()
	c.scheduleLocked()
	c.mu.Unlock()

	c.emit(frame)
}

func (c *Cycler) scheduleLocked() {
	c.gen++
	gen := c.gen
	c.timer = c.opts.Clock.AfterFunc(c.delayLocked(), func() { c.tick(gen) })
}

func (c *Cycler) stepLocked() {
	target := c.phrases[c.index]
	switch c.phase {
	case Typing:
		c.text = target[:len(c.text)+1]
		if len(c.text) == len(target) {
			c.phase = Pausing
		}
	case Pausing:
		c.phase = Deleting
		if len(c.text) == 0 {
			c.advanceLocked()
		}
	case Deleting:
		c.text = c.text[:len(c.text)-1]
		if len(c.text) == 0 {
			c.advanceLocked()
		}
	}
}

// advanceLocked moves to the next phrase, wrapping circularly.
func (c *Cycler) advanceLocked() {
	c.index = (c.index + 1) % len(c.phrases)
	c.phase = Typing
	c.settleLocked()
}

// settleLocked skips straight to Pausing for an empty phrase, which is
// already fully typed.
func (c *Cycler) settleLocked() {
	if c.phase == Typing && len(c.phrases[c.index]) == 0 {
		c.phase = Pausing
	}
}

func (c *Cycler) delayLocked() time.Duration {
	switch c.phase {
	case Pausing:
		return c.opts.PauseDuration
	case Deleting:
		return c.opts.DeleteInterval
	default:
		return c.opts.TypeInterval
	}
}

func (c *Cycler) frameLocked() Frame {
	return Frame{
		Text:   string(c.text),
		Phase:  c.phase,
		Index:  c.index,
		Target: string(c.phrases[c.index]),
	}
}

func (c *Cycler) emit(f Frame) {
	if c.opts.OnFrame != nil {
		c.opts.OnFrame(f)
	}
}
