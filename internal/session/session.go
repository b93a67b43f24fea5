// Package session holds the per-visitor state of the site: the navigation
// controller, the mounted page's effects, its filters and its forms.
package session

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/glyengineering/glyweb/internal/clock"
	"github.com/glyengineering/glyweb/internal/content"
	"github.com/glyengineering/glyweb/internal/forms"
	"github.com/glyengineering/glyweb/internal/listing"
	"github.com/glyengineering/glyweb/internal/navigation"
	"github.com/glyengineering/glyweb/internal/notifications"
	"github.com/glyengineering/glyweb/internal/reveal"
	"github.com/glyengineering/glyweb/internal/typing"
)

// DefaultOutboxSize is the number of undelivered events a session buffers.
const DefaultOutboxSize = 64

// ErrUnknownForm is returned for a form kind the session does not own.
var ErrUnknownForm = errors.New("session: unknown form")

// Observer receives counters from sessions. The metrics package implements it.
type Observer interface {
	NavigationCommitted(path string)
	FormSubmitted(kind forms.Kind)
	RevealPlayed(page string)
	SessionsActive(n int)
}

type nopObserver struct{}

func (nopObserver) NavigationCommitted(string) {}
func (nopObserver) FormSubmitted(forms.Kind)   {}
func (nopObserver) RevealPlayed(string)        {}
func (nopObserver) SessionsActive(int)         {}

// Options configures sessions. Zero values use each package's defaults.
type Options struct {
	Catalog  *content.Store
	Clock    clock.Clock
	Logger   *zap.Logger
	Observer Observer

	TransitionDelay  time.Duration
	InitialLoadDelay time.Duration
	SubmitDelay      time.Duration
	TypeInterval     time.Duration
	PauseDuration    time.Duration
	DeleteInterval   time.Duration
	Reveal           reveal.Options
	OutboxSize       int
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clock.Real()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	if o.OutboxSize <= 0 {
		o.OutboxSize = DefaultOutboxSize
	}
	return o
}

// RevealTarget is a revealable section measured by the client.
type RevealTarget struct {
	ID  string  `json:"id"`
	Top float64 `json:"top"`
}

// Session is one visitor's state.
type Session struct {
	id     string
	opts   Options
	logger *zap.Logger
	notes  *notifications.Dispatcher
	outbox chan Event
	done   chan struct{}
	// mounts counts page mounts and unmounts; page effects stop emitting once
	// it moves past the value they were started with.
	mounts atomic.Uint64

	mu            sync.Mutex
	nav           *navigation.Controller
	navGen        uint64
	page          string
	reveals       *reveal.Context
	cycler        *typing.Cycler
	jobQuery      string
	projectFilter listing.ProjectFilter
	contact       *forms.Simulator[forms.ContactForm]
	application   *forms.Simulator[forms.ApplicationForm]
	recruitment   *forms.Simulator[forms.RecruitmentForm]
	lastSeen      time.Time
	closed        bool
}

// New creates a session whose first page is path.
func New(id, path string, opts Options) *Session {
	opts = opts.withDefaults()
	s := &Session{
		id:     id,
		opts:   opts,
		logger: opts.Logger.With(zap.String("session", id)),
		outbox: make(chan Event, opts.OutboxSize),
		done:   make(chan struct{}),
		notes: notifications.NewDispatcher(notifications.DispatcherOptions{
			Clock:  opts.Clock,
			Logger: opts.Logger,
		}),
	}
	s.Load(path)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Events is the session's outbox. Events are dropped while it is full.
func (s *Session) Events() <-chan Event { return s.outbox }

// Done is closed when the session is closed.
func (s *Session) Done() <-chan struct{} { return s.done }

// Notifications returns the session's toast dispatcher.
func (s *Session) Notifications() *notifications.Dispatcher { return s.notes }

// Load mounts path as a fresh application load, as on a full page request:
// the navigation controller is rebuilt and the initial-load overlay shows
// again.
func (s *Session) Load(path string) {
	path = navigation.Normalize(path)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.nav != nil {
		s.nav.Close()
	}
	s.navGen++
	gen := s.navGen
	s.lastSeen = s.opts.Clock.Now()
	s.unmountLocked()
	// Nothing queued by the previous page may reach the client after the
	// new load's overlay.
	s.drainLocked()
	s.nav = navigation.New(path, navigation.Options{
		Clock:            s.opts.Clock,
		TransitionDelay:  s.opts.TransitionDelay,
		InitialLoadDelay: s.opts.InitialLoadDelay,
		OnChange:         func(ev navigation.Event) { s.onNavigation(gen, ev) },
	})
	st := s.nav.State()
	s.emit(Event{Type: EventOverlay, Data: OverlayData{Visible: st.OverlayVisible(), State: st}})
	s.mountLocked(path)
	s.mu.Unlock()
}

func (s *Session) drainLocked() {
	for {
		select {
		case ev := <-s.outbox:
			s.logger.Debug("stale event discarded", zap.String("type", string(ev.Type)))
		default:
			return
		}
	}
}

// Navigate asks the navigation controller to move to path.
func (s *Session) Navigate(path string) bool {
	nav := s.controller()
	if nav == nil {
		return false
	}
	s.Touch()
	return nav.RequestNavigate(navigation.Normalize(path))
}

// Navigation returns the current navigation state.
func (s *Session) Navigation() navigation.State {
	nav := s.controller()
	if nav == nil {
		return navigation.State{}
	}
	return nav.State()
}

func (s *Session) controller() *navigation.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	return s.nav
}

// onNavigation handles events from the controller created by Load number
// gen. Events from a replaced controller are ignored.
func (s *Session) onNavigation(gen uint64, ev navigation.Event) {
	s.mu.Lock()
	if s.closed || gen != s.navGen {
		s.mu.Unlock()
		return
	}
	if ev.Kind == navigation.EventCommitted {
		s.unmountLocked()
		s.mountLocked(ev.State.CurrentPath)
	}
	s.mu.Unlock()

	s.emit(Event{Type: EventOverlay, Data: OverlayData{Visible: ev.State.OverlayVisible(), State: ev.State}})
	if ev.Kind != navigation.EventCommitted {
		return
	}

	s.opts.Observer.NavigationCommitted(ev.State.CurrentPath)
	s.logger.Debug("route committed",
		zap.String("from", ev.Previous), zap.String("to", ev.State.CurrentPath))
	s.emit(Event{Type: EventRoute, Data: RouteData{
		Path:        ev.State.CurrentPath,
		Previous:    ev.Previous,
		ScrollReset: ev.ScrollReset,
	}})
}

// mountLocked creates the page-local effects and state for path.
func (s *Session) mountLocked(path string) {
	s.mounts.Add(1)
	s.page = path
	s.jobQuery = ""
	s.projectFilter = listing.ProjectFilter{Industry: listing.All, Service: listing.All}

	page := path
	s.reveals = reveal.NewContext(path, reveal.EngineFunc(func(d reveal.Descriptor) {
		s.opts.Observer.RevealPlayed(page)
		s.emit(Event{Type: EventReveal, Data: d})
	}), s.opts.Reveal)

	formOpts := func() forms.Options {
		return forms.Options{
			Clock:    s.opts.Clock,
			Delay:    s.opts.SubmitDelay,
			Notifier: s.notes,
			OnChange: s.onForm,
		}
	}
	s.contact = forms.NewSimulator(forms.ContactForm{}, formOpts())
	s.application = forms.NewSimulator(forms.NewApplicationForm(""), formOpts())
	s.recruitment = forms.NewSimulator(forms.NewRecruitmentForm(""), formOpts())

	if path == "/" {
		s.startTypingLocked()
	}
}

func (s *Session) startTypingLocked() {
	mount := s.mounts.Load()
	phrases := typing.DefaultPhrases
	if s.opts.Catalog != nil {
		phrases = s.opts.Catalog.Phrases()
	}
	c, err := typing.New(phrases, typing.Options{
		Clock:          s.opts.Clock,
		TypeInterval:   s.opts.TypeInterval,
		PauseDuration:  s.opts.PauseDuration,
		DeleteInterval: s.opts.DeleteInterval,
		OnFrame: func(f typing.Frame) {
			if s.mounts.Load() != mount {
				return
			}
			s.emit(Event{Type: EventTyping, Data: f})
		},
	})
	if err != nil {
		s.logger.Warn("typing hero disabled", zap.Error(err))
		return
	}
	s.cycler = c
	c.Start()
}

// unmountLocked tears down everything owned by the mounted page.
func (s *Session) unmountLocked() {
	if s.reveals != nil {
		s.reveals.Revert()
		s.reveals = nil
	}
	if s.cycler != nil {
		s.cycler.Stop()
		s.cycler = nil
	}
	if s.contact != nil {
		s.contact.Close()
		s.application.Close()
		s.recruitment.Close()
		s.contact, s.application, s.recruitment = nil, nil, nil
	}
	s.mounts.Add(1)
	s.page = ""
}

func (s *Session) onForm(ev forms.Event) {
	if ev.Completed {
		s.opts.Observer.FormSubmitted(ev.Form)
	}
	s.emit(Event{Type: EventForm, Data: ev})
}

// Page returns the mounted page.
func (s *Session) Page() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Typing returns the hero frame when the home page is mounted.
func (s *Session) Typing() (typing.Frame, bool) {
	s.mu.Lock()
	c := s.cycler
	s.mu.Unlock()
	if c == nil {
		return typing.Frame{}, false
	}
	return c.Frame(), true
}

// RegisterReveals adds the mounted page's measured sections to its reveal
// context and plays those already in view. Sections registered earlier are
// kept.
func (s *Session) RegisterReveals(targets []RevealTarget, scrollY, viewportHeight float64) ([]string, error) {
	s.mu.Lock()
	rc := s.reveals
	s.mu.Unlock()
	if rc == nil {
		return nil, reveal.ErrReverted
	}
	for _, t := range targets {
		if err := rc.Register(t.ID, t.Top); err != nil && !errors.Is(err, reveal.ErrDuplicateTarget) {
			return nil, err
		}
	}
	return rc.Scroll(scrollY, viewportHeight), nil
}

// Scroll reports the client's scroll position to the mounted page.
func (s *Session) Scroll(scrollY, viewportHeight float64) []string {
	s.mu.Lock()
	rc := s.reveals
	s.mu.Unlock()
	if rc == nil {
		return nil
	}
	return rc.Scroll(scrollY, viewportHeight)
}

// SearchJobs updates the Careers query and returns the matching jobs.
func (s *Session) SearchJobs(query string) []listing.JobListing {
	s.mu.Lock()
	s.jobQuery = query
	page := s.page
	s.mu.Unlock()

	jobs := listing.FilterJobs(s.jobs(), query)
	s.emit(Event{Type: EventResults, Data: JobResults{Page: page, Query: query, Jobs: jobs, Total: len(jobs)}})
	return jobs
}

// JobQuery returns the current Careers search.
func (s *Session) JobQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobQuery
}

// FilterProjects updates the Projects facets and returns the matching projects.
func (s *Session) FilterProjects(f listing.ProjectFilter) []listing.ProjectRecord {
	f = f.Normalized()
	s.mu.Lock()
	s.projectFilter = f
	page := s.page
	s.mu.Unlock()

	projects := listing.FilterProjects(s.projects(), f)
	s.emit(Event{Type: EventResults, Data: ProjectResults{
		Page: page, Filter: f, Active: f.Active(), Projects: projects, Total: len(projects),
	}})
	return projects
}

// ProjectFilter returns the current Projects facets.
func (s *Session) ProjectFilter() listing.ProjectFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectFilter
}

func (s *Session) jobs() []listing.JobListing {
	if s.opts.Catalog == nil {
		return nil
	}
	return s.opts.Catalog.Jobs()
}

func (s *Session) projects() []listing.ProjectRecord {
	if s.opts.Catalog == nil {
		return nil
	}
	return s.opts.Catalog.Projects()
}

// Contact returns the mounted page's contact form.
func (s *Session) Contact() *forms.Simulator[forms.ContactForm] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contact
}

// Application returns the mounted page's application form.
func (s *Session) Application() *forms.Simulator[forms.ApplicationForm] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.application
}

// Recruitment returns the mounted page's recruitment form.
func (s *Session) Recruitment() *forms.Simulator[forms.RecruitmentForm] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recruitment
}

// SetFormField updates one field of the named form.
func (s *Session) SetFormField(kind forms.Kind, name, value string) error {
	s.mu.Lock()
	contact, application, recruitment := s.contact, s.application, s.recruitment
	s.mu.Unlock()
	if contact == nil {
		return forms.ErrClosed
	}

	switch kind {
	case forms.KindContact:
		return contact.SetField(name, value)
	case forms.KindApplication:
		return application.SetField(name, value)
	case forms.KindRecruitment:
		return recruitment.SetField(name, value)
	}
	return fmt.Errorf("%w: %s", ErrUnknownForm, kind)
}

// SubmitForm starts a simulated submission of the named form, optionally
// applying values first.
func (s *Session) SubmitForm(kind forms.Kind, values map[string]string) (*forms.Pending, error) {
	s.mu.Lock()
	contact, application, recruitment := s.contact, s.application, s.recruitment
	s.mu.Unlock()
	if contact == nil {
		return nil, forms.ErrClosed
	}

	switch kind {
	case forms.KindContact:
		return submit(contact, values)
	case forms.KindApplication:
		return submit(application, values)
	case forms.KindRecruitment:
		return submit(recruitment, values)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownForm, kind)
}

func submit[F forms.Form[F]](sim *forms.Simulator[F], values map[string]string) (*forms.Pending, error) {
	if values != nil {
		if err := sim.Set(forms.Apply(sim.State(), values)); err != nil {
			return nil, err
		}
	}
	return sim.Submit()
}

// CancelForm clears the named form.
func (s *Session) CancelForm(kind forms.Kind) error {
	s.mu.Lock()
	contact, application, recruitment := s.contact, s.application, s.recruitment
	s.mu.Unlock()
	if contact == nil {
		return forms.ErrClosed
	}

	switch kind {
	case forms.KindContact:
		return contact.Reset()
	case forms.KindApplication:
		return application.Reset()
	case forms.KindRecruitment:
		return recruitment.Reset()
	}
	return fmt.Errorf("%w: %s", ErrUnknownForm, kind)
}

// Touch records activity.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = s.opts.Clock.Now()
	s.mu.Unlock()
}

// LastSeen returns the time of the last recorded activity.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close cancels every timer the session owns. It is safe to call twice.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	nav := s.nav
	s.nav = nil
	s.unmountLocked()
	s.mu.Unlock()

	if nav != nil {
		nav.Close()
	}
	close(s.done)
}

// Emit queues an event for the client.
func (s *Session) Emit(ev Event) { s.emit(ev) }

func (s *Session) emit(ev Event) {
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.outbox <- ev:
	default:
		s.logger.Debug("outbox full, event dropped", zap.String("type", string(ev.Type)))
	}
}
