package session

import (
	"github.com/glyengineering/glyweb/internal/listing"
	"github.com/glyengineering/glyweb/internal/navigation"
)

// EventType names a server-to-client message.
type EventType string

const (
	EventSession EventType = "session"
	EventOverlay EventType = "overlay"
	EventRoute   EventType = "route"
	EventTyping  EventType = "typing"
	EventReveal  EventType = "reveal"
	EventToast   EventType = "toast"
	EventForm    EventType = "form"
	EventResults EventType = "results"
	EventError   EventType = "error"
)

// Event is one message on a session's outbox.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

// SessionData names the session a live channel is bound to. Partial page
// requests carry it back in the session header.
type SessionData struct {
	ID string `json:"id"`
}

// OverlayData reports the loading overlay.
type OverlayData struct {
	Visible bool             `json:"visible"`
	State   navigation.State `json:"state"`
}

// RouteData reports a committed navigation.
type RouteData struct {
	Path        string `json:"path"`
	Previous    string `json:"previous"`
	ScrollReset bool   `json:"scroll_reset"`
}

// JobResults is the Careers list after a search.
type JobResults struct {
	Page  string               `json:"page"`
	Query string               `json:"query"`
	Jobs  []listing.JobListing `json:"jobs"`
	Total int                  `json:"total"`
}

// ProjectResults is the Projects grid after a filter change.
type ProjectResults struct {
	Page     string                  `json:"page"`
	Filter   listing.ProjectFilter   `json:"filter"`
	Active   bool                    `json:"active"`
	Projects []listing.ProjectRecord `json:"projects"`
	Total    int                     `json:"total"`
}

// ErrorData carries a client-visible error.
type ErrorData struct {
	Message string `json:"message"`
	Fields  any    `json:"fields,omitempty"`
}
