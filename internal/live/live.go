// Package live connects a browser to its session over a WebSocket. The client
// reports navigation, scrolling and form input; the server streams the
// session's overlay, route, typing, reveal, form and toast events back.
package live

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/glyengineering/glyweb/internal/forms"
	"github.com/glyengineering/glyweb/internal/listing"
	"github.com/glyengineering/glyweb/internal/notifications"
	"github.com/glyengineering/glyweb/internal/session"
)

const (
	DefaultWriteTimeout = 10 * time.Second
	maxMessageSize      = 64 << 10
	toastBuffer         = 16
)

// Request is one client message.
type Request struct {
	Type string `json:"type"`

	Path           string                 `json:"path,omitempty"`
	Targets        []session.RevealTarget `json:"targets,omitempty"`
	ScrollY        float64                `json:"scroll_y,omitempty"`
	ViewportHeight float64                `json:"viewport_height,omitempty"`
	Query          string                 `json:"query,omitempty"`
	Industry       string                 `json:"industry,omitempty"`
	Service        string                 `json:"service,omitempty"`
	Form           forms.Kind             `json:"form,omitempty"`
	Field          string                 `json:"field,omitempty"`
	Value          string                 `json:"value,omitempty"`
	Values         map[string]string      `json:"values,omitempty"`
}

// Options configures a Hub.
type Options struct {
	Logger *zap.Logger
	// AllowedOrigins restricts the Origin header. Empty allows any.
	AllowedOrigins []string
	WriteTimeout   time.Duration
}

// Hub serves the live channel for every session in a store.
type Hub struct {
	store    *session.Store
	logger   *zap.Logger
	upgrader websocket.Upgrader
	timeout  time.Duration
	conns    atomic.Int64
}

// New creates a Hub over store.
func New(store *session.Store, opts Options) *Hub {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	origins := slices.Clone(opts.AllowedOrigins)
	return &Hub{
		store:   store,
		logger:  opts.Logger.Named("live"),
		timeout: opts.WriteTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 || slices.Contains(origins, "*") {
					return true
				}
				return slices.Contains(origins, r.Header.Get("Origin"))
			},
		},
	}
}

// RegisterRoutes mounts the live endpoint.
func (h *Hub) RegisterRoutes(r chi.Router) {
	r.Get("/ws/live", h.handleWebSocket)
}

// Connections returns the number of open sockets.
func (h *Hub) Connections() int { return int(h.conns.Load()) }

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	// Every socket is one page load with a session of its own.
	s, err := h.store.Create(path)
	if err != nil {
		h.logger.Warn("live channel refused", zap.Error(err))
		http.Error(w, "too many live sessions", http.StatusServiceUnavailable)
		return
	}
	defer h.store.Remove(s.ID())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	conn.SetReadLimit(maxMessageSize)

	h.conns.Add(1)
	defer h.conns.Add(-1)

	logger := h.logger.With(zap.String("session", s.ID()))
	logger.Debug("live channel opened")

	hello, err := json.Marshal(session.Event{Type: session.EventSession, Data: session.SessionData{ID: s.ID()}})
	if err == nil {
		err = h.write(conn, websocket.TextMessage, hello)
	}
	if err != nil {
		logger.Debug("websocket hello", zap.Error(err))
		conn.Close()
		return
	}

	toasts, unsubscribe := s.Notifications().Subscribe(toastBuffer)
	quit := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.writeLoop(conn, s, toasts, quit, logger)
	}()

	h.readLoop(conn, s, logger)

	close(quit)
	unsubscribe()
	wg.Wait()
	conn.Close()
	logger.Debug("live channel closed")
}

// readLoop applies client messages until the connection fails. All replies
// travel through the session outbox so writeLoop stays the only writer.
func (h *Hub) readLoop(conn *websocket.Conn, s *session.Session, logger *zap.Logger) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			sendError(s, "invalid message format", nil)
			continue
		}
		s.Touch()
		h.apply(s, req)
	}
}

func (h *Hub) apply(s *session.Session, req Request) {
	switch req.Type {
	case "navigate":
		if req.Path == "" {
			sendError(s, "path is required", nil)
			return
		}
		s.Navigate(req.Path)
	case "load":
		s.Load(req.Path)
	case "mount":
		if _, err := s.RegisterReveals(req.Targets, req.ScrollY, req.ViewportHeight); err != nil {
			sendError(s, "registering reveals: "+err.Error(), nil)
		}
	case "scroll":
		s.Scroll(req.ScrollY, req.ViewportHeight)
	case "search":
		s.SearchJobs(req.Query)
	case "filter":
		s.FilterProjects(listing.ProjectFilter{Industry: req.Industry, Service: req.Service})
	case "input":
		if err := s.SetFormField(req.Form, req.Field, req.Value); err != nil {
			sendError(s, err.Error(), nil)
		}
	case "submit":
		if _, err := s.SubmitForm(req.Form, req.Values); err != nil {
			var verr *forms.ValidationError
			if errors.As(err, &verr) {
				sendError(s, "please fill in the required fields", verr.Fields)
				return
			}
			sendError(s, err.Error(), nil)
		}
	case "cancel":
		if err := s.CancelForm(req.Form); err != nil {
			sendError(s, err.Error(), nil)
		}
	default:
		sendError(s, "unknown message type: "+req.Type, nil)
	}
}

func (h *Hub) writeLoop(conn *websocket.Conn, s *session.Session, toasts <-chan notifications.Notification, quit <-chan struct{}, logger *zap.Logger) {
	for {
		var ev session.Event
		select {
		case <-quit:
			return
		case <-s.Done():
			h.write(conn, websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
			conn.Close()
			return
		case ev = <-s.Events():
		case n, ok := <-toasts:
			if !ok {
				return
			}
			ev = session.Event{Type: session.EventToast, Data: n}
		}

		data, err := json.Marshal(ev)
		if err != nil {
			logger.Error("encoding event", zap.String("type", string(ev.Type)), zap.Error(err))
			continue
		}
		if err := h.write(conn, websocket.TextMessage, data); err != nil {
			logger.Debug("websocket write", zap.Error(err))
			conn.Close()
			return
		}
	}
}

func (h *Hub) write(conn *websocket.Conn, kind int, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(h.timeout))
	return conn.WriteMessage(kind, data)
}

func sendError(s *session.Session, message string, fields map[string]string) {
	data := session.ErrorData{Message: message}
	if len(fields) > 0 {
		data.Fields = fields
	}
	s.Emit(session.Event{Type: session.EventError, Data: data})
}
