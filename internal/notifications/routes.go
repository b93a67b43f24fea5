package notifications

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Lookup resolves the dispatcher belonging to the visitor making r.
type Lookup func(r *http.Request) (*Dispatcher, bool)

// RegisterRoutes mounts notification endpoints under /api/notifications on the given router.
func RegisterRoutes(r chi.Router, lookup Lookup) {
	r.Route("/api/notifications", func(r chi.Router) {
		r.Get("/pending", handlePending(lookup))
	})
}

// handlePending drains the toasts queued for the session the request names.
// A client whose socket dropped polls this to collect what it missed.
func handlePending(lookup Lookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := lookup(r)
		if !ok {
			writeJSON(w, http.StatusOK, []Notification{})
			return
		}
		pending := d.Drain()
		if pending == nil {
			pending = []Notification{}
		}
		writeJSON(w, http.StatusOK, pending)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
