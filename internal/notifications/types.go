package notifications

import "time"

// Kind is the visual style of a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSuccess, KindInfo, KindWarning, KindError:
		return true
	}
	return false
}

// Notification is a single toast shown to a visitor.
type Notification struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Message     string    `json:"message"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notifier is the surface the rest of the site reports to.
type Notifier interface {
	Notify(kind Kind, message, description string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind Kind, message, description string)

func (f NotifierFunc) Notify(kind Kind, message, description string) { f(kind, message, description) }
