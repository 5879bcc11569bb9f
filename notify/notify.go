// Package notify carries one-shot notifications from the managers to
// whoever is listening: websocket clients, metrics, logs.
package notify

import (
	"time"

	"github.com/pkg/errors"
)

type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Error   Level = "error"
)

// AdminAudience receives order traffic.
const AdminAudience = "admin"

type Event interface {
	Type() string
}

type Dispatcher interface {
	Dispatch(Event) error
}

// Notification is the event every manager emits. Audience holds cart-owner
// style keys ("user:<id>", "session:<id>", "admin"); empty means everyone.
type Notification struct {
	Kind     string      `json:"type"`
	Level    Level       `json:"level"`
	Message  string      `json:"message"`
	Audience []string    `json:"-"`
	Payload  interface{} `json:"payload,omitempty"`
	At       time.Time   `json:"at"`
}

func (n Notification) Type() string { return n.Kind }

func New(kind string, level Level, message string, audience ...string) Notification {
	return Notification{Kind: kind, Level: level, Message: message, Audience: audience, At: time.Now().UTC()}
}

func (n Notification) With(payload interface{}) Notification {
	n.Payload = payload
	return n
}

// Multi hands each event to every dispatcher and reports the first failure.
type Multi []Dispatcher

func (m Multi) Dispatch(e Event) error {
	var first error
	for _, d := range m {
		if d == nil {
			continue
		}
		if err := d.Dispatch(e); err != nil && first == nil {
			first = errors.Wrapf(err, "dispatch %s", e.Type())
		}
	}
	return first
}

type Discard struct{}

func (Discard) Dispatch(Event) error { return nil }
