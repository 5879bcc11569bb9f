package models

import "time"

type SessionState string

const (
	SessionAnonymous     SessionState = "anonymous"
	SessionAuthenticated SessionState = "authenticated"
)

// Session replaces the browser's currentUser key. An empty UserID means the
// session is anonymous.
type Session struct {
	ID        string    `json:"_id,omitempty"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s Session) Validate() error {
	if s.ID == "" {
		return ErrMissingField
	}
	return nil
}

func (s Session) State() SessionState {
	if s.UserID == "" {
		return SessionAnonymous
	}
	return SessionAuthenticated
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// CartOwner is the key the session's cart is stored under.
func (s Session) CartOwner() string {
	if s.UserID != "" {
		return "user:" + s.UserID
	}
	return "session:" + s.ID
}
