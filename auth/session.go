package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"

	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

const sessionPrefix = "sess_"

// StartSession opens a new anonymous session.
func (m *Manager) StartSession(ctx context.Context) (models.Session, error) {
	id, err := generateRandomString(16)
	if err != nil {
		return models.Session{}, errors.Wrap(err, "generate session id")
	}
	session := models.Session{
		ID:        sessionPrefix + id,
		ExpiresAt: m.now().Add(m.ttl).UTC(),
	}
	return m.sessions.Create(ctx, session)
}

// Session looks up a live session. Expired sessions are removed and reported
// as missing.
func (m *Manager) Session(ctx context.Context, id string) (models.Session, error) {
	if id == "" {
		return models.Session{}, models.ErrSessionNotFound
	}
	session, err := m.sessions.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Session{}, models.ErrSessionNotFound
	}
	if err != nil {
		return models.Session{}, err
	}
	if session.Expired(m.now()) {
		if err := m.sessions.Delete(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
			m.log.WithError(err).WithField("session", id).Warn("⚠️ failed to drop expired session")
		}
		return models.Session{}, models.ErrSessionNotFound
	}
	return session, nil
}

func (m *Manager) setUser(ctx context.Context, session models.Session, userID string) (models.Session, error) {
	session.UserID = userID
	session.ExpiresAt = m.now().Add(m.ttl).UTC()
	return m.sessions.Save(ctx, session.ID, session)
}

func generateRandomString(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// DefaultSessionTTL matches the old guest token lifetime.
const DefaultSessionTTL = 24 * time.Hour
