package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/models"
)

// SessionHeader carries the opaque session id on every request.
const SessionHeader = "X-Session-ID"

const (
	sessionKey = "session"
	userKey    = "user"
	userIDKey  = "user_id"
)

// SessionResolver is the part of the auth manager the middleware needs.
type SessionResolver interface {
	Session(ctx context.Context, id string) (models.Session, error)
	UserFor(ctx context.Context, session models.Session) (*models.User, error)
}

// LoadSession resolves the X-Session-ID header (or the ?session= query
// parameter used by websocket clients) and stores the session and its user
// in the context. Requests without a valid session carry on anonymously.
func LoadSession(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			id = c.Query("session")
		}
		if id == "" {
			c.Next()
			return
		}

		session, err := sessions.Session(c.Request.Context(), id)
		if errors.Is(err, models.ErrSessionNotFound) {
			c.Next()
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong!"})
			c.Abort()
			return
		}

		user, err := sessions.UserFor(c.Request.Context(), session)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong!"})
			c.Abort()
			return
		}

		c.Set(sessionKey, session)
		if user != nil {
			c.Set(userKey, user)
			c.Set(userIDKey, user.ID)
		}
		c.Next()
	}
}

// RequireSession rejects requests that did not present a live session.
func RequireSession(c *gin.Context) {
	if _, ok := CurrentSession(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session is missing or expired"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireUser rejects anonymous sessions.
func RequireUser(c *gin.Context) {
	if CurrentUser(c) == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": models.ErrNotAuthenticated.Error()})
		c.Abort()
		return
	}
	c.Next()
}

func CurrentSession(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return models.Session{}, false
	}
	s, ok := v.(models.Session)
	return s, ok
}

// CurrentUser is nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// Viewer identifies who is acting: the user when signed in, otherwise the
// session. Empty when neither is known.
func Viewer(c *gin.Context) string {
	if u := CurrentUser(c); u != nil {
		return "user:" + u.ID
	}
	if s, ok := CurrentSession(c); ok {
		return "session:" + s.ID
	}
	return ""
}
