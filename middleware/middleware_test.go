package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/junaidrashid-git/shopeasy-api/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSessions map[string]models.Session

func (f fakeSessions) Session(_ context.Context, id string) (models.Session, error) {
	s, ok := f[id]
	if !ok {
		return models.Session{}, models.ErrSessionNotFound
	}
	return s, nil
}

func (f fakeSessions) UserFor(_ context.Context, s models.Session) (*models.User, error) {
	if s.UserID == "" {
		return nil, nil
	}
	return &models.User{ID: s.UserID, IsAdmin: s.UserID == "admin"}, nil
}

func serve(r *gin.Engine, path string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateAPIKey(t *testing.T) {
	r := gin.New()
	r.GET("/admin", ValidateAPIKey("secret"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": IsAdmin(c)})
	})
	disabled := gin.New()
	disabled.GET("/admin", ValidateAPIKey(""), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, "/admin").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/admin", "X-API-KEY", "wrong").Code)

	w := serve(r, "/admin", "X-API-KEY", "secret")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"admin":true}`, w.Body.String())

	assert.Equal(t, http.StatusOK, serve(r, "/admin?api_key=secret").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(disabled, "/admin", "X-API-KEY", "").Code)
}

func TestLoadSession(t *testing.T) {
	sessions := fakeSessions{
		"sess_guest": {ID: "sess_guest"},
		"sess_user":  {ID: "sess_user", UserID: "u1"},
	}
	r := gin.New()
	r.Use(LoadSession(sessions))
	r.GET("/viewer", func(c *gin.Context) {
		c.String(http.StatusOK, Viewer(c))
	})
	r.GET("/cart", RequireSession, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/wishlist", RequireUser, func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("anonymous", func(t *testing.T) {
		assert.Equal(t, "", serve(r, "/viewer").Body.String())
		assert.Equal(t, http.StatusUnauthorized, serve(r, "/cart").Code)
		assert.Equal(t, http.StatusUnauthorized, serve(r, "/cart", SessionHeader, "sess_gone").Code)
	})

	t.Run("guest session", func(t *testing.T) {
		assert.Equal(t, "session:sess_guest", serve(r, "/viewer", SessionHeader, "sess_guest").Body.String())
		assert.Equal(t, http.StatusOK, serve(r, "/cart", SessionHeader, "sess_guest").Code)
		assert.Equal(t, http.StatusUnauthorized, serve(r, "/wishlist", SessionHeader, "sess_guest").Code)
	})

	t.Run("signed in", func(t *testing.T) {
		assert.Equal(t, "user:u1", serve(r, "/viewer?session=sess_user").Body.String())
		assert.Equal(t, http.StatusOK, serve(r, "/wishlist", SessionHeader, "sess_user").Code)
	})
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiter(1, 2).Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, "/").Code)
	assert.Equal(t, http.StatusOK, serve(r, "/").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, "/").Code)

	unlimited := gin.New()
	unlimited.Use(NewRateLimiter(0, 0).Middleware())
	unlimited.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(unlimited, "/").Code)
	}
}
