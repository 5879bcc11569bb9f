package sessionControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/auth"
	"github.com/junaidrashid-git/shopeasy-api/controllers/apierror"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
)

// POST /api/sessions
func CreateSession(users *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := users.StartSession(c.Request.Context())
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.Header(middleware.SessionHeader, session.ID)
		c.JSON(http.StatusCreated, gin.H{
			"sessionId": session.ID,
			"state":     session.State(),
			"expiresAt": session.ExpiresAt,
		})
	}
}

// GET /api/sessions/current
func GetCurrentSession(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)
	body := gin.H{
		"sessionId": session.ID,
		"state":     session.State(),
		"expiresAt": session.ExpiresAt,
		"user":      nil,
	}
	if user := middleware.CurrentUser(c); user != nil {
		body["user"] = user.Public()
	}
	c.JSON(http.StatusOK, body)
}
