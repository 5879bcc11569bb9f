package orderControllers

import (
	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/middleware"
	"github.com/junaidrashid-git/shopeasy-api/notify"
)

// GET /api/notifications/ws?session=<id>
// The socket receives broadcasts plus everything addressed to the session,
// its cart owner key and its user.
func NotificationsWebSocket(hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var audiences []string
		if session, ok := middleware.CurrentSession(c); ok {
			audiences = append(audiences, "session:"+session.ID)
			if session.UserID != "" {
				audiences = append(audiences, "user:"+session.UserID)
			}
		}
		if user := middleware.CurrentUser(c); user != nil && user.IsAdmin {
			audiences = append(audiences, notify.AdminAudience)
		}
		serve(c, hub, audiences)
	}
}

// GET /api/admin/orders/ws
func AdminOrdersWebSocket(hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		serve(c, hub, []string{notify.AdminAudience})
	}
}

func serve(c *gin.Context, hub *notify.Hub, audiences []string) {
	if err := hub.Serve(c.Writer, c.Request, audiences...); err != nil {
		_ = c.Error(err)
	}
}
