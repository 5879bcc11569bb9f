package routes

import (
	"github.com/gin-gonic/gin"

	sessionControllers "github.com/junaidrashid-git/shopeasy-api/controllers/session"
	userControllers "github.com/junaidrashid-git/shopeasy-api/controllers/user"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
)

// SetupAuthRoutes registers /api/sessions and the /api/users auth endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, d Deps) {
	sessions := api.Group("/sessions")
	{
		sessions.POST("", sessionControllers.CreateSession(d.Auth))
		sessions.GET("/current", middleware.RequireSession, sessionControllers.GetCurrentSession)
	}

	users := api.Group("/users")
	users.Use(middleware.RequireSession)
	{
		users.POST("/register", userControllers.Register(d.Auth, d.Cart))
		users.POST("/login", userControllers.Login(d.Auth, d.Cart))
		users.POST("/logout", userControllers.Logout(d.Auth))
	}
}
