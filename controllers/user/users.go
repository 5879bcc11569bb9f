package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/auth"
	"github.com/junaidrashid-git/shopeasy-api/controllers/apierror"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/services/wishlist"
)

// GET /api/users (admins) and GET /api/admin/users
func GetAllUsers(users *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !middleware.IsAdmin(c) {
			apierror.Respond(c, models.ErrForbidden)
			return
		}
		list, err := users.Users(c.Request.Context())
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		public := make([]models.PublicUser, 0, len(list))
		for _, u := range list {
			public = append(public, u.Public())
		}
		c.JSON(http.StatusOK, public)
	}
}

// GET /api/users/:id
func GetUser(users *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.User(c.Request.Context(), c.Param("id"))
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, user.Public())
	}
}

// PUT /api/users/:id
func UpdateUser(users *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !canManage(c, id) {
			apierror.Respond(c, models.ErrForbidden)
			return
		}

		var input auth.Profile
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		user, err := users.UpdateProfile(c.Request.Context(), id, input)
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, user.Public())
	}
}

// DELETE /api/users/:id
func DeleteUser(users *auth.Manager, wishlists *wishlist.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !canManage(c, id) {
			apierror.Respond(c, models.ErrForbidden)
			return
		}

		if err := users.DeleteUser(c.Request.Context(), id); err != nil {
			apierror.Respond(c, err)
			return
		}
		if err := wishlists.Clear(c.Request.Context(), id); err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

// canManage allows the user themselves and admins.
func canManage(c *gin.Context, id string) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	user := middleware.CurrentUser(c)
	return user != nil && user.ID == id
}
