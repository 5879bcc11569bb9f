package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/auth"
	"github.com/junaidrashid-git/shopeasy-api/controllers/apierror"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/services/cart"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/users/register
func Register(users *auth.Manager, carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input auth.Registration
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		guest, _ := middleware.CurrentSession(c)
		session, user, err := users.Register(c.Request.Context(), guest.ID, input)
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		if !mergeGuestCart(c, carts, guest, session) {
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Registration successful!",
			"session": session,
			"user":    user.Public(),
		})
	}
}

// POST /api/users/login
// The guest cart built before login is folded into the user's cart.
func Login(users *auth.Manager, carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		guest, _ := middleware.CurrentSession(c)
		session, user, err := users.Login(c.Request.Context(), guest.ID, input.Email, input.Password)
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		if !mergeGuestCart(c, carts, guest, session) {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful!",
			"session": session,
			"user":    user.Public(),
		})
	}
}

func mergeGuestCart(c *gin.Context, carts *cart.Manager, before, after models.Session) bool {
	if before.State() != models.SessionAnonymous {
		return true
	}
	from, to := before.CartOwner(), after.CartOwner()
	if from == to {
		return true
	}
	if _, err := carts.Merge(c.Request.Context(), from, to); err != nil {
		apierror.Respond(c, err)
		return false
	}
	return true
}

// POST /api/users/logout
func Logout(users *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, _ := middleware.CurrentSession(c)
		session, err := users.Logout(c.Request.Context(), current.ID)
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Logged out successfully",
			"session": session,
		})
	}
}
