package wishlistControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/controllers/apierror"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/services/wishlist"
)

type WishlistInput struct {
	ProductID string `json:"productId" binding:"required"`
}

func userID(c *gin.Context) string {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return ""
}

// GET /api/wishlists
func GetWishlist(wishlists *wishlist.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := wishlists.List(c.Request.Context(), userID(c))
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		if entries == nil {
			entries = []models.WishlistEntry{}
		}
		c.JSON(http.StatusOK, entries)
	}
}

// POST /api/wishlists
// 201 when the entry is new, 200 when the product was already saved.
func AddToWishlist(wishlists *wishlist.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input WishlistInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		entry, created, err := wishlists.Add(c.Request.Context(), userID(c), input.ProductID)
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		if !created {
			c.JSON(http.StatusOK, gin.H{"message": "Item already in wishlist", "entry": entry})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Added to wishlist!", "entry": entry})
	}
}

// DELETE /api/wishlists/:productId
func RemoveFromWishlist(wishlists *wishlist.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := wishlists.Remove(c.Request.Context(), userID(c), c.Param("productId")); err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
	}
}

// POST /api/wishlists/:productId/move-to-cart
func MoveToCart(wishlists *wishlist.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := middleware.CurrentSession(c)
		cart, err := wishlists.MoveToCart(c.Request.Context(), userID(c), session.CartOwner(), c.Param("productId"))
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":   "Moved to cart",
			"cart":      cart,
			"total":     cart.Total(),
			"itemCount": cart.ItemCount(),
		})
	}
}

// DELETE /api/wishlists
func ClearWishlist(wishlists *wishlist.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := wishlists.Clear(c.Request.Context(), userID(c)); err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Wishlist cleared"})
	}
}
