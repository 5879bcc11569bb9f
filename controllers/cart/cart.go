package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/controllers/apierror"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/services/cart"
)

type CartItemInput struct {
	ProductID string `json:"productId" binding:"required"`
}

type QuantityInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type cartView struct {
	models.Cart
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

func view(c models.Cart) cartView {
	if c.Items == nil {
		c.Items = []models.CartLineItem{}
	}
	return cartView{Cart: c, Total: c.Total(), ItemCount: c.ItemCount()}
}

func owner(c *gin.Context) string {
	session, _ := middleware.CurrentSession(c)
	return session.CartOwner()
}

// GET /api/cart
func GetCart(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, err := carts.Get(c.Request.Context(), owner(c))
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, view(current))
	}
}

// POST /api/cart/items
func AddCartItem(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		updated, err := carts.Add(c.Request.Context(), owner(c), input.ProductID)
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, view(updated))
	}
}

// PUT /api/cart/items/:productId
func UpdateCartItem(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		updated, err := carts.UpdateQuantity(c.Request.Context(), owner(c), c.Param("productId"), *input.Quantity)
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, view(updated))
	}
}

// DELETE /api/cart/items/:productId
func DeleteCartItem(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		updated, err := carts.Remove(c.Request.Context(), owner(c), c.Param("productId"))
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, view(updated))
	}
}

// DELETE /api/cart
func ClearCart(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Clear(c.Request.Context(), owner(c)); err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
