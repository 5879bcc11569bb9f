package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/controllers/apierror"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/services/cart"
	"github.com/junaidrashid-git/shopeasy-api/services/orders"
)

// -------- Request Structs --------
type PlaceOrderRequest struct {
	ShippingAddress models.ShippingInfo   `json:"shippingAddress"`
	PaymentInfo     models.PaymentDetails `json:"paymentInfo"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// POST /api/orders
func PlaceOrder(carts *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		session, _ := middleware.CurrentSession(c)
		order, err := carts.Checkout(c.Request.Context(), session.CartOwner(), session.UserID, req.ShippingAddress, req.PaymentInfo)
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Order placed successfully!",
			"order":   order,
		})
	}
}

// GET /api/orders
func GetMyOrders(manager *orders.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			list []models.Order
			err  error
		)
		if user := middleware.CurrentUser(c); user != nil {
			list, err = manager.ForUser(c.Request.Context(), user.ID)
		} else {
			session, _ := middleware.CurrentSession(c)
			list, err = manager.ForOwner(c.Request.Context(), session.CartOwner())
		}
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		if list == nil {
			list = []models.Order{}
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /api/orders/:id
// Orders belonging to someone else answer 404, same as unknown ids.
func GetOrder(manager *orders.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := manager.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		if !middleware.IsAdmin(c) && !ownsOrder(c, order) {
			apierror.Respond(c, models.ErrOrderNotFound)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func ownsOrder(c *gin.Context, order models.Order) bool {
	if user := middleware.CurrentUser(c); user != nil && order.UserID == user.ID {
		return true
	}
	session, ok := middleware.CurrentSession(c)
	return ok && order.Owner == session.CartOwner()
}

// GET /api/admin/orders?status=
func GetAllOrders(manager *orders.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := manager.All(c.Request.Context(), c.Query("status"))
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		if list == nil {
			list = []models.Order{}
		}
		c.JSON(http.StatusOK, list)
	}
}

// PUT /api/admin/orders/:id/status
func UpdateOrderStatus(manager *orders.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := manager.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// DELETE /api/admin/orders/:id
func DeleteOrder(manager *orders.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := manager.Delete(c.Request.Context(), c.Param("id")); err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
