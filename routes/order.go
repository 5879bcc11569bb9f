package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/junaidrashid-git/shopeasy-api/controllers/order"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
)

func SetupOrderRoutes(api *gin.RouterGroup, d Deps) {
	orders := api.Group("/orders")
	orders.Use(middleware.RequireSession)
	{
		// Checkout the session's cart
		orders.POST("", orderControllers.PlaceOrder(d.Cart))

		// Orders of the signed-in user, or of the guest session
		orders.GET("", orderControllers.GetMyOrders(d.Orders))
		orders.GET("/:id", orderControllers.GetOrder(d.Orders))
	}

	// websocket endpoint for cart, wishlist, review and order notifications
	api.GET("/notifications/ws", orderControllers.NotificationsWebSocket(d.Hub))
}
