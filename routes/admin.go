package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/junaidrashid-git/shopeasy-api/controllers/admin"
	orderControllers "github.com/junaidrashid-git/shopeasy-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/shopeasy-api/controllers/product"
	reviewControllers "github.com/junaidrashid-git/shopeasy-api/controllers/review"
	userControllers "github.com/junaidrashid-git/shopeasy-api/controllers/user"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
)

// SetupAdminRoutes registers all /api/admin/* endpoints. Requires API-Key middleware.
func SetupAdminRoutes(api *gin.RouterGroup, d Deps) {
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(d.AdminAPIKey))
	{
		// ─────────── Store Management ───────────
		adminGroup.GET("/stats", adminController.GetStats(d.Storage))
		adminGroup.POST("/init", adminController.InitDatabase(d.Seeder))
		adminGroup.POST("/backup", adminController.RunBackup(d.Backup))
		adminGroup.GET("/users", userControllers.GetAllUsers(d.Auth))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(d.Catalog))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(d.Catalog))
			productAdmin.GET("", productcontroller.GetProducts(d.Catalog))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(d.Catalog))
			productAdmin.POST("/import", productcontroller.ImportProductsFromExcel(d.Catalog))
			productAdmin.GET("/export", productcontroller.ExportProductsToExcel(d.Catalog))
		}

		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrders(d.Orders))
			orderAdmin.GET("/ws", orderControllers.AdminOrdersWebSocket(d.Hub))
			orderAdmin.PUT("/:id/status", orderControllers.UpdateOrderStatus(d.Orders))
			orderAdmin.DELETE("/:id", orderControllers.DeleteOrder(d.Orders))
		}

		// ─────────── Review Moderation ───────────
		adminGroup.DELETE("/reviews/:id", reviewControllers.DeleteReview(d.Reviews))
	}
}
