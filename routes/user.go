package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/junaidrashid-git/shopeasy-api/controllers/cart"
	productControllers "github.com/junaidrashid-git/shopeasy-api/controllers/product"
	reviewControllers "github.com/junaidrashid-git/shopeasy-api/controllers/review"
	userControllers "github.com/junaidrashid-git/shopeasy-api/controllers/user"
	wishlistControllers "github.com/junaidrashid-git/shopeasy-api/controllers/wishlist"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
)

// SetupShopRoutes registers the storefront endpoints.
func SetupShopRoutes(api *gin.RouterGroup, d Deps) {
	// ──────────────── Users ────────────────
	users := api.Group("/users")
	{
		users.GET("", middleware.RequireUser, userControllers.GetAllUsers(d.Auth))
		users.GET("/:id", userControllers.GetUser(d.Auth))
		users.PUT("/:id", middleware.RequireUser, userControllers.UpdateUser(d.Auth))
		users.DELETE("/:id", middleware.RequireUser, userControllers.DeleteUser(d.Auth, d.Wishlist))
	}

	// ──────────────── Browse Products ────────────────
	products := api.Group("/products")
	{
		products.GET("", productControllers.GetProducts(d.Catalog))
		products.GET("/categories", productControllers.GetCategories(d.Catalog))
		products.GET("/:id", productControllers.GetProductByID(d.Catalog))
	}

	// ──────────────── Shopping Cart ────────────────
	cart := api.Group("/cart")
	cart.Use(middleware.RequireSession)
	{
		cart.GET("", cartControllers.GetCart(d.Cart))
		cart.POST("/items", cartControllers.AddCartItem(d.Cart))
		cart.PUT("/items/:productId", cartControllers.UpdateCartItem(d.Cart))
		cart.DELETE("/items/:productId", cartControllers.DeleteCartItem(d.Cart))
		cart.DELETE("", cartControllers.ClearCart(d.Cart))
	}

	// ──────────────── Wishlist ────────────────
	wishlists := api.Group("/wishlists")
	wishlists.Use(middleware.RequireUser)
	{
		wishlists.GET("", wishlistControllers.GetWishlist(d.Wishlist))
		wishlists.POST("", wishlistControllers.AddToWishlist(d.Wishlist))
		wishlists.DELETE("/:productId", wishlistControllers.RemoveFromWishlist(d.Wishlist))
		wishlists.POST("/:productId/move-to-cart", wishlistControllers.MoveToCart(d.Wishlist))
		wishlists.DELETE("", wishlistControllers.ClearWishlist(d.Wishlist))
	}

	// ──────────────── Reviews ────────────────
	reviews := api.Group("/reviews")
	{
		reviews.GET("", reviewControllers.GetReviews(d.Reviews))
		reviews.GET("/stats/:productId", reviewControllers.GetReviewStats(d.Reviews))
		reviews.POST("", middleware.RequireUser, reviewControllers.CreateReview(d.Reviews))
		reviews.POST("/:id/helpful", middleware.RequireSession, reviewControllers.MarkHelpful(d.Reviews))
		reviews.PUT("/:id", middleware.RequireUser, reviewControllers.UpdateReview(d.Reviews))
		reviews.DELETE("/:id", middleware.RequireUser, reviewControllers.DeleteReview(d.Reviews))
	}
}
