package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/auth"
	adminController "github.com/junaidrashid-git/shopeasy-api/controllers/admin"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
	"github.com/junaidrashid-git/shopeasy-api/notify"
	"github.com/junaidrashid-git/shopeasy-api/services/cart"
	"github.com/junaidrashid-git/shopeasy-api/services/catalog"
	"github.com/junaidrashid-git/shopeasy-api/services/orders"
	"github.com/junaidrashid-git/shopeasy-api/services/reviews"
	"github.com/junaidrashid-git/shopeasy-api/services/wishlist"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

// Deps are the managers the handlers are built from. Backup may be nil.
type Deps struct {
	Storage  storage.Adapter
	Auth     *auth.Manager
	Catalog  *catalog.Manager
	Cart     *cart.Manager
	Wishlist *wishlist.Manager
	Reviews  *reviews.Manager
	Orders   *orders.Manager
	Hub      *notify.Hub
	Seeder   adminController.Seeder
	Backup   adminController.Backuper

	AdminAPIKey string
}

// SetupRoutes is the single entry-point that wires up every /api route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")
	api.Use(middleware.LoadSession(d.Auth))

	// 1️⃣ Sessions, registration and login
	SetupAuthRoutes(api, d)

	// 2️⃣ Storefront: users, products, cart, wishlist, reviews
	SetupShopRoutes(api, d)

	// 3️⃣ Checkout, orders and notifications
	SetupOrderRoutes(api, d)

	// 4️⃣ Admin routes (API-Key-protected)
	SetupAdminRoutes(api, d)
}
