// Package app assembles the storefront: storage, managers, notification
// fan-out and the gin engine.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/junaidrashid-git/shopeasy-api/auth"
	"github.com/junaidrashid-git/shopeasy-api/backup"
	"github.com/junaidrashid-git/shopeasy-api/config"
	"github.com/junaidrashid-git/shopeasy-api/metrics"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/notify"
	"github.com/junaidrashid-git/shopeasy-api/routes"
	"github.com/junaidrashid-git/shopeasy-api/seed"
	"github.com/junaidrashid-git/shopeasy-api/services/cart"
	"github.com/junaidrashid-git/shopeasy-api/services/catalog"
	"github.com/junaidrashid-git/shopeasy-api/services/orders"
	"github.com/junaidrashid-git/shopeasy-api/services/reviews"
	"github.com/junaidrashid-git/shopeasy-api/services/wishlist"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg config.Config
	log logrus.FieldLogger

	Storage  storage.Adapter
	Hub      *notify.Hub
	Metrics  *metrics.Collector
	Auth     *auth.Manager
	Catalog  *catalog.Manager
	Cart     *cart.Manager
	Wishlist *wishlist.Manager
	Reviews  *reviews.Manager
	Orders   *orders.Manager
	Seeder   *seed.Seeder
	Backup   *backup.Backup
	Engine   *gin.Engine
}

// New opens the configured storage and builds the app on top of it.
func New(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*App, error) {
	adapter, err := OpenStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a, err := NewWithStorage(ctx, cfg, log, adapter)
	if err != nil {
		_ = adapter.Close(ctx)
		return nil, err
	}
	return a, nil
}

// NewWithStorage wires every manager against adapter and loads the catalog.
func NewWithStorage(ctx context.Context, cfg config.Config, log logrus.FieldLogger, adapter storage.Adapter) (*App, error) {
	a := &App{
		cfg:     cfg,
		log:     log,
		Storage: adapter,
		Hub:     notify.NewHub(log.WithField("component", "hub")),
		Metrics: metrics.New(),
	}
	dispatcher := notify.Multi{a.Hub, a.Metrics}
	passwords := auth.BcryptPasswords{Cost: cfg.BcryptCost}

	a.Auth = auth.NewManager(
		storage.NewRepository[models.User](adapter, storage.CollectionUsers),
		storage.NewRepository[models.Session](adapter, storage.CollectionSessions),
		passwords, dispatcher, log.WithField("component", "auth"), cfg.SessionTTL,
	)
	a.Catalog = catalog.NewManager(
		storage.NewRepository[models.Product](adapter, storage.CollectionProducts),
		dispatcher, log.WithField("component", "catalog"),
	)
	a.Orders = orders.NewManager(
		storage.NewRepository[models.Order](adapter, storage.CollectionOrders),
		dispatcher, log.WithField("component", "orders"),
	)
	a.Cart = cart.NewManager(
		storage.NewRepository[models.Cart](adapter, storage.CollectionCarts),
		a.Catalog, a.Orders, dispatcher, log.WithField("component", "cart"),
	)
	a.Wishlist = wishlist.NewManager(
		storage.NewRepository[models.WishlistEntry](adapter, storage.CollectionWishlists),
		a.Catalog, a.Cart, dispatcher, log.WithField("component", "wishlist"),
	)
	a.Reviews = reviews.NewManager(
		storage.NewRepository[models.Review](adapter, storage.CollectionReviews),
		a.Catalog, dispatcher, log.WithField("component", "reviews"),
	)

	data, err := seed.Sample()
	if err != nil {
		return nil, err
	}
	a.Seeder = seed.NewSeeder(a.Catalog, a.Auth, a.Reviews, passwords, log.WithField("component", "seed"), data)

	if err := a.Catalog.Load(ctx); err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}

	if cfg.BackupDir != "" && cfg.StorageBackend == config.BackendLocal && cfg.LocalSubstrate == config.SubstrateDir {
		a.Backup = backup.New(cfg.DataDir, cfg.BackupDir, cfg.BackupRetention, log.WithField("component", "backup"))
	}

	a.Engine = a.engine()
	return a, nil
}

func (a *App) engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(a.log.WithField("component", "http")))
	r.Use(a.Metrics.Middleware())

	// CORS settings
	origins := a.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-API-KEY", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.SessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.NewRateLimiter(a.cfg.RateLimitRPS, a.cfg.RateLimitBurst).Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": a.Hub.Clients()})
	})
	r.GET("/metrics", gin.WrapH(a.Metrics.Handler()))

	deps := routes.Deps{
		Storage:     a.Storage,
		Auth:        a.Auth,
		Catalog:     a.Catalog,
		Cart:        a.Cart,
		Wishlist:    a.Wishlist,
		Reviews:     a.Reviews,
		Orders:      a.Orders,
		Hub:         a.Hub,
		Seeder:      a.Seeder,
		AdminAPIKey: a.cfg.AdminAPIKey,
	}
	if a.Backup != nil {
		deps.Backup = a.Backup
	}
	routes.SetupRoutes(r, deps)
	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.SeedOnStart {
		if _, err := a.Seeder.Seed(ctx); err != nil {
			return errors.Wrap(err, "seed on start")
		}
	}
	if a.Backup != nil {
		if err := a.Backup.Start(a.cfg.BackupSchedule); err != nil {
			return err
		}
		defer a.Backup.Stop()
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", srv.Addr).Info("🚀 Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("🛑 Shutting down...")
	a.Hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (a *App) Close(ctx context.Context) error {
	a.Hub.Close()
	return a.Storage.Close(ctx)
}
