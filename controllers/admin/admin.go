package adminController

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/controllers/apierror"
	"github.com/junaidrashid-git/shopeasy-api/seed"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

// Seeder loads the sample data.
type Seeder interface {
	Seed(ctx context.Context) (seed.Result, error)
}

// Backuper snapshots the local data directory.
type Backuper interface {
	Run() (string, error)
}

// GET /api/admin/stats
func GetStats(adapter storage.Adapter) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := storage.Stats(c.Request.Context(), adapter, storage.AllCollections()...)
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// POST /api/admin/init
func InitDatabase(seeder Seeder) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := seeder.Seed(c.Request.Context())
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		if result.Skipped {
			c.JSON(http.StatusOK, gin.H{"message": "Database already contains data. Skipping initialization.", "result": result})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Database initialization completed successfully!", "result": result})
	}
}

// POST /api/admin/backup
// Answers 404 when backups are not configured.
func RunBackup(b Backuper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if b == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Backups are not configured"})
			return
		}
		dir, err := b.Run()
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Backup completed", "path": dir})
	}
}
