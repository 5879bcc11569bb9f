package reviewControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/controllers/apierror"
	"github.com/junaidrashid-git/shopeasy-api/middleware"
	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/services/reviews"
)

// GET /api/reviews?productId= or ?userId=
func GetReviews(manager *reviews.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			list []models.Review
			err  error
		)
		switch {
		case c.Query("productId") != "":
			list, err = manager.ForProduct(c.Request.Context(), c.Query("productId"))
		case c.Query("userId") != "":
			list, err = manager.ByUser(c.Request.Context(), c.Query("userId"))
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId or userId is required"})
			return
		}
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		if list == nil {
			list = []models.Review{}
		}
		c.JSON(http.StatusOK, list)
	}
}

// GET /api/reviews/stats/:productId
func GetReviewStats(manager *reviews.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := manager.Stats(c.Request.Context(), c.Param("productId"))
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// POST /api/reviews
func CreateReview(manager *reviews.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input reviews.Submission
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		review, err := manager.Submit(c.Request.Context(), middleware.CurrentUser(c), input)
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// POST /api/reviews/:id/helpful
func MarkHelpful(manager *reviews.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		review, err := manager.MarkHelpful(c.Request.Context(), c.Param("id"), middleware.Viewer(c))
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

// PUT /api/reviews/:id
func UpdateReview(manager *reviews.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input reviews.Submission
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		review, err := manager.Update(c.Request.Context(), c.Param("id"), requester(c), input)
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

// DELETE /api/reviews/:id
func DeleteReview(manager *reviews.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := manager.Delete(c.Request.Context(), c.Param("id"), requester(c)); err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
	}
}

// requester is the signed-in user, or a stand-in admin for API-key calls.
func requester(c *gin.Context) *models.User {
	if user := middleware.CurrentUser(c); user != nil {
		return user
	}
	if middleware.IsAdmin(c) {
		return &models.User{IsAdmin: true}
	}
	return nil
}
