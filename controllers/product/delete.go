package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/controllers/apierror"
	"github.com/junaidrashid-git/shopeasy-api/services/catalog"
)

// DELETE /api/admin/products/:id
func DeleteProduct(cat *catalog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cat.Delete(c.Request.Context(), c.Param("id")); err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
