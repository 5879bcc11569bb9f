package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/controllers/apierror"
	"github.com/junaidrashid-git/shopeasy-api/services/catalog"
)

// GET /api/products/:id
func GetProductByID(cat *catalog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := cat.Product(c.Param("id"))
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
