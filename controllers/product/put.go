package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/controllers/apierror"
	"github.com/junaidrashid-git/shopeasy-api/services/catalog"
)

// PUT /api/admin/products/:id
func UpdateProduct(cat *catalog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		product, err := cat.Update(c.Request.Context(), c.Param("id"), input.product())
		if err != nil {
			apierror.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
