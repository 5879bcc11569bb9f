package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/controllers/apierror"
	"github.com/junaidrashid-git/shopeasy-api/services/catalog"
)

// POST /api/admin/products/import (multipart, field "file")
func ImportProductsFromExcel(cat *catalog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		result, err := cat.ImportXLSX(c.Request.Context(), file, excelFileHeader.Size)
		if err != nil {
			apierror.Respond(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Import completed",
			"created": result.Created,
			"updated": result.Updated,
			"skipped": result.Skipped,
		})
	}
}
