package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/shopeasy-api/services/catalog"
)

// GET /api/products?category=&search=&minPrice=&maxPrice=&sort=
func GetProducts(cat *catalog.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := catalog.Filter{
			Category: c.Query("category"),
			Search:   c.Query("search"),
			Sort:     catalog.ParseSortKey(c.Query("sort")),
		}

		if s := c.Query("minPrice"); s != "" {
			mp, err := strconv.ParseFloat(s, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minPrice"})
				return
			}
			filter.MinPrice = &mp
		}
		if s := c.Query("maxPrice"); s != "" {
			mp, err := strconv.ParseFloat(s, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maxPrice"})
				return
			}
			filter.MaxPrice = &mp
		}

		c.JSON(http.StatusOK, cat.ApplyFilters(filter))
	}
}
