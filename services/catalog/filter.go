package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/junaidrashid-git/shopeasy-api/models"
)

// CategoryAll matches every category.
const CategoryAll = "all"

type SortKey string

const (
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// Filter describes a derived view of the catalog. Nil price bounds are
// inactive; both bounds are inclusive.
type Filter struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Sort     SortKey
}

// ApplyFilters returns the products satisfying every active predicate, sorted
// by f.Sort. The input is never modified and ties keep their input order.
func ApplyFilters(products []models.Product, f Filter) []models.Product {
	search := strings.ToLower(f.Search)

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && f.Category != CategoryAll && p.Category != f.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, f.Sort)
	return out
}

func sortProducts(products []models.Product, key SortKey) {
	switch key {
	case SortName:
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(products, func(i, j int) bool {
			return c.CompareString(products[i].Name, products[j].Name) < 0
		})
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Rating > products[j].Rating
		})
	}
}

// ParseSortKey accepts the known keys and falls back to catalog order.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortName, SortPriceLow, SortPriceHigh, SortRating:
		return k
	}
	return ""
}
