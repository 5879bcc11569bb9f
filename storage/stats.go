package storage

import (
	"context"

	"github.com/pkg/errors"
)

// Collections the storefront writes to.
const (
	CollectionUsers     = "users"
	CollectionProducts  = "products"
	CollectionReviews   = "reviews"
	CollectionOrders    = "orders"
	CollectionWishlists = "wishlists"
	CollectionCarts     = "carts"
	CollectionSessions  = "sessions"
)

func AllCollections() []string {
	return []string{
		CollectionUsers,
		CollectionProducts,
		CollectionReviews,
		CollectionOrders,
		CollectionWishlists,
		CollectionCarts,
		CollectionSessions,
	}
}

// Stats counts the documents held in each collection.
func Stats(ctx context.Context, a Adapter, collections ...string) (map[string]int, error) {
	if len(collections) == 0 {
		collections = AllCollections()
	}
	out := make(map[string]int, len(collections))
	for _, c := range collections {
		docs, err := a.Read(ctx, c, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "stats %s", c)
		}
		out[c] = len(docs)
	}
	return out, nil
}
