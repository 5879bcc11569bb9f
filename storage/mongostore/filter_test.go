package mongostore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/junaidrashid-git/shopeasy-api/storage"
)

func TestFilter(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, bson.M{}, Filter(nil))
	})

	t.Run("equality and range", func(t *testing.T) {
		q := storage.Where(
			storage.Eq("category", "books"),
			storage.Gte("price", 10),
			storage.Lt("price", 50.5),
		)
		assert.Equal(t, bson.M{
			"category": "books",
			"price":    bson.M{"$gte": 10, "$lt": 50.5},
		}, Filter(q))
	})

	t.Run("in", func(t *testing.T) {
		q := storage.Where(storage.In("_id", "a", "b"))
		assert.Equal(t, bson.M{"_id": bson.M{"$in": bson.A{"a", "b"}}}, Filter(q))
	})

	t.Run("equality then range on one field", func(t *testing.T) {
		q := storage.Where(storage.Eq("rating", 4), storage.Gt("rating", 3))
		assert.Equal(t, bson.M{"rating": bson.M{"$eq": 4, "$gt": 3}}, Filter(q))
	})

	t.Run("time values become strings", func(t *testing.T) {
		at := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		q := storage.Where(storage.Gt("createdAt", at))
		assert.Equal(t, bson.M{"createdAt": bson.M{"$gt": "2025-03-01T00:00:00Z"}}, Filter(q))
	})
}

func TestNormalize(t *testing.T) {
	oid := primitive.NewObjectID()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	doc := Normalize(bson.M{
		"_id":      "r1",
		"legacy":   oid,
		"date":     primitive.NewDateTimeFromTime(at),
		"helpful":  int32(3),
		"voters":   bson.A{"u1", "u2"},
		"shipping": bson.D{{Key: "email", Value: "jo@example.com"}},
		"items":    bson.A{bson.M{"quantity": int64(2)}},
	})

	assert.Equal(t, "r1", doc.ID())
	assert.Equal(t, oid.Hex(), doc["legacy"])
	assert.Equal(t, "2025-03-01T12:00:00Z", doc["date"])
	assert.Equal(t, float64(3), doc["helpful"])
	assert.Equal(t, []interface{}{"u1", "u2"}, doc["voters"])
	assert.Equal(t, map[string]interface{}{"email": "jo@example.com"}, doc["shipping"])
	assert.Equal(t, []interface{}{map[string]interface{}{"quantity": float64(2)}}, doc["items"])
}
