package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/junaidrashid-git/shopeasy-api/storage"
)

// Filter translates a storage.Query into a mongo filter document. Several
// conditions on one field collapse into a single operator document.
func Filter(q storage.Query) bson.M {
	filter := bson.M{}
	for _, c := range q {
		op := c.Op
		if op == "" {
			op = storage.OpEq
		}
		value := filterValue(op, c.Value)

		existing, seen := filter[c.Field]
		if op == storage.OpEq && !seen {
			filter[c.Field] = value
			continue
		}
		ops, isOps := existing.(bson.M)
		if !isOps {
			ops = bson.M{}
			if seen {
				ops[string(storage.OpEq)] = existing
			}
			filter[c.Field] = ops
		}
		ops[string(op)] = value
	}
	return filter
}

func filterValue(op storage.Op, v interface{}) interface{} {
	if op == storage.OpIn {
		list, _ := v.([]interface{})
		out := make(bson.A, 0, len(list))
		for _, item := range list {
			out = append(out, scalar(item))
		}
		return out
	}
	return scalar(v)
}

// Timestamps are stored as RFC3339 strings, so time values in queries are
// compared in the same form.
func scalar(v interface{}) interface{} {
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return v
}

// Normalize converts driver types into the plain JSON-compatible values
// every other backend returns.
func Normalize(m bson.M) storage.Document {
	out := make(storage.Document, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.M:
		return map[string]interface{}(Normalize(t))
	case map[string]interface{}:
		return map[string]interface{}(Normalize(bson.M(t)))
	case bson.D:
		m := make(bson.M, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return map[string]interface{}(Normalize(m))
	case bson.A:
		out := make([]interface{}, len(t))
		for i, el := range t {
			out[i] = normalizeValue(el)
		}
		return out
	case []interface{}:
		return normalizeValue(bson.A(t))
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(time.RFC3339Nano)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	}
	return v
}
