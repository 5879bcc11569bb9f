package storage

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Match reports whether the raw JSON document satisfies every condition of q.
// Backends that keep documents as JSON (kv, pgstore) share it so that
// filtering behaves the same everywhere.
func Match(raw []byte, q Query) bool {
	for _, c := range q {
		if !matchCondition(gjson.GetBytes(raw, c.Field), c) {
			return false
		}
	}
	return true
}

func matchCondition(res gjson.Result, c Condition) bool {
	switch c.Op {
	case OpEq, "":
		return equal(res, c.Value)
	case OpIn:
		for _, v := range values(c.Value) {
			if equal(res, v) {
				return true
			}
		}
		return false
	case OpGt:
		cmp, ok := compare(res, c.Value)
		return ok && cmp > 0
	case OpGte:
		cmp, ok := compare(res, c.Value)
		return ok && cmp >= 0
	case OpLt:
		cmp, ok := compare(res, c.Value)
		return ok && cmp < 0
	case OpLte:
		cmp, ok := compare(res, c.Value)
		return ok && cmp <= 0
	}
	return false
}

func equal(res gjson.Result, v interface{}) bool {
	if res.IsArray() {
		if _, isSlice := v.([]interface{}); !isSlice {
			for _, el := range res.Array() {
				if equal(el, v) {
					return true
				}
			}
			return false
		}
	}

	switch want := v.(type) {
	case nil:
		return !res.Exists() || res.Type == gjson.Null
	case string:
		return res.Type == gjson.String && res.Str == want
	case bool:
		return (res.Type == gjson.True && want) || (res.Type == gjson.False && !want)
	case time.Time:
		got, ok := asTime(res)
		return ok && got.Equal(want)
	}
	if f, ok := toFloat(v); ok {
		return res.Type == gjson.Number && res.Num == f
	}
	return res.String() == fmt.Sprint(v)
}

func compare(res gjson.Result, v interface{}) (int, bool) {
	if want, ok := v.(time.Time); ok {
		got, ok := asTime(res)
		if !ok {
			return 0, false
		}
		switch {
		case got.Before(want):
			return -1, true
		case got.After(want):
			return 1, true
		}
		return 0, true
	}
	if want, ok := v.(string); ok {
		if res.Type != gjson.String {
			return 0, false
		}
		return strings.Compare(res.Str, want), true
	}
	want, ok := toFloat(v)
	if !ok || res.Type != gjson.Number {
		return 0, false
	}
	switch {
	case res.Num < want:
		return -1, true
	case res.Num > want:
		return 1, true
	}
	return 0, true
}

func asTime(res gjson.Result) (time.Time, bool) {
	if res.Type != gjson.String {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, res.Str)
	return t, err == nil
}

func values(v interface{}) []interface{} {
	if list, ok := v.([]interface{}); ok {
		return list
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []interface{}{v}
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
