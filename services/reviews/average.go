package reviews

import (
	"encoding/json"
	"math"
)

// Average is an optional mean rating: a product without reviews has no
// average, which is different from an average of zero.
type Average struct {
	value float64
	count int
}

func newAverage(ratings []int) Average {
	if len(ratings) == 0 {
		return Average{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return Average{value: math.Round(mean*10) / 10, count: len(ratings)}
}

func (a Average) Valid() bool { return a.count > 0 }
func (a Average) Count() int  { return a.count }
func (a Average) Value() (float64, bool) {
	return a.value, a.Valid()
}

// Or0 collapses "no reviews" to 0 for callers that need a plain number.
func (a Average) Or0() float64 {
	return a.value
}

// MarshalJSON renders null when there are no reviews.
func (a Average) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}
