package storage

type Op string

const (
	OpEq  Op = "$eq"
	OpGt  Op = "$gt"
	OpGte Op = "$gte"
	OpLt  Op = "$lt"
	OpLte Op = "$lte"
	OpIn  Op = "$in"
)

type Condition struct {
	Field string
	Op    Op
	Value interface{}
}

// Query is a conjunction of conditions. The zero value matches everything.
type Query []Condition

func Where(conds ...Condition) Query { return Query(conds) }

func (q Query) And(conds ...Condition) Query {
	out := make(Query, 0, len(q)+len(conds))
	out = append(out, q...)
	return append(out, conds...)
}

func Eq(field string, v interface{}) Condition  { return Condition{field, OpEq, v} }
func Gt(field string, v interface{}) Condition  { return Condition{field, OpGt, v} }
func Gte(field string, v interface{}) Condition { return Condition{field, OpGte, v} }
func Lt(field string, v interface{}) Condition  { return Condition{field, OpLt, v} }
func Lte(field string, v interface{}) Condition { return Condition{field, OpLte, v} }

// In matches when the field equals any of values.
func In(field string, values ...interface{}) Condition {
	return Condition{field, OpIn, values}
}

// ByID is the common single-document lookup.
func ByID(id string) Query { return Where(Eq(FieldID, id)) }
