package schema

import (
	"reflect"

	"github.com/clinica/clinica/internal/forms/value"
)

// Operator selects the comparison a Condition applies.
type Operator string

const (
	OpEq       Operator = "eq"
	OpNeq      Operator = "neq"
	OpTruthy   Operator = "truthy"
	OpFalsy    Operator = "falsy"
	OpIn       Operator = "in"
	OpNotEmpty Operator = "not_empty"
)

// Condition is a declarative visibility rule over a sibling field's value.
// Field is resolved against the nearest enclosing value subtree, so a
// condition inside an array item sees that item's fields, not the whole form.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// Evaluate resolves the condition's field in subtree and applies the
// operator. A field whose condition evaluates false is hidden but keeps its
// stale value in the tree.
//
// neq is deliberately asymmetric: an empty/absent current value makes it
// false, because schemas use it to mean "explicitly set to something else",
// not "absent". Unknown operators evaluate true so a misconfigured condition
// shows the field instead of losing it.
func (c *Condition) Evaluate(subtree any) bool {
	cur := value.Resolve(subtree, c.Field)

	switch c.Operator {
	case OpEq:
		return equals(cur, c.Value)
	case OpNeq:
		if isEmpty(cur) {
			return false
		}
		return !equals(cur, c.Value)
	case OpTruthy:
		return truthy(cur)
	case OpFalsy:
		return !truthy(cur)
	case OpIn:
		return contains(c.Value, cur)
	case OpNotEmpty:
		return !isEmpty(cur)
	default:
		return true
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// truthy mirrors the truthiness of the value kinds a tree can hold: nil,
// false, empty string, and numeric zero are falsy. An indeterminate
// tri-state is truthy — it is an answer slot that exists, not an empty one.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case TriState:
		return t != TriFalse
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

func equals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(a, b)
}

// contains tests membership of cur in set. A set that is not a slice is not
// iterable and the condition is false.
func contains(set any, cur any) bool {
	switch s := set.(type) {
	case []any:
		for _, m := range s {
			if equals(m, cur) {
				return true
			}
		}
	case []string:
		for _, m := range s {
			if equals(any(m), cur) {
				return true
			}
		}
	}
	return false
}
