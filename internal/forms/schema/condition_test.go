package schema

import "testing"

func TestEvaluateEq(t *testing.T) {
	tree := map[string]any{"fuma": TriTrue, "tipo": "cronico", "n": 0}

	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"match", Condition{Field: "tipo", Operator: OpEq, Value: "cronico"}, true},
		{"mismatch", Condition{Field: "tipo", Operator: OpEq, Value: "agudo"}, false},
		{"tristate match", Condition{Field: "fuma", Operator: OpEq, Value: TriTrue}, true},
		{"missing field", Condition{Field: "nope", Operator: OpEq, Value: "x"}, false},
		{"zero", Condition{Field: "n", Operator: OpEq, Value: 0}, true},
	}
	for _, tc := range cases {
		if got := tc.cond.Evaluate(tree); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEvaluateNeqEmptyShortCircuit(t *testing.T) {
	// neq requires a present value: empty string, nil, and missing fields
	// all evaluate false no matter what they are compared against.
	tree := map[string]any{"a": "", "b": nil, "c": "set"}

	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"empty string", Condition{Field: "a", Operator: OpNeq, Value: "x"}, false},
		{"nil", Condition{Field: "b", Operator: OpNeq, Value: "x"}, false},
		{"missing", Condition{Field: "zz", Operator: OpNeq, Value: "x"}, false},
		{"present and different", Condition{Field: "c", Operator: OpNeq, Value: "x"}, true},
		{"present and equal", Condition{Field: "c", Operator: OpNeq, Value: "set"}, false},
	}
	for _, tc := range cases {
		if got := tc.cond.Evaluate(tree); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEvaluateTruthyFalsy(t *testing.T) {
	tree := map[string]any{
		"empty":  "",
		"zero":   0,
		"f":      false,
		"nilv":   nil,
		"s":      "x",
		"n":      3,
		"t":      true,
		"triYes": TriTrue,
		"triNo":  TriFalse,
	}

	truthyFields := []string{"s", "n", "t", "triYes"}
	falsyFields := []string{"empty", "zero", "f", "nilv", "missing", "triNo"}

	for _, f := range truthyFields {
		c := Condition{Field: f, Operator: OpTruthy}
		if !c.Evaluate(tree) {
			t.Errorf("truthy(%s) = false, want true", f)
		}
		c.Operator = OpFalsy
		if c.Evaluate(tree) {
			t.Errorf("falsy(%s) = true, want false", f)
		}
	}
	for _, f := range falsyFields {
		c := Condition{Field: f, Operator: OpTruthy}
		if c.Evaluate(tree) {
			t.Errorf("truthy(%s) = true, want false", f)
		}
		c.Operator = OpFalsy
		if !c.Evaluate(tree) {
			t.Errorf("falsy(%s) = false, want true", f)
		}
	}
}

func TestEvaluateIn(t *testing.T) {
	tree := map[string]any{"tipo": "b"}

	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"member", Condition{Field: "tipo", Operator: OpIn, Value: []string{"a", "b"}}, true},
		{"non-member", Condition{Field: "tipo", Operator: OpIn, Value: []string{"a", "c"}}, false},
		{"any slice", Condition{Field: "tipo", Operator: OpIn, Value: []any{"b"}}, true},
		{"not iterable", Condition{Field: "tipo", Operator: OpIn, Value: "b"}, false},
		{"missing field", Condition{Field: "zz", Operator: OpIn, Value: []string{"a"}}, false},
	}
	for _, tc := range cases {
		if got := tc.cond.Evaluate(tree); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEvaluateNotEmpty(t *testing.T) {
	tree := map[string]any{"a": "", "b": nil, "c": "x", "d": 0}

	cases := []struct {
		field string
		want  bool
	}{
		{"a", false},
		{"b", false},
		{"missing", false},
		{"c", true},
		{"d", true}, // zero is present, just falsy
	}
	for _, tc := range cases {
		c := Condition{Field: tc.field, Operator: OpNotEmpty}
		if got := c.Evaluate(tree); got != tc.want {
			t.Errorf("not_empty(%s) = %v, want %v", tc.field, got, tc.want)
		}
	}
}

func TestEvaluateUnknownOperator(t *testing.T) {
	c := Condition{Field: "x", Operator: "matches", Value: "y"}
	if !c.Evaluate(map[string]any{}) {
		t.Fatal("unknown operator must evaluate true, keeping the field visible")
	}
}

func TestEvaluateRelativeToSubtree(t *testing.T) {
	// Conditions inside an array item see the item, not the document root.
	item := map[string]any{"activa": TriTrue}
	c := Condition{Field: "activa", Operator: OpEq, Value: TriTrue}
	if !c.Evaluate(item) {
		t.Fatal("condition should resolve against the enclosing item subtree")
	}
}
