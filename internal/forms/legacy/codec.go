package legacy

import (
	"fmt"
	"strconv"
	"time"

	"github.com/clinica/clinica/internal/forms/schema"
)

// Legacy date layouts. Formats are chosen per field by each adapter, never
// uniformly: the historical data mixes full timestamps, day-first dates, and
// bare years.
const (
	DateISO  = time.RFC3339
	DateDMY  = "02/01/2006"
	DateYear = "2006"
)

// Tri-state wire tokens.
const (
	triYes = "si"
	triNo  = "no"
)

// EncodeTriState serializes a tri-state answer: true -> "si", false -> "no",
// indeterminate -> "".
func EncodeTriState(t schema.TriState) string {
	switch t {
	case schema.TriTrue:
		return triYes
	case schema.TriFalse:
		return triNo
	default:
		return ""
	}
}

// DecodeTriState parses a tri-state token. "si"/"on" mean yes, "no"/"off"
// mean no; anything else, including absent, is indeterminate.
func DecodeTriState(s string) schema.TriState {
	switch s {
	case "si", "on":
		return schema.TriTrue
	case "no", "off":
		return schema.TriFalse
	default:
		return schema.TriIndeterminate
	}
}

// EncodeDate serializes v (a time.Time or nil) in the given layout; nil and
// non-time values become "".
func EncodeDate(v any, layout string) string {
	t, ok := v.(time.Time)
	if !ok {
		return ""
	}
	return t.Format(layout)
}

// DecodeDate parses s in the given layout; blank or invalid input yields
// nil, never an error.
func DecodeDate(s, layout string) any {
	if s == "" {
		return nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil
	}
	return t
}

// Count reads a repetition counter key; missing, invalid, or negative
// counts read as 0.
func (v Values) Count(key string) int {
	n, err := strconv.Atoi(v.String(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// IndexedKey builds the suffix-indexed key of one field of one repetition.
func IndexedKey(field string, i int) string {
	return field + "_" + strconv.Itoa(i)
}

// encodeScalar turns a tree value into its flat string form for fields with
// no per-kind special casing.
func encodeScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return triYes
		}
		return triNo
	case schema.TriState:
		return EncodeTriState(t)
	case time.Time:
		return t.Format(DateISO)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// FlattenFields encodes every named field of fields from tree into the flat
// namespace out, one key per field. Conditions are ignored: the codec
// assumes full deserialization, and hidden fields keep their slots. Fields
// absent from the tree are written as "" so every expected key exists.
func FlattenFields(fields []schema.Field, tree map[string]any, out Values) {
	for i := range fields {
		f := &fields[i]
		switch f.Kind {
		case schema.KindGroup:
			sub := tree
			if f.Name != "" {
				sub, _ = tree[f.Name].(map[string]any)
			}
			FlattenFields(f.Children, sub, out)

		case schema.KindTabs:
			sub := tree
			if f.Name != "" {
				sub, _ = tree[f.Name].(map[string]any)
			}
			for _, tab := range f.Tabs {
				tabTree, _ := sub[tab.Name].(map[string]any)
				FlattenFields(tab.Fields, tabTree, out)
			}

		case schema.KindTitle, schema.KindStaticText, schema.KindSeparator:
			// No value slot.

		case schema.KindArray:
			// Repeated structure needs the count convention; forms with
			// arrays carry hand-written adapters.

		case schema.KindDate:
			layout := f.DateFormat
			if layout == "" {
				layout = DateISO
			}
			out[f.Name] = EncodeDate(tree[f.Name], layout)

		case schema.KindTriState:
			t, _ := tree[f.Name].(schema.TriState)
			out[f.Name] = EncodeTriState(t)

		case schema.KindReferenceMulti:
			refs, _ := tree[f.Name].([]string)
			cp := make([]string, len(refs))
			copy(cp, refs)
			out[f.Name] = cp

		default:
			out[f.Name] = encodeScalar(tree[f.Name])
		}
	}
}

// ExpandFields decodes the flat namespace values into tree, overlaying the
// kind-appropriate defaults already present there. Decoding is total:
// unknown tokens fall back to defaults.
func ExpandFields(fields []schema.Field, values Values, tree map[string]any) {
	for i := range fields {
		f := &fields[i]
		switch f.Kind {
		case schema.KindGroup:
			sub := tree
			if f.Name != "" {
				sub, _ = tree[f.Name].(map[string]any)
				if sub == nil {
					sub = make(map[string]any)
					tree[f.Name] = sub
				}
			}
			ExpandFields(f.Children, values, sub)

		case schema.KindTabs:
			sub := tree
			if f.Name != "" {
				sub, _ = tree[f.Name].(map[string]any)
				if sub == nil {
					sub = make(map[string]any)
					tree[f.Name] = sub
				}
			}
			for _, tab := range f.Tabs {
				tabTree, _ := sub[tab.Name].(map[string]any)
				if tabTree == nil {
					tabTree = make(map[string]any)
					sub[tab.Name] = tabTree
				}
				ExpandFields(tab.Fields, values, tabTree)
			}

		case schema.KindTitle, schema.KindStaticText, schema.KindSeparator:

		case schema.KindArray:
			// Hand-written adapters own repeated structure.

		case schema.KindDate:
			layout := f.DateFormat
			if layout == "" {
				layout = DateISO
			}
			tree[f.Name] = DecodeDate(values.String(f.Name), layout)

		case schema.KindTriState:
			tree[f.Name] = DecodeTriState(values.String(f.Name))

		case schema.KindReferenceMulti:
			tree[f.Name] = values.Strings(f.Name)

		default:
			tree[f.Name] = values.String(f.Name)
		}
	}
}

// GenericAdapter is the uniform flatten-everything codec used by forms with
// no repeated structure and no per-field special casing.
type GenericAdapter struct {
	Key    string
	Fields []schema.Field
}

func (a *GenericAdapter) FormKey() string { return a.Key }

func (a *GenericAdapter) Decode(rec *Record) map[string]any {
	tree := schema.DefaultItem(a.Fields)
	if rec == nil {
		return tree
	}
	ExpandFields(a.Fields, rec.Values, tree)
	return tree
}

func (a *GenericAdapter) Encode(tree map[string]any) Record {
	out := make(Values)
	FlattenFields(a.Fields, tree, out)
	return Record{Type: a.Key, Values: out}
}
