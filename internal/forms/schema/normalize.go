package schema

import "time"

// NormalizeTree coerces a JSON-decoded value tree back to the native types
// the engine works with. JSON round trips flatten TriState to a plain
// string, time.Time to an RFC3339 string, and []string to []any; a bound
// tree must be normalized before it reaches an adapter, or typed slots
// encode as absent. Unknown keys and already-native values pass through
// untouched; the result is a copy, the input is never mutated.
func NormalizeTree(fields []Field, tree map[string]any) map[string]any {
	if tree == nil {
		return nil
	}
	out := make(map[string]any, len(tree))
	for k, v := range tree {
		out[k] = v
	}

	for i := range fields {
		f := &fields[i]
		switch f.Kind {
		case KindTabs:
			sub := out
			if f.Name != "" {
				m, ok := out[f.Name].(map[string]any)
				if !ok {
					continue
				}
				sub = copyTree(m)
				out[f.Name] = sub
			}
			for _, tab := range f.Tabs {
				if tabTree, ok := sub[tab.Name].(map[string]any); ok {
					sub[tab.Name] = NormalizeTree(tab.Fields, tabTree)
				}
			}

		case KindGroup:
			if f.Name == "" {
				out = NormalizeTree(f.Children, out)
				continue
			}
			if sub, ok := out[f.Name].(map[string]any); ok {
				out[f.Name] = NormalizeTree(f.Children, sub)
			}

		case KindArray:
			items, ok := out[f.Name].([]any)
			if !ok {
				continue
			}
			norm := make([]any, len(items))
			for idx, it := range items {
				if m, ok := it.(map[string]any); ok {
					norm[idx] = NormalizeTree(f.Items, m)
				} else {
					norm[idx] = it
				}
			}
			out[f.Name] = norm

		case KindTriState:
			if v, ok := out[f.Name]; ok {
				out[f.Name] = normalizeTriState(v)
			}

		case KindDate:
			if v, ok := out[f.Name]; ok {
				out[f.Name] = normalizeDate(v, f.DateFormat)
			}

		case KindReferenceMulti:
			if v, ok := out[f.Name]; ok {
				out[f.Name] = normalizeStringList(v)
			}
		}
	}
	return out
}

func copyTree(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Unknown tokens stay as-is rather than guessing an answer.
func normalizeTriState(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch TriState(s) {
	case TriTrue, TriFalse, TriIndeterminate:
		return TriState(s)
	}
	return v
}

// normalizeDate parses RFC3339 first (the JSON wire form of time.Time), then
// the field's own legacy layout. Blank means unanswered.
func normalizeDate(v any, layout string) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if layout != "" {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return v
}

func normalizeStringList(v any) any {
	items, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]string, 0, len(items))
	for _, e := range items {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
