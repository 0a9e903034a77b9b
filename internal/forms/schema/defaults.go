package schema

// DefaultItem builds the default value object for one row of an array field
// (or, given a schema's top-level fields, the default tree of a whole form).
// Every named field is seeded with a kind-appropriate empty value so a newly
// appended row is immediately valid for read access:
//
//	input/textarea/select/referenceSingle -> ""
//	date                                  -> nil
//	triState                              -> TriIndeterminate
//	referenceMulti                        -> []string{}
//	group                                 -> nested default object
//	array                                 -> MinItems default rows
//	tabs                                  -> one default object per tab
func DefaultItem(fields []Field) map[string]any {
	out := make(map[string]any)
	for i := range fields {
		seedField(&fields[i], out)
	}
	return out
}

func seedField(f *Field, out map[string]any) {
	switch f.Kind {
	case KindGroup, KindTabs:
		// May legitimately be unnamed; handled below.
	default:
		if f.Name == "" {
			return
		}
	}

	switch f.Kind {
	case KindInput, KindTextarea, KindSelect, KindReferenceSingle:
		out[f.Name] = ""

	case KindDate:
		out[f.Name] = nil

	case KindTriState:
		out[f.Name] = TriIndeterminate

	case KindReferenceMulti:
		out[f.Name] = []string{}

	case KindGroup:
		if f.Name != "" {
			out[f.Name] = DefaultItem(f.Children)
			return
		}
		// Unnamed groups are purely visual; their children live on the
		// parent level.
		for i := range f.Children {
			seedField(&f.Children[i], out)
		}

	case KindArray:
		items := make([]any, 0, f.MinItems)
		for i := 0; i < f.MinItems; i++ {
			items = append(items, DefaultItem(f.Items))
		}
		out[f.Name] = items

	case KindTabs:
		tabs := make(map[string]any, len(f.Tabs))
		for _, tab := range f.Tabs {
			tabs[tab.Name] = DefaultItem(tab.Fields)
		}
		if f.Name != "" {
			out[f.Name] = tabs
			return
		}
		for k, v := range tabs {
			out[k] = v
		}

	case KindTitle, KindStaticText, KindSeparator:
		// No value slot.

	default:
		// Unknown kinds have no default; consumers switch exhaustively so
		// this only happens on a malformed hand-built schema.
	}
}

// DefaultTree builds the default value tree of the whole schema.
func (s Schema) DefaultTree() map[string]any {
	return DefaultItem(s.Fields)
}
