// Package runtime walks a form schema against a mutable value tree,
// producing views of the currently visible fields and applying writes.
//
// The runtime itself is synchronous and single-threaded: every write
// replaces the tree (assignments are copy-on-write) and immediately fires
// the change callback with the whole current tree, never a diff. Encoding
// on every change is the designed contract — legacy adapters may need full
// related-field state to re-encode a single slot.
package runtime

import (
	"strconv"
	"strings"

	"github.com/clinica/clinica/internal/forms/schema"
	"github.com/clinica/clinica/internal/forms/value"
)

// FieldView is one visible field: its absolute path in the value tree (empty
// for presentation-only fields), its definition, and its current value.
type FieldView struct {
	Path  string
	Field *schema.Field
	Value any
}

// Runtime binds a schema to a value tree for one editing session.
type Runtime struct {
	schema   schema.Schema
	tree     map[string]any
	onChange func(map[string]any)
}

// New creates a runtime over tree. A nil tree starts from the schema's
// default tree.
func New(s schema.Schema, tree map[string]any) *Runtime {
	if tree == nil {
		tree = s.DefaultTree()
	}
	return &Runtime{schema: s, tree: tree}
}

// OnChange registers the synchronous callback fired after every write. Any
// debouncing or coalescing is the caller's concern.
func (r *Runtime) OnChange(fn func(map[string]any)) {
	r.onChange = fn
}

// Tree returns the current value tree.
func (r *Runtime) Tree() map[string]any {
	return r.tree
}

// Value resolves path in the current tree.
func (r *Runtime) Value(path string) any {
	return value.Resolve(r.tree, path)
}

// SetValue writes v at path and fires the change callback. A path whose
// first segment is an array index cannot root a value tree; it reports a
// PathError instead of panicking.
func (r *Runtime) SetValue(path string, v any) error {
	t, ok := value.Assign(r.tree, path, v).(map[string]any)
	if !ok {
		return &PathError{Path: path}
	}
	r.tree = t
	r.notify()
	return nil
}

// VisibleFields walks the schema and returns a view per visible field.
// Conditions are evaluated against each field's nearest enclosing subtree,
// so array-item conditions see sibling fields of the same item. selectedTabs
// maps a tabs field's path to the active tab name; tabs render exactly one
// sub-tree, defaulting to the first. Selection is UI state and never enters
// the value tree.
func (r *Runtime) VisibleFields(selectedTabs map[string]string) []FieldView {
	var views []FieldView
	r.walk(r.schema.Fields, "", selectedTabs, &views)
	return views
}

func (r *Runtime) walk(fields []schema.Field, base string, selectedTabs map[string]string, views *[]FieldView) {
	subtree := value.Resolve(r.tree, base)

	for i := range fields {
		f := &fields[i]
		if f.Condition != nil && !f.Condition.Evaluate(subtree) {
			continue
		}

		switch f.Kind {
		case schema.KindTabs:
			tabsPath := joinPath(base, f.Name)
			tab := r.activeTab(f, tabsPath, selectedTabs)
			if tab == nil {
				continue
			}
			*views = append(*views, FieldView{Field: f})
			r.walk(tab.Fields, joinPath(tabsPath, tab.Name), selectedTabs, views)

		case schema.KindGroup:
			*views = append(*views, FieldView{Field: f})
			r.walk(f.Children, joinPath(base, f.Name), selectedTabs, views)

		case schema.KindArray:
			arrPath := joinPath(base, f.Name)
			*views = append(*views, FieldView{Path: arrPath, Field: f, Value: value.Resolve(r.tree, arrPath)})
			items, _ := value.Resolve(r.tree, arrPath).([]any)
			for idx := range items {
				r.walk(f.Items, arrPath+"."+strconv.Itoa(idx), selectedTabs, views)
			}

		default:
			view := FieldView{Field: f}
			if f.HasValue() {
				view.Path = joinPath(base, f.Name)
				view.Value = value.Resolve(r.tree, view.Path)
			}
			*views = append(*views, view)
		}
	}
}

func (r *Runtime) activeTab(f *schema.Field, tabsPath string, selectedTabs map[string]string) *schema.Tab {
	if len(f.Tabs) == 0 {
		return nil
	}
	if name, ok := selectedTabs[tabsPath]; ok {
		for i := range f.Tabs {
			if f.Tabs[i].Name == name {
				return &f.Tabs[i]
			}
		}
	}
	return &f.Tabs[0]
}

// AddItem appends a default row to the array at arrayPath and fires the
// change callback. The row is seeded via schema.DefaultItem from the array's
// item definitions.
func (r *Runtime) AddItem(arrayPath string) error {
	f := r.FieldAt(arrayPath)
	if f == nil || f.Kind != schema.KindArray {
		return &PathError{Path: arrayPath}
	}
	t, ok := value.Append(r.tree, arrayPath, schema.DefaultItem(f.Items)).(map[string]any)
	if !ok {
		return &PathError{Path: arrayPath}
	}
	r.tree = t
	r.notify()
	return nil
}

// RemoveItem removes the row at index from the array at arrayPath, shifting
// later rows down, and fires the change callback. Row identity is positional
// within a session; it is not stable across removals.
func (r *Runtime) RemoveItem(arrayPath string, index int) error {
	f := r.FieldAt(arrayPath)
	if f == nil || f.Kind != schema.KindArray {
		return &PathError{Path: arrayPath}
	}
	t, ok := value.RemoveAt(r.tree, arrayPath, index).(map[string]any)
	if !ok {
		return &PathError{Path: arrayPath}
	}
	r.tree = t
	r.notify()
	return nil
}

// FieldAt locates the field definition addressed by path, skipping array
// index segments. Returns nil when the path names no field.
func (r *Runtime) FieldAt(path string) *schema.Field {
	if path == "" {
		return nil
	}
	return findField(r.schema.Fields, splitPath(path))
}

func findField(fields []schema.Field, segs []string) *schema.Field {
	if len(segs) == 0 {
		return nil
	}
	for i := range fields {
		f := &fields[i]
		switch f.Kind {
		case schema.KindGroup:
			if f.Name == "" {
				if found := findField(f.Children, segs); found != nil {
					return found
				}
				continue
			}
			if f.Name != segs[0] {
				continue
			}
			if len(segs) == 1 {
				return f
			}
			return findField(f.Children, segs[1:])

		case schema.KindTabs:
			rest := segs
			if f.Name != "" {
				if f.Name != segs[0] {
					continue
				}
				rest = segs[1:]
			}
			if len(rest) == 0 {
				return f
			}
			for t := range f.Tabs {
				if f.Tabs[t].Name != rest[0] {
					continue
				}
				if len(rest) == 1 {
					return f
				}
				if found := findField(f.Tabs[t].Fields, rest[1:]); found != nil {
					return found
				}
			}

		case schema.KindArray:
			if f.Name != segs[0] {
				continue
			}
			if len(segs) == 1 {
				return f
			}
			rest := segs[1:]
			// Skip the row index segment when present.
			if _, err := strconv.Atoi(rest[0]); err == nil {
				rest = rest[1:]
			}
			if len(rest) == 0 {
				return f
			}
			return findField(f.Items, rest)

		default:
			if f.Name == segs[0] && len(segs) == 1 {
				return f
			}
		}
	}
	return nil
}

func (r *Runtime) notify() {
	if r.onChange != nil {
		r.onChange(r.tree)
	}
}

func joinPath(base, name string) string {
	switch {
	case name == "":
		return base
	case base == "":
		return name
	default:
		return base + "." + name
	}
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

// PathError reports a runtime operation against a path it cannot address:
// no array field lives there, or the path's root is an index rather than a
// field name.
type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return "cannot address path " + e.Path
}
