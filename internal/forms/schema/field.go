// Package schema defines the clinical form definition model: a tagged union
// of field kinds composed recursively into tabs, groups, and repeatable
// arrays, plus the declarative visibility conditions evaluated against a
// form's value tree.
//
// Definitions are static configuration: each form type builds its Schema once
// at process start and registers it together with its legacy adapter.
package schema

// Kind discriminates the field union. Every consumer of Field switches
// exhaustively on Kind so that a new kind fails loudly instead of silently
// falling through.
type Kind string

const (
	// Leaf kinds.
	KindInput           Kind = "input"
	KindTextarea        Kind = "textarea"
	KindSelect          Kind = "select"
	KindDate            Kind = "date"
	KindTriState        Kind = "triState"
	KindReferenceSingle Kind = "referenceSingle"
	KindReferenceMulti  Kind = "referenceMulti"

	// Presentation-only kinds; they never carry a name or a value.
	KindTitle      Kind = "title"
	KindStaticText Kind = "staticText"
	KindSeparator  Kind = "separator"

	// Composite kinds.
	KindTabs  Kind = "tabs"
	KindGroup Kind = "group"
	KindArray Kind = "array"
)

// TriState is the three-valued answer used where "not yet answered" must be
// distinguished from "answered no". New tri-state fields start indeterminate.
type TriState string

const (
	TriTrue          TriState = "true"
	TriFalse         TriState = "false"
	TriIndeterminate TriState = "indeterminate"
)

// Field is one node of a form definition. Name is the path segment the field
// occupies under its parent in the value tree; presentation-only kinds leave
// it empty and never participate in values or legacy encoding.
type Field struct {
	Kind      Kind
	Name      string
	Label     string
	Condition *Condition

	// Options lists the choices of a select field.
	Options []string
	// Text is the content of a staticText field.
	Text string
	// DateFormat is the legacy wire layout of a date field (see the legacy
	// package constants). Adapters choose it per field, never uniformly.
	DateFormat string
	// Indent marks a group as visually indented.
	Indent bool

	// Tabs holds the mutually-exclusive sub-trees of a tabs field.
	Tabs []Tab
	// Children holds the sub-tree of a group field.
	Children []Field
	// Items holds the per-row field definitions of an array field.
	Items []Field
	// MinItems is the minimum row count of an array field; decoding a record
	// with fewer rows seeds default rows up to this count.
	MinItems int
	// ItemLabel is the template used to label each array row.
	ItemLabel string
}

// Tab is one named sub-tree of a tabs field. Its Name is a path segment in
// the value tree; which tab is displayed is ephemeral UI state.
type Tab struct {
	Name   string
	Label  string
	Fields []Field
}

// HasValue reports whether the field occupies a slot in the value tree.
func (f *Field) HasValue() bool {
	if f.Name == "" {
		return false
	}
	switch f.Kind {
	case KindTitle, KindStaticText, KindSeparator:
		return false
	}
	return true
}

// Schema is an ordered form definition plus the form key identifying which
// legacy adapter applies to it.
type Schema struct {
	FormKey string
	Fields  []Field
}
