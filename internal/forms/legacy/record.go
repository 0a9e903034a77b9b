// Package legacy implements the bidirectional codecs between nested form
// value trees and the flat key/value wire format the persistence layer
// stores. A legacy record is a single flat namespace of string (or string
// array) values; repeated groups use a count key plus indexed suffixes
// (antecedente_count, antecedente_0, antecedente_1, ...).
//
// Adapters are the only code allowed to know a form's legacy field-naming
// conventions. Decoding is total: malformed counts, dates, and tri-state
// tokens fall back to documented defaults and never produce an error.
package legacy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/clinica/clinica/internal/forms/schema"
)

// Record is the persisted wire shape of one form instance.
type Record struct {
	Type   string `json:"type"`
	Values Values `json:"values"`
}

// Values is the flat key/value namespace of a legacy record. Entries are
// strings or string arrays; JSON round trips may surface arrays as []any.
type Values map[string]any

// String returns the entry at key as a string, or "" when absent or not a
// string. Blank and absent are equivalent on the wire.
func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// Strings returns the entry at key as a string slice. Scalar strings wrap
// into a one-element slice; blanks and absents yield an empty slice.
func (v Values) Strings(key string) []string {
	switch t := v[key].(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if t == "" {
			return []string{}
		}
		return []string{t}
	default:
		return []string{}
	}
}

// Adapter is the bidirectional codec for one form type. Decode must accept a
// nil record and return a valid default tree; Encode must write a key for
// every schema field, using "" for absent values — legacy consumers expect
// the key to exist.
type Adapter interface {
	FormKey() string
	Decode(rec *Record) map[string]any
	Encode(tree map[string]any) Record
}

// ErrUnknownForm is returned when no schema/adapter pair is registered for a
// form key. This is a configuration error and must surface at the call
// site; the engine cannot render or encode a form it has no adapter for.
var ErrUnknownForm = errors.New("unknown form type")

// Entry pairs a form schema with its legacy adapter.
type Entry struct {
	Schema  schema.Schema
	Adapter Adapter
}

// Registry holds the schema/adapter pairs of a deployment, keyed by form
// type. Registries are explicit values so tests can build their own.
type Registry struct {
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds a schema/adapter pair. The schema's form key must match the
// adapter's, and a key can only be registered once.
func (r *Registry) Register(s schema.Schema, a Adapter) error {
	if s.FormKey != a.FormKey() {
		return fmt.Errorf("schema form key %q does not match adapter %q", s.FormKey, a.FormKey())
	}
	if _, ok := r.entries[s.FormKey]; ok {
		return fmt.Errorf("form %q registered twice", s.FormKey)
	}
	r.entries[s.FormKey] = Entry{Schema: s, Adapter: a}
	return nil
}

// Lookup returns the entry for formKey, or ErrUnknownForm.
func (r *Registry) Lookup(formKey string) (Entry, error) {
	e, ok := r.entries[formKey]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownForm, formKey)
	}
	return e, nil
}

// Keys lists the registered form keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
