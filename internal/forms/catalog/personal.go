// Package catalog defines the clinic's production form set: each form's
// schema and its legacy adapter, assembled into the registry the record
// service consults by form type.
//
// The repeated-row forms (personal/family history, medication, occupational)
// hand-code the count-plus-indexed-suffix convention because each one names
// its keys differently; the flat forms (habits, physical exam) reuse the
// generic flatten codec.
package catalog

import (
	"strconv"

	"github.com/clinica/clinica/internal/forms/legacy"
	"github.com/clinica/clinica/internal/forms/schema"
)

const PersonalHistoryKey = "antecedentes/personales"

var personalItemFields = []schema.Field{
	{Kind: schema.KindReferenceSingle, Name: "issueId", Label: "Antecedente"},
	{Kind: schema.KindDate, Name: "date", Label: "Fecha", DateFormat: legacy.DateDMY},
	{Kind: schema.KindTextarea, Name: "description", Label: "Descripción"},
}

// PersonalHistorySchema is the personal medical history form: a single
// repeatable list of prior conditions.
func PersonalHistorySchema() schema.Schema {
	return schema.Schema{
		FormKey: PersonalHistoryKey,
		Fields: []schema.Field{
			{Kind: schema.KindTitle, Label: "Antecedentes personales"},
			{
				Kind:      schema.KindArray,
				Name:      "items",
				MinItems:  1,
				ItemLabel: "Antecedente %d",
				Items:     personalItemFields,
			},
		},
	}
}

type personalHistoryAdapter struct{}

// PersonalHistoryAdapter converts between the personal history value tree
// and its legacy record. Rows live under antecedente_count with the keys
// antecedente_i, fecha_antecedente_i (DD/MM/YYYY), antecedente_descripcion_i.
func PersonalHistoryAdapter() legacy.Adapter {
	return personalHistoryAdapter{}
}

func (personalHistoryAdapter) FormKey() string { return PersonalHistoryKey }

func (personalHistoryAdapter) Decode(rec *legacy.Record) map[string]any {
	if rec == nil {
		return PersonalHistorySchema().DefaultTree()
	}

	n := rec.Values.Count("antecedente_count")
	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, map[string]any{
			"issueId":     rec.Values.String(legacy.IndexedKey("antecedente", i)),
			"date":        legacy.DecodeDate(rec.Values.String(legacy.IndexedKey("fecha_antecedente", i)), legacy.DateDMY),
			"description": rec.Values.String(legacy.IndexedKey("antecedente_descripcion", i)),
		})
	}
	if len(items) == 0 {
		// Zero rows still decode to one editable default row.
		items = append(items, schema.DefaultItem(personalItemFields))
	}

	return map[string]any{"items": items}
}

func (personalHistoryAdapter) Encode(tree map[string]any) legacy.Record {
	items, _ := tree["items"].([]any)

	out := legacy.Values{"antecedente_count": strconv.Itoa(len(items))}
	for i, it := range items {
		item, _ := it.(map[string]any)
		out[legacy.IndexedKey("antecedente", i)] = stringAt(item, "issueId")
		out[legacy.IndexedKey("fecha_antecedente", i)] = legacy.EncodeDate(item["date"], legacy.DateDMY)
		out[legacy.IndexedKey("antecedente_descripcion", i)] = stringAt(item, "description")
	}

	return legacy.Record{Type: PersonalHistoryKey, Values: out}
}

// stringAt reads a string slot of an item, tolerating absent fields: the
// encoder writes "" rather than omitting the key.
func stringAt(item map[string]any, key string) string {
	s, _ := item[key].(string)
	return s
}
