package catalog

import (
	"strconv"

	"github.com/clinica/clinica/internal/forms/legacy"
	"github.com/clinica/clinica/internal/forms/schema"
)

const OccupationalHistoryKey = "antecedentes/laborales"

var occupationalItemFields = []schema.Field{
	{Kind: schema.KindInput, Name: "company", Label: "Empresa"},
	{Kind: schema.KindInput, Name: "role", Label: "Puesto"},
	{Kind: schema.KindDate, Name: "from", Label: "Desde", DateFormat: legacy.DateYear},
	{Kind: schema.KindDate, Name: "to", Label: "Hasta", DateFormat: legacy.DateYear},
	{Kind: schema.KindReferenceMulti, Name: "risks", Label: "Riesgos de exposición"},
}

// OccupationalHistorySchema is the occupational history form: one row per
// employment, with multi-valued exposure risks.
func OccupationalHistorySchema() schema.Schema {
	return schema.Schema{
		FormKey: OccupationalHistoryKey,
		Fields: []schema.Field{
			{Kind: schema.KindTitle, Label: "Antecedentes laborales"},
			{
				Kind:      schema.KindArray,
				Name:      "items",
				MinItems:  1,
				ItemLabel: "Trabajo %d",
				Items:     occupationalItemFields,
			},
		},
	}
}

type occupationalHistoryAdapter struct{}

// OccupationalHistoryAdapter converts between the occupational history value
// tree and its legacy record: trabajo_count rows of empresa_i, puesto_i,
// desde_trabajo_i / hasta_trabajo_i (bare year), and riesgos_i (the one
// string-array slot in the legacy namespace).
func OccupationalHistoryAdapter() legacy.Adapter {
	return occupationalHistoryAdapter{}
}

func (occupationalHistoryAdapter) FormKey() string { return OccupationalHistoryKey }

func (occupationalHistoryAdapter) Decode(rec *legacy.Record) map[string]any {
	if rec == nil {
		return OccupationalHistorySchema().DefaultTree()
	}

	n := rec.Values.Count("trabajo_count")
	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, map[string]any{
			"company": rec.Values.String(legacy.IndexedKey("empresa", i)),
			"role":    rec.Values.String(legacy.IndexedKey("puesto", i)),
			"from":    legacy.DecodeDate(rec.Values.String(legacy.IndexedKey("desde_trabajo", i)), legacy.DateYear),
			"to":      legacy.DecodeDate(rec.Values.String(legacy.IndexedKey("hasta_trabajo", i)), legacy.DateYear),
			"risks":   rec.Values.Strings(legacy.IndexedKey("riesgos", i)),
		})
	}
	if len(items) == 0 {
		items = append(items, schema.DefaultItem(occupationalItemFields))
	}

	return map[string]any{"items": items}
}

func (occupationalHistoryAdapter) Encode(tree map[string]any) legacy.Record {
	items, _ := tree["items"].([]any)

	out := legacy.Values{"trabajo_count": strconv.Itoa(len(items))}
	for i, it := range items {
		item, _ := it.(map[string]any)
		risks, _ := item["risks"].([]string)
		cp := make([]string, len(risks))
		copy(cp, risks)

		out[legacy.IndexedKey("empresa", i)] = stringAt(item, "company")
		out[legacy.IndexedKey("puesto", i)] = stringAt(item, "role")
		out[legacy.IndexedKey("desde_trabajo", i)] = legacy.EncodeDate(item["from"], legacy.DateYear)
		out[legacy.IndexedKey("hasta_trabajo", i)] = legacy.EncodeDate(item["to"], legacy.DateYear)
		out[legacy.IndexedKey("riesgos", i)] = cp
	}

	return legacy.Record{Type: OccupationalHistoryKey, Values: out}
}
