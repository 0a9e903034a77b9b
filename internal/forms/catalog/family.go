package catalog

import (
	"strconv"

	"github.com/clinica/clinica/internal/forms/legacy"
	"github.com/clinica/clinica/internal/forms/schema"
)

const FamilyHistoryKey = "antecedentes/familiares"

var familyItemFields = []schema.Field{
	{Kind: schema.KindSelect, Name: "relative", Label: "Familiar",
		Options: []string{"madre", "padre", "hermano", "hermana", "abuelo", "abuela", "otro"}},
	{Kind: schema.KindReferenceSingle, Name: "issueId", Label: "Antecedente"},
	{Kind: schema.KindDate, Name: "year", Label: "Año", DateFormat: legacy.DateYear},
}

// FamilyHistorySchema is the family medical history form: one row per
// relative/condition pair, dated only by year.
func FamilyHistorySchema() schema.Schema {
	return schema.Schema{
		FormKey: FamilyHistoryKey,
		Fields: []schema.Field{
			{Kind: schema.KindTitle, Label: "Antecedentes familiares"},
			{
				Kind:      schema.KindArray,
				Name:      "items",
				MinItems:  1,
				ItemLabel: "Familiar %d",
				Items:     familyItemFields,
			},
		},
	}
}

type familyHistoryAdapter struct{}

// FamilyHistoryAdapter converts between the family history value tree and
// its legacy record: familiar_count rows of familiar_i,
// antecedente_familiar_i, anio_antecedente_familiar_i (bare year).
func FamilyHistoryAdapter() legacy.Adapter {
	return familyHistoryAdapter{}
}

func (familyHistoryAdapter) FormKey() string { return FamilyHistoryKey }

func (familyHistoryAdapter) Decode(rec *legacy.Record) map[string]any {
	if rec == nil {
		return FamilyHistorySchema().DefaultTree()
	}

	n := rec.Values.Count("familiar_count")
	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, map[string]any{
			"relative": rec.Values.String(legacy.IndexedKey("familiar", i)),
			"issueId":  rec.Values.String(legacy.IndexedKey("antecedente_familiar", i)),
			"year":     legacy.DecodeDate(rec.Values.String(legacy.IndexedKey("anio_antecedente_familiar", i)), legacy.DateYear),
		})
	}
	if len(items) == 0 {
		items = append(items, schema.DefaultItem(familyItemFields))
	}

	return map[string]any{"items": items}
}

func (familyHistoryAdapter) Encode(tree map[string]any) legacy.Record {
	items, _ := tree["items"].([]any)

	out := legacy.Values{"familiar_count": strconv.Itoa(len(items))}
	for i, it := range items {
		item, _ := it.(map[string]any)
		out[legacy.IndexedKey("familiar", i)] = stringAt(item, "relative")
		out[legacy.IndexedKey("antecedente_familiar", i)] = stringAt(item, "issueId")
		out[legacy.IndexedKey("anio_antecedente_familiar", i)] = legacy.EncodeDate(item["year"], legacy.DateYear)
	}

	return legacy.Record{Type: FamilyHistoryKey, Values: out}
}
