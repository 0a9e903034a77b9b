package catalog

import (
	"strconv"

	"github.com/clinica/clinica/internal/forms/legacy"
	"github.com/clinica/clinica/internal/forms/schema"
)

const MedicationHistoryKey = "antecedentes/medicacion"

var medicationItemFields = []schema.Field{
	{Kind: schema.KindReferenceSingle, Name: "drugId", Label: "Medicamento"},
	{Kind: schema.KindInput, Name: "dose", Label: "Dosis"},
	{Kind: schema.KindDate, Name: "from", Label: "Desde", DateFormat: legacy.DateDMY},
	{Kind: schema.KindTriState, Name: "active", Label: "Medicación activa"},
	// The end date only applies once the medication was discontinued.
	{Kind: schema.KindDate, Name: "to", Label: "Hasta", DateFormat: legacy.DateDMY,
		Condition: &schema.Condition{Field: "active", Operator: schema.OpEq, Value: schema.TriFalse}},
}

// MedicationHistorySchema is the medication history form: one row per drug,
// with the discontinuation date conditional on the row's own active flag.
func MedicationHistorySchema() schema.Schema {
	return schema.Schema{
		FormKey: MedicationHistoryKey,
		Fields: []schema.Field{
			{Kind: schema.KindTitle, Label: "Medicación habitual"},
			{
				Kind:      schema.KindArray,
				Name:      "items",
				MinItems:  1,
				ItemLabel: "Medicamento %d",
				Items:     medicationItemFields,
			},
		},
	}
}

type medicationHistoryAdapter struct{}

// MedicationHistoryAdapter converts between the medication history value
// tree and its legacy record: medicamento_count rows of medicamento_i,
// dosis_i, desde_medicamento_i, hasta_medicamento_i (DD/MM/YYYY), and
// medicacion_activa_i (si/no/blank).
func MedicationHistoryAdapter() legacy.Adapter {
	return medicationHistoryAdapter{}
}

func (medicationHistoryAdapter) FormKey() string { return MedicationHistoryKey }

func (medicationHistoryAdapter) Decode(rec *legacy.Record) map[string]any {
	if rec == nil {
		return MedicationHistorySchema().DefaultTree()
	}

	n := rec.Values.Count("medicamento_count")
	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, map[string]any{
			"drugId": rec.Values.String(legacy.IndexedKey("medicamento", i)),
			"dose":   rec.Values.String(legacy.IndexedKey("dosis", i)),
			"from":   legacy.DecodeDate(rec.Values.String(legacy.IndexedKey("desde_medicamento", i)), legacy.DateDMY),
			"to":     legacy.DecodeDate(rec.Values.String(legacy.IndexedKey("hasta_medicamento", i)), legacy.DateDMY),
			"active": legacy.DecodeTriState(rec.Values.String(legacy.IndexedKey("medicacion_activa", i))),
		})
	}
	if len(items) == 0 {
		items = append(items, schema.DefaultItem(medicationItemFields))
	}

	return map[string]any{"items": items}
}

func (medicationHistoryAdapter) Encode(tree map[string]any) legacy.Record {
	items, _ := tree["items"].([]any)

	out := legacy.Values{"medicamento_count": strconv.Itoa(len(items))}
	for i, it := range items {
		item, _ := it.(map[string]any)
		active, _ := item["active"].(schema.TriState)
		out[legacy.IndexedKey("medicamento", i)] = stringAt(item, "drugId")
		out[legacy.IndexedKey("dosis", i)] = stringAt(item, "dose")
		out[legacy.IndexedKey("desde_medicamento", i)] = legacy.EncodeDate(item["from"], legacy.DateDMY)
		out[legacy.IndexedKey("hasta_medicamento", i)] = legacy.EncodeDate(item["to"], legacy.DateDMY)
		out[legacy.IndexedKey("medicacion_activa", i)] = legacy.EncodeTriState(active)
	}

	return legacy.Record{Type: MedicationHistoryKey, Values: out}
}
