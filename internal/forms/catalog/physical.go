package catalog

import (
	"github.com/clinica/clinica/internal/forms/legacy"
	"github.com/clinica/clinica/internal/forms/schema"
)

const PhysicalExamKey = "examen/fisico"

func physicalFields() []schema.Field {
	return []schema.Field{
		{Kind: schema.KindTitle, Label: "Examen físico"},
		{Kind: schema.KindTabs, Tabs: []schema.Tab{
			{Name: "general", Label: "General", Fields: []schema.Field{
				{Kind: schema.KindInput, Name: "peso", Label: "Peso (kg)"},
				{Kind: schema.KindInput, Name: "talla", Label: "Talla (cm)"},
				{Kind: schema.KindInput, Name: "tension_arterial", Label: "Tensión arterial"},
				{Kind: schema.KindInput, Name: "frecuencia_cardiaca", Label: "Frecuencia cardíaca"},
				{Kind: schema.KindDate, Name: "fecha_examen", Label: "Fecha del examen", DateFormat: legacy.DateISO},
			}},
			{Name: "piel", Label: "Piel y faneras", Fields: []schema.Field{
				{Kind: schema.KindTriState, Name: "lesiones_piel", Label: "¿Lesiones en piel?"},
				{Kind: schema.KindTextarea, Name: "lesiones_detalle", Label: "Detalle", Indent: true,
					Condition: &schema.Condition{Field: "lesiones_piel", Operator: schema.OpEq, Value: schema.TriTrue}},
			}},
			{Name: "cardio", Label: "Cardiovascular", Fields: []schema.Field{
				{Kind: schema.KindStaticText, Text: "Auscultación en reposo."},
				{Kind: schema.KindTriState, Name: "soplos", Label: "¿Soplos?"},
				{Kind: schema.KindTextarea, Name: "cardio_observaciones", Label: "Observaciones"},
			}},
		}},
	}
}

// PhysicalExamSchema is the physical exam form: a tabbed flat form whose tab
// selection is ephemeral UI state, never part of the stored values.
func PhysicalExamSchema() schema.Schema {
	return schema.Schema{FormKey: PhysicalExamKey, Fields: physicalFields()}
}

// PhysicalExamAdapter flattens every tab's fields into the single legacy
// namespace; tab names never appear in the record.
func PhysicalExamAdapter() legacy.Adapter {
	return &legacy.GenericAdapter{Key: PhysicalExamKey, Fields: physicalFields()}
}
