package catalog

import (
	"github.com/clinica/clinica/internal/forms/legacy"
	"github.com/clinica/clinica/internal/forms/schema"
)

const HabitsKey = "habitos"

func habitsFields() []schema.Field {
	return []schema.Field{
		{Kind: schema.KindTitle, Label: "Hábitos"},
		{Kind: schema.KindTriState, Name: "fuma", Label: "¿Fuma?"},
		{Kind: schema.KindInput, Name: "cigarrillos_dia", Label: "Cigarrillos por día", Indent: true,
			Condition: &schema.Condition{Field: "fuma", Operator: schema.OpEq, Value: schema.TriTrue}},
		{Kind: schema.KindTriState, Name: "alcohol", Label: "¿Consume alcohol?"},
		{Kind: schema.KindSelect, Name: "alcohol_frecuencia", Label: "Frecuencia", Indent: true,
			Options: []string{"ocasional", "semanal", "diario"},
			Condition: &schema.Condition{Field: "alcohol", Operator: schema.OpEq, Value: schema.TriTrue}},
		{Kind: schema.KindTriState, Name: "drogas", Label: "¿Consume otras sustancias?"},
		{Kind: schema.KindTextarea, Name: "drogas_detalle", Label: "Detalle", Indent: true,
			Condition: &schema.Condition{Field: "drogas", Operator: schema.OpEq, Value: schema.TriTrue}},
		{Kind: schema.KindSeparator},
		{Kind: schema.KindTriState, Name: "actividad_fisica", Label: "¿Realiza actividad física?"},
		{Kind: schema.KindDate, Name: "ultima_actualizacion", Label: "Última actualización", DateFormat: legacy.DateISO},
	}
}

// HabitsSchema is the lifestyle habits form: flat tri-state questions with
// conditional follow-ups, no repeated rows.
func HabitsSchema() schema.Schema {
	return schema.Schema{FormKey: HabitsKey, Fields: habitsFields()}
}

// HabitsAdapter is the generic flatten codec: every named field maps to the
// legacy key of the same name.
func HabitsAdapter() legacy.Adapter {
	return &legacy.GenericAdapter{Key: HabitsKey, Fields: habitsFields()}
}
