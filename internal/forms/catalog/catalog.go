package catalog

import (
	"github.com/clinica/clinica/internal/forms/legacy"
	"github.com/clinica/clinica/internal/forms/schema"
)

// NewRegistry assembles the production form set. Registration fails only on
// a programming error (duplicate or mismatched keys), so callers treat an
// error here as fatal at startup.
func NewRegistry() (*legacy.Registry, error) {
	r := legacy.NewRegistry()

	pairs := []struct {
		schema  schema.Schema
		adapter legacy.Adapter
	}{
		{PersonalHistorySchema(), PersonalHistoryAdapter()},
		{FamilyHistorySchema(), FamilyHistoryAdapter()},
		{MedicationHistorySchema(), MedicationHistoryAdapter()},
		{OccupationalHistorySchema(), OccupationalHistoryAdapter()},
		{HabitsSchema(), HabitsAdapter()},
		{PhysicalExamSchema(), PhysicalExamAdapter()},
	}
	for _, p := range pairs {
		if err := r.Register(p.schema, p.adapter); err != nil {
			return nil, err
		}
	}
	return r, nil
}
