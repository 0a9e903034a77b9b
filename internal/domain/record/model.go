package record

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinica/clinica/internal/forms/legacy"
)

// FormRecord maps to the form_record table: one row per (patient, form type),
// holding the flat legacy values as JSONB. The nested value tree is never
// stored; it exists only in memory between decode and encode.
type FormRecord struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	PatientID uuid.UUID     `db:"patient_id" json:"patient_id"`
	FormType  string        `db:"form_type" json:"form_type"`
	Values    legacy.Values `db:"values" json:"values"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// FormView is the decoded shape served to editors: the nested value tree
// plus the form type that selected the adapter.
type FormView struct {
	FormType string         `json:"form_type"`
	Tree     map[string]any `json:"tree"`
}
