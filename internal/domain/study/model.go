package study

import (
	"time"

	"github.com/google/uuid"
)

// Study maps to the study table. Payload is the free-form clinical document
// stored as JSONB; the results array of an incoming write never reaches it.
type Study struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	PatientID uuid.UUID      `db:"patient_id" json:"patient_id"`
	Kind      string         `db:"kind" json:"kind"`
	Payload   map[string]any `db:"payload" json:"payload"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// StudyResult maps to the study_result table: one row per (study, result
// type), patched in place on repeated saves.
type StudyResult struct {
	ID         uuid.UUID      `db:"id" json:"id"`
	StudyID    uuid.UUID      `db:"study_id" json:"study_id"`
	ResultType string         `db:"result_type" json:"result_type"`
	Data       map[string]any `db:"data" json:"data"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}
