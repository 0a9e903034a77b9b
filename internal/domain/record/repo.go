package record

import (
	"context"

	"github.com/google/uuid"
)

// FormRecordRepository persists legacy form records.
type FormRecordRepository interface {
	// GetByPatientAndType returns (nil, nil) when no record exists yet; the
	// service decodes absence into the form's default tree.
	GetByPatientAndType(ctx context.Context, patientID uuid.UUID, formType string) (*FormRecord, error)
	Upsert(ctx context.Context, rec *FormRecord) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*FormRecord, error)
	Delete(ctx context.Context, patientID uuid.UUID, formType string) error
}
