package study

import (
	"context"

	"github.com/google/uuid"
)

// StudyRepository persists study rows. The payload stored here never
// contains the results field.
type StudyRepository interface {
	Create(ctx context.Context, s *Study) error
	GetByID(ctx context.Context, id uuid.UUID) (*Study, error)
	PatchPayload(ctx context.Context, id uuid.UUID, payload map[string]any) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Study, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ResultRepository persists normalized result rows, one per (study, type).
type ResultRepository interface {
	// FindByStudyAndType returns (nil, nil) when no row exists for the pair.
	FindByStudyAndType(ctx context.Context, studyID uuid.UUID, resultType string) (*StudyResult, error)
	Create(ctx context.Context, r *StudyResult) error
	PatchData(ctx context.Context, id uuid.UUID, data map[string]any) error
	ListByStudy(ctx context.Context, studyID uuid.UUID) ([]*StudyResult, error)
}
