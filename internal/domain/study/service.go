package study

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service orchestrates study writes around the two-phase results pipeline:
// extract before the study row is persisted, upsert after. Per-entry upsert
// failures are logged and skipped, never rolled back across entries.
type Service struct {
	studies StudyRepository
	results ResultRepository
	logger  zerolog.Logger
}

func NewService(studies StudyRepository, results ResultRepository, logger zerolog.Logger) *Service {
	return &Service{studies: studies, results: results, logger: logger}
}

// CreateStudy persists a new study. The results array, if present, is
// stripped from the stored payload and reconciled into study_result rows.
func (s *Service) CreateStudy(ctx context.Context, patientID uuid.UUID, kind string, payload map[string]any) (*Study, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if kind == "" {
		return nil, fmt.Errorf("kind is required")
	}

	clean, entries, _ := ExtractResults(payload)
	st := &Study{PatientID: patientID, Kind: kind, Payload: clean}
	if err := s.studies.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("create study: %w", err)
	}

	s.upsertResults(ctx, st.ID, entries)
	return st, nil
}

// PatchStudy replaces a study's payload. A payload without a results field
// leaves the existing result rows untouched.
func (s *Service) PatchStudy(ctx context.Context, id uuid.UUID, payload map[string]any) (*Study, error) {
	st, err := s.studies.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load study: %w", err)
	}

	clean, entries, present := ExtractResults(payload)
	if err := s.studies.PatchPayload(ctx, st.ID, clean); err != nil {
		return nil, fmt.Errorf("patch study: %w", err)
	}
	st.Payload = clean

	if present {
		s.upsertResults(ctx, st.ID, entries)
	}
	return st, nil
}

// upsertResults reconciles extracted entries into one row per (study, type).
// Entries are processed independently; one failure does not stop the rest.
func (s *Service) upsertResults(ctx context.Context, studyID uuid.UUID, entries []ResultEntry) {
	for _, e := range entries {
		existing, err := s.results.FindByStudyAndType(ctx, studyID, e.Type)
		if err != nil {
			s.logger.Error().Err(err).
				Str("study_id", studyID.String()).
				Str("result_type", e.Type).
				Msg("result lookup failed")
			continue
		}
		if existing != nil {
			err = s.results.PatchData(ctx, existing.ID, e.Data)
		} else {
			err = s.results.Create(ctx, &StudyResult{StudyID: studyID, ResultType: e.Type, Data: e.Data})
		}
		if err != nil {
			s.logger.Error().Err(err).
				Str("study_id", studyID.String()).
				Str("result_type", e.Type).
				Msg("result upsert failed")
		}
	}
}

func (s *Service) GetStudy(ctx context.Context, id uuid.UUID) (*Study, error) {
	return s.studies.GetByID(ctx, id)
}

func (s *Service) ListStudiesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Study, int, error) {
	return s.studies.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListResults(ctx context.Context, studyID uuid.UUID) ([]*StudyResult, error) {
	return s.results.ListByStudy(ctx, studyID)
}

func (s *Service) DeleteStudy(ctx context.Context, id uuid.UUID) error {
	return s.studies.Delete(ctx, id)
}
