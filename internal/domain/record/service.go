package record

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinica/clinica/internal/forms/legacy"
	"github.com/clinica/clinica/internal/forms/runtime"
	"github.com/clinica/clinica/internal/forms/schema"
)

// Service decodes and encodes a patient's form records through the adapter
// registry. A form key with no registered adapter is a configuration error
// and surfaces as legacy.ErrUnknownForm.
type Service struct {
	records  FormRecordRepository
	registry *legacy.Registry
}

func NewService(records FormRecordRepository, registry *legacy.Registry) *Service {
	return &Service{records: records, registry: registry}
}

// FormKeys lists the form types this deployment can serve.
func (s *Service) FormKeys() []string {
	return s.registry.Keys()
}

// GetForm loads and decodes one form. A patient with no stored record gets
// the form's default tree; the record is not created until the first save.
func (s *Service) GetForm(ctx context.Context, patientID uuid.UUID, formKey string) (*FormView, error) {
	entry, err := s.registry.Lookup(formKey)
	if err != nil {
		return nil, err
	}

	stored, err := s.records.GetByPatientAndType(ctx, patientID, formKey)
	if err != nil {
		return nil, fmt.Errorf("load form %q: %w", formKey, err)
	}

	var rec *legacy.Record
	if stored != nil {
		rec = &legacy.Record{Type: stored.FormType, Values: stored.Values}
	}
	return &FormView{FormType: formKey, Tree: entry.Adapter.Decode(rec)}, nil
}

// SaveForm encodes the value tree through the form's adapter and upserts the
// flat record, one row per (patient, form type).
func (s *Service) SaveForm(ctx context.Context, patientID uuid.UUID, formKey string, tree map[string]any) (*FormRecord, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	entry, err := s.registry.Lookup(formKey)
	if err != nil {
		return nil, err
	}

	// Trees bound from JSON carry strings where the adapters expect
	// TriState, time.Time, and []string.
	tree = schema.NormalizeTree(entry.Schema.Fields, tree)
	encoded := entry.Adapter.Encode(tree)
	rec := &FormRecord{
		PatientID: patientID,
		FormType:  encoded.Type,
		Values:    encoded.Values,
	}
	if err := s.records.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("save form %q: %w", formKey, err)
	}
	return rec, nil
}

// RenderForm decodes the stored record and walks it through the schema
// runtime, returning only the currently visible fields. selectedTabs maps a
// tabs field's path to the active tab name; an unknown selection falls back
// to the first tab.
func (s *Service) RenderForm(ctx context.Context, patientID uuid.UUID, formKey string, selectedTabs map[string]string) ([]runtime.FieldView, error) {
	rt, _, err := s.openRuntime(ctx, patientID, formKey)
	if err != nil {
		return nil, err
	}
	return rt.VisibleFields(selectedTabs), nil
}

// AddFormRow appends a default row to the repeated group at arrayPath and
// persists the re-encoded record.
func (s *Service) AddFormRow(ctx context.Context, patientID uuid.UUID, formKey, arrayPath string) (*FormView, error) {
	return s.editForm(ctx, patientID, formKey, func(rt *runtime.Runtime) error {
		return rt.AddItem(arrayPath)
	})
}

// RemoveFormRow removes the row at index from the repeated group at arrayPath
// and persists the re-encoded record. Row identity is positional.
func (s *Service) RemoveFormRow(ctx context.Context, patientID uuid.UUID, formKey, arrayPath string, index int) (*FormView, error) {
	return s.editForm(ctx, patientID, formKey, func(rt *runtime.Runtime) error {
		return rt.RemoveItem(arrayPath, index)
	})
}

// openRuntime loads and decodes a patient's record into a runtime session.
func (s *Service) openRuntime(ctx context.Context, patientID uuid.UUID, formKey string) (*runtime.Runtime, legacy.Entry, error) {
	entry, err := s.registry.Lookup(formKey)
	if err != nil {
		return nil, legacy.Entry{}, err
	}
	stored, err := s.records.GetByPatientAndType(ctx, patientID, formKey)
	if err != nil {
		return nil, legacy.Entry{}, fmt.Errorf("load form %q: %w", formKey, err)
	}
	var rec *legacy.Record
	if stored != nil {
		rec = &legacy.Record{Type: stored.FormType, Values: stored.Values}
	}
	return runtime.New(entry.Schema, entry.Adapter.Decode(rec)), entry, nil
}

func (s *Service) editForm(ctx context.Context, patientID uuid.UUID, formKey string, edit func(*runtime.Runtime) error) (*FormView, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	rt, entry, err := s.openRuntime(ctx, patientID, formKey)
	if err != nil {
		return nil, err
	}
	if err := edit(rt); err != nil {
		return nil, err
	}

	encoded := entry.Adapter.Encode(rt.Tree())
	rec := &FormRecord{
		PatientID: patientID,
		FormType:  encoded.Type,
		Values:    encoded.Values,
	}
	if err := s.records.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("save form %q: %w", formKey, err)
	}
	return &FormView{FormType: formKey, Tree: rt.Tree()}, nil
}

// ListForms returns the patient's stored records in their flat wire shape.
func (s *Service) ListForms(ctx context.Context, patientID uuid.UUID) ([]*FormRecord, error) {
	return s.records.ListByPatient(ctx, patientID)
}

// DeleteForm removes a patient's stored record; a later GetForm serves the
// default tree again.
func (s *Service) DeleteForm(ctx context.Context, patientID uuid.UUID, formKey string) error {
	if _, err := s.registry.Lookup(formKey); err != nil {
		return err
	}
	return s.records.Delete(ctx, patientID, formKey)
}
