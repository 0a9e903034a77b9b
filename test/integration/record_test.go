package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/clinica/clinica/internal/domain/record"
	"github.com/clinica/clinica/internal/forms/catalog"
	"github.com/clinica/clinica/internal/forms/schema"
)

func newRecordService(t *testing.T) *record.Service {
	t.Helper()
	registry, err := catalog.NewRegistry()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return record.NewService(record.NewFormRecordRepoPG(globalDB.Pool), registry)
}

func TestFormRecord_SaveAndReload(t *testing.T) {
	ctx := context.Background()
	svc := newRecordService(t)
	patientID := uuid.New()

	// A patient with no stored record gets the schema defaults.
	view, err := svc.GetForm(ctx, patientID, catalog.HabitsKey)
	if err != nil {
		t.Fatalf("get defaults: %v", err)
	}
	if view.Tree["fuma"] != schema.TriIndeterminate {
		t.Fatalf("default fuma = %v", view.Tree["fuma"])
	}

	tree := map[string]any{
		"fuma":            schema.TriTrue,
		"cigarrillos_dia": "12",
	}
	if _, err := svc.SaveForm(ctx, patientID, catalog.HabitsKey, tree); err != nil {
		t.Fatalf("save form: %v", err)
	}

	// The row stores the flat legacy namespace, not the tree.
	var stored string
	err = globalDB.Pool.QueryRow(ctx,
		`SELECT "values"->>'fuma' FROM form_record WHERE patient_id = $1 AND form_type = $2`,
		patientID, catalog.HabitsKey).Scan(&stored)
	if err != nil {
		t.Fatalf("query stored values: %v", err)
	}
	if stored != "si" {
		t.Fatalf("stored fuma = %q, want si", stored)
	}

	view, err = svc.GetForm(ctx, patientID, catalog.HabitsKey)
	if err != nil {
		t.Fatalf("reload form: %v", err)
	}
	if view.Tree["fuma"] != schema.TriTrue {
		t.Fatalf("reloaded fuma = %v", view.Tree["fuma"])
	}
	if view.Tree["cigarrillos_dia"] != "12" {
		t.Fatalf("reloaded cigarrillos_dia = %v", view.Tree["cigarrillos_dia"])
	}
}

func TestFormRecord_SecondSaveUpdatesSameRow(t *testing.T) {
	ctx := context.Background()
	svc := newRecordService(t)
	patientID := uuid.New()

	if _, err := svc.SaveForm(ctx, patientID, catalog.HabitsKey, map[string]any{"fuma": schema.TriTrue}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := svc.SaveForm(ctx, patientID, catalog.HabitsKey, map[string]any{"fuma": schema.TriFalse}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	var count int
	err := globalDB.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM form_record WHERE patient_id = $1 AND form_type = $2`,
		patientID, catalog.HabitsKey).Scan(&count)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("row count = %d, want 1", count)
	}

	view, err := svc.GetForm(ctx, patientID, catalog.HabitsKey)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if view.Tree["fuma"] != schema.TriFalse {
		t.Fatalf("fuma after update = %v", view.Tree["fuma"])
	}
}

func TestFormRecord_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newRecordService(t)
	patientID := uuid.New()

	if _, err := svc.SaveForm(ctx, patientID, catalog.HabitsKey, map[string]any{"fuma": schema.TriTrue}); err != nil {
		t.Fatalf("save habits: %v", err)
	}
	tree := map[string]any{
		"items": []any{
			map[string]any{"issueId": "HTA", "date": nil, "description": "dx"},
		},
	}
	if _, err := svc.SaveForm(ctx, patientID, catalog.PersonalHistoryKey, tree); err != nil {
		t.Fatalf("save personal history: %v", err)
	}

	records, err := svc.ListForms(ctx, patientID)
	if err != nil {
		t.Fatalf("list forms: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	if err := svc.DeleteForm(ctx, patientID, catalog.HabitsKey); err != nil {
		t.Fatalf("delete form: %v", err)
	}
	records, err = svc.ListForms(ctx, patientID)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(records) != 1 || records[0].FormType != catalog.PersonalHistoryKey {
		t.Fatalf("records after delete = %#v", records)
	}
}

func TestFormRecord_UsesRequestScopedConnection(t *testing.T) {
	ctx := context.Background()
	svc := newRecordService(t)
	patientID := uuid.New()

	withConn(t, ctx, func(ctx context.Context) error {
		tree := map[string]any{
			"items": []any{
				map[string]any{"issueId": "DM2", "date": nil, "description": ""},
			},
		}
		if _, err := svc.SaveForm(ctx, patientID, catalog.PersonalHistoryKey, tree); err != nil {
			return err
		}
		view, err := svc.GetForm(ctx, patientID, catalog.PersonalHistoryKey)
		if err != nil {
			return err
		}
		items := view.Tree["items"].([]any)
		if len(items) != 1 {
			t.Fatalf("items = %d, want 1", len(items))
		}
		if items[0].(map[string]any)["issueId"] != "DM2" {
			t.Fatalf("item = %#v", items[0])
		}
		return nil
	})
}
