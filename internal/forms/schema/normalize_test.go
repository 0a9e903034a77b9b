package schema

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

// jsonTree round-trips a tree through JSON the way an HTTP handler binding
// a request body does.
func jsonTree(t *testing.T, v map[string]any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestNormalizeTreeLeafCoercions(t *testing.T) {
	fields := []Field{
		{Kind: KindTriState, Name: "activa"},
		{Kind: KindDate, Name: "fecha"},
		{Kind: KindDate, Name: "desde", DateFormat: "2006"},
		{Kind: KindReferenceMulti, Name: "riesgos"},
		{Kind: KindInput, Name: "empresa"},
	}
	when := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	in := jsonTree(t, map[string]any{
		"activa":  TriTrue,
		"fecha":   when,
		"desde":   time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC),
		"riesgos": []string{"ruido", "polvo"},
		"empresa": "Acme",
	})

	got := NormalizeTree(fields, in)

	if got["activa"] != TriTrue {
		t.Fatalf("activa = %#v, want TriState", got["activa"])
	}
	if ft, ok := got["fecha"].(time.Time); !ok || !ft.Equal(when) {
		t.Fatalf("fecha = %#v, want %v", got["fecha"], when)
	}
	if ft, ok := got["desde"].(time.Time); !ok || ft.Year() != 2015 {
		t.Fatalf("desde = %#v", got["desde"])
	}
	if !reflect.DeepEqual(got["riesgos"], []string{"ruido", "polvo"}) {
		t.Fatalf("riesgos = %#v", got["riesgos"])
	}
	if got["empresa"] != "Acme" {
		t.Fatalf("empresa = %#v", got["empresa"])
	}
}

func TestNormalizeTreeLegacyDateLayout(t *testing.T) {
	fields := []Field{{Kind: KindDate, Name: "desde", DateFormat: "2006"}}

	got := NormalizeTree(fields, map[string]any{"desde": "2015"})
	if ft, ok := got["desde"].(time.Time); !ok || ft.Year() != 2015 {
		t.Fatalf("bare-year input not parsed: %#v", got["desde"])
	}
}

func TestNormalizeTreeBlankAndUnknownTokens(t *testing.T) {
	fields := []Field{
		{Kind: KindTriState, Name: "activa"},
		{Kind: KindDate, Name: "fecha"},
	}

	got := NormalizeTree(fields, map[string]any{"activa": "quizas", "fecha": ""})
	if got["activa"] != "quizas" {
		t.Fatalf("unknown tri-state token must pass through: %#v", got["activa"])
	}
	if got["fecha"] != nil {
		t.Fatalf("blank date = %#v, want nil", got["fecha"])
	}
}

func TestNormalizeTreeNativeValuesUntouched(t *testing.T) {
	fields := []Field{
		{Kind: KindTriState, Name: "activa"},
		{Kind: KindDate, Name: "fecha"},
		{Kind: KindReferenceMulti, Name: "riesgos"},
	}
	when := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	in := map[string]any{
		"activa":  TriFalse,
		"fecha":   when,
		"riesgos": []string{"ruido"},
	}

	got := NormalizeTree(fields, in)
	if got["activa"] != TriFalse || got["fecha"] != when {
		t.Fatalf("native values changed: %#v", got)
	}
	if !reflect.DeepEqual(got["riesgos"], []string{"ruido"}) {
		t.Fatalf("riesgos = %#v", got["riesgos"])
	}
}

func TestNormalizeTreeWalksArraysAndTabs(t *testing.T) {
	fields := []Field{
		{Kind: KindArray, Name: "items", Items: []Field{
			{Kind: KindTriState, Name: "activa"},
			{Kind: KindReferenceMulti, Name: "riesgos"},
		}},
		{Kind: KindTabs, Tabs: []Tab{
			{Name: "piel", Fields: []Field{
				{Kind: KindTriState, Name: "lesiones"},
			}},
		}},
	}
	in := jsonTree(t, map[string]any{
		"items": []any{
			map[string]any{"activa": TriTrue, "riesgos": []string{"ruido"}},
		},
		"piel": map[string]any{"lesiones": TriFalse},
	})

	got := NormalizeTree(fields, in)

	item := got["items"].([]any)[0].(map[string]any)
	if item["activa"] != TriTrue {
		t.Fatalf("array item tri-state = %#v", item["activa"])
	}
	if !reflect.DeepEqual(item["riesgos"], []string{"ruido"}) {
		t.Fatalf("array item riesgos = %#v", item["riesgos"])
	}
	piel := got["piel"].(map[string]any)
	if piel["lesiones"] != TriFalse {
		t.Fatalf("tab tri-state = %#v", piel["lesiones"])
	}

	// The input tree is never mutated.
	if _, ok := in["items"].([]any)[0].(map[string]any)["activa"].(string); !ok {
		t.Fatal("input tree mutated")
	}
}

func TestNormalizeTreeNil(t *testing.T) {
	if NormalizeTree([]Field{{Kind: KindTriState, Name: "a"}}, nil) != nil {
		t.Fatal("nil tree must stay nil")
	}
}
