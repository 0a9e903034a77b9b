package catalog

import (
	"testing"
	"time"

	"github.com/clinica/clinica/internal/forms/legacy"
	"github.com/clinica/clinica/internal/forms/schema"
)

func TestNewRegistryCoversAllForms(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"antecedentes/familiares",
		"antecedentes/laborales",
		"antecedentes/medicacion",
		"antecedentes/personales",
		"examen/fisico",
		"habitos",
	}
	got := r.Keys()
	if len(got) != len(want) {
		t.Fatalf("registered forms = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("registered forms = %v, want %v", got, want)
		}
	}
}

// Every adapter must decode a missing record into a complete default tree.
func TestDecodeNilIsTotal(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range r.Keys() {
		entry, err := r.Lookup(key)
		if err != nil {
			t.Fatal(err)
		}
		tree := entry.Adapter.Decode(nil)
		if tree == nil {
			t.Errorf("%s: Decode(nil) returned nil tree", key)
			continue
		}
		// Re-encoding the default tree must also succeed and carry the key.
		rec := entry.Adapter.Encode(tree)
		if rec.Type != key {
			t.Errorf("%s: Encode wrote type %q", key, rec.Type)
		}
	}
}

func TestPersonalHistoryDecode(t *testing.T) {
	rec := &legacy.Record{
		Type: PersonalHistoryKey,
		Values: legacy.Values{
			"antecedente_count":         "2",
			"antecedente_0":             "HTA",
			"fecha_antecedente_0":       "01/02/2020",
			"antecedente_descripcion_0": "dx",
			"antecedente_1":             "DBT",
			"fecha_antecedente_1":       "",
			"antecedente_descripcion_1": "",
		},
	}

	tree := PersonalHistoryAdapter().Decode(rec)
	items, _ := tree["items"].([]any)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}

	first := items[0].(map[string]any)
	if first["issueId"] != "HTA" {
		t.Fatalf("issueId = %v", first["issueId"])
	}
	d, ok := first["date"].(time.Time)
	if !ok || d.Year() != 2020 || d.Month() != time.February || d.Day() != 1 {
		t.Fatalf("date = %v", first["date"])
	}

	second := items[1].(map[string]any)
	if second["issueId"] != "DBT" || second["date"] != nil || second["description"] != "" {
		t.Fatalf("second row = %#v", second)
	}

	// Re-encoding reproduces the original keys exactly.
	out := PersonalHistoryAdapter().Encode(tree)
	for k, want := range rec.Values {
		if out.Values.String(k) != want.(string) {
			t.Errorf("round trip %s: %q != %q", k, out.Values.String(k), want)
		}
	}
}

func TestPersonalHistoryZeroRowsSeedsDefault(t *testing.T) {
	rec := &legacy.Record{Type: PersonalHistoryKey, Values: legacy.Values{"antecedente_count": "0"}}

	tree := PersonalHistoryAdapter().Decode(rec)
	items, _ := tree["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %d, want one default row", len(items))
	}
	row := items[0].(map[string]any)
	if row["issueId"] != "" || row["date"] != nil || row["description"] != "" {
		t.Fatalf("default row = %#v", row)
	}
}

func TestFamilyHistoryRoundTrip(t *testing.T) {
	rec := &legacy.Record{
		Type: FamilyHistoryKey,
		Values: legacy.Values{
			"familiar_count":              "1",
			"familiar_0":                  "madre",
			"antecedente_familiar_0":      "DBT",
			"anio_antecedente_familiar_0": "1998",
		},
	}

	tree := FamilyHistoryAdapter().Decode(rec)
	items := tree["items"].([]any)
	row := items[0].(map[string]any)
	if row["relative"] != "madre" || row["issueId"] != "DBT" {
		t.Fatalf("row = %#v", row)
	}
	if y, ok := row["year"].(time.Time); !ok || y.Year() != 1998 {
		t.Fatalf("year = %v", row["year"])
	}

	out := FamilyHistoryAdapter().Encode(tree)
	for k, want := range rec.Values {
		if out.Values.String(k) != want.(string) {
			t.Errorf("round trip %s: %q != %q", k, out.Values.String(k), want)
		}
	}
}

func TestMedicationHistoryRoundTrip(t *testing.T) {
	rec := &legacy.Record{
		Type: MedicationHistoryKey,
		Values: legacy.Values{
			"medicamento_count":   "2",
			"medicamento_0":       "enalapril",
			"dosis_0":             "10mg",
			"desde_medicamento_0": "15/03/2019",
			"hasta_medicamento_0": "",
			"medicacion_activa_0": "si",
			"medicamento_1":       "ibuprofeno",
			"dosis_1":             "400mg",
			"desde_medicamento_1": "01/01/2021",
			"hasta_medicamento_1": "10/01/2021",
			"medicacion_activa_1": "no",
		},
	}

	tree := MedicationHistoryAdapter().Decode(rec)
	items := tree["items"].([]any)
	first := items[0].(map[string]any)
	if first["active"] != schema.TriTrue || first["to"] != nil {
		t.Fatalf("first row = %#v", first)
	}
	second := items[1].(map[string]any)
	if second["active"] != schema.TriFalse {
		t.Fatalf("second row active = %v", second["active"])
	}
	if d, ok := second["to"].(time.Time); !ok || d.Day() != 10 {
		t.Fatalf("second row to = %v", second["to"])
	}

	out := MedicationHistoryAdapter().Encode(tree)
	for k, want := range rec.Values {
		if out.Values.String(k) != want.(string) {
			t.Errorf("round trip %s: %q != %q", k, out.Values.String(k), want)
		}
	}
}

func TestOccupationalHistoryMultiValuedRisks(t *testing.T) {
	rec := &legacy.Record{
		Type: OccupationalHistoryKey,
		Values: legacy.Values{
			"trabajo_count":   "1",
			"empresa_0":       "Acme",
			"puesto_0":        "Operario",
			"desde_trabajo_0": "2010",
			"hasta_trabajo_0": "2015",
			"riesgos_0":       []string{"ruido", "polvo"},
		},
	}

	tree := OccupationalHistoryAdapter().Decode(rec)
	row := tree["items"].([]any)[0].(map[string]any)
	risks, _ := row["risks"].([]string)
	if len(risks) != 2 || risks[0] != "ruido" || risks[1] != "polvo" {
		t.Fatalf("risks = %v", risks)
	}
	if from, ok := row["from"].(time.Time); !ok || from.Year() != 2010 {
		t.Fatalf("from = %v", row["from"])
	}

	out := OccupationalHistoryAdapter().Encode(tree)
	if got := out.Values.Strings("riesgos_0"); len(got) != 2 || got[1] != "polvo" {
		t.Fatalf("encoded risks = %v", got)
	}
	if out.Values.String("desde_trabajo_0") != "2010" {
		t.Fatalf("encoded from = %q", out.Values.String("desde_trabajo_0"))
	}
}

func TestHabitsDecodeOverlaysDefaults(t *testing.T) {
	rec := &legacy.Record{
		Type: HabitsKey,
		Values: legacy.Values{
			"fuma":            "si",
			"cigarrillos_dia": "10",
		},
	}

	tree := HabitsAdapter().Decode(rec)
	if tree["fuma"] != schema.TriTrue {
		t.Fatalf("fuma = %v", tree["fuma"])
	}
	if tree["cigarrillos_dia"] != "10" {
		t.Fatalf("cigarrillos_dia = %v", tree["cigarrillos_dia"])
	}
	// Keys absent from the record still decode to their kind defaults.
	if tree["alcohol"] != schema.TriIndeterminate {
		t.Fatalf("alcohol = %v", tree["alcohol"])
	}
	if tree["ultima_actualizacion"] != nil {
		t.Fatalf("ultima_actualizacion = %v", tree["ultima_actualizacion"])
	}
}

func TestPhysicalExamFlattensTabs(t *testing.T) {
	rec := &legacy.Record{
		Type: PhysicalExamKey,
		Values: legacy.Values{
			"peso":          "80",
			"talla":         "175",
			"lesiones_piel": "no",
			"fecha_examen":  "2022-05-10T09:00:00Z",
		},
	}

	tree := PhysicalExamAdapter().Decode(rec)
	general, _ := tree["general"].(map[string]any)
	if general == nil || general["peso"] != "80" || general["talla"] != "175" {
		t.Fatalf("general tab = %#v", tree["general"])
	}
	if _, ok := general["fecha_examen"].(time.Time); !ok {
		t.Fatalf("fecha_examen = %v", general["fecha_examen"])
	}
	piel, _ := tree["piel"].(map[string]any)
	if piel == nil || piel["lesiones_piel"] != schema.TriFalse {
		t.Fatalf("piel tab = %#v", tree["piel"])
	}

	// Flattening strips the tab structure again: keys land in one namespace.
	out := PhysicalExamAdapter().Encode(tree)
	if out.Values.String("peso") != "80" || out.Values.String("lesiones_piel") != "no" {
		t.Fatalf("encoded = %#v", out.Values)
	}
	if _, ok := out.Values["general"]; ok {
		t.Fatal("tab name leaked into the legacy namespace")
	}
}
