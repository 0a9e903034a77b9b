package legacy

import (
	"testing"
	"time"

	"github.com/clinica/clinica/internal/forms/schema"
)

func TestTriStateRoundTrip(t *testing.T) {
	cases := []struct {
		wire string
		want schema.TriState
	}{
		{"si", schema.TriTrue},
		{"on", schema.TriTrue},
		{"no", schema.TriFalse},
		{"off", schema.TriFalse},
		{"", schema.TriIndeterminate},
		{"garbage", schema.TriIndeterminate},
	}
	for _, tc := range cases {
		if got := DecodeTriState(tc.wire); got != tc.want {
			t.Errorf("DecodeTriState(%q) = %v, want %v", tc.wire, got, tc.want)
		}
	}

	if EncodeTriState(schema.TriTrue) != "si" ||
		EncodeTriState(schema.TriFalse) != "no" ||
		EncodeTriState(schema.TriIndeterminate) != "" {
		t.Fatal("tri-state encoding does not match the si/no/blank convention")
	}
}

func TestDecodeDate(t *testing.T) {
	if got := DecodeDate("01/02/2020", DateDMY); got == nil {
		t.Fatal("valid DD/MM/YYYY date decoded to nil")
	} else if d := got.(time.Time); d.Year() != 2020 || d.Month() != time.February || d.Day() != 1 {
		t.Fatalf("day-first parsing wrong: %v", d)
	}

	if got := DecodeDate("1987", DateYear); got == nil {
		t.Fatal("bare year decoded to nil")
	} else if got.(time.Time).Year() != 1987 {
		t.Fatalf("year parse wrong: %v", got)
	}

	for _, bad := range []string{"", "not-a-date", "31/02/2020", "2020-02-01"} {
		if got := DecodeDate(bad, DateDMY); got != nil {
			t.Errorf("DecodeDate(%q) = %v, want nil", bad, got)
		}
	}
}

func TestCount(t *testing.T) {
	v := Values{
		"a_count": "3",
		"b_count": "",
		"c_count": "x",
		"d_count": "-2",
	}
	cases := []struct {
		key  string
		want int
	}{
		{"a_count", 3},
		{"b_count", 0},
		{"c_count", 0},
		{"d_count", 0},
		{"missing_count", 0},
	}
	for _, tc := range cases {
		if got := v.Count(tc.key); got != tc.want {
			t.Errorf("Count(%q) = %d, want %d", tc.key, got, tc.want)
		}
	}
}

func TestValuesStrings(t *testing.T) {
	v := Values{
		"multi":  []string{"a", "b"},
		"anyarr": []any{"c", "d"},
		"scalar": "e",
		"blank":  "",
	}
	if got := v.Strings("multi"); len(got) != 2 || got[0] != "a" {
		t.Errorf("Strings(multi) = %v", got)
	}
	if got := v.Strings("anyarr"); len(got) != 2 || got[1] != "d" {
		t.Errorf("Strings(anyarr) = %v", got)
	}
	if got := v.Strings("scalar"); len(got) != 1 || got[0] != "e" {
		t.Errorf("Strings(scalar) = %v", got)
	}
	if got := v.Strings("blank"); len(got) != 0 {
		t.Errorf("Strings(blank) = %v", got)
	}
	if got := v.Strings("missing"); len(got) != 0 {
		t.Errorf("Strings(missing) = %v", got)
	}
}

func genericFields() []schema.Field {
	return []schema.Field{
		{Kind: schema.KindTriState, Name: "fuma"},
		{Kind: schema.KindInput, Name: "cigarrillos_dia"},
		{Kind: schema.KindDate, Name: "ultima_actualizacion", DateFormat: DateISO},
		{Kind: schema.KindReferenceMulti, Name: "alergias"},
		{Kind: schema.KindTitle, Label: "Hábitos"},
	}
}

func TestGenericAdapterDecodeNil(t *testing.T) {
	a := &GenericAdapter{Key: "habitos", Fields: genericFields()}
	tree := a.Decode(nil)

	if tree["fuma"] != schema.TriIndeterminate {
		t.Fatalf("default tri-state = %v", tree["fuma"])
	}
	if tree["cigarrillos_dia"] != "" || tree["ultima_actualizacion"] != nil {
		t.Fatalf("default tree wrong: %#v", tree)
	}
}

func TestGenericAdapterRoundTrip(t *testing.T) {
	a := &GenericAdapter{Key: "habitos", Fields: genericFields()}

	rec := &Record{
		Type: "habitos",
		Values: Values{
			"fuma":                 "si",
			"cigarrillos_dia":      "10",
			"ultima_actualizacion": "2021-06-15T10:30:00Z",
			"alergias":             []string{"penicilina"},
		},
	}

	tree := a.Decode(rec)
	if tree["fuma"] != schema.TriTrue {
		t.Fatalf("fuma = %v", tree["fuma"])
	}
	if tree["cigarrillos_dia"] != "10" {
		t.Fatalf("cigarrillos_dia = %v", tree["cigarrillos_dia"])
	}
	if _, ok := tree["ultima_actualizacion"].(time.Time); !ok {
		t.Fatalf("date not parsed: %v", tree["ultima_actualizacion"])
	}

	out := a.Encode(tree)
	if out.Type != "habitos" {
		t.Fatalf("type = %q", out.Type)
	}
	for k, want := range rec.Values {
		switch w := want.(type) {
		case string:
			if out.Values.String(k) != w {
				t.Errorf("round trip %s: %q != %q", k, out.Values.String(k), w)
			}
		case []string:
			got := out.Values.Strings(k)
			if len(got) != len(w) || got[0] != w[0] {
				t.Errorf("round trip %s: %v != %v", k, got, w)
			}
		}
	}
}

func TestGenericAdapterEncodeWritesEveryKey(t *testing.T) {
	a := &GenericAdapter{Key: "habitos", Fields: genericFields()}

	// Encode of a sparse tree still writes every field key.
	out := a.Encode(map[string]any{"fuma": schema.TriFalse})

	for _, key := range []string{"fuma", "cigarrillos_dia", "ultima_actualizacion", "alergias"} {
		if _, ok := out.Values[key]; !ok {
			t.Errorf("key %s omitted; legacy consumers expect it to exist", key)
		}
	}
	if out.Values.String("cigarrillos_dia") != "" {
		t.Fatal("absent value should encode as blank")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	s := schema.Schema{FormKey: "habitos", Fields: genericFields()}
	a := &GenericAdapter{Key: "habitos", Fields: s.Fields}

	if err := r.Register(s, a); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(s, a); err == nil {
		t.Fatal("duplicate registration must error")
	}
	if err := r.Register(schema.Schema{FormKey: "otro"}, a); err == nil {
		t.Fatal("mismatched keys must error")
	}

	if _, err := r.Lookup("habitos"); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Lookup("nope"); err == nil {
		t.Fatal("missing adapter must surface as an explicit error")
	}
}
