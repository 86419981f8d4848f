package sheet

import "testing"

func TestDetectHeaderRowWithBanner(t *testing.T) {
	grid := [][]string{
		{"Hospital Base", ""},
		{"Exportado 24-09-2025", ""},
		{"", ""},
		{"RUT", "Nombre", "Episodio / Estadía", "Fecha de nacimiento"},
		{"12.345.678-5", "Juan Pérez", "30012345", "02/01/1988"},
	}
	if got := detectHeaderRow(grid); got != 3 {
		t.Errorf("detectHeaderRow = %d, want 3", got)
	}
}

func TestDetectHeaderRowFirstRow(t *testing.T) {
	grid := [][]string{
		{"CAMA", "HABITACION", "CAMA_BLOQUEADA"},
		{"UCI 301", "301", "NO"},
	}
	if got := detectHeaderRow(grid); got != 0 {
		t.Errorf("detectHeaderRow = %d, want 0", got)
	}
}

func TestDetectHeaderRowFallback(t *testing.T) {
	grid := [][]string{
		{"a", "b"},
		{"c", "d"},
	}
	if got := detectHeaderRow(grid); got != 0 {
		t.Errorf("no header anywhere should fall back to 0, got %d", got)
	}
}

func TestRowGet(t *testing.T) {
	tbl := NewTable("s", []string{"A", "B", ""}, [][]string{{"1"}})
	row := tbl.Row(0)

	if v, ok := row.Get("A"); !ok || v != "1" {
		t.Errorf("Get(A) = (%q, %v)", v, ok)
	}
	// Short row: column exists, cell reads empty.
	if v, ok := row.Get("B"); !ok || v != "" {
		t.Errorf("Get(B) = (%q, %v), want (\"\", true)", v, ok)
	}
	if _, ok := row.Get("missing"); ok {
		t.Error("absent column must report ok=false")
	}
	// Empty header cells get positional labels.
	if _, ok := row.Get("col_3"); !ok {
		t.Error("empty header cell should be addressable as col_3")
	}
}

func TestTableRename(t *testing.T) {
	tbl := NewTable("s", []string{"Puntaje", "Motivo"}, [][]string{{"7", "x"}})
	if !tbl.Rename("Puntaje", "score") {
		t.Fatal("Rename reported no match")
	}
	if tbl.Rename("No Existe", "y") {
		t.Error("Rename of an absent label should report false")
	}
	if v, ok := tbl.Row(0).Get("score"); !ok || v != "7" {
		t.Errorf("lookup by new label = (%q, %v)", v, ok)
	}
	if _, ok := tbl.Row(0).Get("Puntaje"); ok {
		t.Error("old label should no longer resolve")
	}
}

func TestFieldMapExactMatch(t *testing.T) {
	tbl := NewTable("s", []string{"Fe.admisión", "Nombre", "Extra"}, nil)
	m := FieldMap{
		{Name: "admission_at", Candidates: []string{"Fe.admisión"}},
		{Name: "patient_name", Candidates: []string{"Nombre"}},
	}
	resolved := m.Apply(tbl)
	if resolved["admission_at"] != "Fe.admisión" {
		t.Errorf("admission_at resolved to %q", resolved["admission_at"])
	}
	cols := tbl.Columns()
	if cols[0] != "admission_at" || cols[1] != "patient_name" || cols[2] != "Extra" {
		t.Errorf("columns after apply: %v", cols)
	}
}

func TestFieldMapAccentInsensitive(t *testing.T) {
	tbl := NewTable("s", []string{"fe admision"}, nil)
	m := FieldMap{{Name: "admission_at", Candidates: []string{"Fe.admisión"}}}
	if resolved := m.Apply(tbl); resolved["admission_at"] != "fe admision" {
		t.Errorf("accent-insensitive match failed: %v", resolved)
	}
}

func TestFieldMapPrefixMatch(t *testing.T) {
	tbl := NewTable("s", []string{"Fecha del alta médica"}, nil)
	m := FieldMap{{Name: "discharge_at", Candidates: []string{"Fecha del alta"}}}
	if resolved := m.Apply(tbl); resolved["discharge_at"] == "" {
		t.Error("candidate should prefix-match a longer column label")
	}
}

func TestFieldMapFirstMatchWins(t *testing.T) {
	// Two columns both match; the earlier candidate order decides, and the
	// claimed column is not reconsidered for later fields.
	tbl := NewTable("s", []string{"Episodio", "Episodio / Estadía"}, nil)
	m := FieldMap{
		{Name: "episode_identifier", Candidates: []string{"Episodio / Estadía", "Episodio"}},
	}
	resolved := m.Apply(tbl)
	if resolved["episode_identifier"] != "Episodio / Estadía" {
		t.Errorf("first candidate in order should win, got %q", resolved["episode_identifier"])
	}
	if tbl.Columns()[0] != "Episodio" {
		t.Errorf("unclaimed column should keep its label, got %q", tbl.Columns()[0])
	}
}

func TestFieldMapUnmatchedPassThrough(t *testing.T) {
	tbl := NewTable("s", []string{"Columna Rara"}, nil)
	m := FieldMap{{Name: "score", Candidates: []string{"Puntaje"}}}
	resolved := m.Apply(tbl)
	if len(resolved) != 0 {
		t.Errorf("nothing should resolve: %v", resolved)
	}
	if tbl.Columns()[0] != "Columna Rara" {
		t.Errorf("unmatched column renamed to %q", tbl.Columns()[0])
	}
}
