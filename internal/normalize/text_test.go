package normalize

import "testing"

func TestLabel(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Fe.admisión", "fe admision"},
		{"Episodio / Estadía", "episodio estadia"},
		{" Valor Parcial ", "valor parcial"},
		{"DÍAS PACIENTES ACOSTADOS", "dias pacientes acostados"},
		{"Fecha de nacimiento", "fecha de nacimiento"},
		{"CAMA_BLOQUEADA", "cama bloqueada"},
		{"", ""},
		{"---", ""},
	}
	for _, c := range cases {
		if got := Label(c.in); got != c.want {
			t.Errorf("Label(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLabelEquivalence(t *testing.T) {
	if Label("Fe.admisión") != Label("fe admision") {
		t.Error("accented and plain labels should canonicalize identically")
	}
	if Label("Previsión Homóloga") != Label("prevision   homologa") {
		t.Error("whitespace runs should collapse")
	}
}

func TestCleanCell(t *testing.T) {
	if _, ok := CleanCell(""); ok {
		t.Error("empty cell should be missing")
	}
	if _, ok := CleanCell("  nan "); ok {
		t.Error("nan artifact should be missing")
	}
	if _, ok := CleanCell("NaN"); ok {
		t.Error("NaN artifact should be missing")
	}
	got, ok := CleanCell("  UCI 302  ")
	if !ok || got != "UCI 302" {
		t.Errorf("CleanCell trimming: got %q ok=%v", got, ok)
	}
}

func TestIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"30012345.0", "30012345", true},
		{"30012345", "30012345", true},
		{" 30012345.0 ", "30012345", true},
		{"EP-99.0", "EP-99.0", true}, // not a pure numeric, suffix kept
		{"nan", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := Identifier(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("Identifier(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
