package extract

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"collapse runs", "a  b\t\tc", "a b c"},
		{"trim ends", "  hola  ", "hola"},
		{"newlines collapse", "REPUBLICA\nDEL\nPERU", "REPUBLICA DEL PERU"},
		{"accents preserved", "EMISIÓN  Ñaña", "EMISIÓN Ñaña"},
		{"case preserved", "Primer Apellido", "Primer Apellido"},
		{"decomposed recomposes", "Ñaña", "Ñaña"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"", "  a  b  ", "DNI\t72838997\nSEXO M", "EMISIÓN: 29/05/2023", "Ñ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
