package extract

import (
	"errors"
	"testing"

	"github.com/MatFragg/dniscan/observability"
)

const backWithMRZ = "I<PERU72838997<8<<<<<<<<<<<<<<<\n" +
	"PER0603305M3105296\n" +
	"ALIAGA<AGUIRRE<<ETHAN<MATIAS\n"

func TestParseMRZDocument(t *testing.T) {
	front := "REPÚBLICA DEL PERÚ\n" +
		"DNI 72838997\n" +
		"FECHA DE NACIMIENTO 30 03 2006\n" +
		"FECHA DE EMISIÓN 29 05 2023\n" +
		"FECHA DE VENCIMIENTO 29 05 2031"

	p := NewParser(DefaultLexicon())
	rec, err := p.Parse(front, backWithMRZ)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := Record{
		DocumentNumber: "72838997",
		FamilyNames:    "Aliaga Aguirre",
		GivenNames:     "Ethan Matias",
		BirthDate:      "2006-03-30",
		Sex:            "MASCULINO",
		Nationality:    "PERUANA",
		IssueDate:      "2023-05-29",
		ExpiryDate:     "2031-05-29",
	}
	if rec != want {
		t.Fatalf("record = %+v, want %+v", rec, want)
	}
}

func TestParseLabeledVisualZone(t *testing.T) {
	front := "Primer Apellido Garcia Segundo Apellido Lopez " +
		"Prenombres Juan Carlos DNI 45678912 30/03/1995"

	p := NewParser(DefaultLexicon())
	rec, err := p.Parse(front, "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if rec.DocumentNumber != "45678912" {
		t.Fatalf("documentNumber = %q", rec.DocumentNumber)
	}
	if rec.FamilyNames != "Garcia Lopez" {
		t.Fatalf("familyNames = %q", rec.FamilyNames)
	}
	if rec.GivenNames != "Juan Carlos" {
		t.Fatalf("givenNames = %q", rec.GivenNames)
	}
	if rec.BirthDate != "1995-03-30" {
		t.Fatalf("birthDate = %q", rec.BirthDate)
	}
	if rec.IssueDate != "" || rec.ExpiryDate != "" {
		t.Fatalf("single date resolved extra roles: %+v", rec)
	}
	if rec.Sex != "MASCULINO" {
		t.Fatalf("sex = %q", rec.Sex)
	}
	if rec.Nationality != DefaultNationality {
		t.Fatalf("nationality = %q", rec.Nationality)
	}
}

func TestParseContextFallbackNames(t *testing.T) {
	front := "REPÚBLICA PERÚ GARCIA JUAN DNI 72838997"

	p := NewParser(DefaultLexicon())
	rec, err := p.Parse(front, "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.FamilyNames != "GARCIA" || rec.GivenNames != "JUAN" {
		t.Fatalf("names = %q / %q", rec.FamilyNames, rec.GivenNames)
	}
}

func TestParseMRZNumberWinsOverVisible(t *testing.T) {
	// The visible zone misread one digit; the machine-readable value stands.
	front := "DNI 72938997"

	p := NewParser(DefaultLexicon())
	rec, err := p.Parse(front, backWithMRZ)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.DocumentNumber != "72838997" {
		t.Fatalf("documentNumber = %q, want the machine-read value", rec.DocumentNumber)
	}
}

func TestParseFailsWithoutDocumentNumber(t *testing.T) {
	p := NewParser(DefaultLexicon())
	if _, err := p.Parse("texto sin datos aprovechables", ""); !errors.Is(err, ErrMissingDocumentNumber) {
		t.Fatalf("err = %v, want ErrMissingDocumentNumber", err)
	}
}

type captureLogger struct {
	observability.NopLogger
	warns []string
}

func (c *captureLogger) Warn(msg string, fields ...observability.Field) {
	c.warns = append(c.warns, msg)
}

func TestParseWarnsOnUnresolvedFields(t *testing.T) {
	log := &captureLogger{}
	p := NewParser(DefaultLexicon(), WithLogger(log))

	if _, err := p.Parse("DNI 72838997", ""); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(log.warns) != 1 {
		t.Fatalf("warns = %v, want one quality warning", log.warns)
	}
}
