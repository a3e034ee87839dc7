package extract

import (
	"errors"
	"testing"
)

func TestAssembleFullRecord(t *testing.T) {
	fields := NewFieldSet()
	fields.Set(FieldDocumentNumber, "72838997", OriginMRZ)
	fields.Set(FieldFamilyNames, "Aliaga Aguirre", OriginMRZ)
	fields.Set(FieldGivenNames, "Ethan Matias", OriginMRZ)
	fields.Set(FieldBirthDate, "2006-03-30", OriginLabeled)
	fields.Set(FieldIssueDate, "2023-05-29", OriginInferred)
	fields.Set(FieldExpiryDate, "2031-05-29", OriginInferred)
	fields.Set(FieldSex, "MASCULINO", OriginMRZ)
	fields.Set(FieldNationality, "PERUANA", OriginLabeled)

	rec, err := Assemble(fields)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
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

func TestAssembleRejectsMissingNumber(t *testing.T) {
	fields := NewFieldSet()
	fields.Set(FieldFamilyNames, "Garcia Lopez", OriginLabeled)

	if _, err := Assemble(fields); !errors.Is(err, ErrMissingDocumentNumber) {
		t.Fatalf("err = %v, want ErrMissingDocumentNumber", err)
	}
}

func TestAssembleRejectsMalformedNumber(t *testing.T) {
	for _, number := range []string{"1234567", "123456789", "A2838997", "728 3899"} {
		fields := NewFieldSet()
		fields.Set(FieldDocumentNumber, number, OriginInferred)
		if _, err := Assemble(fields); !errors.Is(err, ErrMissingDocumentNumber) {
			t.Fatalf("number %q: err = %v, want ErrMissingDocumentNumber", number, err)
		}
	}
}

func TestAssembleStripsSentinel(t *testing.T) {
	fields := NewFieldSet()
	fields.Set(FieldDocumentNumber, "72838997", OriginInferred)
	fields.Set(FieldFamilyNames, NotFoundSentinel, OriginInferred)
	fields.Set(FieldBirthDate, NotFoundSentinel, OriginInferred)

	rec, err := Assemble(fields)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if rec.FamilyNames != "" || rec.BirthDate != "" {
		t.Fatalf("sentinel leaked: %+v", rec)
	}
}

func TestAssembleDefaultsNationality(t *testing.T) {
	fields := NewFieldSet()
	fields.Set(FieldDocumentNumber, "72838997", OriginInferred)

	rec, err := Assemble(fields)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if rec.Nationality != DefaultNationality {
		t.Fatalf("nationality = %q", rec.Nationality)
	}
	if val, _ := fields.Get(FieldNationality); val.Origin != OriginDefault {
		t.Fatalf("origin = %v", val.Origin)
	}
}

func TestAssembleKeepsResolvedNationality(t *testing.T) {
	fields := NewFieldSet()
	fields.Set(FieldDocumentNumber, "72838997", OriginInferred)
	fields.Set(FieldNationality, "PERUANA", OriginLabeled)

	rec, err := Assemble(fields)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if val, _ := fields.Get(FieldNationality); val.Origin != OriginLabeled {
		t.Fatalf("default replaced a resolved nationality: %v", val.Origin)
	}
	if rec.Nationality != "PERUANA" {
		t.Fatalf("nationality = %q", rec.Nationality)
	}
}
