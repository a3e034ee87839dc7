package extract

import "testing"

func TestMRZReaderFullLine(t *testing.T) {
	r := NewMRZReader("PER")
	fields := NewFieldSet()

	combined := "I<PERU72838997<8<<<<<<<<<<<<<<<\nPER9501015M2601017\nALIAGA<AGUIRRE<<ETHAN<MATIAS"
	found := r.Read(combined, fields)

	if !found {
		t.Fatalf("expected both names to be found")
	}
	if got := fields.Text(FieldDocumentNumber); got != "72838997" {
		t.Fatalf("documentNumber = %q", got)
	}
	if got := fields.Text(FieldFamilyNames); got != "Aliaga Aguirre" {
		t.Fatalf("familyNames = %q", got)
	}
	if got := fields.Text(FieldGivenNames); got != "Ethan Matias" {
		t.Fatalf("givenNames = %q", got)
	}
	if got := fields.Text(FieldSex); got != "MASCULINO" {
		t.Fatalf("sex = %q", got)
	}
	if v, _ := fields.Get(FieldDocumentNumber); v.Origin != OriginMRZ {
		t.Fatalf("origin = %v", v.Origin)
	}
}

func TestMRZReaderNumberWithoutStrayLetter(t *testing.T) {
	r := NewMRZReader("PER")
	fields := NewFieldSet()
	r.Read("I<PER72838997<4", fields)
	if got := fields.Text(FieldDocumentNumber); got != "72838997" {
		t.Fatalf("documentNumber = %q", got)
	}
}

func TestMRZReaderSexFemale(t *testing.T) {
	r := NewMRZReader("PER")
	fields := NewFieldSet()
	r.Read("PER9501015F2601017", fields)
	if got := fields.Text(FieldSex); got != "FEMENINO" {
		t.Fatalf("sex = %q", got)
	}
}

func TestMRZReaderSpacesStripped(t *testing.T) {
	r := NewMRZReader("PER")
	fields := NewFieldSet()
	r.Read("I < P E R U 7 2 8 3 8 9 9 7", fields)
	if got := fields.Text(FieldDocumentNumber); got != "72838997" {
		t.Fatalf("documentNumber = %q", got)
	}
}

func TestMRZReaderSingleLetterStaysUpper(t *testing.T) {
	r := NewMRZReader("PER")
	fields := NewFieldSet()
	r.Read("GARCIA<LOPEZ<<JUAN<M", fields)
	if got := fields.Text(FieldGivenNames); got != "Juan M" {
		t.Fatalf("givenNames = %q", got)
	}
}

func TestMRZReaderFillerOnlyNamesNotSet(t *testing.T) {
	r := NewMRZReader("PER")
	fields := NewFieldSet()
	found := r.Read("", fields)
	if found {
		t.Fatalf("empty text should find nothing")
	}
	if fields.Has(FieldFamilyNames) || fields.Has(FieldGivenNames) {
		t.Fatalf("no names expected: %+v", fields)
	}
}
