package extract

import (
	"errors"
	"regexp"
)

// ErrMissingDocumentNumber reports that no valid 8-digit document number
// could be resolved from either the MRZ or the visual zone. The document
// number is the only mandatory field; its absence fails the extraction.
var ErrMissingDocumentNumber = errors.New("no valid document number found")

// NotFoundSentinel is the placeholder some upstream heuristics emit for an
// unresolved field. The assembler strips it; it never reaches a record.
const NotFoundSentinel = "NO ENCONTRADO"

// DefaultNationality fills the nationality gap when neither the MRZ nor the
// visual zone resolved one. Explicit policy for the modeled jurisdiction.
const DefaultNationality = "PERUANA"

var documentNumberRe = regexp.MustCompile(`^\d{8}$`)

// Record is the assembled identity record. Every field except DocumentNumber
// is optional and empty when unresolved; dates are ISO yyyy-mm-dd strings.
type Record struct {
	DocumentNumber string
	FamilyNames    string
	GivenNames     string
	BirthDate      string
	Sex            string
	Nationality    string
	IssueDate      string
	ExpiryDate     string
}

// Assemble validates the accumulated fields and builds the final record.
// Merge precedence was enforced at write time by FieldSet; this step checks
// the document-number invariant, drops sentinel values and applies the
// nationality default.
func Assemble(fields *FieldSet) (Record, error) {
	if !documentNumberRe.MatchString(fields.Text(FieldDocumentNumber)) {
		return Record{}, ErrMissingDocumentNumber
	}

	for _, f := range []Field{
		FieldFamilyNames, FieldGivenNames, FieldBirthDate,
		FieldIssueDate, FieldExpiryDate, FieldSex, FieldNationality,
	} {
		if fields.Text(f) == NotFoundSentinel {
			fields.Delete(f)
		}
	}

	fields.SetIfAbsent(FieldNationality, DefaultNationality, OriginDefault)

	return Record{
		DocumentNumber: fields.Text(FieldDocumentNumber),
		FamilyNames:    fields.Text(FieldFamilyNames),
		GivenNames:     fields.Text(FieldGivenNames),
		BirthDate:      fields.Text(FieldBirthDate),
		Sex:            fields.Text(FieldSex),
		Nationality:    fields.Text(FieldNationality),
		IssueDate:      fields.Text(FieldIssueDate),
		ExpiryDate:     fields.Text(FieldExpiryDate),
	}, nil
}
