package extract

import (
	"regexp"
	"strings"
)

// MRZReader parses the machine-readable zone of the document. The MRZ is the
// highest-trust source: everything it yields is tagged OriginMRZ and shields
// the field from later heuristic writes.
type MRZReader struct {
	numberRe *regexp.Regexp
	nameRe   *regexp.Regexp
	sexRe    *regexp.Regexp
	remnant  *regexp.Regexp
}

// NewMRZReader builds a reader for the given issuing-country code.
func NewMRZReader(countryCode string) *MRZReader {
	cc := regexp.QuoteMeta(countryCode)
	return &MRZReader{
		// A stray letter between the country code and the number is common
		// when the check-digit column bleeds into the read.
		numberRe: regexp.MustCompile(`I<` + cc + `[A-Z]?(\d{8})`),
		nameRe:   regexp.MustCompile(`([A-Z<]+)<<([A-Z<]+)`),
		sexRe:    regexp.MustCompile(cc + `\d{7}([MF])\d{7}`),
		remnant:  regexp.MustCompile(`.*` + cc),
	}
}

// Read scans the combined front+back text for MRZ structures and stores what
// it finds. It reports whether both name fields were populated, which gates
// the visual-zone fallback downstream.
func (r *MRZReader) Read(combined string, fields *FieldSet) bool {
	if combined == "" {
		return false
	}
	clean := strings.ToUpper(strings.ReplaceAll(combined, " ", ""))

	if m := r.numberRe.FindStringSubmatch(clean); m != nil {
		fields.Set(FieldDocumentNumber, m[1], OriginMRZ)
	}

	// The double-filler name pattern also matches runs of padding, which
	// clean up to nothing; keep scanning until real captures turn up.
	for _, m := range r.nameRe.FindAllStringSubmatch(clean, -1) {
		family := strings.TrimSpace(strings.ReplaceAll(r.remnant.ReplaceAllString(m[1], ""), "<", " "))
		given := strings.TrimSpace(strings.ReplaceAll(strings.TrimRight(m[2], "<"), "<", " "))
		if family != "" && !fields.Has(FieldFamilyNames) {
			fields.Set(FieldFamilyNames, formatMRZName(family), OriginMRZ)
		}
		if given != "" && !fields.Has(FieldGivenNames) {
			fields.Set(FieldGivenNames, formatMRZName(given), OriginMRZ)
		}
		if fields.Has(FieldFamilyNames) && fields.Has(FieldGivenNames) {
			break
		}
	}

	if m := r.sexRe.FindStringSubmatch(clean); m != nil {
		sex := "FEMENINO"
		if m[1] == "M" {
			sex = "MASCULINO"
		}
		fields.Set(FieldSex, sex, OriginMRZ)
	}

	return fields.Has(FieldFamilyNames) && fields.Has(FieldGivenNames)
}

// formatMRZName title-cases each word. Single-letter words stay upper-case:
// the MRZ abbreviates middle name parts down to one letter.
func formatMRZName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if len(w) == 1 {
			words[i] = strings.ToUpper(w)
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
