package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// VisualZoneExtractor works the human-readable zone of the front face. It
// only fills gaps: MRZ-origin values are never replaced, and within a field
// the first strategy to produce a value wins.
type VisualZoneExtractor struct {
	stop      map[string]struct{}
	surnames  map[string]struct{}
	givens    map[string]struct{}
	stopRe    *regexp.Regexp
	natRes    []*regexp.Regexp
	countryRe *regexp.Regexp
}

var (
	numberTokenRe = regexp.MustCompile(`\b\d{8}\b`)

	labelPairRe = regexp.MustCompile(
		`(?i)(?:Primer\s+Apellido|PrimerApellido)\s+([A-Z][a-z]+)\s+` +
			`(?:Segundo\s+Apellido|SegundoApellido)\s+([A-Z][a-z]+)`)
	givenAfterLabelRe = regexp.MustCompile(
		`(?i)(?:Prenombres|Nombres|Nombres:)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)

	fuzzySurnameRe = regexp.MustCompile(`(?i)APEL[A-Z]*\s+([A-ZÁÉÍÓÚÑ\s]{3,})`)
	fuzzyGivenRe   = regexp.MustCompile(`(?i)NOM[A-Z]*\s+([A-ZÁÉÍÓÚÑ\s]{3,})`)
	labelLeakRe    = regexp.MustCompile(`^(PRIMER|SEGUNDO|APELLIDO|NOMBRE|PRENOMBRE)`)
	birthLeakRe    = regexp.MustCompile(`(?i)NACIMIENTO`)

	upperTokenRe = regexp.MustCompile(`^[A-ZÁÉÍÓÚÑ]{3,}$`)

	sexMRe = regexp.MustCompile(`\bM\b`)
	sexFRe = regexp.MustCompile(`\bF\b`)
)

// NewVisualZoneExtractor builds an extractor around the given lexicon.
func NewVisualZoneExtractor(lex Lexicon) *VisualZoneExtractor {
	quoted := make([]string, 0, len(lex.Stoplist))
	for _, w := range lex.Stoplist {
		quoted = append(quoted, regexp.QuoteMeta(w))
	}
	return &VisualZoneExtractor{
		stop:     lex.stopSet(),
		surnames: lex.surnameSet(),
		givens:   lex.givenNameSet(),
		// Upper-case only on purpose: label prose on the card is printed in
		// caps, the values themselves are not.
		stopRe: regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`),
		natRes: []*regexp.Regexp{
			regexp.MustCompile(`(?i)NACIONALIDAD\s*[:\-]?\s*([A-ZÁÉÍÓÚÑ]+)`),
			regexp.MustCompile(`(?i)PAIS\s*[:\-]?\s*([A-ZÁÉÍÓÚÑ]+)`),
			regexp.MustCompile(`(?i)\bPERUANA\b`),
			regexp.MustCompile(`(?i)\bPERUANO\b`),
		},
		countryRe: regexp.MustCompile(`(?i)^PERUAN[AO]$`),
	}
}

// Extract fills document number, names and sex from the normalized front
// text. mrzNamesFound gates the name strategies: a clean MRZ name pair is
// left untouched.
func (v *VisualZoneExtractor) Extract(frontText string, fields *FieldSet, mrzNamesFound bool) {
	if strings.TrimSpace(frontText) == "" {
		return
	}

	if !fields.Has(FieldDocumentNumber) {
		if m := numberTokenRe.FindString(frontText); m != "" {
			fields.Set(FieldDocumentNumber, m, OriginInferred)
		}
	}

	v.extractNames(frontText, fields, mrzNamesFound)

	if !fields.Has(FieldSex) {
		v.extractSex(frontText, fields)
	}
}

func (v *VisualZoneExtractor) extractNames(text string, fields *FieldSet, mrzNamesFound bool) {
	if mrzNamesFound && utf8.RuneCountInString(fields.Text(FieldGivenNames)) > 2 {
		return
	}
	cleaned := v.stripBoilerplate(text)
	if v.extractByLabelPair(cleaned, fields, mrzNamesFound) {
		return
	}
	v.extractByFuzzyLabels(cleaned, fields)
}

// stripBoilerplate removes stoplist words so a label is never captured as a
// value. Matching is case-sensitive: only the all-caps printed form goes.
func (v *VisualZoneExtractor) stripBoilerplate(text string) string {
	return collapseSpaces(v.stopRe.ReplaceAllString(text, ""))
}

// extractByLabelPair looks for the explicit "Primer Apellido X Segundo
// Apellido Y" pair, then scans the remainder for the given-names label.
func (v *VisualZoneExtractor) extractByLabelPair(text string, fields *FieldSet, mrzNamesFound bool) bool {
	loc := labelPairRe.FindStringSubmatchIndex(text)
	if loc == nil {
		return false
	}
	first := text[loc[2]:loc[3]]
	second := text[loc[4]:loc[5]]
	fields.Set(FieldFamilyNames, first+" "+second, OriginLabeled)

	rest := text[loc[1]:]
	if m := givenAfterLabelRe.FindStringSubmatch(rest); m != nil && !mrzNamesFound {
		fields.Set(FieldGivenNames, m[1], OriginLabeled)
	}
	return true
}

// extractByFuzzyLabels scans line by line for label fragments that survived
// OCR mangling ("APEL...", "NOM...", the "PIRE" misread of PRIMER).
func (v *VisualZoneExtractor) extractByFuzzyLabels(text string, fields *FieldSet) {
	for _, line := range strings.Split(text, "\n") {
		upper := strings.ToUpper(line)

		if !fields.Has(FieldFamilyNames) &&
			strings.Contains(upper, "APEL") &&
			(strings.Contains(upper, "PRIMER") || strings.Contains(upper, "PIRE")) {
			if val := fuzzyCapture(fuzzySurnameRe, line); val != "" {
				fields.Set(FieldFamilyNames, formatName(val), OriginLabeled)
			}
		}

		if !fields.Has(FieldGivenNames) &&
			(strings.Contains(upper, "PRE") || strings.Contains(upper, "NOM")) {
			if val := fuzzyCapture(fuzzyGivenRe, line); val != "" {
				// A trailing birth-date label sometimes leaks into the run.
				val = strings.TrimSpace(birthLeakRe.Split(val, 2)[0])
				if val != "" {
					fields.Set(FieldGivenNames, formatName(val), OriginLabeled)
				}
			}
		}
	}
}

func fuzzyCapture(re *regexp.Regexp, line string) string {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	candidate := strings.TrimSpace(m[1])
	if labelLeakRe.MatchString(candidate) {
		return ""
	}
	return candidate
}

// ExtractNamesByContext is the last-resort pairing of adjacent all-caps
// tokens: a surname-looking token immediately followed by a given-name
// looking one. Runs only when both name fields are still empty.
func (v *VisualZoneExtractor) ExtractNamesByContext(text string, fields *FieldSet) {
	var tokens []string
	for _, line := range strings.Split(text, "\n") {
		for _, word := range strings.Fields(line) {
			if !upperTokenRe.MatchString(word) {
				continue
			}
			if _, stop := v.stop[word]; stop {
				continue
			}
			tokens = append(tokens, word)
		}
	}
	for i := 0; i+1 < len(tokens); i++ {
		if v.likelySurname(tokens[i]) && v.likelyGivenName(tokens[i+1]) {
			fields.SetIfAbsent(FieldFamilyNames, tokens[i], OriginInferred)
			fields.SetIfAbsent(FieldGivenNames, tokens[i+1], OriginInferred)
			return
		}
	}
}

func (v *VisualZoneExtractor) likelySurname(word string) bool {
	if _, ok := v.surnames[word]; ok {
		return true
	}
	return utf8.RuneCountInString(word) >= 4
}

func (v *VisualZoneExtractor) likelyGivenName(word string) bool {
	if _, ok := v.givens[word]; ok {
		return true
	}
	return utf8.RuneCountInString(word) >= 3
}

// extractSex looks for an explicit marker or an isolated M/F token. Absent
// both, MASCULINO is the documented default.
func (v *VisualZoneExtractor) extractSex(text string, fields *FieldSet) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "sexo m") || sexMRe.MatchString(text):
		fields.Set(FieldSex, "MASCULINO", OriginLabeled)
	case strings.Contains(lower, "sexo f") || sexFRe.MatchString(text):
		fields.Set(FieldSex, "FEMENINO", OriginLabeled)
	default:
		fields.Set(FieldSex, "MASCULINO", OriginDefault)
	}
}

// ExtractNationality scans for an explicit nationality label or the literal
// demonym. Only the modeled jurisdiction is recognized; anything else is
// left for the assembler's default.
func (v *VisualZoneExtractor) ExtractNationality(text string, fields *FieldSet) {
	if fields.Has(FieldNationality) {
		return
	}
	for _, re := range v.natRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 && !v.countryRe.MatchString(m[1]) {
			continue
		}
		fields.Set(FieldNationality, "PERUANA", OriginLabeled)
		return
	}
}

// formatName title-cases every word of a captured value.
func formatName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(w)
		head := strings.ToUpper(string(runes[0]))
		tail := strings.ToLower(string(runes[1:]))
		words[i] = head + tail
	}
	return strings.Join(words, " ")
}
