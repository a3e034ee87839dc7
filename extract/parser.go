package extract

import (
	"strings"

	"github.com/MatFragg/dniscan/observability"
)

// Parser strings the interpretation stages together for one document:
// normalize, MRZ, visual-zone gap filling, date resolution, assembly.
type Parser struct {
	mrz    *MRZReader
	visual *VisualZoneExtractor
	dates  *DateResolver
	log    observability.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLogger routes quality signals (partial field misses) to log.
func WithLogger(log observability.Logger) ParserOption {
	return func(p *Parser) { p.log = log }
}

// NewParser builds a parser for the given lexicon.
func NewParser(lex Lexicon, opts ...ParserOption) *Parser {
	p := &Parser{
		mrz:    NewMRZReader(lex.CountryCode),
		visual: NewVisualZoneExtractor(lex),
		dates:  NewDateResolver(),
		log:    observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse interprets the raw recognized text of both faces and returns the
// assembled record. The only fatal condition is a missing document number;
// every other gap leaves the field empty and is logged as a quality signal.
func (p *Parser) Parse(frontText, backText string) (Record, error) {
	front := Normalize(frontText)
	combined := strings.ToUpper(frontText + " " + backText)

	fields := NewFieldSet()

	mrzNames := p.mrz.Read(combined, fields)
	p.visual.Extract(front, fields, mrzNames)

	if !fields.Has(FieldFamilyNames) && !fields.Has(FieldGivenNames) {
		p.visual.ExtractNamesByContext(front, fields)
	}

	d := p.dates.Resolve(front)
	p.applyDates(d, fields)

	p.visual.ExtractNationality(combined, fields)

	rec, err := Assemble(fields)
	if err != nil {
		return Record{}, err
	}
	p.logMisses(rec)
	return rec, nil
}

func (p *Parser) applyDates(d Dates, fields *FieldSet) {
	set := func(f Field, iso string, byLabel bool) {
		if iso == "" {
			return
		}
		origin := OriginInferred
		if byLabel {
			origin = OriginLabeled
		}
		fields.SetIfAbsent(f, iso, origin)
	}
	set(FieldBirthDate, d.Birth, d.BirthByLbl)
	set(FieldIssueDate, d.Issue, d.IssueByLbl)
	set(FieldExpiryDate, d.Expiry, d.ExpByLbl)
}

func (p *Parser) logMisses(rec Record) {
	misses := make([]string, 0, 4)
	if rec.FamilyNames == "" {
		misses = append(misses, FieldFamilyNames.String())
	}
	if rec.GivenNames == "" {
		misses = append(misses, FieldGivenNames.String())
	}
	if rec.BirthDate == "" {
		misses = append(misses, FieldBirthDate.String())
	}
	if rec.IssueDate == "" {
		misses = append(misses, FieldIssueDate.String())
	}
	if rec.ExpiryDate == "" {
		misses = append(misses, FieldExpiryDate.String())
	}
	if len(misses) > 0 {
		p.log.Warn("fields unresolved", observability.String("fields", strings.Join(misses, ",")))
	}
}
