package extract

// Field identifies one extractable slot on the document.
type Field int

const (
	FieldDocumentNumber Field = iota
	FieldFamilyNames
	FieldGivenNames
	FieldBirthDate
	FieldIssueDate
	FieldExpiryDate
	FieldSex
	FieldNationality
)

func (f Field) String() string {
	switch f {
	case FieldDocumentNumber:
		return "documentNumber"
	case FieldFamilyNames:
		return "familyNames"
	case FieldGivenNames:
		return "givenNames"
	case FieldBirthDate:
		return "birthDate"
	case FieldIssueDate:
		return "issueDate"
	case FieldExpiryDate:
		return "expiryDate"
	case FieldSex:
		return "sex"
	case FieldNationality:
		return "nationality"
	}
	return "unknown"
}

// Origin tags where a field value came from. MRZ is the highest-trust source:
// once a field carries an MRZ value, lower-trust origins cannot replace it.
type Origin int

const (
	OriginMRZ Origin = iota
	OriginLabeled
	OriginInferred
	OriginDefault
)

func (o Origin) String() string {
	switch o {
	case OriginMRZ:
		return "mrz"
	case OriginLabeled:
		return "labeled"
	case OriginInferred:
		return "inferred"
	case OriginDefault:
		return "default"
	}
	return "unknown"
}

// Value is a field value together with its origin tag.
type Value struct {
	Text   string
	Origin Origin
}

// FieldSet accumulates extracted values during a single parse. It is not safe
// for concurrent use; one parse owns one set.
type FieldSet struct {
	m map[Field]Value
}

func NewFieldSet() *FieldSet {
	return &FieldSet{m: make(map[Field]Value, 8)}
}

// Set stores text for f unless the field already carries an MRZ value and the
// new origin is lower trust. It reports whether the value was stored.
func (s *FieldSet) Set(f Field, text string, origin Origin) bool {
	if cur, ok := s.m[f]; ok && cur.Origin == OriginMRZ && origin != OriginMRZ {
		return false
	}
	s.m[f] = Value{Text: text, Origin: origin}
	return true
}

// SetIfAbsent stores text for f only when the field has no value yet.
func (s *FieldSet) SetIfAbsent(f Field, text string, origin Origin) bool {
	if _, ok := s.m[f]; ok {
		return false
	}
	s.m[f] = Value{Text: text, Origin: origin}
	return true
}

// Get returns the stored value for f.
func (s *FieldSet) Get(f Field) (Value, bool) {
	v, ok := s.m[f]
	return v, ok
}

// Text returns the stored text for f, or "" when absent.
func (s *FieldSet) Text(f Field) string {
	return s.m[f].Text
}

// Has reports whether f carries a non-empty value.
func (s *FieldSet) Has(f Field) bool {
	v, ok := s.m[f]
	return ok && v.Text != ""
}

// Delete removes f from the set.
func (s *FieldSet) Delete(f Field) {
	delete(s.m, f)
}

// Len returns the number of populated fields.
func (s *FieldSet) Len() int { return len(s.m) }
