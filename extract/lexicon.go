package extract

// Lexicon carries the jurisdiction-specific word lists the heuristics lean
// on. The defaults model the Peruvian DNI; inject a different lexicon to
// target another issuing country without touching the extraction code.
type Lexicon struct {
	// CountryCode is the issuing-country literal used by the MRZ patterns.
	CountryCode string
	// Stoplist holds document boilerplate words that must never be taken as
	// name values. Matching is exact and upper-case only.
	Stoplist []string
	// Surnames and GivenNames are reference sets for the contextual name
	// fallback. Upper-case entries.
	Surnames   []string
	GivenNames []string
}

// DefaultLexicon returns the Peruvian DNI lexicon.
func DefaultLexicon() Lexicon {
	return Lexicon{
		CountryCode: "PER",
		Stoplist: []string{
			"SEXO", "CUI", "DNI", "DOCUMENTO", "IDENTIDAD", "NACIONAL",
			"REPÚBLICA", "PERÚ", "REGISTRO", "ESTADO", "CIVIL", "APELLIDOS",
			"NOMBRES", "PRENOMBRES", "PRIMER", "SEGUNDO", "FECHA", "NACIMIENTO",
			"EMISIÓN", "VENCIMIENTO", "LIMA", "PERUANA", "PERUANO",
		},
		Surnames: []string{
			"GARCIA", "RODRIGUEZ", "GONZALEZ", "FERNANDEZ", "LOPEZ", "MARTINEZ",
			"SANCHEZ", "PEREZ", "GOMEZ", "MARTIN", "JIMENEZ", "HERNANDEZ",
			"DIAZ", "MORENO", "MUÑOZ", "ALVAREZ", "ROMERO", "ALONSO", "GUTIERREZ",
		},
		GivenNames: []string{
			"JUAN", "JOSE", "LUIS", "CARLOS", "JORGE", "MANUEL", "PEDRO",
			"MARIA", "ANA", "ROSA", "ELENA", "LUISA", "CARMEN", "TERESA",
			"MIGUEL", "ANDRES", "RAFAEL", "FRANCISCO", "ANTONIO", "DAVID",
		},
	}
}

func (l Lexicon) surnameSet() map[string]struct{}   { return toSet(l.Surnames) }
func (l Lexicon) givenNameSet() map[string]struct{} { return toSet(l.GivenNames) }
func (l Lexicon) stopSet() map[string]struct{}      { return toSet(l.Stoplist) }

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
