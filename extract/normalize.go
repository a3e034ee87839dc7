package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize cleans raw recognizer text: invalid UTF-8 bytes are dropped,
// decomposed accented letters are recomposed (NFC), and runs of whitespace
// collapse to single spaces with the ends trimmed. Case and accents are
// preserved. Normalize is total and idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")
	s = norm.NFC.String(s)
	return collapseSpaces(s)
}

func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
