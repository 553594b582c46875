package identity

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var honorifics = map[string]bool{
	"dr": true, "prof": true, "professor": true,
	"mr": true, "mrs": true, "ms": true, "phd": true,
}

// placeholders are instructor values that name nobody.
var placeholders = map[string]bool{"tba": true, "tbd": true, "staff": true}

// Key returns the comparison key of a raw instructor name: case and
// diacritics folded, honorifics dropped, letter tokens sorted. Single-letter
// tokens (initials) are dropped unless nothing else remains, so
// "Gao, Sky T." and "Sky Gao" share the key "gao sky". Names that carry no
// identity ("", "TBA", "Staff") return "".
func Key(raw string) string {
	s := fold(raw)
	s = strings.NewReplacer("'", "", "’", "").Replace(s)
	tokens := strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })

	var words, initials []string
	for _, t := range tokens {
		switch {
		case honorifics[t]:
		case len([]rune(t)) == 1:
			initials = append(initials, t)
		default:
			words = append(words, t)
		}
	}
	if len(words) == 0 {
		words = initials
	}
	if len(words) == 1 && placeholders[words[0]] {
		return ""
	}
	sort.Strings(words)
	return strings.Join(words, " ")
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}
