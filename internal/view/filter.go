package view

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kozaktomas/facedesk/internal/facerec"
)

// NormalizeName folds a name for comparison: "Jiří Nový-Kraus" -> "jiri novy kraus".
// Marks are stripped after decomposition, hyphens count as spaces and runs of
// whitespace collapse to one.
func NormalizeName(name string) string {
	fold := runes.Map(func(r rune) rune {
		if r == '-' {
			return ' '
		}
		return unicode.ToLower(r)
	})
	// chains hold state, so one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), fold, norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = strings.ToLower(name)
	}
	return strings.Join(strings.Fields(folded), " ")
}

// FilterPersons keeps persons whose name contains the query, ignoring case and
// diacritics. Order is preserved. An empty query returns the input unchanged.
func FilterPersons(persons []facerec.Person, query string) []facerec.Person {
	q := NormalizeName(query)
	if q == "" {
		return persons
	}

	filtered := make([]facerec.Person, 0, len(persons))
	for _, p := range persons {
		if strings.Contains(NormalizeName(p.Name), q) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
