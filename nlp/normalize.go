package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold lowercases s and strips Vietnamese diacritics, so "Tuấn", "tuẤn" and
// "tuan" all fold to "tuan". Used for matching only; stored names keep their
// original form.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	// đ decomposes to itself, not to d + combining mark
	folded = strings.ReplaceAll(folded, "đ", "d")
	return folded
}
