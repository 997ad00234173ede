package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// homoglyphs maps letter variants to the canonical letter used in word lists.
var homoglyphs = strings.NewReplacer("ё", "е")

// Normalize brings a token or a chat guess into the form words are stored
// in: trimmed, NFC-composed, lower-cased, with ё folded into е.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = cases.Lower(language.Und).String(s)
	return homoglyphs.Replace(s)
}

// IsAlphabetic reports whether s is non-empty and made of letters only.
func IsAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
