package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// StripDiacritics removes combining marks, e.g. "Nguyễn" -> "Nguyen".
func StripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeName produces the canonical lowercase, diacritic-free form used
// for search and equality on scholar and keyword names.
func NormalizeName(s string) string {
	s = StripDiacritics(strings.TrimSpace(s))
	s = strings.ToLower(s)
	// collapse runs of whitespace
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeTitle is the publication-title form used for duplicate detection:
// lowercase, trimmed, inner whitespace collapsed. Diacritics are kept since
// titles are compared for exact (case-insensitive) identity, not searched.
func NormalizeTitle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), " ")
}

// Slugify converts a display name into a URL slug: "Labour Law" -> "labour-law".
func Slugify(s string) string {
	s = NormalizeName(s)
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
