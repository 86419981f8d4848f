// Package normalize canonicalizes the raw text the spreadsheets hand us:
// header labels for schema matching, cell values, identifiers, and the
// day-first date formats the exports mix freely.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

	// NFD decomposition followed by combining-mark removal strips
	// diacritics (admisión -> admision) without touching base letters.
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Label canonicalizes a header label for comparison: non-breaking spaces
// become plain spaces, diacritics are stripped, everything outside [a-z0-9]
// becomes a single space, and the result is lower-cased and trimmed.
// Label("Fe.admisión") == Label("fe admision").
func Label(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// CleanCell trims a raw cell and reports whether it holds a real value.
// Empty cells and the "nan" artifact left by spreadsheet tooling count as
// missing.
func CleanCell(s string) (string, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "none") {
		return "", false
	}
	return s, true
}

// Identifier cleans an external identifier cell. Numeric spreadsheet
// columns render integers with a trailing ".0"; that artifact is stripped
// so "18234567.0" and "18234567" reconcile to the same key.
func Identifier(s string) (string, bool) {
	s, ok := CleanCell(s)
	if !ok {
		return "", false
	}
	if head, found := strings.CutSuffix(s, ".0"); found && head != "" && isDigits(head) {
		s = head
	}
	return s, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
