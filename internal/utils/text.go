package utils

import (
	"strings"
	"unicode"
)

// SplitDocstring splits documentation text into summary (first line) and
// description (remaining lines, trimmed). Missing parts are nil.
func SplitDocstring(doc string) (summary, description *string) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil, nil
	}
	lines := strings.Split(doc, "\n")
	first := lines[0]
	summary = &first
	if len(lines) > 1 {
		rest := strings.TrimSpace(strings.Join(lines[1:], "\n"))
		description = &rest
	}
	return summary, description
}

// Title upper-cases the first letter of every letter run and lower-cases the rest
// ("partial_update" -> "Partial_Update", "products" -> "Products")
func Title(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			sb.WriteRune(unicode.ToTitle(r))
		case isLetter:
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return sb.String()
}
