package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// wordRun stops at any Unicode space separator, vertical tab or BOM as well
// as ASCII whitespace, so "light\u00a0rain" is two words
var wordRun = regexp.MustCompile(`\w[^\s\x0B\p{Z}\x{FEFF}]*`)

// TitleCase capitalizes every word that starts with a word character and
// lowercases the rest of it. Separators are kept as-is, so the result of
// TitleCase(TitleCase(s)) equals TitleCase(s).
func TitleCase(s string) string {
	return wordRun.ReplaceAllStringFunc(s, func(w string) string {
		// \w is ASCII only, so the first byte is a whole character
		return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	})
}

// FormatNumber renders v with the fewest digits that represent it exactly
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
