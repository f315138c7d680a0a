package schema

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PascalCase capitalizes each whitespace-separated token, lower-cases the
// rest of the token and concatenates the result.
func PascalCase(s string) string {
	var b strings.Builder
	for _, token := range strings.Fields(s) {
		r, size := utf8.DecodeRuneInString(token)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(strings.ToLower(token[size:]))
	}
	return b.String()
}

// SnakeCase joins whitespace-separated tokens with underscores, lower-cased.
func SnakeCase(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "_"))
}
