// Package util provides small helpers shared across the exporter.
package util

import "strings"

// SanitizeIdentifier maps a scene object name onto a valid C identifier:
// every character outside [A-Za-z0-9_] becomes an underscore, and a leading
// digit gets an underscore prefix. Empty input stays empty.
func SanitizeIdentifier(name string) string {
	if name == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(name) + 1)
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
			b.WriteByte(c)
		case c >= '0' && c <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}
