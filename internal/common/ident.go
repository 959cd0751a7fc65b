package common

import (
	"strings"
	"unicode"
)

// IsExported reports whether name starts with an upper-case letter.
func IsExported(name string) bool {
	return name != "" && unicode.IsUpper(rune(name[0]))
}

// Export upper-cases the first letter of name.
func Export(name string) string {
	if name == "" {
		return name
	}

	return strings.ToUpper(name[:1]) + name[1:]
}

// Unexport lower-cases the first letter of name.
func Unexport(name string) string {
	if name == "" {
		return name
	}

	return strings.ToLower(name[:1]) + name[1:]
}
