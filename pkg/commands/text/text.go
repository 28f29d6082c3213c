// Package text formats CLI help text.
package text

import (
	"strings"
)

// Indentation is the indentation applied to every example line.
const Indentation = `  `

// LongDesc trims a command's long description so it can be written as an indented raw string.
func LongDesc(s string) string {
	return strings.TrimSpace(s)
}

// Examples trims a command's examples and indents every line, dropping any indentation the
// source string carried.
func Examples(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = Indentation + strings.TrimSpace(line)
	}

	return strings.Join(lines, "\n")
}
