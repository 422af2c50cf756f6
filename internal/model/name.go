package model

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeName collapses runs of whitespace and trims an employee name,
// so that "Kidwell ,  Austin" and "Kidwell , Austin" compare equal.
func NormalizeName(name string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(name), " ")
}

// ParseEmployeeName splits a raw "Last, First" employee name into first
// and last name. Names without a comma are treated as a bare last name.
func ParseEmployeeName(full string) (first, last string) {
	full = NormalizeName(full)
	if full == "" {
		return "", ""
	}

	if idx := strings.Index(full, ","); idx >= 0 {
		last = strings.TrimSpace(full[:idx])
		first = strings.TrimSpace(full[idx+1:])
		return first, last
	}
	return "", full
}
