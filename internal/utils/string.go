package utils

import "strings"

// ParseBool reports whether s is "true", ignoring case and surrounding space.
// Anything else, including "1" and "yes", is false.
func ParseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
