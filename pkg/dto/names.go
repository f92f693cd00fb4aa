package dto

import "strings"

// FullName joins first and last name and trims the result, so a missing half
// does not leave a dangling space.
func FullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
