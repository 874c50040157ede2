package services

import (
	"strings"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

// validID reports whether id can name a row at all. Anything else is
// treated as a reference to something that does not exist.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// nonBlank maps a blank optional string to "unspecified".
func nonBlank(s *string) *string {
	if s == nil || blank(*s) {
		return nil
	}
	return s
}
