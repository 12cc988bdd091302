package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParentNotFound is returned when a group or word references a parent that does not exist
	ErrParentNotFound = errors.New("parent record not found")
	// ErrDuplicateID is returned when an add supplies an id that is already stored
	ErrDuplicateID = errors.New("record id already exists")
)

// ValidationError describes a rejected field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
