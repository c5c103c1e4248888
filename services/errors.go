package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrValidation marks a malformed or missing required input field. It is
// fatal and aborts the write before anything is persisted.
var ErrValidation = errors.New("validation failed")

// ErrNotFound is returned when the addressed record does not exist.
var ErrNotFound = errors.New("record not found")

// IsDuplicateKeyError reports whether err is a unique-constraint violation.
// Used to turn an insert race on a natural key (DOI, keyword name/slug) into
// "attach to the existing record" instead of a hard failure. MySQL surfaces
// error 1062, SQLite a UNIQUE constraint message.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Error 1062") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
