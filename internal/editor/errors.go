package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anndream/diucse-alumni-admin/internal/validate"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrStaleDraft   = errors.New("draft was replaced")
	ErrUnknownField = errors.New("unknown field")
)

type FieldError = validate.FieldError

// ValidationError is returned by Commit when required fields are missing.
type ValidationError struct {
	Kind   string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("%s: validation failed: %s", e.Kind, strings.Join(parts, "; "))
}

// For returns the message for field, or "" when the field is valid.
func (e *ValidationError) For(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}
