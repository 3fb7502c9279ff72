// Package model defines the News and Event records managed by the dashboard,
// their drafts, and the editor kinds that tie them to the generic engine.
package model

import (
	"errors"
	"fmt"
)

var ErrFieldType = errors.New("wrong value type for field")

func ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func fieldTypeErr(field string, value any) error {
	return fmt.Errorf("%s: %w: %T", field, ErrFieldType, value)
}

func asString(field string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fieldTypeErr(field, value)
	}
	return s, nil
}
