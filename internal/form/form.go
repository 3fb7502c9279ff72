// Package form maps submitted form controls onto draft fields, coercing each
// raw value to the type the field expects.
package form

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

type FieldType int

const (
	Text FieldType = iota
	Number
	Checkbox
	DateTime
	URL
)

// Field is one form control bound to a draft field of the same name.
type Field struct {
	Name string
	Type FieldType
}

// Setter is the draft holder side of the binding.
type Setter interface {
	Set(field string, value any) error
}

var (
	ErrNotANumber = errors.New("not a number")
	ErrNegative   = errors.New("must not be negative")
)

// CoerceError reports a raw input that could not be converted.
type CoerceError struct {
	Field string
	Raw   string
	Err   error
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("%s: cannot use %q: %v", e.Field, e.Raw, e.Err)
}

func (e *CoerceError) Unwrap() error { return e.Err }

// Coerce converts the raw control value for f. For checkboxes only checked
// matters.
func Coerce(f Field, raw string, checked bool) (any, error) {
	switch f.Type {
	case Checkbox:
		return checked, nil
	case Number:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return 0.0, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &CoerceError{Field: f.Name, Raw: raw, Err: ErrNotANumber}
		}
		if v < 0 {
			return nil, &CoerceError{Field: f.Name, Raw: raw, Err: ErrNegative}
		}
		return v, nil
	default:
		return raw, nil
	}
}

// BindField coerces and sets a single control, the way a change event on one
// input does.
func BindField(s Setter, fields []Field, name, raw string, checked bool) error {
	f, ok := lookup(fields, name)
	if !ok {
		return fmt.Errorf("%s: %w", name, errUnbound)
	}
	v, err := Coerce(f, raw, checked)
	if err != nil {
		return err
	}
	return s.Set(f.Name, v)
}

var errUnbound = errors.New("no such form control")

// BindAll binds every declared control present in values. Browsers omit
// unchecked checkboxes, so a checkbox missing from values is bound as false.
// Coercion failures leave the field untouched; all of them are returned.
func BindAll(s Setter, fields []Field, values url.Values) error {
	var errs []error
	for _, f := range fields {
		if f.Type == Checkbox {
			if err := s.Set(f.Name, checkedIn(values, f.Name)); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if !values.Has(f.Name) {
			continue
		}
		v, err := Coerce(f, values.Get(f.Name), false)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := s.Set(f.Name, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkedIn(values url.Values, name string) bool {
	if !values.Has(name) {
		return false
	}
	switch strings.ToLower(values.Get(name)) {
	case "", "0", "false", "off":
		return false
	}
	return true
}

func lookup(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
