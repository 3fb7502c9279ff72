package validate

import (
	"reflect"
	"testing"
)

type signin struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestStruct(t *testing.T) {
	msgs := Messages{
		"username.required": "Username or Email is required",
		"username.email":    "Email address is invalid",
	}

	testCases := []struct {
		name     string
		input    signin
		expected []FieldError
	}{
		{
			name:     "valid",
			input:    signin{Username: "a@b.co", Password: "secret1"},
			expected: nil,
		},
		{
			name:  "all missing",
			input: signin{},
			expected: []FieldError{
				{"username", "Username or Email is required"},
				{"password", "is required"},
			},
		},
		{
			name:  "bad email and short password",
			input: signin{Username: "nobody", Password: "123"},
			expected: []FieldError{
				{"username", "Email address is invalid"},
				{"password", "must be at least 6 characters"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Struct(tc.input, msgs)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestStructURLAndGte(t *testing.T) {
	type ev struct {
		MapURL string  `json:"mapUrl" validate:"omitempty,url"`
		Fee    float64 `json:"fee" validate:"gte=0"`
	}

	if errs := Struct(ev{MapURL: "", Fee: 0}, nil); errs != nil {
		t.Errorf("Expected empty url to pass, got %v", errs)
	}

	errs := Struct(ev{MapURL: "not a url", Fee: -1}, nil)
	if len(errs) != 2 || errs[0].Field != "mapUrl" || errs[1].Field != "fee" {
		t.Errorf("Expected mapUrl and fee errors, got %v", errs)
	}
}
