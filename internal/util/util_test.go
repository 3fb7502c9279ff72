package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anndream/diucse-alumni-admin/internal/config"
)

func TestContentHash(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected string
	}{
		{"empty", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"hello", "hello", "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ContentHash([]byte(tc.content)); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestAlertCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetAlert(rec, "Login successful!")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != config.CookieAlert {
		t.Fatalf("Expected alert cookie, got %+v", cookies)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()

	if got := PopAlert(rec, req); got != "Login successful!" {
		t.Errorf("Expected alert text, got %q", got)
	}
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Errorf("Expected alert cookie to be cleared, got %+v", cleared)
	}
}

func TestPopAlertWithoutCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := PopAlert(httptest.NewRecorder(), req); got != "" {
		t.Errorf("Expected no alert, got %q", got)
	}
}
