package theme

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anndream/diucse-alumni-admin/internal/cache"
	"github.com/anndream/diucse-alumni-admin/internal/config"
)

func TestGenerateSyntaxCSS(t *testing.T) {
	testCases := []struct {
		name  string
		style string
	}{
		{name: "Light default", style: "catppuccin-latte"},
		{name: "Dark default", style: "gruvbox"},
		{name: "Unknown style falls back", style: "nonexistent-style-12345"},
		{name: "Empty style name", style: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			css1 := GenerateSyntaxCSS(tc.style)
			if !strings.Contains(string(css1), ".chroma") {
				t.Errorf("Expected CSS to contain '.chroma' class")
			}

			cached := cache.SyntaxCSS(tc.style, func() template.CSS {
				t.Fatal("Expected CSS to be cached")
				return ""
			})
			if cached != css1 {
				t.Error("Cached CSS does not match generated CSS")
			}

			if css2 := GenerateSyntaxCSS(tc.style); css1 != css2 {
				t.Error("Expected second call to return identical CSS from cache")
			}
		})
	}
}

func TestGetThemeFromRequest(t *testing.T) {
	setupMockConfig(t)

	testCases := []struct {
		name          string
		cookieValue   string
		hasCookie     bool
		expectedTheme string
	}{
		{name: "No cookie - use default", expectedTheme: config.DarkTheme},
		{name: "Light theme cookie", cookieValue: config.LightTheme, hasCookie: true, expectedTheme: config.LightTheme},
		{name: "Dark theme cookie", cookieValue: config.DarkTheme, hasCookie: true, expectedTheme: config.DarkTheme},
		{name: "Unknown cookie - use default", cookieValue: "custom", hasCookie: true, expectedTheme: config.DarkTheme},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.hasCookie {
				req.AddCookie(&http.Cookie{Name: config.CookieTheme, Value: tc.cookieValue})
			}

			if got := GetThemeFromRequest(req); got != tc.expectedTheme {
				t.Errorf("Expected theme %s, got %s", tc.expectedTheme, got)
			}
		})
	}
}

func TestOpposite(t *testing.T) {
	if Opposite(config.LightTheme) != config.DarkTheme {
		t.Error("Expected light to toggle to dark")
	}
	if Opposite(config.DarkTheme) != config.LightTheme {
		t.Error("Expected dark to toggle to light")
	}
	if Opposite("garbage") != config.DarkTheme {
		t.Error("Expected unknown theme to toggle to dark")
	}
}

func TestSyntaxThemeFor(t *testing.T) {
	setupMockConfig(t)

	if got := SyntaxThemeFor(config.DarkTheme); got != "gruvbox" {
		t.Errorf("Expected gruvbox for dark theme, got %s", got)
	}
	if got := SyntaxThemeFor(config.LightTheme); got != "catppuccin-latte" {
		t.Errorf("Expected catppuccin-latte for light theme, got %s", got)
	}
}

func TestSetThemeCookie(t *testing.T) {
	w := httptest.NewRecorder()
	SetThemeCookie(w, config.DarkTheme)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].Name != config.CookieTheme || cookies[0].Value != config.DarkTheme {
		t.Errorf("Unexpected cookie %+v", cookies[0])
	}
}

func TestGetThemeIcon(t *testing.T) {
	if GetThemeIcon(config.LightTheme) != template.HTML(config.DarkThemeIcon) {
		t.Error("Expected light theme to offer the dark icon")
	}
	if GetThemeIcon(config.DarkTheme) != template.HTML(config.LightThemeIcon) {
		t.Error("Expected dark theme to offer the light icon")
	}
}

func setupMockConfig(t *testing.T) {
	t.Helper()
	original := config.AppConfig
	t.Cleanup(func() { config.AppConfig = original })

	config.AppConfig = &config.Config{
		Theme: config.ThemeConfig{
			Default: config.DarkTheme,
			SyntaxHighlighting: config.SyntaxConfig{
				DefaultDark:  "gruvbox",
				DefaultLight: "catppuccin-latte",
			},
		},
	}
}

func BenchmarkGenerateSyntaxCSS(b *testing.B) {
	GenerateSyntaxCSS("monokai")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateSyntaxCSS("monokai")
	}
}
