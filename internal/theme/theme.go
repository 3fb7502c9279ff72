// Package theme resolves the light/dark dashboard theme and the matching
// syntax highlighting stylesheet.
package theme

import (
	"html/template"
	"net/http"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/anndream/diucse-alumni-admin/internal/cache"
	"github.com/anndream/diucse-alumni-admin/internal/config"
)

func defaultTheme() string {
	if config.AppConfig != nil && IsKnown(config.AppConfig.Theme.Default) {
		return config.AppConfig.Theme.Default
	}
	return config.DefaultTheme
}

func IsKnown(theme string) bool {
	return slices.Contains(config.Themes, theme)
}

// GetThemeFromRequest returns the theme stored in the cookie, falling back to
// the configured default for missing or unknown values.
func GetThemeFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(config.CookieTheme); err == nil && IsKnown(cookie.Value) {
		return cookie.Value
	}
	return defaultTheme()
}

func Opposite(theme string) string {
	if theme == config.DarkTheme {
		return config.LightTheme
	}
	return config.DarkTheme
}

// SetThemeCookie persists the chosen theme for a year.
func SetThemeCookie(w http.ResponseWriter, theme string) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieTheme,
		Value:    theme,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func SyntaxThemeFor(theme string) string {
	light, dark := config.DefaultLightSyntaxTheme, config.DefaultDarkSyntaxTheme
	if config.AppConfig != nil {
		light = config.AppConfig.Theme.SyntaxHighlighting.DefaultLight
		dark = config.AppConfig.Theme.SyntaxHighlighting.DefaultDark
	}
	if theme == config.DarkTheme {
		return dark
	}
	return light
}

func GetFormatter() *html.Formatter {
	return html.New(
		html.WithClasses(true),
		html.TabWidth(4),
		html.WrapLongLines(true),
	)
}

// GenerateSyntaxCSS returns the chroma stylesheet for the named style.
// Unknown names fall back to chroma's default style.
func GenerateSyntaxCSS(style string) template.CSS {
	return cache.SyntaxCSS(style, func() template.CSS {
		var buf strings.Builder
		s := styles.Get(style)

		bg := s.Get(chroma.Background)
		if !bg.Colour.IsSet() {
			// Pick a readable text colour when the style only sets a background
			luminance := (0.299*float64(bg.Background.Red()) +
				0.587*float64(bg.Background.Green()) +
				0.114*float64(bg.Background.Blue())) / 255
			if luminance > 0.5 {
				buf.WriteString(".chroma { color: #181818; }\n")
			}
		}

		if err := GetFormatter().WriteCSS(&buf, s); err != nil {
			return ""
		}
		return template.CSS(buf.String())
	})
}

// GetThemeIcon returns the icon of the theme a toggle would switch to.
func GetThemeIcon(theme string) template.HTML {
	return template.HTML(config.ThemeIcons[Opposite(theme)])
}
