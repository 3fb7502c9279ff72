package model

import (
	"html/template"
	"net/http"

	"github.com/anndream/diucse-alumni-admin/internal/config"
	"github.com/anndream/diucse-alumni-admin/internal/routes"
	"github.com/anndream/diucse-alumni-admin/internal/theme"
)

// PageData is shared by every screen rendered inside the layout shell.
type PageData struct {
	SiteName string
	Title    string

	PageURL string

	Theme     string
	ThemeIcon template.HTML
	SyntaxCSS template.CSS

	Nav []routes.NavItem

	// Alert is a one-shot message shown as a dialog on page load.
	Alert string

	SignedIn bool
}

func NewPageData(r *http.Request, title string) *PageData {
	t := theme.GetThemeFromRequest(r)
	siteName := ""
	if config.AppConfig != nil {
		siteName = config.AppConfig.Site.Name
	}
	return &PageData{
		SiteName:  siteName,
		Title:     title,
		PageURL:   r.URL.Path,
		Theme:     t,
		ThemeIcon: theme.GetThemeIcon(t),
		SyntaxCSS: theme.GenerateSyntaxCSS(theme.SyntaxThemeFor(t)),
		Nav:       routes.Sidebar,
	}
}

// IsActive reports whether path is the current screen.
func (pd *PageData) IsActive(path string) bool {
	return pd.PageURL == path
}

// Stat is one dashboard card.
type Stat struct {
	Label string
	Value int
}

type HomeData struct {
	*PageData
	Tagline string
	Stats   []Stat
}

// EditorPage is the data behind the News and Event screens. R is the list
// item view, D the draft.
type EditorPage[R any, D any] struct {
	*PageData

	// Screen is the path the form actions are mounted under.
	Screen string
	// Accept is the image picker's accept attribute.
	Accept string

	Draft       D
	Editing     bool
	FormVisible bool
	Errors      map[string]string
	// Generation identifies the draft the form was rendered for.
	Generation uint64

	Items []R
}

// AuthForm carries submitted values back into the sign in and reset forms.
type AuthForm struct {
	*PageData
	Username string
	Email    string
	Errors   map[string]string
}
