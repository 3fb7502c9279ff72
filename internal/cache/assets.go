package cache

import (
	"html/template"

	"github.com/anndream/diucse-alumni-admin/internal/util"
)

var (
	staticETags = NewCache[string, string]()
	syntaxCSS   = NewCache[string, template.CSS]()
)

// StaticETag returns the ETag recorded for the file served at urlPath.
func StaticETag(urlPath string) (string, bool) {
	return staticETags.Get(urlPath)
}

// SetStaticETag records a strong ETag derived from the file's content.
func SetStaticETag(urlPath string, content []byte) {
	staticETags.Set(urlPath, `"`+util.ContentHash(content)+`"`)
}

// SyntaxCSS returns the stylesheet for style, building it with generate the
// first time the style is asked for.
func SyntaxCSS(style string, generate func() template.CSS) template.CSS {
	css, _ := syntaxCSS.GetOrCreate(style, generate)
	return css
}
