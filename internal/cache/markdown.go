package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// RenderedMarkdownTTL is how long rendered Markdown is kept after its last use.
const RenderedMarkdownTTL = time.Hour

// RenderedContent is Markdown already turned into HTML.
type RenderedContent struct {
	HTML []byte
}

var renderedMarkdown = gocache.New(RenderedMarkdownTTL, 10*time.Minute)

func renderedKey(contentHash, syntaxTheme string) string {
	return contentHash + ":" + syntaxTheme
}

// GetRenderedMarkdown returns a cached render and extends its lifetime.
func GetRenderedMarkdown(contentHash, syntaxTheme string) (*RenderedContent, bool) {
	key := renderedKey(contentHash, syntaxTheme)
	v, found := renderedMarkdown.Get(key)
	if !found {
		return nil, false
	}
	rc := v.(*RenderedContent)
	renderedMarkdown.Set(key, rc, gocache.DefaultExpiration)
	return rc, true
}

func SetRenderedMarkdown(contentHash, syntaxTheme string, html []byte) {
	renderedMarkdown.Set(renderedKey(contentHash, syntaxTheme), &RenderedContent{HTML: html}, gocache.DefaultExpiration)
}

// ForgetRenderedMarkdown drops the renders of one content hash for the given
// syntax themes.
func ForgetRenderedMarkdown(contentHash string, syntaxThemes ...string) {
	for _, theme := range syntaxThemes {
		renderedMarkdown.Delete(renderedKey(contentHash, theme))
	}
}

func RenderedMarkdownLen() int {
	return renderedMarkdown.ItemCount()
}

func ClearRenderedMarkdownCache() {
	renderedMarkdown.Flush()
}
