// Package render turns committed News and Event records into read-only views
// for the list screens, including Markdown rendering of article content.
package render

import (
	"fmt"
	"html"
	"io"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/rs/zerolog"

	"github.com/anndream/diucse-alumni-admin/internal/cache"
	"github.com/anndream/diucse-alumni-admin/internal/util"
)

var renderLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

func escape(s string) string {
	return html.EscapeString(s)
}

// RenderMarkdown renders article content. Raw HTML in the source is dropped
// and fenced code blocks are highlighted.
func RenderMarkdown(md []byte, highlightTheme string) []byte {
	opts := md_html.RendererOptions{
		Flags: md_html.CommonFlags | md_html.SkipHTML | md_html.Safelink | md_html.HrefTargetBlank | md_html.NoopenerLinks | md_html.NoreferrerLinks,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if code, ok := node.(*ast.CodeBlock); ok && entering {
				var lang string
				if info := code.Info; info != nil {
					lang = string(info)
				}
				fmt.Fprintf(w, "<div class=\"highlight\">%s</div>", HighlightCode(string(code.Literal), lang, highlightTheme))
				return ast.GoToNext, true
			}
			return ast.GoToNext, false
		},
	}

	doc := parser.NewWithExtensions(
		parser.CommonExtensions | parser.NoEmptyLineBeforeBlock | parser.HardLineBreak,
	).Parse(markdown.NormalizeNewlines(md))

	return markdown.Render(doc, md_html.NewRenderer(opts))
}

// Guards the check-render-set sequence in RenderMarkdownCached
var renderCacheMutex sync.Mutex

// RenderMarkdownCached renders md once per content hash and highlight theme.
func RenderMarkdownCached(md []byte, highlightTheme string) []byte {
	contentHash := util.ContentHash(md)

	if cached, found := cache.GetRenderedMarkdown(contentHash, highlightTheme); found {
		return cached.HTML
	}

	renderCacheMutex.Lock()
	defer renderCacheMutex.Unlock()

	if cached, found := cache.GetRenderedMarkdown(contentHash, highlightTheme); found {
		return cached.HTML
	}

	renderLogger.Debug().Str("contentHash", contentHash).Str("highlightTheme", highlightTheme).Msg("Cache miss for rendered markdown")
	rendered := RenderMarkdown(md, highlightTheme)
	cache.SetRenderedMarkdown(contentHash, highlightTheme, rendered)
	return rendered
}
