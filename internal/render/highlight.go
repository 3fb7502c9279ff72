package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/anndream/diucse-alumni-admin/internal/theme"
)

// HighlightCode renders code as chroma markup. The markup uses classes, so the
// colours come from the stylesheet of the active theme. On failure the code is
// returned escaped and unhighlighted.
func HighlightCode(code, language, highlightTheme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		renderLogger.Warn().Err(err).Str("language", language).Msg("Failed to tokenise code block")
		return "<pre>" + escape(code) + "</pre>"
	}

	var buf strings.Builder
	if err := theme.GetFormatter().Format(&buf, styles.Get(highlightTheme), iterator); err != nil {
		renderLogger.Warn().Err(err).Str("language", language).Msg("Failed to format code block")
		return "<pre>" + escape(code) + "</pre>"
	}
	return buf.String()
}
