// Package auth signs the dashboard in against the alumni API and keeps the
// returned access token for the browser session.
package auth

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/anndream/diucse-alumni-admin/internal/model"
	"github.com/anndream/diucse-alumni-admin/internal/repository"
	"github.com/anndream/diucse-alumni-admin/internal/session"
	"github.com/anndream/diucse-alumni-admin/internal/util"
)

var authLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	authLogger = l
}

// Handler serves the sign in and password reset screens.
type Handler struct {
	client   *Client
	tokens   repository.KVRepository
	tokenKey string

	signinTmpl *template.Template
	resetTmpl  *template.Template
}

func NewHandler(client *Client, tokens repository.KVRepository, tokenKey string, signinTmpl, resetTmpl *template.Template) *Handler {
	return &Handler{
		client:     client,
		tokens:     tokens,
		tokenKey:   tokenKey,
		signinTmpl: signinTmpl,
		resetTmpl:  resetTmpl,
	}
}

// WithToken loads the session's stored token into the request context.
func WithToken(tokens repository.KVRepository, tokenKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := session.IDFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			token, err := tokens.Get(r.Context(), id, tokenKey)
			switch {
			case err == nil:
				r = r.WithContext(ContextWithToken(r.Context(), token))
			case !errors.Is(err, repository.ErrNotFound):
				zerolog.Ctx(r.Context()).Warn().Err(err).Msg("Failed to load session token")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NewPageData builds the layout data for a screen, consuming any pending
// alert.
func NewPageData(w http.ResponseWriter, r *http.Request, title string) *model.PageData {
	pd := model.NewPageData(r, title)
	pd.Alert = util.PopAlert(w, r)
	pd.SignedIn = SignedIn(r.Context())
	return pd
}
