package auth

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/anndream/diucse-alumni-admin/internal/config"
	"github.com/anndream/diucse-alumni-admin/internal/model"
	"github.com/anndream/diucse-alumni-admin/internal/routes"
	"github.com/anndream/diucse-alumni-admin/internal/session"
	"github.com/anndream/diucse-alumni-admin/internal/util"
	"github.com/anndream/diucse-alumni-admin/internal/validate"
)

type signinForm struct {
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

var signinMessages = validate.Messages{
	"username.required": "Username or Email is required",
	"username.email":    "Email address is invalid",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters",
}

// Email is checked before username; only the first problem is reported.
type resetForm struct {
	Email    string `json:"email" validate:"required"`
	Username string `json:"username" validate:"required"`
}

var resetMessages = validate.Messages{
	"email.required":    config.ErrEmailRequired,
	"username.required": config.ErrUsernameRequired,
}

// ValidateSignin applies the sign in form rules to a username and password.
func ValidateSignin(username, password string) []validate.FieldError {
	return validate.Struct(signinForm{Username: username, Password: password}, signinMessages)
}

func fieldErrors(errs []validate.FieldError) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	m := make(map[string]string, len(errs))
	for _, e := range errs {
		m[e.Field] = e.Message
	}
	return m
}

func render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, status int, data any) {
	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to render template")
	}
}

func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		render(w, r, h.signinTmpl, http.StatusOK, &model.AuthForm{PageData: NewPageData(w, r, "Sign in")})
	case http.MethodPost:
		h.signinSubmit(w, r)
	default:
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

func (h *Handler) signinSubmit(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())
	form := signinForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	data := &model.AuthForm{PageData: NewPageData(w, r, "Sign in"), Username: form.Username}

	if errs := ValidateSignin(form.Username, form.Password); len(errs) > 0 {
		data.Errors = fieldErrors(errs)
		render(w, r, h.signinTmpl, http.StatusUnprocessableEntity, data)
		return
	}

	resp, err := h.client.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		data.Alert = loginFailureMessage(err)
		l.Warn().Err(err).Str("username", form.Username).Msg("Login failed")
		render(w, r, h.signinTmpl, http.StatusOK, data)
		return
	}
	if resp.AccessToken == "" {
		data.Alert = config.ErrSomethingWrong
		l.Warn().Str("username", form.Username).Msg("Login response carried no token")
		render(w, r, h.signinTmpl, http.StatusOK, data)
		return
	}

	sid, _ := session.IDFromContext(r.Context())
	if err := h.tokens.Set(r.Context(), sid, h.tokenKey, resp.AccessToken); err != nil {
		l.Error().Err(err).Msg("Failed to store session token")
		data.Alert = config.ErrSomethingWrong
		render(w, r, h.signinTmpl, http.StatusOK, data)
		return
	}

	l.Info().Str("username", form.Username).Msg("Signed in")
	util.SetAlert(w, config.MsgLoginSuccessful)
	http.Redirect(w, r, routes.RootPath, http.StatusSeeOther)
}

func loginFailureMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return config.ErrLoginFailed
	}
	return config.ErrSomethingWrong
}

func (h *Handler) Signout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}
	if sid, ok := session.IDFromContext(r.Context()); ok {
		if err := h.tokens.Delete(r.Context(), sid, h.tokenKey); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to delete session token")
		}
	}
	http.Redirect(w, r, routes.SigninPath, http.StatusSeeOther)
}

func (h *Handler) ResetRequest(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		render(w, r, h.resetTmpl, http.StatusOK, &model.AuthForm{PageData: NewPageData(w, r, "Reset password")})
	case http.MethodPost:
		h.resetSubmit(w, r)
	default:
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

func (h *Handler) resetSubmit(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())
	form := resetForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Username: strings.TrimSpace(r.PostFormValue("username")),
	}
	data := &model.AuthForm{
		PageData: NewPageData(w, r, "Reset password"),
		Username: form.Username,
		Email:    form.Email,
	}

	if errs := validate.Struct(form, resetMessages); len(errs) > 0 {
		data.Alert = errs[0].Message
		render(w, r, h.resetTmpl, http.StatusUnprocessableEntity, data)
		return
	}

	resp, err := h.client.ForgotPassword(r.Context(), form.Username, form.Email)
	var apiErr *APIError
	switch {
	case err == nil:
		data.Alert = resp.Message
		l.Info().Str("username", form.Username).Msg("Password reset requested")
	case errors.As(err, &apiErr):
		data.Alert = apiErr.Message
		if data.Alert == "" {
			data.Alert = config.ErrGenericRequest
		}
		l.Warn().Err(err).Msg("Password reset rejected")
	default:
		data.Alert = config.ErrFailedToSend
		l.Error().Err(err).Msg("Password reset request failed")
	}
	render(w, r, h.resetTmpl, http.StatusOK, data)
}
