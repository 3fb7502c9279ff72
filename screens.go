package main

import (
	"errors"
	"fmt"
	"html/template"
	"iter"
	"net/http"
	"slices"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/anndream/diucse-alumni-admin/internal/auth"
	"github.com/anndream/diucse-alumni-admin/internal/config"
	"github.com/anndream/diucse-alumni-admin/internal/editor"
	"github.com/anndream/diucse-alumni-admin/internal/form"
	"github.com/anndream/diucse-alumni-admin/internal/ingest"
	"github.com/anndream/diucse-alumni-admin/internal/model"
	"github.com/anndream/diucse-alumni-admin/internal/render"
	"github.com/anndream/diucse-alumni-admin/internal/routes"
	"github.com/anndream/diucse-alumni-admin/internal/session"
	"github.com/anndream/diucse-alumni-admin/internal/theme"
	"github.com/anndream/diucse-alumni-admin/internal/util"
)

// screen serves one management screen: a list of records of type R, a draft
// of type D and the list item view V.
type screen[R any, D any, V any] struct {
	path  string
	title string
	tmpl  *template.Template

	fields []form.Field
	image  string
	policy ingest.Policy

	sessions *session.Manager
	editorOf func(*session.Workspace) *editor.Editor[R, D]
	view     func([]R, render.Options) iter.Seq[V]
}

func (s *screen[R, D, V]) register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+s.path, s.servePage)
	mux.HandleFunc("POST "+routes.Action(s.path, routes.ActionNew), s.serveNew)
	mux.HandleFunc("POST "+routes.Action(s.path, routes.ActionEdit), s.serveEdit)
	mux.HandleFunc("POST "+routes.Action(s.path, routes.ActionField), s.serveField)
	mux.HandleFunc("POST "+routes.Action(s.path, routes.ActionImage), s.serveImage)
	mux.HandleFunc("POST "+routes.Action(s.path, routes.ActionCommit), s.serveCommit)
	mux.HandleFunc("POST "+routes.Action(s.path, routes.ActionCancel), s.serveCancel)
	mux.HandleFunc("POST "+routes.Action(s.path, routes.ActionClear), s.serveClear)
	mux.HandleFunc("POST "+routes.Action(s.path, routes.ActionDelete), s.serveDelete)
}

func (s *screen[R, D, V]) editor(r *http.Request) *editor.Editor[R, D] {
	return s.editorOf(s.sessions.FromRequest(r))
}

func (s *screen[R, D, V]) back(w http.ResponseWriter, r *http.Request, alert string) {
	if alert != "" {
		util.SetAlert(w, alert)
	}
	http.Redirect(w, r, s.path, http.StatusSeeOther)
}

func (s *screen[R, D, V]) servePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.editor(r), http.StatusOK, "", nil)
}

func (s *screen[R, D, V]) render(w http.ResponseWriter, r *http.Request, ed *editor.Editor[R, D], status int, alert string, extra map[string]string) {
	snap := ed.Snapshot()

	pd := auth.NewPageData(w, r, s.title)
	if alert != "" {
		pd.Alert = alert
	}
	opts := render.Options{HighlightTheme: theme.SyntaxThemeFor(pd.Theme)}

	errs := make(map[string]string, len(snap.Errors)+len(extra))
	for _, fe := range snap.Errors {
		errs[fe.Field] = fe.Message
	}
	for field, msg := range extra {
		errs[field] = msg
	}

	data := &model.EditorPage[V, D]{
		PageData:    pd,
		Screen:      s.path,
		Accept:      s.policy.AcceptAttr(),
		Draft:       snap.Draft,
		Editing:     snap.Editing,
		FormVisible: snap.FormVisible,
		Errors:      errs,
		Generation:  snap.Generation,
		Items:       slices.Collect(s.view(ed.Records(), opts)),
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("screen", s.path).Msg("Failed to render template")
	}
}

func (s *screen[R, D, V]) serveNew(w http.ResponseWriter, r *http.Request) {
	s.editor(r).OpenCreate()
	s.back(w, r, "")
}

func (s *screen[R, D, V]) serveEdit(w http.ResponseWriter, r *http.Request) {
	id, err := editor.ParseRecordID(r.PathValue("id"))
	if err != nil {
		s.back(w, r, config.ErrRecordNotFound)
		return
	}
	if err := s.editor(r).StartEditByID(id); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Stringer("id", id).Msg("Cannot edit record")
		s.back(w, r, config.ErrRecordNotFound)
		return
	}
	s.back(w, r, "")
}

// serveField binds a single control. It answers 204 so scripts can call it on
// every change event.
func (s *screen[R, D, V]) serveField(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := pinned(r, s.editor(r))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := r.PostForm.Get("name")
	err = form.BindField(p, s.fields, name, r.PostForm.Get("value"), r.PostForm.Get("checked") == "true")
	switch {
	case errors.Is(err, editor.ErrStaleDraft):
		http.Error(w, config.ErrDraftReplaced, http.StatusConflict)
	case err != nil:
		http.Error(w, fieldMessage(err), http.StatusUnprocessableEntity)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *screen[R, D, V]) serveImage(w http.ResponseWriter, r *http.Request) {
	ed, p, ok := s.pin(w, r)
	if !ok {
		return
	}
	alert, errs, err := s.absorb(r, ed, p)
	if s.stale(w, r, err) {
		return
	}
	if len(errs) > 0 {
		s.render(w, r, ed, http.StatusUnprocessableEntity, alert, errs)
		return
	}
	s.back(w, r, alert)
}

func (s *screen[R, D, V]) serveCommit(w http.ResponseWriter, r *http.Request) {
	l := zerolog.Ctx(r.Context())
	ed, p, ok := s.pin(w, r)
	if !ok {
		return
	}

	alert, errs, err := s.absorb(r, ed, p)
	if s.stale(w, r, err) {
		return
	}
	if len(errs) > 0 {
		s.render(w, r, ed, http.StatusUnprocessableEntity, alert, errs)
		return
	}

	id, err := p.Commit()
	var verr *editor.ValidationError
	switch {
	case s.stale(w, r, err):
		return
	case errors.As(err, &verr):
		if alert == "" {
			alert = config.ErrValidationFailed
		}
		s.render(w, r, ed, http.StatusUnprocessableEntity, alert, nil)
		return
	case err != nil:
		l.Error().Err(err).Str("screen", s.path).Msg("Commit failed")
		s.back(w, r, config.ErrInternalServerErr)
		return
	}

	l.Info().Str("screen", s.path).Stringer("id", id).Msg("Committed")
	s.back(w, r, alert)
}

func (s *screen[R, D, V]) serveCancel(w http.ResponseWriter, r *http.Request) {
	_, p, ok := s.pin(w, r)
	if !ok {
		return
	}
	if s.stale(w, r, p.Cancel()) {
		return
	}
	s.back(w, r, "")
}

// serveClear empties every field but keeps the form open in its mode.
func (s *screen[R, D, V]) serveClear(w http.ResponseWriter, r *http.Request) {
	_, p, ok := s.pin(w, r)
	if !ok {
		return
	}
	if s.stale(w, r, p.ResetDraft()) {
		return
	}
	s.back(w, r, "")
}

func (s *screen[R, D, V]) serveDelete(w http.ResponseWriter, r *http.Request) {
	id, err := editor.ParseRecordID(r.PathValue("id"))
	if err == nil {
		s.editor(r).Delete(id)
	}
	s.back(w, r, "")
}

const generationField = "generation"

// pinned ties a request to the draft generation its page was rendered with.
// Requests that carry no generation act on the current draft.
func pinned[R any, D any](r *http.Request, ed *editor.Editor[R, D]) (editor.Pinned[R, D], error) {
	raw := r.FormValue(generationField)
	if raw == "" {
		return ed.Pin(ed.BeginIngest()), nil
	}
	gen, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return editor.Pinned[R, D]{}, fmt.Errorf("bad %s %q: %w", generationField, raw, err)
	}
	return ed.Pin(editor.Ticket{Generation: gen}), nil
}

func (s *screen[R, D, V]) pin(w http.ResponseWriter, r *http.Request) (*editor.Editor[R, D], editor.Pinned[R, D], bool) {
	ed := s.editor(r)
	p, err := pinned(r, ed)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, p, false
	}
	return ed, p, true
}

// stale answers a request whose draft was replaced meanwhile and reports
// whether it did.
func (s *screen[R, D, V]) stale(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, editor.ErrStaleDraft) {
		return false
	}
	zerolog.Ctx(r.Context()).Warn().Str("screen", s.path).Msg("Discarding submission for replaced draft")
	s.back(w, r, config.ErrDraftReplaced)
	return true
}

// absorb applies a submitted form to the pinned draft: the picked image
// first, then every declared control. It returns an alert for the image and
// field errors for controls whose values could not be used, or ErrStaleDraft
// when the draft was replaced.
func (s *screen[R, D, V]) absorb(r *http.Request, ed *editor.Editor[R, D], p editor.Pinned[R, D]) (string, map[string]string, error) {
	l := zerolog.Ctx(r.Context())

	var alert string
	out := ingest.FromRequest(r, s.image, s.policy)
	switch {
	case out.OK():
		if err := ed.CompleteIngest(p.Ticket(), out.DataURL); err != nil {
			return "", nil, err
		}
	case errors.Is(out.Err, ingest.ErrNoFile):
	default:
		l.Warn().Err(out.Err).Str("screen", s.path).Msg("Image rejected")
		alert = config.ErrImageRejected
	}

	if err := r.ParseForm(); err != nil {
		return alert, map[string]string{"form": err.Error()}, nil
	}
	err := form.BindAll(p, s.fields, r.PostForm)
	if errors.Is(err, editor.ErrStaleDraft) {
		return "", nil, editor.ErrStaleDraft
	}
	return alert, fieldErrors(err), nil
}

func fieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	m := make(map[string]string, len(errs))
	for _, e := range errs {
		var ce *form.CoerceError
		if errors.As(e, &ce) {
			m[ce.Field] = fieldMessage(ce)
			continue
		}
		m["form"] = e.Error()
	}
	return m
}

func fieldMessage(err error) string {
	switch {
	case errors.Is(err, form.ErrNotANumber):
		return config.ErrInvalidNumber
	case errors.Is(err, form.ErrNegative):
		return config.ErrNegativeNumber
	}
	return err.Error()
}

func (a *app) serveAddTag(w http.ResponseWriter, r *http.Request) {
	a.news.tagAction(w, r, func(d model.NewsDraft) model.NewsDraft {
		next, _ := model.AddPendingTag(d)
		return next
	})
}

func (a *app) serveRemoveTag(w http.ResponseWriter, r *http.Request) {
	tag := r.FormValue("tag")
	a.news.tagAction(w, r, func(d model.NewsDraft) model.NewsDraft {
		return model.RemoveTag(d, tag)
	})
}

// tagAction absorbs the form and then applies fn to the same draft.
func (s *screen[R, D, V]) tagAction(w http.ResponseWriter, r *http.Request, fn func(D) D) {
	ed, p, ok := s.pin(w, r)
	if !ok {
		return
	}
	alert, errs, err := s.absorb(r, ed, p)
	if s.stale(w, r, err) {
		return
	}
	if len(errs) > 0 {
		s.render(w, r, ed, http.StatusUnprocessableEntity, alert, errs)
		return
	}
	if s.stale(w, r, p.Mutate(fn)) {
		return
	}
	s.back(w, r, alert)
}
