// Package session keeps one workspace per browser. A workspace owns the News
// and Event editors for as long as the browser session lives.
package session

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anndream/diucse-alumni-admin/internal/cache"
	"github.com/anndream/diucse-alumni-admin/internal/config"
	"github.com/anndream/diucse-alumni-admin/internal/editor"
	"github.com/anndream/diucse-alumni-admin/internal/model"
)

var sessionLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	sessionLogger = l
}

type Workspace struct {
	ID     string
	News   *model.NewsEditor
	Events *model.EventEditor

	lastSeen atomic.Int64
}

func (w *Workspace) touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

func (w *Workspace) LastSeen() time.Time {
	return time.Unix(0, w.lastSeen.Load())
}

type Manager struct {
	workspaces *cache.Cache[string, *Workspace]
	now        func() time.Time

	// OnCreate runs once for every new workspace, outside any lock.
	OnCreate func(*Workspace)
	// OnExpire runs for every workspace Sweep drops.
	OnExpire func(*Workspace)
}

func NewManager() *Manager {
	return &Manager{
		workspaces: cache.NewCache[string, *Workspace](),
		now:        time.Now,
	}
}

// Workspace returns the workspace for id, creating it on first use.
func (m *Manager) Workspace(id string) *Workspace {
	ws, existed := m.workspaces.GetOrCreate(id, func() *Workspace {
		ids := editor.NewSequence()
		ws := &Workspace{
			ID:     id,
			News:   model.NewNewsEditor(ids),
			Events: model.NewEventEditor(ids),
		}
		ws.touch(m.now())
		return ws
	})
	ws.touch(m.now())

	if !existed {
		sessionLogger.Debug().Str("session", id).Msg("Workspace created")
		if m.OnCreate != nil {
			m.OnCreate(ws)
		}
	}
	return ws
}

func (m *Manager) Len() int {
	return m.workspaces.Len()
}

// Sweep drops workspaces that have not been used for idle.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	var expired []*Workspace
	n := m.workspaces.DeleteFunc(func(_ string, ws *Workspace) bool {
		if ws.LastSeen().Before(cutoff) {
			expired = append(expired, ws)
			return true
		}
		return false
	})
	if m.OnExpire != nil {
		for _, ws := range expired {
			m.OnExpire(ws)
		}
	}
	if n > 0 {
		sessionLogger.Info().Int("removed", n).Int("remaining", m.workspaces.Len()).Msg("Swept idle workspaces")
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(idle)
		}
	}
}

// Middleware makes sure every request carries a session cookie and puts the
// session id in the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(config.CookieSessionID); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     config.CookieSessionID,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   r.TLS != nil,
			})
		}

		next.ServeHTTP(w, r.WithContext(ContextWithID(r.Context(), id)))
	})
}

// FromRequest returns the workspace for the request's session.
func (m *Manager) FromRequest(r *http.Request) *Workspace {
	id, ok := IDFromContext(r.Context())
	if !ok {
		id = uuid.NewString()
	}
	return m.Workspace(id)
}
