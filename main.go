package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/anndream/diucse-alumni-admin/internal/auth"
	"github.com/anndream/diucse-alumni-admin/internal/cache"
	"github.com/anndream/diucse-alumni-admin/internal/config"
	"github.com/anndream/diucse-alumni-admin/internal/db"
	"github.com/anndream/diucse-alumni-admin/internal/editor"
	"github.com/anndream/diucse-alumni-admin/internal/ingest"
	"github.com/anndream/diucse-alumni-admin/internal/logger"
	"github.com/anndream/diucse-alumni-admin/internal/model"
	"github.com/anndream/diucse-alumni-admin/internal/render"
	"github.com/anndream/diucse-alumni-admin/internal/repository"
	"github.com/anndream/diucse-alumni-admin/internal/routes"
	"github.com/anndream/diucse-alumni-admin/internal/session"
	"github.com/anndream/diucse-alumni-admin/internal/sse"
	"github.com/anndream/diucse-alumni-admin/internal/theme"
	"github.com/anndream/diucse-alumni-admin/internal/util"
)

//go:embed static/* templates/*
var content embed.FS

var mainLogger zerolog.Logger

func setLoggers(l zerolog.Logger) {
	mainLogger = l
	auth.SetLogger(l)
	config.SetLogger(l)
	db.SetLogger(l)
	editor.SetLogger(l)
	ingest.SetLogger(l)
	render.SetLogger(l)
	repository.SetLogger(l)
	session.SetLogger(l)
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	envErr := godotenv.Load()

	// Logging level may come from the config file, so start at info.
	setLoggers(logger.New("info", logger.FormatConsole))

	if err := config.LoadConfig(*configPath); err != nil {
		mainLogger.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load config")
	}
	cfg := config.AppConfig
	config.ApplyEnv(cfg)

	setLoggers(logger.New(cfg.Logging.Level, cfg.Logging.Format))
	if envErr != nil {
		mainLogger.Debug().Err(envErr).Msg("No .env file loaded")
	}

	database := db.NewSQLite(cfg.Storage.DatabasePath)
	if err := database.InitDB(); err != nil {
		mainLogger.Fatal().Err(err).Msgf(config.ErrInitializeDatabaseFmt, err)
	}
	defer database.Close()

	tokens := repository.NewDBKVRepository(database)
	client := auth.NewClient(cfg.Auth.APIURL, cfg.Auth.Timeout)

	a, err := newApp(cfg, content, tokens, client)
	if err != nil {
		mainLogger.Fatal().Err(err).Msg("Failed to set up server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.sessions.RunSweeper(ctx, cfg.Session.SweepInterval, cfg.Session.IdleTimeout)

	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           a.handler(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			mainLogger.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	mainLogger.Info().Str("addr", srv.Addr).Str("auth_api", cfg.Auth.APIURL).Msg("Starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		mainLogger.Fatal().Err(err).Msg("Server stopped")
	}
}

type app struct {
	cfg      *config.Config
	sessions *session.Manager
	clients  *sse.SSEClients
	tokens   repository.KVRepository
	auth     *auth.Handler
	static   fs.FS
	home     *template.Template

	news   *screen[model.NewsRecord, model.NewsDraft, render.NewsView]
	events *screen[model.EventRecord, model.EventDraft, render.EventView]
}

var templateFuncs = template.FuncMap{
	"imageURL": render.ImageURL,
	"count":    render.Count,
}

func parsePage(fsys fs.FS, page string) (*template.Template, error) {
	tmpl, err := template.New(config.TemplateLayout).Funcs(templateFuncs).ParseFS(fsys,
		path.Join(config.TemplatesLocalDir, config.TemplateLayout),
		path.Join(config.TemplatesLocalDir, page),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", page, err)
	}
	return tmpl, nil
}

func newApp(cfg *config.Config, fsys fs.FS, tokens repository.KVRepository, client *auth.Client) (*app, error) {
	pages := make(map[string]*template.Template)
	for _, page := range []string{
		config.TemplateHome,
		config.TemplateSignin,
		config.TemplateReset,
		config.TemplateNews,
		config.TemplateEvent,
	} {
		tmpl, err := parsePage(fsys, page)
		if err != nil {
			return nil, err
		}
		pages[page] = tmpl
	}

	static, err := fs.Sub(fsys, config.StaticLocalDir)
	if err != nil {
		return nil, fmt.Errorf("static files: %w", err)
	}
	if err := hashStatic(static); err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		sessions: session.NewManager(),
		clients:  sse.NewSSEClients(),
		tokens:   tokens,
		auth:     auth.NewHandler(client, tokens, cfg.Auth.TokenKey, pages[config.TemplateSignin], pages[config.TemplateReset]),
		static:   static,
		home:     pages[config.TemplateHome],
	}
	a.sessions.OnCreate = a.notifyChanges
	a.sessions.OnExpire = a.expireWorkspace

	maxBytes := int64(cfg.Upload.MaxBytes)
	a.news = &screen[model.NewsRecord, model.NewsDraft, render.NewsView]{
		path:     routes.NewsPath,
		title:    "News",
		tmpl:     pages[config.TemplateNews],
		fields:   model.NewsKind{}.Fields(),
		image:    "image",
		policy:   ingest.NewsImages.WithMaxBytes(maxBytes),
		sessions: a.sessions,
		editorOf: func(ws *session.Workspace) *editor.Editor[model.NewsRecord, model.NewsDraft] { return ws.News },
		view:     render.News,
	}
	a.events = &screen[model.EventRecord, model.EventDraft, render.EventView]{
		path:     routes.EventPath,
		title:    "Event",
		tmpl:     pages[config.TemplateEvent],
		fields:   model.EventKind{}.Fields(),
		image:    "poster",
		policy:   ingest.EventPosters.WithMaxBytes(maxBytes),
		sessions: a.sessions,
		editorOf: func(ws *session.Workspace) *editor.Editor[model.EventRecord, model.EventDraft] { return ws.Events },
		view:     render.Events,
	}
	return a, nil
}

// hashStatic records a content hash per static file for ETag headers.
func hashStatic(static fs.FS) error {
	return fs.WalkDir(static, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(static, p)
		if err != nil {
			return fmt.Errorf("hashing %s: %w", p, err)
		}
		cache.SetStaticETag(config.StaticURLPath+p, data)
		return nil
	})
}

// notifyChanges pushes a reload to the workspace's open tabs whenever one of
// its collections changes.
func (a *app) notifyChanges(ws *session.Workspace) {
	ws.News.SubscribeRecords(func([]model.NewsRecord) {
		go a.clients.Broadcast(sse.Topic(ws.ID, routes.NewsPath), sse.MsgReload)
	})
	ws.Events.SubscribeRecords(func([]model.EventRecord) {
		go a.clients.Broadcast(sse.Topic(ws.ID, routes.EventPath), sse.MsgReload)
	})
}

// expireWorkspace drops what an expired workspace left behind: its stored
// access token and the rendered Markdown of its articles.
func (a *app) expireWorkspace(ws *session.Workspace) {
	if err := a.tokens.Delete(context.Background(), ws.ID, a.cfg.Auth.TokenKey); err != nil {
		mainLogger.Warn().Err(err).Str("session", ws.ID).Msg("Failed to forget token")
	}

	if a.sessions.Len() == 0 {
		cache.ClearRenderedMarkdownCache()
		return
	}
	themes := []string{theme.SyntaxThemeFor(config.LightTheme), theme.SyntaxThemeFor(config.DarkTheme)}
	for _, r := range ws.News.Records() {
		cache.ForgetRenderedMarkdown(util.ContentHash([]byte(r.Content)), themes...)
	}
}

func (a *app) sseTopic(r *http.Request) (string, bool) {
	screen := r.URL.Query().Get("screen")
	if screen != routes.NewsPath && screen != routes.EventPath {
		return "", false
	}
	id, ok := session.IDFromContext(r.Context())
	if !ok {
		return "", false
	}
	return sse.Topic(id, screen), true
}

func (a *app) mux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+routes.RobotsPath, serveRobots)
	mux.Handle("GET "+config.StaticURLPath, http.StripPrefix(config.StaticURLPath, http.FileServer(http.FS(a.static))))

	mux.HandleFunc("GET /{$}", a.serveHome)
	mux.HandleFunc(routes.SigninPath, a.auth.Signin)
	mux.HandleFunc(routes.SignoutPath, a.auth.Signout)
	mux.HandleFunc(routes.ResetRequestPath, a.auth.ResetRequest)

	mux.HandleFunc("POST "+routes.ThemeToggle, serveThemeToggle)
	mux.HandleFunc("GET "+routes.ThemeOppositeIcon, serveThemeOppositeIcon)
	mux.HandleFunc("GET "+routes.SSEPath, a.clients.Handler(a.sseTopic))

	a.news.register(mux)
	mux.HandleFunc("POST "+routes.Action(routes.NewsPath, routes.ActionTags), a.serveAddTag)
	mux.HandleFunc("POST "+routes.Action(routes.NewsPath, routes.ActionTagsRemove), a.serveRemoveTag)
	a.events.register(mux)

	return mux
}

func serveRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HCType, "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("User-agent: *\nDisallow: /"))
}

func (a *app) serveHome(w http.ResponseWriter, r *http.Request) {
	ws := a.sessions.FromRequest(r)

	stats := a.cfg.Dashboard
	upcoming := stats.EventsUpcoming
	if n := render.CountUpcoming(ws.Events.Records(), time.Now()); n > 0 {
		upcoming = n
	}

	data := &model.HomeData{
		PageData: auth.NewPageData(w, r, "Home"),
		Tagline:  a.cfg.Site.Tagline,
		Stats: []model.Stat{
			{Label: "Total Users", Value: stats.TotalUsers},
			{Label: "Alumni Listed", Value: stats.AlumniListed},
			{Label: "Events Upcoming", Value: upcoming},
		},
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	if err := a.home.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to render home")
		http.Error(w, config.ErrInternalServerErr, http.StatusInternalServerError)
	}
}

func serveThemeToggle(w http.ResponseWriter, r *http.Request) {
	if config.AppConfig != nil && !config.AppConfig.Theme.AllowSwitching {
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	newTheme := theme.Opposite(theme.GetThemeFromRequest(r))
	theme.SetThemeCookie(w, newTheme)

	w.Header().Set(config.HHxTrigger, fmt.Sprintf(`{"themeChanged":{"value":%q}}`, newTheme))
	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(newTheme)))
}

func serveThemeOppositeIcon(w http.ResponseWriter, r *http.Request) {
	currTheme := r.URL.Query().Get("theme")
	if !theme.IsKnown(currTheme) {
		http.Error(w, "theme required", http.StatusBadRequest)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(currTheme)))
}
