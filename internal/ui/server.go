package ui

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/deskwing/deskwing/internal/config"
)

// Server hosts the UI over HTTP. It carries no business logic: every route
// resolves to a rendered template page.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *Registry
	tmpl     *template.Template
	version  string

	httpServer *http.Server
}

// NewServer creates a Server with the built-in pages registered.
func NewServer(cfg *config.Config, logger *slog.Logger, version string) *Server {
	registry := NewRegistry()
	registry.Register(NewMarkdownPage("home", "Home", homeMarkdown))
	registry.Register(NewMarkdownPage("feature1", "Feature 1", feature1Markdown))
	registry.Register(NewMarkdownPage("feature2", "Feature 2", feature2Markdown))
	registry.Register(NewMarkdownPage("about", "About the Project", aboutMarkdown))

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		tmpl:     template.Must(template.New("layout").Parse(layoutTemplate)),
		version:  version,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/pages/", s.handlePage)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Handler:      s.withRecovery(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Registry returns the page registry so callers can register extra pages
// before Serve.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Serve accepts connections on ln until Shutdown or failure. The listener
// is bound by the caller so bind errors are reported before serving starts.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// defaultPageID is the menu's first entry, matching the sidebar's initial
// selection.
func (s *Server) defaultPageID() string {
	if len(s.cfg.MenuItems) > 0 {
		return s.cfg.MenuItems[0].Page
	}
	return "home"
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/pages/"+s.defaultPageID(), http.StatusFound)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/pages/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	page, ok := s.registry.Lookup(id)
	if !ok {
		s.logger.Warn("page_not_registered", "page", id)
		page = s.registry.Placeholder(id)
	}

	body, err := page.Body()
	if err != nil {
		s.logger.Error("page_render_failed", "page", id, "error", err)
		errPage := NewMarkdownPage(id, "Page Error", fmt.Sprintf(errorMarkdown, id))
		body, _ = errPage.Body()
	}

	s.render(w, page.Title(), id, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}

type layoutData struct {
	AppTitle   string
	PageTitle  string
	ActivePage string
	Menu       []config.MenuItem
	Theme      config.Theme
	Version    string
	Body       template.HTML
}

func (s *Server) render(w http.ResponseWriter, pageTitle, activePage string, body template.HTML) {
	data := layoutData{
		AppTitle:   s.cfg.AppTitle,
		PageTitle:  pageTitle,
		ActivePage: activePage,
		Menu:       s.cfg.MenuItems,
		Theme:      s.cfg.Theme,
		Version:    s.version,
		Body:       body,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		s.logger.Error("template_execute_failed", "error", err)
	}
}

// withRecovery converts page handler panics into an error page instead of
// tearing down the connection.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("handler_panic", "path", r.URL.Path, "panic", rec)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
