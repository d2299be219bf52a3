package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fretedash/internal/api"
	"fretedash/internal/config"
	"fretedash/internal/dataset"
	"fretedash/internal/store"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// Server is the web server for the freight dashboard.
type Server struct {
	router     *gin.Engine
	store      *store.Store
	hub        *api.SSEHub
	sessions   *SessionManager
	aggregator *dataset.Aggregator
	templates  *template.Template
	tableCap   int
}

// NewServer creates the dashboard server on top of a loaded store.
func NewServer(cfg config.ServerConfig, st *store.Store, hub *api.SSEHub) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	s := &Server{
		router:     gin.Default(),
		store:      st,
		hub:        hub,
		sessions:   NewSessionManager(),
		aggregator: dataset.NewAggregator(),
		tableCap:   cfg.TableCap,
	}

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) parseTemplates() error {
	funcMap := template.FuncMap{
		"mul": func(a, b float64) float64 { return a * b },
		"add": func(a, b int) int { return a + b },
		"div": func(a, b float64) float64 {
			if b == 0 {
				return 0
			}
			return a / b
		},
		"upper": strings.ToUpper,
		"contains": func(s, substr string) bool {
			return strings.Contains(s, substr)
		},
	}

	templatesFS, err := fs.Sub(embeddedFiles, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates
	return nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		log.Printf("[setupMiddleware] Error creating static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/help", s.handleHelp)

	// JSON endpoints the dashboard fetches
	s.router.GET("/api/table", s.handleTable)
	s.router.GET("/api/filters", s.handleFilters)
	s.router.GET("/api/aggregates", s.handleAggregates)
	s.router.GET("/api/context", s.handleContext)

	// Filter selection is session-scoped
	s.router.POST("/api/selection", s.handleSetSelection)
	s.router.POST("/api/selection/clear", s.handleClearSelection)

	// Cache invalidation + change notifications
	s.router.POST("/api/refresh", s.handleRefresh)
	s.router.GET("/api/events", s.hub.HandleSSE)
}

// Start serves the dashboard until ctx is cancelled, then drains
// in-flight requests and returns nil so the process can exit cleanly.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Printf("Starting freight dashboard on http://%s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// renderTemplate executes a template into a buffer first so a render
// error never leaks a half-written page.
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	var buf strings.Builder
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		log.Printf("Template error for %s: %v", templateName, err)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed"})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(200, buf.String())
}
