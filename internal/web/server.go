package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/mymcp/console/internal/backend"
	"github.com/mymcp/console/internal/recorder"
	"github.com/mymcp/console/internal/toolstore"
)

//go:embed static/*
var staticFiles embed.FS

type Server struct {
	router       *http.ServeMux
	port         int
	backend      *backend.Client
	gate         *recorder.Gate
	lifecycle    *recorder.Lifecycle
	catalog      *recorder.Catalog
	generator    *recorder.Generator
	persister    *recorder.Persister
	tools        *toolstore.Store
	states       *recorder.StateStore
	extensionDir string
}

func NewServer(
	port int,
	client *backend.Client,
	gate *recorder.Gate,
	lifecycle *recorder.Lifecycle,
	catalog *recorder.Catalog,
	generator *recorder.Generator,
	persister *recorder.Persister,
	tools *toolstore.Store,
	extensionDir string,
) *Server {
	s := &Server{
		router:       http.NewServeMux(),
		port:         port,
		backend:      client,
		gate:         gate,
		lifecycle:    lifecycle,
		catalog:      catalog,
		generator:    generator,
		persister:    persister,
		tools:        tools,
		states:       recorder.NewStateStore(),
		extensionDir: extensionDir,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static filesystem: %v", err))
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Health check
	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Pages
	s.router.HandleFunc("GET /{$}", s.handleRecorder)
	s.router.HandleFunc("GET /sessions", s.handleSessions)
	s.router.HandleFunc("GET /sessions/{id}", s.handleSessionDetail)
	s.router.HandleFunc("GET /tools", s.handleTools)
	s.router.HandleFunc("GET /marketplace", s.handleMarketplace)
	s.router.HandleFunc("GET /setup", s.handleSetup)
	s.router.HandleFunc("GET /chat", s.handleChat)

	// Downloads
	s.router.HandleFunc("GET /extension.zip", s.handleExtensionZip)
	s.router.HandleFunc("GET /tools/download/{file}", s.handleToolDownload)
	s.router.HandleFunc("GET /tools/generated/{session}/download", s.handleGeneratedDownload)

	// API endpoints (for HTMX)
	s.router.HandleFunc("GET /api/connection", s.handleAPIConnection)
	s.router.HandleFunc("POST /api/recorder/start", s.handleAPIStart)
	s.router.HandleFunc("POST /api/recorder/stop", s.handleAPIStop)
	s.router.HandleFunc("GET /api/recorder/status", s.handleAPIRecorderStatus)
	s.router.HandleFunc("POST /api/recorder/action", s.handleAPIAddAction)
	s.router.HandleFunc("DELETE /api/sessions/{id}", s.handleAPIDeleteSession)

	// Tool generation and persistence
	s.router.HandleFunc("POST /api/tools/generate", s.handleAPIGenerate)
	s.router.HandleFunc("POST /api/tools/regenerate", s.handleAPIRegenerate)
	s.router.HandleFunc("POST /api/tools/clear", s.handleAPIClearGeneration)
	s.router.HandleFunc("POST /api/tools/save", s.handleAPISave)
	s.router.HandleFunc("POST /api/tools/test/{name}", s.handleAPITestTool)

	// Marketplace, setup, chat
	s.router.HandleFunc("POST /api/marketplace/install", s.handleAPIInstallServer)
	s.router.HandleFunc("POST /api/setup/{server}/test", s.handleAPITestCredential)
	s.router.HandleFunc("POST /api/chat/execute", s.handleAPIChatExecute)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Printf("Starting console at http://localhost:%d\n", s.port)

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil // Graceful shutdown
	}
	return err
}
