// Package server exposes the dialogue engine over HTTP: one turn per
// POST /chat, plus the embedded chat page and the session reset signal.
package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ChatService is the slice of session.Manager the transport needs.
type ChatService interface {
	Turn(ctx context.Context, key, message string) (string, error)
	Reset(key string) error
}

// StartOpts holds configuration for the chat server.
type StartOpts struct {
	Chat ChatService
	Port int
	Out  io.Writer
}

// Start launches the chat HTTP server. It blocks until ctx is
// cancelled, then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Chat == nil {
		return fmt.Errorf("server: chat service is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	tmpl, err := parseTemplates()
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	registerRoutes(router, opts.Chat)

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Frontdesk running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// parseTemplates loads the embedded HTML templates.
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
