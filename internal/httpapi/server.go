// Package httpapi exposes the marketplace over a JSON + SSE HTTP API.
package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salemkamoundev/Snay3ia/internal/blob"
	"github.com/salemkamoundev/Snay3ia/internal/identity"
	"github.com/salemkamoundev/Snay3ia/internal/notify"
	"github.com/salemkamoundev/Snay3ia/internal/stream"
	"gorm.io/gorm"
)

// ServerOpts holds configuration for the API server.
type ServerOpts struct {
	DB             *gorm.DB
	Hub            *stream.Hub
	Provider       identity.Provider
	Media          *blob.LocalFS
	MaxUploadBytes int64
	Webhook        notify.WebhookConfig
	Port           int
	Out            io.Writer
}

// NewRouter builds the gin router with all routes registered.
func NewRouter(opts ServerOpts) (*gin.Engine, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("httpapi: db is required")
	}
	if opts.Hub == nil {
		return nil, fmt.Errorf("httpapi: hub is required")
	}
	if opts.Provider == nil {
		return nil, fmt.Errorf("httpapi: identity provider is required")
	}
	if opts.Media == nil {
		return nil, fmt.Errorf("httpapi: media store is required")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	registerRoutes(router, &opts)
	return router, nil
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts ServerOpts) error {
	router, err := NewRouter(opts)
	if err != nil {
		return err
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "API running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("httpapi: %w", err)
	}
	return nil
}
