// Package dashboard serves the admin dashboard API over HTTP.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Suryadheeraz/Svayam-AMS-main/internal/conversation"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/directory"
	"github.com/Suryadheeraz/Svayam-AMS-main/internal/stats"
	"github.com/gin-gonic/gin"
)

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	Store     *conversation.Store
	Directory *directory.Directory
	Stats     *stats.Aggregator
	Port      int
	Out       io.Writer
}

func (o StartOpts) validate() error {
	if o.Store == nil {
		return fmt.Errorf("dashboard: store is required")
	}
	if o.Directory == nil {
		return fmt.Errorf("dashboard: directory is required")
	}
	if o.Stats == nil {
		return fmt.Errorf("dashboard: stats aggregator is required")
	}
	return nil
}

// NewRouter builds the Gin engine with all dashboard routes.
func NewRouter(opts StartOpts) (*gin.Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID())
	registerRoutes(router, opts)
	return router, nil
}

// Start launches the dashboard HTTP server. It blocks until ctx is cancelled,
// then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	router, err := NewRouter(opts)
	if err != nil {
		return err
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Dashboard running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}
