// Package httpapi exposes the blog services over REST using gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gopherblog/internal/logging"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Router is implemented by every handler group.
type Router interface {
	RegisterRouter(r gin.IRouter)
}

type HTTPServer struct {
	address string
	logger  logging.Logger
	engine  *gin.Engine
}

// NewHTTPServer builds the engine and mounts every router under /api.
func NewHTTPServer(address string, l logging.Logger, routers ...Router) *HTTPServer {
	logger := l.With("module", "http_server")

	engine := gin.New()
	engine.Use(Recovery(logger), RequestLogger(logger))

	api := engine.Group("/api")
	for _, r := range routers {
		r.RegisterRouter(api)
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Error: "route not found"})
	})

	return &HTTPServer{address: address, logger: logger, engine: engine}
}

// Handler exposes the engine, mostly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
