// Package httpapi exposes the progression engine over JSON/HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/pytutor/internal/progression"
)

const shutdownTimeout = 10 * time.Second

// Engine is the part of the progression engine the API serves.
type Engine interface {
	Dispatch(ctx context.Context, userID string, a progression.Action) (*progression.Outcome, error)
	Progress(ctx context.Context, userID string) (*progression.ProgressView, error)
}

// Options configures the router.
type Options struct {
	// Mode is a gin mode: debug, release or test.
	Mode        string
	CORSOrigins []string
}

// Server routes API requests to the engine.
type Server struct {
	engine Engine
	router *gin.Engine
}

// New builds the gin router with request logging, recovery and CORS.
func New(engine Engine, opts Options) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("HTTP request")
		return ""
	}))
	r.Use(gin.Recovery())

	if len(opts.CORSOrigins) > 0 {
		corsCfg := cors.Config{
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}
		if len(opts.CORSOrigins) == 1 && opts.CORSOrigins[0] == "*" {
			corsCfg.AllowAllOrigins = true
		} else {
			corsCfg.AllowOrigins = opts.CORSOrigins
		}
		r.Use(cors.New(corsCfg))
	}

	s := &Server{engine: engine, router: r}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.health)

	apiV1 := s.router.Group("/api/v1")
	{
		users := apiV1.Group("/users/:id")
		users.POST("/actions", s.dispatch)
		users.GET("/progress", s.progress)
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
