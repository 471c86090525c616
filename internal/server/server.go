package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"paintshop/internal/config"
	"paintshop/internal/metrics"
	"paintshop/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
)

type Server struct {
	e    *echo.Echo
	http *http.Server
	log  *slog.Logger
}

// New はechoを組み立てる。CORSはecho全体の外側で処理する。
func New(cfg config.Config, log *slog.Logger, m *metrics.Metrics, h Handlers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLog(log))
	e.Use(echomw.Recover())
	e.Use(middleware.Metrics(m))

	limiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute)
	RegisterRoutes(e, cfg, h, limiter.Middleware(), m)

	return &Server{
		e: e,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           withCORS(cfg, e),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		log: log,
	}
}

func withCORS(cfg config.Config, next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FEURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{echo.HeaderXRequestID},
		AllowCredentials: true,
	}).Handler(next)
}

// Handler はテスト用（CORS込み）
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start はShutdownされるまでブロックする
func (s *Server) Start() error {
	s.log.Info("http server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
