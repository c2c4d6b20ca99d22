package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Jamolkhon5/sprintkit/internal/ai/project/client"
	projecthandler "github.com/Jamolkhon5/sprintkit/internal/ai/project/handler"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/service"
	"github.com/Jamolkhon5/sprintkit/internal/ai/project/timeline"
	"github.com/Jamolkhon5/sprintkit/internal/config"
	"github.com/Jamolkhon5/sprintkit/internal/handler"
	"github.com/Jamolkhon5/sprintkit/internal/health"
	"github.com/Jamolkhon5/sprintkit/internal/logging"
	"github.com/Jamolkhon5/sprintkit/internal/metrics"
	"github.com/Jamolkhon5/sprintkit/internal/repository"
	"github.com/Jamolkhon5/sprintkit/internal/respond"
)

func main() {
	cfg, err := config.NewConfig(".env")
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(cfg.LogLevel, cfg.IsDevelopment(), os.Stderr)
	m := metrics.Default()

	backend := client.New(cfg.APIURL, cfg.ClientTimeout)
	assistant := service.NewProjectAssistant(backend, timeline.NewCalculator(cfg.HoursPerDay), m)
	repo := repository.NewRepository(cfg.MaxSessions, cfg.SessionTTL, m)

	sessions := handler.NewHandler(repo, assistant)
	steps := projecthandler.NewProjectAssistantHandler(assistant, repo)

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.RealIP)
	for _, mw := range logging.Middleware(logger) {
		r.Use(mw)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.OK(w, map[string]any{
			"status":   "ok",
			"sessions": repo.Len(),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	sessions.RegisterRoutes(r)
	steps.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("grpc listen")
	}
	healthSrv := health.NewServer(logger)

	go func() {
		if err := healthSrv.Serve(grpcLis); err != nil {
			logger.Error().Err(err).Msg("grpc health stopped")
		}
	}()

	go func() {
		logger.Info().
			Str("addr", cfg.HTTPAddr).
			Str("backend", cfg.APIURL).
			Str("env", cfg.Environment).
			Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
	healthSrv.Stop()
	logger.Info().Msg("server exiting")
}
