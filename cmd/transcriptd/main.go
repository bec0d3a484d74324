// Package main - точка входа сервиса ведомостей.
//
// Сервис хранит ведомости студентов (имя и список оценок по курсам) в
// выбранном через BACKEND хранилище и отдаёт их по HTTP.
//
// Слои:
// - Domain: transcript.Store поверх интерфейса Backend
// - Application: команды и запросы (CQRS)
// - Infrastructure: memory/redis/postgres/bolt, метрики
// - Interface: HTTP API
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/alem-hub/transcripts/config"
	"github.com/alem-hub/transcripts/internal/application/command"
	"github.com/alem-hub/transcripts/internal/application/query"
	"github.com/alem-hub/transcripts/internal/domain/transcript"
	"github.com/alem-hub/transcripts/internal/infrastructure/metrics"
	"github.com/alem-hub/transcripts/internal/infrastructure/persistence"
	httpserver "github.com/alem-hub/transcripts/internal/interface/http"
	"github.com/alem-hub/transcripts/internal/interface/http/handlers"
	"github.com/alem-hub/transcripts/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	defer func() { _ = log.Sync() }()

	log.Info("starting transcripts service",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Backend(cfg.Storage.Backend),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К ХРАНИЛИЩУ
	// ─────────────────────────────────────────────────────────────────────────
	storage, err := persistence.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", cfg.Storage.Backend, err)
	}
	defer func() {
		log.Info("closing storage...")
		if err := storage.Close(); err != nil {
			log.Error("failed to close storage", logger.Err(err))
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. МЕТРИКИ
	// ─────────────────────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	var registerer prometheus.Registerer
	if cfg.Observability.MetricsEnabled {
		registerer = registry
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m := metrics.New(registerer)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. STORE И ОБРАБОТЧИКИ (CQRS)
	// ─────────────────────────────────────────────────────────────────────────
	store := transcript.NewStore(storage.Backend)

	addStudentHandler := command.NewAddStudentHandler(store, m, log)
	recordGradeHandler := command.NewRecordGradeHandler(store, m, log)
	getTranscriptHandler := query.NewGetTranscriptHandler(store, m, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	healthChecker.AddCheck(storage.Name, handlers.HealthCheckFunc(storage.Ping))

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP СЕРВЕР
	// ─────────────────────────────────────────────────────────────────────────
	httpCfg := httpserver.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.EnableMetrics = cfg.Observability.MetricsEnabled

	httpServer := httpserver.NewServer(httpCfg, httpserver.Dependencies{
		AddStudentHandler:    addStudentHandler,
		RecordGradeHandler:   recordGradeHandler,
		GetTranscriptHandler: getTranscriptHandler,
		Logger:               log,
		HealthChecker:        healthChecker,
		Gatherer:             registry,
		Version:              cfg.App.Version,
	})

	errCh := httpServer.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("transcripts service is running", logger.String("http_address", cfg.HTTP.Addr()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err, ok := <-errCh:
		if ok && err != nil {
			log.Error("http server failed", logger.Err(err))
			return err
		}
	case <-ctx.Done():
	}

	log.Info("starting graceful shutdown...", logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	opts.Format = logger.Format(cfg.Observability.LogFormat)
	opts.AddCaller = cfg.IsDevelopment()

	return logger.New(opts).With(
		logger.String("service", cfg.App.Name),
		logger.String("env", string(cfg.App.Environment)),
	)
}
