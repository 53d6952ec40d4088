package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/Tomlord1122/todo-server/internal/config"
	"github.com/Tomlord1122/todo-server/internal/database"
	"github.com/Tomlord1122/todo-server/internal/logging"
	"github.com/Tomlord1122/todo-server/internal/metrics"
	"github.com/Tomlord1122/todo-server/internal/repository"
	"github.com/Tomlord1122/todo-server/internal/server"
	"github.com/Tomlord1122/todo-server/internal/service"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, log zerolog.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is currently handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if err := dbService.Close(); err != nil {
		log.Error().Err(err).Msg("error closing database connection pool")
	} else {
		log.Info().Msg("database connection pool closed")
	}

	done <- true
}

// parseFlags reads command line overrides for values that otherwise come
// from the environment. pflag.ErrHelp is returned after usage is printed.
func parseFlags(args []string, out io.Writer) (config.Overrides, error) {
	var o config.Overrides
	fs := pflag.NewFlagSet("api", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&o.Port, "port", "", "listen port (overrides PORT, default 8000)")
	fs.StringVar(&o.StaticDir, "static-dir", "", "directory served for unmatched paths (overrides STATIC_DIR)")
	fs.StringVar(&o.LogLevel, "log-level", "", "log level: debug|info|warn|error (overrides LOG_LEVEL)")
	if err := fs.Parse(args); err != nil {
		return config.Overrides{}, err
	}
	return o, nil
}

func main() {
	bootLog := logging.New("info", "json", os.Stderr)

	overrides, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		bootLog.Fatal().Err(err).Msg("invalid flags")
	}

	cfg, err := config.LoadWith(overrides)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	dbService, err := database.New(cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	appMetrics := metrics.New()
	if err := appMetrics.RegisterDB(dbService.SQLDB(), cfg.Database.Driver); err != nil {
		log.Fatal().Err(err).Msg("failed to register database metrics")
	}

	todoRepo := repository.NewGormTodoRepository(dbService.GetDB())
	todoService := service.NewTodoService(todoRepo, log)

	apiServer := server.NewServer(cfg, server.Deps{
		TodoService: todoService,
		DB:          dbService,
		Logger:      log,
		Metrics:     appMetrics,
	})

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, log, done)

	log.Info().
		Str("addr", apiServer.Addr).
		Str("static_dir", cfg.StaticDir).
		Msgf("Server running on localhost:%d", cfg.Port)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("HTTP server ListenAndServe error")
	}

	<-done
	log.Info().Msg("graceful shutdown complete")
}
