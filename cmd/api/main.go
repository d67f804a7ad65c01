package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"health-records/internal/adapters/events/rabbitmq"
	"health-records/internal/config"
	"health-records/internal/domain/records"
	"health-records/internal/platform/logger"
	"health-records/internal/router"
)

// @title Health Records API
// @version 1.0
// @description Captura y consulta de registros de salud personales.
// @BasePath /
func main() {
	// .env es opcional (dev)
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.NewFromEnv().Warn("could not load .env", logger.Fields{"err": err})
	}

	cfg := config.Load()
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy := records.ParseReadPolicy(cfg.ReadPolicy)

	store, closeStore, err := openStore(ctx, cfg, policy, log)
	if err != nil {
		log.Error("open record store", logger.Fields{"store": cfg.Store, "err": err})
		os.Exit(1)
	}
	defer closeStore()

	opts := router.Options{
		Store:       store,
		Logger:      log,
		Policy:      policy,
		StaticDir:   cfg.StaticDir,
		StaticHide:  []string{cfg.DataFile},
		CORSOrigins: cfg.CORSOrigins,
	}
	if cfg.AMQP.URL != "" {
		opts.Notifier = rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
		log.Info("publishing record events", logger.Fields{"queue": cfg.AMQP.Queue})
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", logger.Fields{"addr": srv.Addr, "store": cfg.Store, "read_policy": string(policy)})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", logger.Fields{"err": err})
			closeStore()
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", logger.Fields{"err": err})
		}
	}
}
