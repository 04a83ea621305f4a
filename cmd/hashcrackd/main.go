package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/15Galan/h4-hash-cracker/internal/config"
	"github.com/15Galan/h4-hash-cracker/internal/input"
	"github.com/15Galan/h4-hash-cracker/internal/logging"
	"github.com/15Galan/h4-hash-cracker/internal/manager"
	"github.com/15Galan/h4-hash-cracker/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	opts := []manager.Option{manager.WithLogger(logger)}

	if cfg.Wordlist != "" {
		words, err := input.ReadLines(cfg.Wordlist)
		if err != nil {
			logger.Fatal("Failed to load wordlist", zap.String("path", cfg.Wordlist), zap.Error(err))
		}

		logger.Info("Default wordlist loaded", zap.String("path", cfg.Wordlist), zap.Int("words", len(words)))
		opts = append(opts, manager.WithWordlist(words))
	}

	if cfg.AMQPURL != "" {
		broker, publisher, err := report.Dial(cfg.AMQPURL, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Fatal("Failed to connect to broker", zap.Error(err))
		}
		defer broker.Close()

		opts = append(opts, manager.WithPublisher(publisher))
	}

	mgr := manager.NewManager(cfg.RequestTimeout, opts...)

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           mgr.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownDone := make(chan struct{})

	go func() {
		defer close(shutdownDone)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Server shutdown", zap.Error(err))
		}
	}()

	logger.Info("Manager started", zap.String("listen", cfg.Listen))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed", zap.Error(err))
	}

	// ListenAndServe returns as soon as Shutdown starts; in-flight handlers
	// may still register requests until it finishes.
	<-shutdownDone

	mgr.Close()
	logger.Info("Graceful shutdown complete")
}
