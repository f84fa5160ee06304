package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"quiz-client/internal/cli"
	"quiz-client/internal/config"
	"quiz-client/internal/logger"
	"quiz-client/internal/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	flags := config.NewFlagSet("quiz-cli")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	m := metrics.New(prometheus.NewRegistry())
	if cfg.Metrics.Addr != "" {
		server := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           m.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
		log.Info("metrics listening", zap.String("addr", cfg.Metrics.Addr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("quiz-cli starting", zap.String("api", cfg.API.BaseURL), zap.String("locale", cfg.UI.Locale))
	return cli.Run(ctx, os.Stdin, os.Stdout, cli.Config{
		ServerURL:    cfg.API.BaseURL,
		HTTPTimeout:  cfg.API.Timeout,
		Locale:       cfg.UI.Locale,
		TriviaURL:    cfg.Trivia.BaseURL,
		TriviaAmount: cfg.Trivia.Amount,
		Logger:       log,
		Metrics:      m,
	})
}
