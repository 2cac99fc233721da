// Package main is the entry point for the gtaskbot server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"gtaskbot/internal/backend/googletasks"
	"gtaskbot/internal/commands"
	"gtaskbot/internal/config"
	"gtaskbot/internal/digest"
	"gtaskbot/internal/dispatch"
	"gtaskbot/internal/exitcode"
	"gtaskbot/internal/logging"
	"gtaskbot/internal/metrics"
	"gtaskbot/internal/server"
	"gtaskbot/internal/service"
	"gtaskbot/internal/telegram"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, errOut io.Writer) int {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", "", "optional YAML config file; environment variables override it")
	fs.Usage = func() {
		fmt.Fprintf(errOut, "usage: %s [-config file] [serve|digest]\n", config.AppName)
	}
	if err := fs.Parse(args); err != nil {
		return exitcode.UsageError
	}

	mode := "serve"
	if fs.NArg() > 0 {
		mode = fs.Arg(0)
	}
	if fs.NArg() > 1 || (mode != "serve" && mode != "digest") {
		fs.Usage()
		return exitcode.UsageError
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	log := logging.New(cfg.Log)

	tg, err := telegram.NewBot(cfg.Telegram.Token)
	if err != nil {
		log.Error().Err(err).Msg("telegram client")
		return exitcode.ConfigError
	}

	// Every unit of work gets its own store handle.
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		client, err := googletasks.New(ctx, cfg.Google)
		if err != nil {
			return nil, err
		}
		return metrics.InstrumentStore(client), nil
	}
	job := digest.NewJob(factory, cfg, tg, log)

	if mode == "digest" {
		if err := job.Run(ctx); err != nil {
			log.Error().Err(err).Msg("digest failed")
			return exitcode.BackendError
		}
		return exitcode.Success
	}

	return serve(ctx, cfg, log, tg, factory, job)
}

func serve(ctx context.Context, cfg *config.Config, log *zerolog.Logger, tg telegram.Client, factory dispatch.ServiceFactory, job *digest.Job) int {
	metrics.MustRegister()

	if cfg.Telegram.WebhookURL != "" {
		if err := telegram.RegisterWebhook(ctx, tg, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			log.Error().Err(err).Msg("webhook registration failed")
			return exitcode.BackendError
		}
		log.Info().Str("url", cfg.Telegram.WebhookURL).Msg("webhook registered")
	}

	dispatcher := dispatch.NewDispatcher(commands.DefaultRegistry, factory, cfg, log)
	handler := telegram.NewHandler(tg, dispatcher, cfg, log)
	srv := server.New(cfg, handler, job, log)

	if cfg.Digest.Interval > 0 {
		sched := digest.NewScheduler(cfg.Digest.Interval, job, log)
		go func() {
			if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("digest scheduler stopped")
			}
		}()
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
			return exitcode.BackendError
		}
		return exitcode.Success
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
		return exitcode.BackendError
	}
	return exitcode.Success
}
