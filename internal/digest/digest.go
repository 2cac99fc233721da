// Package digest sends the daily summary of open tasks.
package digest

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/rs/zerolog"

	"gtaskbot/internal/config"
	"gtaskbot/internal/dispatch"
	"gtaskbot/internal/logging"
	"gtaskbot/internal/metrics"
	"gtaskbot/internal/output"
	"gtaskbot/internal/telegram"
)

// ErrNoTarget is returned when no target chat is configured.
var ErrNoTarget = errors.New("target chat id not set")

// Job composes the digest from a fresh snapshot and sends it.
type Job struct {
	factory dispatch.ServiceFactory
	cfg     *config.Config
	client  telegram.Client
	log     *zerolog.Logger
}

// NewJob creates a digest job.
func NewJob(factory dispatch.ServiceFactory, cfg *config.Config, client telegram.Client, logger *zerolog.Logger) *Job {
	if logger == nil {
		logger = logging.Nop()
	}
	compLog := logger.With().Str("component", "digest").Logger()
	return &Job{factory: factory, cfg: cfg, client: client, log: &compLog}
}

// Run sends one digest to the configured chat.
// If the store fails the chat gets the error text instead and the error is
// still returned.
func (j *Job) Run(ctx context.Context) error {
	if !j.cfg.HasDigestTarget() {
		metrics.IncDigest("no_target")
		return ErrNoTarget
	}
	log := logging.With(ctx, j.log)

	svc, err := j.factory(ctx, j.cfg)
	if err != nil {
		j.reportFailure(ctx, err)
		return fmt.Errorf("connect task store: %w", err)
	}
	tasks, err := svc.ListOpenTasks(ctx)
	if err != nil {
		log.Error().Err(err).Msg("digest fetch failed")
		j.reportFailure(ctx, err)
		return err
	}

	if err := j.send(ctx, output.ComposeDigest(tasks)); err != nil {
		metrics.IncDigest("send_error")
		return fmt.Errorf("send digest: %w", err)
	}

	metrics.IncDigest("sent")
	log.Info().Int("tasks", len(tasks)).Int64("chat_id", j.cfg.Digest.TargetChatID).Msg("digest sent")
	return nil
}

// reportFailure tells the target chat that the digest could not be built.
func (j *Job) reportFailure(ctx context.Context, err error) {
	metrics.IncDigest("store_error")
	if sendErr := j.send(ctx, output.FormatStoreError(err)); sendErr != nil {
		logging.With(ctx, j.log).Error().Err(sendErr).Msg("digest failure report not sent")
	}
}

func (j *Job) send(ctx context.Context, text string) error {
	_, err := j.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: j.cfg.Digest.TargetChatID,
		Text:   text,
	})
	return err
}
