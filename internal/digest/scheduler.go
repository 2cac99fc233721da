package digest

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"gtaskbot/internal/logging"
)

// Runner is a unit of scheduled work.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler runs a job on a fixed interval, for deployments with no
// external cron caller.
type Scheduler struct {
	interval time.Duration
	job      Runner
	log      *zerolog.Logger
}

// NewScheduler creates a scheduler. interval must be positive.
func NewScheduler(interval time.Duration, job Runner, logger *zerolog.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Nop()
	}
	compLog := logger.With().Str("component", "digest_scheduler").Logger()
	return &Scheduler{interval: interval, job: job, log: &compLog}
}

// Run blocks until ctx is cancelled, running the job on every tick.
// The first run happens one interval after start.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info().Dur("interval", s.interval).Msg("starting digest scheduler")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("stopping digest scheduler")
			return ctx.Err()
		case <-ticker.C:
			if err := s.job.Run(ctx); err != nil {
				s.log.Error().Err(err).Msg("scheduled digest failed")
			}
		}
	}
}
