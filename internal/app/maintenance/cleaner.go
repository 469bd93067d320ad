package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hadrian75/campusfound/internal/services"
	"github.com/hadrian75/campusfound/pkg/logger"
)

// Cleaner periodically purges dead token rows.
type Cleaner struct {
	tokens   *services.TokenService
	schedule string
	cron     *cron.Cron
	log      *zap.Logger
}

// NewCleaner constructs a Cleaner with the given cron schedule.
func NewCleaner(tokens *services.TokenService, schedule string) (*Cleaner, error) {
	if tokens == nil {
		return nil, errors.New("cleaner requires a token service")
	}
	if schedule == "" {
		schedule = "@hourly"
	}

	return &Cleaner{
		tokens:   tokens,
		schedule: schedule,
		log:      logger.WithModule("maintenance"),
	}, nil
}

// Start registers the cleanup job and begins the cron scheduler.
func (c *Cleaner) Start() error {
	if c.cron != nil {
		return errors.New("cleaner already started")
	}

	runner := cron.New()
	if _, err := runner.AddFunc(c.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := c.RunOnce(ctx); err != nil {
			c.log.Warn("token cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	runner.Start()
	c.cron = runner
	return nil
}

// RunOnce executes a single cleanup pass.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	var errs error

	removed, err := c.tokens.PruneTokens(ctx)
	if err != nil {
		errs = multierr.Append(errs, err)
	}
	if removed > 0 {
		c.log.Info("pruned dead tokens", zap.Int64("removed", removed))
	}

	return errs
}

// Stop halts the scheduler and waits for running jobs to finish.
func (c *Cleaner) Stop() {
	if c.cron == nil {
		return
	}
	<-c.cron.Stop().Done()
	c.cron = nil
}
