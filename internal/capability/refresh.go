package capability

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Source re-derives the capability flag map from the environment.
type Source func() map[string]bool

// Refresher periodically re-derives the capability snapshot from a Source
// and pushes it into a StaticProvider on a cron schedule.
type Refresher struct {
	cron     *cron.Cron
	provider *StaticProvider
	source   Source
	logger   *slog.Logger
}

// NewRefresher creates a refresher. logger may be nil.
func NewRefresher(provider *StaticProvider, source Source, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		cron:     cron.New(),
		provider: provider,
		source:   source,
		logger:   logger,
	}
}

// Start begins periodic refresh. The schedule is a standard cron expression
// (5 fields) or a predefined schedule like @every 30s. Blocks until the
// context is cancelled.
func (r *Refresher) Start(ctx context.Context, schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		flags := r.source()
		r.provider.Replace(flags)
		r.logger.Debug("capability snapshot refreshed", "flags", flags)
	})
	if err != nil {
		return fmt.Errorf("capability refresher: invalid schedule %q: %w", schedule, err)
	}

	r.cron.Start()
	r.logger.Info("capability refresher started", "schedule", schedule)

	<-ctx.Done()
	r.cron.Stop()
	r.logger.Info("capability refresher stopped")
	return ctx.Err()
}
