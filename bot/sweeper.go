package bot

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Purger deletes expired status records.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Sweeper periodically garbage-collects expired status records. Expired rows
// are already ignored by reads; sweeping only keeps the table small.
type Sweeper struct {
	purger   Purger
	interval time.Duration
	logger   *zap.Logger
}

func NewSweeper(purger Purger, interval time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{purger: purger, interval: interval, logger: logger}
}

// Run sweeps every interval until ctx is done. A non-positive interval
// disables sweeping and Run returns immediately.
func (s *Sweeper) Run(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("expired status sweeping disabled")
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single purge. Failures are logged and retried next tick.
func (s *Sweeper) Sweep(ctx context.Context) {
	n, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("purge expired statuses", zap.Error(err))
		}
		return
	}
	if n > 0 {
		s.logger.Info("purged expired statuses", zap.Int64("rows", n))
	}
}
