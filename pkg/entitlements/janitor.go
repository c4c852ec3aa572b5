package entitlements

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultSweepInterval = 10 * time.Minute

// Janitor periodically sweeps expired entries out of a Service's cache
// tiers. Read paths never serve expired entries regardless; the janitor only
// reclaims space in long-running processes.
type Janitor struct {
	svc      *Service
	interval time.Duration
	logger   *logrus.Entry
}

func NewJanitor(svc *Service, interval time.Duration, log *logrus.Logger) *Janitor {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if log == nil {
		log = logrusNop()
	}
	return &Janitor{
		svc:      svc,
		interval: interval,
		logger:   log.WithField("component", "entitlements.janitor"),
	}
}

// Run sweeps on a ticker until the context is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.WithField("interval", j.interval.String()).Info("janitor started")
	for {
		select {
		case <-ctx.Done():
			j.logger.Info("janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context) {
	removed, err := j.svc.CleanupExpired(ctx)
	if err != nil {
		j.logger.WithError(err).Warn("sweep failed")
		return
	}
	if removed > 0 {
		j.logger.WithField("removed", removed).Debug("swept expired entries")
	}
}
