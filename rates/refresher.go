package rates

import (
	"context"
	"github.com/go-kit/log"
	"time"
)

// Refresher keeps a Provider up to date on a schedule.
type Refresher struct {
	// provider the provider being refreshed
	provider Provider

	// updateFrequency how often to refresh
	updateFrequency time.Duration

	logger log.Logger
}

// NewRefresher returns a new Refresher
func NewRefresher(updateFrequency time.Duration, logger log.Logger, p Provider) *Refresher {
	return &Refresher{
		provider:        p,
		updateFrequency: updateFrequency,
		logger:          logger,
	}
}

// Run refreshes immediately and then every updateFrequency until ctx is done.
// This is expected to be called from a go-routine.
func (r *Refresher) Run(ctx context.Context) {
	r.refreshNow(ctx)
	for {
		select {
		case <-time.After(r.updateFrequency):
			r.refreshNow(ctx)
		case <-ctx.Done():
			r.logger.Log("msg", "shutting down periodic refresh")
			return
		}
	}
}

// refreshNow refreshes the provider immediately
func (r *Refresher) refreshNow(ctx context.Context) {
	_, outcome := r.provider.Refresh(ctx)
	if outcome.Status != Refreshed {
		// Don't return, just log and hope this is a transient error
		r.logger.Log("msg", "periodic refresh failed, keeping previous rates", "error", outcome.Err)
	}
}
