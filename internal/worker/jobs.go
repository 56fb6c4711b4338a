package worker

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/bggcollect/internal/logger"
)

// Purger removes expired entries from a cache.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// PurgeCacheJob drops expired cached responses.
type PurgeCacheJob struct {
	Cache Purger
}

func (j *PurgeCacheJob) Name() string { return "purge_cache" }

func (j *PurgeCacheJob) Run(ctx context.Context) error {
	n, err := j.Cache.Purge(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.FromContext(ctx).Info("removed %d expired responses", n)
	}
	return nil
}

// Every submits job to p each interval until ctx is done. A tick is skipped
// when the queue is full.
func Every(ctx context.Context, p *Pool, interval time.Duration, job Job) {
	log := logger.FromContext(ctx).WithPrefix("scheduler").WithField("job", job.Name())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Submit(job); err != nil {
				log.Warn("skipping run: %v", err)
				if errors.Is(err, ErrPoolStopped) {
					return
				}
			}
		}
	}
}
