package jobs

import (
	"context"
	"time"
)

// Job is a periodic task runnable by the scheduler.
type Job interface {
	Name() string
	NextRun(now time.Time) time.Time
	Run(ctx context.Context) error
}
