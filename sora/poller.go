package sora

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultPollInterval is the interval used when PollUntilComplete is
// called with a non-positive interval. Intervals of at least five seconds
// are recommended to stay within the service's rate limits.
const DefaultPollInterval = 5 * time.Second

// PollUntilComplete repeatedly fetches a job's status until it reaches a
// terminal state, sleeping interval between requests. Polling is strictly
// sequential: one request is in flight at a time, and cancellation via
// ctx is observed between requests, never by interrupting one.
//
// On success it returns the final job snapshot and, for a succeeded job,
// its generations. Failed and cancelled jobs are returned without error
// and with no generations; callers inspect Job.Status and
// Job.FailureReason. If the job is still non-terminal once elapsed time
// exceeds timeout, it returns ErrPollTimeout and issues no further
// requests. A non-positive timeout disables the deadline.
func (c *Client) PollUntilComplete(ctx context.Context, jobID string, interval, timeout time.Duration) (*Job, []Generation, error) {
	if jobID == "" {
		return nil, nil, ErrJobIDRequired
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	start := time.Now()

	for {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return nil, nil, err
		}

		if job.Status.IsTerminal() {
			c.logger.Debug("job reached terminal state",
				slog.String("job_id", jobID),
				slog.String("status", string(job.Status)),
			)
			if job.Status == StatusSucceeded {
				return job, job.Generations, nil
			}
			return job, nil, nil
		}

		c.logger.Debug("job still in progress",
			slog.String("job_id", jobID),
			slog.String("status", string(job.Status)),
			slog.Duration("interval", interval),
		)

		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("sora: poll job %s: %w", jobID, ctx.Err())
		case <-time.After(interval):
		}

		if timeout > 0 && time.Since(start) > timeout {
			return nil, nil, fmt.Errorf("%w: job %s not terminal after %s", ErrPollTimeout, jobID, timeout)
		}
	}
}
