// Package jobs is a SQLite-backed work queue. The job board uses it to
// deliver application events outside the request that produced them.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusRetry   = "retry"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

const (
	defaultMaxAttempts = 5
	maxBackoff         = 5 * time.Minute
)

// Job is one row of queued_jobs. Payload is the JSON the handler for Type
// expects.
type Job struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	Priority    int             `json:"priority"` // lower runs first
	ScheduledAt time.Time       `json:"scheduled_at"`
	NextTryAt   *time.Time      `json:"next_try_at,omitempty"`
	LastError   string          `json:"last_error,omitempty"`
	Created     time.Time       `json:"created"`
	Updated     time.Time       `json:"updated"`
}

type Handler func(ctx context.Context, j *Job) error

// Decode unmarshals the payload into v.
func (j *Job) Decode(v any) error {
	if err := json.Unmarshal(j.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", j.Type, err)
	}
	return nil
}

// recordFailure counts a failed attempt and reports whether the job has no
// attempts left.
func (j *Job) recordFailure(err error) bool {
	j.Attempts++
	j.LastError = err.Error()
	return j.Attempts >= j.MaxAttempts
}

// BackoffDuration is the delay before retry number attempt: 1s, 2s, 4s, ...
// up to five minutes.
func BackoffDuration(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	d := time.Second << uint(min(attempt, 16))
	return min(d, maxBackoff)
}
