package jobs

import (
	"context"
	"fmt"

	"github.com/garnizeh/jobboard/internal/events"
)

// TypePublishEvent is the job type that delivers a domain event to the
// configured publisher.
const TypePublishEvent = "publish_event"

const (
	eventPriority    = 10
	eventMaxAttempts = 5
)

// Enqueuer persists a job for later processing.
type Enqueuer interface {
	Enqueue(ctx context.Context, typ string, payload any, priority int, maxAttempts int) (int64, error)
}

// Notifier queues domain events so publishing happens outside the request.
type Notifier struct {
	q Enqueuer
}

func NewNotifier(q Enqueuer) *Notifier { return &Notifier{q: q} }

func (n *Notifier) Notify(ctx context.Context, e events.Event) error {
	if _, err := n.q.Enqueue(ctx, TypePublishEvent, e, eventPriority, eventMaxAttempts); err != nil {
		return fmt.Errorf("queue %s event: %w", e.Type, err)
	}
	return nil
}

// PublishHandler decodes the queued event and hands it to pub.
func PublishHandler(pub events.Publisher) Handler {
	return func(ctx context.Context, j *Job) error {
		var e events.Event
		if err := j.Decode(&e); err != nil {
			return err
		}
		return pub.Publish(ctx, e)
	}
}
