package notification

import (
	"context"

	"firebase.google.com/go/v4/messaging"
	"github.com/hibiken/asynq"
)

// Notifier delivers a text message to one client.
type Notifier interface {
	Notify(ctx context.Context, clientID, text string) error
}

// TaskEnqueuer is the part of *asynq.Client the queue adapter needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// MessagingClient is the part of *messaging.Client the push adapter needs.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}
