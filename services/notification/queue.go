package notification

import (
	"context"
	"fmt"
	"time"

	"medibook/models"
	"medibook/services/tasks"

	"go.uber.org/zap"
)

// QueueNotifier hands messages to the background worker instead of sending them inline.
type QueueNotifier struct {
	queue  TaskEnqueuer
	logger *zap.Logger
}

func NewQueueNotifier(queue TaskEnqueuer, logger *zap.Logger) *QueueNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueNotifier{queue: queue, logger: logger}
}

func (n *QueueNotifier) Notify(ctx context.Context, clientID, text string) error {
	task, opts, err := tasks.NewNotificationTask(models.NotificationPayload{ClientID: clientID, Text: text})
	if err != nil {
		return fmt.Errorf("failed to build notification task: %w", err)
	}
	info, err := n.queue.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue notification for %s: %w", clientID, err)
	}
	n.logger.Debug("Notification queued", zap.String("clientId", clientID), zap.String("taskId", info.ID))
	return nil
}

func (n *QueueNotifier) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := tasks.NewReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	info, err := n.queue.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder for %s: %w", payload.ClientID, err)
	}
	n.logger.Info("Reminder scheduled",
		zap.String("clientId", payload.ClientID),
		zap.String("taskId", info.ID),
		zap.Time("fireAt", fireAt))
	return nil
}
