package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
	"medibook/services/notification"
	"medibook/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NewTaskMux routes queued notifications and reminders to their handlers.
// delivery is the adapter that actually reaches the client.
func NewTaskMux(delivery notification.Notifier, repo scheduleRepo.ScheduleRepository, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendNotification, handleNotificationTask(delivery, logger))
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(delivery, repo, logger))
	return mux
}

// InitTaskWorker runs the async worker in background and returns the server so
// the caller can shut it down.
func InitTaskWorker(redisOpts asynq.RedisClientOpt, mux *asynq.ServeMux, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	go func() {
		logger.Info("Starting task worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil || errors.Is(err, asynq.ErrServerClosed) {
				return
			}
			logger.Error("Task worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Task worker gave up after max retry attempts")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleNotificationTask(delivery notification.Notifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.NotificationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid notification payload", zap.Error(err))
			return fmt.Errorf("decode notification: %v: %w", err, asynq.SkipRetry)
		}
		if err := delivery.Notify(ctx, p.ClientID, p.Text); err != nil {
			logger.Warn("Notification delivery failed", zap.String("clientId", p.ClientID), zap.Error(err))
			return err
		}
		return nil
	}
}

// handleReminderTask re-reads the slot before reminding, since the booking may
// have been cancelled or the day rescheduled after the reminder was queued.
func handleReminderTask(delivery notification.Notifier, repo scheduleRepo.ScheduleRepository, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("decode reminder: %v: %w", err, asynq.SkipRetry)
		}
		logger := logger.With(zap.String("clientId", p.ClientID), zap.String("scheduleId", p.ScheduleID))

		sched, err := repo.FindByID(ctx, p.ScheduleID)
		if errors.Is(err, scheduleRepo.ErrNotFound) {
			logger.Info("Reminder dropped: schedule no longer exists")
			return nil
		}
		if err != nil {
			return err
		}
		if !holdsSlot(sched, p) {
			logger.Info("Reminder dropped: slot no longer held by client")
			return nil
		}

		text := fmt.Sprintf("Reminder: your appointment is at %s on %s at %s (%s session).",
			p.Location, p.Date, p.SlotTime, models.SessionLabel(p.Session))
		if err := delivery.Notify(ctx, p.ClientID, text); err != nil {
			logger.Warn("Reminder delivery failed", zap.Error(err))
			return err
		}
		return nil
	}
}

func holdsSlot(sched *models.Schedule, p models.ReminderPayload) bool {
	for _, slot := range sched.Sessions[p.Session].Slots {
		if slot.Time == p.SlotTime {
			return slot.ClientID == p.ClientID
		}
	}
	return false
}
