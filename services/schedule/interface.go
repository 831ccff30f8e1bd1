package schedule

import (
	"context"
	"fmt"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
	"medibook/services/notification"

	"go.uber.org/zap"
)

// ScheduleService is the provider-facing side of the availability store.
type ScheduleService interface {
	ExistingOn(ctx context.Context, date string) (*models.Schedule, error)
	DefineSchedule(ctx context.Context, req DefineRequest) (DefineResult, error)
	Roster(ctx context.Context, date string) (*models.Schedule, []models.RosterEntry, error)
}

// DefineRequest describes the schedule the provider wants on one day.
// ConfirmedExistingID names the schedule the provider agreed to overwrite.
type DefineRequest struct {
	Location            string
	Date                string
	Selection           SessionSelection
	ConfirmedExistingID string
}

// DefineResult reports what DefineSchedule stored and who was told about it.
type DefineResult struct {
	Schedule       models.Schedule
	Replaced       bool
	Notified       int
	NotifyFailures int
}

// OverwriteRequiredError is returned when a schedule already exists for the day
// and the provider has not confirmed replacing it.
type OverwriteRequiredError struct {
	Existing models.Schedule
}

func (e *OverwriteRequiredError) Error() string {
	return fmt.Sprintf("a schedule already exists for %s on %s", e.Existing.Location, e.Existing.Date)
}

// DefaultScheduleService implements ScheduleService.
type DefaultScheduleService struct {
	Repo              scheduleRepo.ScheduleRepository
	Notifier          notification.Notifier
	Windows           map[string]Window
	SlotsPerSession   int
	NotifyConcurrency int
	Logger            *zap.Logger
}

func NewScheduleService(
	repo scheduleRepo.ScheduleRepository,
	notifier notification.Notifier,
	windows map[string]Window,
	slotsPerSession, notifyConcurrency int,
	logger *zap.Logger,
) *DefaultScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if slotsPerSession < 1 {
		slotsPerSession = 10
	}
	if notifyConcurrency < 1 {
		notifyConcurrency = 1
	}
	return &DefaultScheduleService{
		Repo:              repo,
		Notifier:          notifier,
		Windows:           windows,
		SlotsPerSession:   slotsPerSession,
		NotifyConcurrency: notifyConcurrency,
		Logger:            logger,
	}
}
