package booking

import (
	"context"
	"time"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"

	"go.uber.org/zap"
)

// BookingService is the client-facing side of the availability store.
type BookingService interface {
	Allocate(ctx context.Context, schedule *models.Schedule, session, clientID string, details models.BookingDetails) (string, error)
	HasActiveBookingInWeek(ctx context.Context, clientID, referenceDate string) (bool, error)
	Book(ctx context.Context, req BookRequest) (models.Booking, error)
	AvailableDays(ctx context.Context, location, from string, days int) ([]models.OfferedDay, error)
	ListBookings(ctx context.Context, clientID, fromDate string) ([]models.Booking, error)
	Release(ctx context.Context, clientID string, booking models.Booking) error
}

// ReminderScheduler arranges for a client to be reminded of a booked slot at fireAt.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// BookRequest carries everything the booking flow collected.
type BookRequest struct {
	ClientID string
	Location string
	Date     string
	Session  string
	Details  models.BookingDetails
}

// DefaultBookingService implements BookingService on top of a ScheduleRepository.
type DefaultBookingService struct {
	Repo         scheduleRepo.ScheduleRepository
	Reminders    ReminderScheduler // optional
	ReminderLead time.Duration
	Location     *time.Location
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewBookingService(
	repo scheduleRepo.ScheduleRepository,
	reminders ReminderScheduler,
	reminderLead time.Duration,
	loc *time.Location,
	logger *zap.Logger,
) *DefaultBookingService {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{
		Repo:         repo,
		Reminders:    reminders,
		ReminderLead: reminderLead,
		Location:     loc,
		Logger:       logger,
		Now:          time.Now,
	}
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now == nil {
		return time.Now().In(s.Location)
	}
	return s.Now().In(s.Location)
}
