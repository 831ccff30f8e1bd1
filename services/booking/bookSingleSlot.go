package booking

import (
	"context"
	"time"

	"medibook/models"
	"medibook/utils"

	"go.uber.org/zap"
)

// Book checks the weekly limit, then allocates a slot in the requested session.
// Nothing is written when the client already has a booking that week.
func (s *DefaultBookingService) Book(ctx context.Context, req BookRequest) (models.Booking, error) {
	logger := s.Logger.With(zap.String("clientId", req.ClientID), zap.String("date", req.Date))

	busy, err := s.HasActiveBookingInWeek(ctx, req.ClientID, req.Date)
	if err != nil {
		return models.Booking{}, err
	}
	if busy {
		logger.Info("Booking refused: client already booked this week")
		return models.Booking{}, ErrDuplicateBooking
	}

	sched, err := s.Repo.FindByLocationAndDate(ctx, req.Location, req.Date)
	if err != nil {
		return models.Booking{}, err
	}

	slotTime, err := s.Allocate(ctx, sched, req.Session, req.ClientID, req.Details)
	if err != nil {
		return models.Booking{}, err
	}

	booking := models.Booking{
		ScheduleID: sched.ID,
		Session:    req.Session,
		SlotTime:   slotTime,
		Location:   sched.Location,
		Date:       sched.Date,
	}
	s.scheduleReminder(ctx, req.ClientID, booking)
	return booking, nil
}

// scheduleReminder never fails the booking; a missed reminder is only logged.
func (s *DefaultBookingService) scheduleReminder(ctx context.Context, clientID string, b models.Booking) {
	if s.Reminders == nil {
		return
	}
	fireAt, err := s.reminderTime(b)
	if err != nil {
		s.Logger.Warn("Could not compute reminder time", zap.String("clientId", clientID), zap.Error(err))
		return
	}
	if !fireAt.After(s.now()) {
		return
	}

	payload := models.ReminderPayload{
		ClientID:   clientID,
		ScheduleID: b.ScheduleID,
		Session:    b.Session,
		SlotTime:   b.SlotTime,
		Location:   b.Location,
		Date:       b.Date,
	}
	if err := s.Reminders.ScheduleReminder(ctx, payload, fireAt); err != nil {
		s.Logger.Error("Failed to schedule appointment reminder",
			zap.String("clientId", clientID),
			zap.String("scheduleId", b.ScheduleID),
			zap.Error(err))
	}
}

func (s *DefaultBookingService) reminderTime(b models.Booking) (time.Time, error) {
	day, err := utils.ParseDate(b.Date, s.Location)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := utils.ParseClock(b.SlotTime)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(minutes)*time.Minute - s.ReminderLead), nil
}
