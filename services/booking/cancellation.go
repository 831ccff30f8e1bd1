package booking

import (
	"context"
	"errors"
	"fmt"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"

	"go.uber.org/zap"
)

// ListBookings returns the client's bookings dated fromDate or later, date ascending.
func (s *DefaultBookingService) ListBookings(ctx context.Context, clientID, fromDate string) ([]models.Booking, error) {
	schedules, err := s.Repo.FindByClient(ctx, clientID, fromDate, "")
	if err != nil {
		return nil, fmt.Errorf("booking lookup: %w", err)
	}
	return models.BookingsForClient(schedules, clientID), nil
}

// Release frees the slot behind booking, provided clientID still holds it.
func (s *DefaultBookingService) Release(ctx context.Context, clientID string, booking models.Booking) error {
	sched, err := s.Repo.FindByID(ctx, booking.ScheduleID)
	if err != nil {
		return err
	}

	index := -1
	for i, slot := range sched.Sessions[booking.Session].Slots {
		if slot.Time == booking.SlotTime {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("slot %s %s: %w", booking.Session, booking.SlotTime, scheduleRepo.ErrNotFound)
	}

	err = s.Repo.ReleaseSlot(ctx, sched.ID, booking.Session, index, booking.SlotTime, clientID)
	if errors.Is(err, scheduleRepo.ErrConflict) {
		return ErrAlreadyReleased
	}
	if err != nil {
		return err
	}

	s.Logger.Info("Slot released",
		zap.String("clientId", clientID),
		zap.String("scheduleId", sched.ID),
		zap.String("session", booking.Session),
		zap.String("time", booking.SlotTime))
	return nil
}
