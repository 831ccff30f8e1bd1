package booking

import (
	"context"
	"errors"
	"fmt"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"

	"go.uber.org/zap"
)

// Allocate assigns the earliest open slot of session to clientID. A lost race on
// one slot moves on to the next open slot of a freshly read schedule.
func (s *DefaultBookingService) Allocate(
	ctx context.Context,
	schedule *models.Schedule,
	session, clientID string,
	details models.BookingDetails,
) (string, error) {
	current := schedule
	maxAttempts := 2*len(schedule.Sessions[session].Slots) + 1

	for attempt := 0; attempt < maxAttempts; attempt++ {
		sess, ok := current.Sessions[session]
		if !ok {
			return "", fmt.Errorf("session %s on %s: %w", session, current.Date, scheduleRepo.ErrNotFound)
		}
		index := firstOpenSlot(sess.Slots)
		if index < 0 {
			return "", ErrNoCapacity
		}
		slotTime := sess.Slots[index].Time

		err := s.Repo.ClaimSlot(ctx, current.ID, session, index, slotTime, clientID, details)
		if err == nil {
			s.Logger.Info("Slot allocated",
				zap.String("clientId", clientID),
				zap.String("scheduleId", current.ID),
				zap.String("session", session),
				zap.String("time", slotTime))
			return slotTime, nil
		}
		if !errors.Is(err, scheduleRepo.ErrConflict) {
			return "", err
		}

		s.Logger.Debug("Lost slot race, retrying",
			zap.String("clientId", clientID),
			zap.String("time", slotTime),
			zap.Int("attempt", attempt))

		current, err = s.Repo.FindByID(ctx, schedule.ID)
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("allocation gave up after %d attempts: %w", maxAttempts, scheduleRepo.ErrConflict)
}

func firstOpenSlot(slots []models.Slot) int {
	for i, slot := range slots {
		if slot.Available {
			return i
		}
	}
	return -1
}
