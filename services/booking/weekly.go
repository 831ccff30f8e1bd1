package booking

import (
	"context"
	"fmt"

	"medibook/utils"
)

// HasActiveBookingInWeek reports whether clientID holds any slot in the
// Monday-to-Sunday week containing referenceDate.
func (s *DefaultBookingService) HasActiveBookingInWeek(ctx context.Context, clientID, referenceDate string) (bool, error) {
	start, end, err := utils.WeekWindow(referenceDate)
	if err != nil {
		return false, err
	}
	held, err := s.Repo.FindByClient(ctx, clientID, start, end)
	if err != nil {
		return false, fmt.Errorf("weekly booking lookup: %w", err)
	}
	return len(held) > 0, nil
}
