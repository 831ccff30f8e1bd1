package booking

import (
	"context"
	"fmt"

	"medibook/models"
	"medibook/utils"
)

// AvailableDays returns the days in [from, from+days-1] at location that still
// have an open slot, each with its open sessions, date ascending.
func (s *DefaultBookingService) AvailableDays(ctx context.Context, location, from string, days int) ([]models.OfferedDay, error) {
	if days < 1 {
		days = 1
	}
	to, err := utils.AddDays(from, days-1)
	if err != nil {
		return nil, err
	}
	schedules, err := s.Repo.FindInRange(ctx, location, from, to)
	if err != nil {
		return nil, fmt.Errorf("availability lookup: %w", err)
	}

	var offered []models.OfferedDay
	for _, sched := range schedules {
		open := sched.OpenSessions()
		if len(open) == 0 {
			continue
		}
		offered = append(offered, models.OfferedDay{Date: sched.Date, Sessions: open})
	}
	return offered, nil
}
