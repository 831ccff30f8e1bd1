package schedule

import (
	"context"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
)

// Roster lists the booked slots of the schedule on date, session by session.
func (s *DefaultScheduleService) Roster(ctx context.Context, date string) (*models.Schedule, []models.RosterEntry, error) {
	sched, err := s.ExistingOn(ctx, date)
	if err != nil {
		return nil, nil, err
	}
	if sched == nil {
		return nil, nil, scheduleRepo.ErrNotFound
	}

	var entries []models.RosterEntry
	for _, name := range models.SessionNames {
		for _, slot := range sched.Sessions[name].Slots {
			if slot.ClientID == "" {
				continue
			}
			entry := models.RosterEntry{Session: name, SlotTime: slot.Time, ClientID: slot.ClientID}
			if slot.Details != nil {
				entry.Details = *slot.Details
			}
			entries = append(entries, entry)
		}
	}
	return sched, entries, nil
}
