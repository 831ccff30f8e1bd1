package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
	"medibook/utils"
)

func (e *Engine) stepRosterDay(ctx context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	date, err := utils.NextWeekday(e.today(), input)
	if err != nil {
		return rec, prompt(msgBadWeekday, utils.Weekdays...), nil
	}

	sched, entries, err := e.schedules.Roster(ctx, date)
	if errors.Is(err, scheduleRepo.ErrNotFound) {
		return rec, done(msgNoRoster), nil
	}
	if err != nil {
		return rec, models.DialogueReply{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Appointments for %s at %s:", date, sched.Location)
	current := ""
	for _, entry := range entries {
		if entry.Session != current {
			current = entry.Session
			fmt.Fprintf(&b, "\n\n%s session:", models.SessionLabel(current))
		}
		fmt.Fprintf(&b, "\n- %s: %s (%s)", entry.SlotTime, entry.Details.Name, entry.Details.Phone)
	}
	if len(entries) == 0 {
		b.WriteString("\nNo patients booked.")
	}
	return rec, done(b.String()), nil
}
