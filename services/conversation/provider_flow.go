package conversation

import (
	"context"
	"errors"
	"fmt"

	"medibook/models"
	"medibook/services/schedule"
	"medibook/utils"

	"go.uber.org/zap"
)

func (e *Engine) stepProviderHospital(_ context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	location, ok := matchChoice(input, e.locations)
	if !ok {
		return rec, prompt(msgBadHospital, e.locations...), nil
	}
	rec.Location = location
	rec.State = StateProviderDay
	return rec, prompt(msgAskDay, utils.Weekdays...), nil
}

// stepProviderDay resolves the weekday to its next occurrence and asks before
// touching a day that is already scheduled.
func (e *Engine) stepProviderDay(ctx context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	date, err := utils.NextWeekday(e.today(), input)
	if err != nil {
		return rec, prompt(msgBadWeekday, utils.Weekdays...), nil
	}
	rec.ChosenDate = date

	existing, err := e.schedules.ExistingOn(ctx, date)
	if err != nil {
		return rec, models.DialogueReply{}, err
	}
	if existing != nil {
		return askOverwrite(rec, *existing)
	}

	rec.State = StateProviderSession
	return rec, prompt(msgAskSession, schedule.SelectionChoices...), nil
}

func (e *Engine) stepConfirmOverwrite(_ context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	answer, ok := matchChoice(input, confirmChoices)
	if !ok {
		return rec, prompt(msgBadConfirm, confirmChoices...), nil
	}
	if answer == "No" {
		return rec, done(msgScheduleKept), nil
	}
	rec.ConfirmedID = rec.ExistingID
	rec.State = StateProviderSession
	text := "Bookings on the old schedule will be cancelled once you pick the session. " + msgAskSession
	return rec, prompt(text, schedule.SelectionChoices...), nil
}

func (e *Engine) stepProviderSession(ctx context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	selection, err := schedule.ParseSelection(input)
	if err != nil {
		return rec, prompt(msgAskSession, schedule.SelectionChoices...), nil
	}

	res, err := e.schedules.DefineSchedule(ctx, schedule.DefineRequest{
		Location:            rec.Location,
		Date:                rec.ChosenDate,
		Selection:           selection,
		ConfirmedExistingID: rec.ConfirmedID,
	})
	var overwrite *schedule.OverwriteRequiredError
	if errors.As(err, &overwrite) {
		// The day was scheduled (or rescheduled) since the provider last looked.
		return askOverwrite(rec, overwrite.Existing)
	}
	if err != nil {
		return rec, models.DialogueReply{}, err
	}

	e.logger.Info("Provider schedule defined",
		zap.String("scheduleId", res.Schedule.ID),
		zap.Bool("replaced", res.Replaced),
		zap.Int("notified", res.Notified),
		zap.Int("notifyFailures", res.NotifyFailures))

	text := fmt.Sprintf("Schedule set for %s on %s.", res.Schedule.Location, utils.DayLabel(res.Schedule.Date))
	if res.Replaced {
		text += fmt.Sprintf(" The old schedule was removed and %d patient(s) were told their appointment was cancelled.",
			res.Notified+res.NotifyFailures)
	}
	return rec, done(text), nil
}

func askOverwrite(rec models.DialogueSession, existing models.Schedule) (models.DialogueSession, models.DialogueReply, error) {
	rec.ExistingID = existing.ID
	rec.ConfirmedID = ""
	rec.State = StateConfirmOverwrite
	text := fmt.Sprintf("Already scheduled for %s on %s. Overwrite with %s?", existing.Location, existing.Date, rec.Location)
	if booked := len(existing.AssignedClients()); booked > 0 {
		text += fmt.Sprintf(" %d booked patient(s) will be notified.", booked)
	}
	return rec, prompt(text, confirmChoices...), nil
}
