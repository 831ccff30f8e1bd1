package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
	"medibook/services/booking"
	"medibook/utils"

	"go.uber.org/zap"
)

func (e *Engine) stepName(_ context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	if input == "" {
		return rec, prompt(msgAskName), nil
	}
	rec.Details.Name = input
	rec.State = StateAge
	return rec, prompt(msgAskAge), nil
}

func (e *Engine) stepAge(_ context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	age, err := strconv.Atoi(input)
	if err != nil || age < 0 || age > maxAge {
		return rec, prompt(msgBadAge), nil
	}
	rec.Details.Age = strconv.Itoa(age)
	rec.State = StateSex
	return rec, prompt(msgAskSex, sexChoices...), nil
}

func (e *Engine) stepSex(_ context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	sex, ok := matchChoice(input, sexChoices)
	if !ok {
		return rec, prompt(msgBadSex, sexChoices...), nil
	}
	rec.Details.Sex = sex
	rec.State = StateReason
	return rec, prompt(msgAskReason), nil
}

func (e *Engine) stepReason(_ context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	if input == "" {
		return rec, prompt(msgAskReason), nil
	}
	rec.Details.Reason = input
	rec.State = StatePhone
	return rec, prompt(msgAskPhone), nil
}

func (e *Engine) stepPhone(_ context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	if !validPhone(input) {
		return rec, prompt(msgBadPhone), nil
	}
	rec.Details.Phone = input
	rec.State = StateHospital
	return rec, prompt(msgAskHospital, e.locations...), nil
}

// stepHospital offers the days with open slots at the chosen hospital. With
// none, the client stays here and may pick another hospital.
func (e *Engine) stepHospital(ctx context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	location, ok := matchChoice(input, e.locations)
	if !ok {
		return rec, prompt(msgBadHospital, e.locations...), nil
	}

	days, err := e.bookings.AvailableDays(ctx, location, utils.FormatDate(e.today()), e.window)
	if err != nil {
		return rec, models.DialogueReply{}, err
	}
	if len(days) == 0 {
		text := fmt.Sprintf("No available days at %s in the next %d days. Please choose another hospital.", location, e.window)
		return rec, prompt(text, e.locations...), nil
	}

	rec.Location = location
	rec.OfferedDays = days
	rec.State = StateSelectDay
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = utils.DayLabel(d.Date)
	}
	return rec, prompt(msgAskDay, labels...), nil
}

func (e *Engine) stepSelectDay(_ context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	date := utils.ParseDayLabel(input)
	for _, day := range rec.OfferedDays {
		if day.Date != date {
			continue
		}
		rec.ChosenDate = day.Date
		rec.OfferedSessions = day.Sessions
		rec.State = StateSelectSession
		return rec, prompt(msgAskSession, sessionLabels(day.Sessions)...), nil
	}

	labels := make([]string, len(rec.OfferedDays))
	for i, d := range rec.OfferedDays {
		labels[i] = utils.DayLabel(d.Date)
	}
	return rec, prompt(msgBadDay, labels...), nil
}

// stepSelectSession books the slot. Every outcome other than a storage failure
// ends the conversation.
func (e *Engine) stepSelectSession(ctx context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	session := ""
	for _, name := range rec.OfferedSessions {
		if strings.EqualFold(strings.TrimSpace(input), name) {
			session = name
			break
		}
	}
	if session == "" {
		return rec, prompt(msgBadSession, sessionLabels(rec.OfferedSessions)...), nil
	}

	b, err := e.bookings.Book(ctx, booking.BookRequest{
		ClientID: rec.ClientID,
		Location: rec.Location,
		Date:     rec.ChosenDate,
		Session:  session,
		Details:  rec.Details,
	})
	switch {
	case err == nil:
		e.logger.Info("Appointment booked",
			zap.String("clientId", rec.ClientID),
			zap.String("scheduleId", b.ScheduleID),
			zap.String("time", b.SlotTime))
		text := fmt.Sprintf("Your appointment is confirmed at %s on %s at %s (%s session).",
			b.Location, utils.DayLabel(b.Date), b.SlotTime, models.SessionLabel(b.Session))
		return rec, done(text), nil
	case errors.Is(err, booking.ErrDuplicateBooking):
		return rec, done(msgDuplicateBooking), nil
	case errors.Is(err, booking.ErrNoCapacity):
		return rec, done(msgSessionFull), nil
	case errors.Is(err, scheduleRepo.ErrNotFound), errors.Is(err, scheduleRepo.ErrConflict):
		return rec, done(msgScheduleGone), nil
	}
	return rec, models.DialogueReply{}, err
}

func sessionLabels(names []string) []string {
	labels := make([]string, len(names))
	for i, name := range names {
		labels[i] = models.SessionLabel(name)
	}
	return labels
}

// validPhone accepts digits with optional separators and a leading plus.
func validPhone(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return digits >= 7 && digits <= 15
}
