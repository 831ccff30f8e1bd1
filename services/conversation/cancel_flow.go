package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	scheduleRepo "medibook/database/repository/schedule"
	"medibook/models"
	"medibook/services/booking"
	"medibook/utils"
)

// startCancellation lists the client's upcoming bookings, numbered from 1.
func (e *Engine) startCancellation(ctx context.Context, clientID string) (models.DialogueReply, error) {
	bookings, err := e.bookings.ListBookings(ctx, clientID, utils.FormatDate(e.today()))
	if err != nil {
		return models.DialogueReply{}, err
	}
	next := models.DialogueSession{ClientID: clientID, Flow: FlowCancel, State: StateSelectBooking, Bookings: bookings}
	if len(bookings) == 0 {
		return e.commit(ctx, next, done(msgNoAppointments))
	}
	return e.commit(ctx, next, bookingList(bookings))
}

func (e *Engine) stepSelectBooking(ctx context.Context, rec models.DialogueSession, input string) (models.DialogueSession, models.DialogueReply, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(input), "."))
	if err != nil || n < 1 || n > len(rec.Bookings) {
		reply := bookingList(rec.Bookings)
		reply.Text = msgBadBookingNumber + "\n" + reply.Text
		return rec, reply, nil
	}
	chosen := rec.Bookings[n-1]

	err = e.bookings.Release(ctx, rec.ClientID, chosen)
	switch {
	case err == nil:
		return rec, done(fmt.Sprintf("Your appointment at %s on %s at %s has been cancelled.",
			chosen.Location, chosen.Date, chosen.SlotTime)), nil
	case errors.Is(err, booking.ErrAlreadyReleased):
		return rec, done(msgAlreadyReleased), nil
	case errors.Is(err, scheduleRepo.ErrNotFound):
		return rec, done(msgBookingGone), nil
	}
	return rec, models.DialogueReply{}, err
}

func bookingList(bookings []models.Booking) models.DialogueReply {
	var b strings.Builder
	b.WriteString("Your appointments:")
	choices := make([]string, len(bookings))
	for i, bk := range bookings {
		fmt.Fprintf(&b, "\n%d. %s", i+1, bk.Label())
		choices[i] = strconv.Itoa(i + 1)
	}
	b.WriteString("\nReply with the number of the appointment to cancel.")
	return prompt(b.String(), choices...)
}
