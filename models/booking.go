package models

import (
	"fmt"
	"strings"
)

// Booking is not stored on its own; it is rebuilt from the slot a client holds.
type Booking struct {
	ScheduleID string `json:"scheduleId"`
	Session    string `json:"session"`
	SlotTime   string `json:"slotTime"`
	Location   string `json:"location"`
	Date       string `json:"date"`
}

// RosterEntry is one booked slot as shown to the provider.
type RosterEntry struct {
	Session  string         `json:"session"`
	SlotTime string         `json:"slotTime"`
	ClientID string         `json:"clientId"`
	Details  BookingDetails `json:"details"`
}

// BookingsForClient rebuilds the bookings a client holds inside the given schedules.
func BookingsForClient(schedules []Schedule, clientID string) []Booking {
	var bookings []Booking
	for _, sched := range schedules {
		for _, name := range SessionNames {
			for _, slot := range sched.Sessions[name].Slots {
				if slot.ClientID != clientID {
					continue
				}
				bookings = append(bookings, Booking{
					ScheduleID: sched.ID,
					Session:    name,
					SlotTime:   slot.Time,
					Location:   sched.Location,
					Date:       sched.Date,
				})
			}
		}
	}
	return bookings
}

// Label renders the booking the way it is listed to the client,
// e.g. "Abet Hospital - 2025-05-05 - 08:30 (Morning)".
func (b Booking) Label() string {
	return fmt.Sprintf("%s - %s - %s (%s)", b.Location, b.Date, b.SlotTime, SessionLabel(b.Session))
}

// SessionLabel capitalises a stored session name for display.
func SessionLabel(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
