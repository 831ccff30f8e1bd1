package models

import "time"

// Session names stored as keys of Schedule.Sessions.
const (
	SessionMorning   = "morning"
	SessionAfternoon = "afternoon"
)

// SessionNames lists every session a schedule may hold, in day order.
var SessionNames = []string{SessionMorning, SessionAfternoon}

// Schedule is the availability of the provider at one location on one calendar day.
type Schedule struct {
	ID        string             `bson:"id" json:"id"`
	Location  string             `bson:"location" json:"location"`
	Date      string             `bson:"date" json:"date"` // e.g., "2025-05-05"
	Sessions  map[string]Session `bson:"sessions" json:"sessions"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Session is a named window of the day split into evenly spaced slots.
type Session struct {
	StartTime string `bson:"startTime" json:"startTime"` // "08:30"
	EndTime   string `bson:"endTime" json:"endTime"`     // "12:00"
	Slots     []Slot `bson:"slots" json:"slots"`         // chronological
}

// Slot is the smallest bookable unit. Available is false exactly when ClientID is set.
type Slot struct {
	Time      string          `bson:"time" json:"time"`
	Available bool            `bson:"available" json:"available"`
	ClientID  string          `bson:"clientId,omitempty" json:"clientId,omitempty"`
	Details   *BookingDetails `bson:"details,omitempty" json:"details,omitempty"`
}

// BookingDetails is what the client told us while booking.
type BookingDetails struct {
	Name   string `bson:"name" json:"name"`
	Age    string `bson:"age" json:"age"`
	Sex    string `bson:"sex" json:"sex"`
	Reason string `bson:"reason" json:"reason"`
	Phone  string `bson:"phone" json:"phone"`
}

// HasOpenSlot reports whether any slot of the session can still be booked.
func (s Session) HasOpenSlot() bool {
	for _, slot := range s.Slots {
		if slot.Available {
			return true
		}
	}
	return false
}

// OpenSessions returns the names of sessions with at least one open slot, in day order.
func (s Schedule) OpenSessions() []string {
	var open []string
	for _, name := range SessionNames {
		session, ok := s.Sessions[name]
		if ok && session.HasOpenSlot() {
			open = append(open, name)
		}
	}
	return open
}

// AssignedClients returns every client holding a slot in this schedule, in day order.
func (s Schedule) AssignedClients() []string {
	var clients []string
	for _, name := range SessionNames {
		for _, slot := range s.Sessions[name].Slots {
			if slot.ClientID != "" {
				clients = append(clients, slot.ClientID)
			}
		}
	}
	return clients
}
