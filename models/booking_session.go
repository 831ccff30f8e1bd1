package models

import "time"

// DialogueSession holds the answers a client has given so far in one conversation.
// It lives in the session store only until the conversation ends.
type DialogueSession struct {
	ClientID  string    `json:"clientId"`
	Flow      string    `json:"flow"`
	State     string    `json:"state"`
	UpdatedAt time.Time `json:"updatedAt"` // set by the session store on save

	// booking answers
	Details         BookingDetails `json:"details"`
	Location        string         `json:"location,omitempty"`
	OfferedDays     []OfferedDay   `json:"offeredDays,omitempty"`
	ChosenDate      string         `json:"chosenDate,omitempty"`
	OfferedSessions []string       `json:"offeredSessions,omitempty"`

	// provider answers
	ExistingID  string `json:"existingId,omitempty"`
	ConfirmedID string `json:"confirmedId,omitempty"`

	// cancellation answers
	Bookings []Booking `json:"bookings,omitempty"`
}

// OfferedDay is a day shown to the client together with its open sessions.
type OfferedDay struct {
	Date     string   `json:"date"`
	Sessions []string `json:"sessions"`
}

// DialogueReply is what the transport sends back to the client.
type DialogueReply struct {
	Text    string   `json:"reply"`
	Choices []string `json:"choices,omitempty"`
	State   string   `json:"state,omitempty"`
	Done    bool     `json:"done"`
}
