package models

// NotificationPayload is queued for delivery to a single client.
type NotificationPayload struct {
	ClientID string `json:"clientId"`
	Text     string `json:"text"`
}

// ReminderPayload identifies a booked slot the client should be reminded about.
type ReminderPayload struct {
	ClientID   string `json:"clientId"`
	ScheduleID string `json:"scheduleId"`
	Session    string `json:"session"`
	SlotTime   string `json:"slotTime"`
	Location   string `json:"location"`
	Date       string `json:"date"`
}
