package tasks

import (
	"encoding/json"
	"testing"
	"time"

	"medibook/models"
)

func TestNewReminderTask(t *testing.T) {
	payload := models.ReminderPayload{ClientID: "c1", ScheduleID: "s1", Session: "morning", SlotTime: "08:30", Date: "2025-05-05"}
	task, opts, err := NewReminderTask(payload, time.Date(2025, 5, 5, 6, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewReminderTask() error = %v", err)
	}
	if task.Type() != TypeSendReminder {
		t.Fatalf("Type() = %q", task.Type())
	}
	if len(opts) == 0 {
		t.Fatal("expected ProcessAt option")
	}

	var got models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &got); err != nil {
		t.Fatalf("payload decode error = %v", err)
	}
	if got != payload {
		t.Fatalf("payload = %+v, want %+v", got, payload)
	}
}

func TestNewNotificationTask(t *testing.T) {
	task, _, err := NewNotificationTask(models.NotificationPayload{ClientID: "c1", Text: "hello"})
	if err != nil {
		t.Fatalf("NewNotificationTask() error = %v", err)
	}
	if task.Type() != TypeSendNotification {
		t.Fatalf("Type() = %q", task.Type())
	}
}
