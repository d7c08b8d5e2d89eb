package models

import (
	"strings"
	"time"
)

// Reminder is a calendar reminder owned by a single user. Reminders never
// expire on their own; only an explicit toggle or delete mutates them.
type Reminder struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Date      time.Time `json:"date"`
	Location  string    `json:"location,omitempty"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

type AddReminderRequest struct {
	Text     string    `json:"text"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
}

func (r *AddReminderRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Text) == "" {
		errors["text"] = "Text is required"
	}
	if r.Date.IsZero() {
		errors["date"] = "Date is required"
	}

	return errors
}
