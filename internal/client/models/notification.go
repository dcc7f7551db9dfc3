package models

import "time"

// Notification is an alert surfaced to the user about activity on a
// project or task they follow.
type Notification struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
