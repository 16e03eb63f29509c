package models

import "time"

type ActivityKind string

const (
	ActivityLogin             ActivityKind = "login"
	ActivityRegister          ActivityKind = "register"
	ActivityActionMessage     ActivityKind = "action_message"
	ActivityNotificationsRead ActivityKind = "notifications_read"
)

// Activity is one operator action recorded in the journal.
type Activity struct {
	ID        string       `json:"id"`
	Kind      ActivityKind `json:"kind"`
	Subject   string       `json:"subject"`
	Detail    string       `json:"detail"`
	Success   bool         `json:"success"`
	CreatedAt time.Time    `json:"createdAt"`
}
