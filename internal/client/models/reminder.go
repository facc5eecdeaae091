package models

import "time"

type Reminder struct {
	ID           int64      `json:"id"`
	TaskID       *int64     `json:"task_id,omitempty"`
	ReminderType string     `json:"reminder_type,omitempty"`
	DaysBefore   *int       `json:"days_before,omitempty"`
	ReminderTime string     `json:"reminder_time,omitempty"`
	RemindAt     *time.Time `json:"remind_at,omitempty"`
	Message      string     `json:"message,omitempty"`
	IsActive     bool       `json:"is_active"`
}

// ReminderInput is the body of reminder create/update calls.
type ReminderInput map[string]any

type Notification struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title,omitempty"`
	Message   string     `json:"message"`
	TaskID    *int64     `json:"task_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
