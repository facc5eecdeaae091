package models

import (
	"net/url"
	"strconv"
	"time"
)

type Task struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      *string    `json:"description,omitempty"`
	Priority         string     `json:"priority,omitempty"`
	Status           string     `json:"status,omitempty"`
	Completed        bool       `json:"completed"`
	BoardID          *int64     `json:"board_id,omitempty"`
	Board            *Board     `json:"board,omitempty"`
	StatusBadge      *string    `json:"status_badge,omitempty"`
	StatusBadgeColor string     `json:"status_badge_color,omitempty"`
	AssigneeID       *int64     `json:"assignee_id,omitempty"`
	DueDate          *string    `json:"due_date,omitempty"`
	DueTime          *string    `json:"due_time,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// TaskPage is the paginated body of GET /tasks/.
type TaskPage struct {
	Tasks    []Task `json:"tasks"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// TaskFilter narrows GET /tasks/. Zero values are omitted from the query.
type TaskFilter struct {
	BoardID   int64
	Status    string
	Priority  string
	Completed *bool
	Page      int
	PageSize  int
}

func (f TaskFilter) Query() url.Values {
	q := url.Values{}
	if f.BoardID != 0 {
		q.Set("board_id", strconv.FormatInt(f.BoardID, 10))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Priority != "" {
		q.Set("priority", f.Priority)
	}
	if f.Completed != nil {
		q.Set("completed", strconv.FormatBool(*f.Completed))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return q
}

// NewTask is the body of POST /tasks/.
type NewTask struct {
	Title              string  `json:"title"`
	Description        *string `json:"description"`
	BoardID            *int64  `json:"board_id"`
	Priority           string  `json:"priority"`
	Status             string  `json:"status"`
	StatusBadge        *string `json:"status_badge"`
	StatusBadgeColor   string  `json:"status_badge_color"`
	AssigneeID         *int64  `json:"assignee_id"`
	DueDate            *string `json:"due_date"`
	DueTime            string  `json:"due_time"`
	CreateReminder     *bool   `json:"create_reminder"`
	ReminderDaysBefore int     `json:"reminder_days_before"`
	ReminderTime       string  `json:"reminder_time"`
}

const (
	DefaultTaskPriority    = "Media"
	DefaultTaskStatus      = "todo"
	DefaultTaskBadgeColor  = "#9254DE"
	DefaultTaskDueTime     = "09:00"
	DefaultReminderDays    = 1
	DefaultReminderTime    = "09:00"
	defaultCreateReminders = true
)

// WithDefaults fills unset fields the way the web client does; reminders
// are created unless CreateReminder is explicitly false.
func (t NewTask) WithDefaults() NewTask {
	if t.Priority == "" {
		t.Priority = DefaultTaskPriority
	}
	if t.Status == "" {
		t.Status = DefaultTaskStatus
	}
	if t.StatusBadgeColor == "" {
		t.StatusBadgeColor = DefaultTaskBadgeColor
	}
	if t.DueTime == "" {
		t.DueTime = DefaultTaskDueTime
	}
	if t.CreateReminder == nil {
		v := defaultCreateReminders
		t.CreateReminder = &v
	}
	if t.ReminderDaysBefore == 0 {
		t.ReminderDaysBefore = DefaultReminderDays
	}
	if t.ReminderTime == "" {
		t.ReminderTime = DefaultReminderTime
	}
	return t
}

// TaskUpdate is a partial update of a task.
type TaskUpdate map[string]any

type StatusUpdate struct {
	Status string `json:"status"`
}

type MoveRequest struct {
	BoardID int64 `json:"board_id"`
}
