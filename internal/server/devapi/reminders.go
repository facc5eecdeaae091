package devapi

import (
	"net/http"
	"sort"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
)

type ownedReminder struct {
	owner    int64
	reminder models.Reminder
}

type ownedNotification struct {
	owner        int64
	notification models.Notification
}

func (s *Server) addReminderLocked(owner int64, task models.Task, daysBefore int, at string) models.Reminder {
	s.nextID++
	taskID := task.ID
	days := daysBefore
	rem := models.Reminder{
		ID:           s.nextID,
		TaskID:       &taskID,
		ReminderType: "due_date",
		DaysBefore:   &days,
		ReminderTime: at,
		Message:      "Reminder: " + task.Title,
		IsActive:     true,
	}
	if task.DueDate != nil {
		if due, err := time.ParseInLocation("2006-01-02 15:04", *task.DueDate+" "+at, time.UTC); err == nil {
			when := due.AddDate(0, 0, -daysBefore)
			rem.RemindAt = &when
		}
	}
	s.reminders[rem.ID] = &ownedReminder{owner: owner, reminder: rem}
	return rem
}

func (s *Server) notifyLocked(owner int64, title, message string, taskID *int64) {
	s.nextID++
	now := time.Now().UTC()
	s.notifications[s.nextID] = &ownedNotification{owner: owner, notification: models.Notification{
		ID:        s.nextID,
		Title:     title,
		Message:   message,
		TaskID:    taskID,
		CreatedAt: &now,
	}}
}

// Notify adds a notification for a user, for tests and the dev server.
func (s *Server) Notify(userID int64, title, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyLocked(userID, title, message, nil)
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())

	s.mu.Lock()
	out := make([]models.Reminder, 0)
	for _, rem := range s.reminders {
		if rem.owner == uid {
			out = append(out, rem.reminder)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var in models.ReminderInput
	if !decode(w, r, &in) {
		return
	}

	uid := userID(r.Context())
	s.mu.Lock()
	s.nextID++
	rem := &ownedReminder{owner: uid, reminder: models.Reminder{ID: s.nextID, IsActive: true}}
	applyReminderInput(&rem.reminder, in)
	s.reminders[rem.reminder.ID] = rem
	out := rem.reminder
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleGetReminder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rem, ok := s.ownReminderLocked(r)
	var out models.Reminder
	if ok {
		out = rem.reminder
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Reminder not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	var in models.ReminderInput
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	rem, ok := s.ownReminderLocked(r)
	var out models.Reminder
	if ok {
		applyReminderInput(&rem.reminder, in)
		out = rem.reminder
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Reminder not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rem, ok := s.ownReminderLocked(r)
	if ok {
		delete(s.reminders, rem.reminder.ID)
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Reminder not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.notificationsFor(userID(r.Context()), false))
}

func (s *Server) handleUnread(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.notificationsFor(userID(r.Context()), true))
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n, ok := s.notifications[pathID(r)]
	ok = ok && n.owner == userID(r.Context())
	var out models.Notification
	if ok {
		n.notification.IsRead = true
		out = n.notification
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Notification not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())

	s.mu.Lock()
	count := 0
	for _, n := range s.notifications {
		if n.owner == uid && !n.notification.IsRead {
			n.notification.IsRead = true
			count++
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]int{"marked": count})
}

func (s *Server) notificationsFor(uid int64, unreadOnly bool) []models.Notification {
	s.mu.Lock()
	out := make([]models.Notification, 0)
	for _, n := range s.notifications {
		if n.owner == uid && (!unreadOnly || !n.notification.IsRead) {
			out = append(out, n.notification)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *Server) ownReminderLocked(r *http.Request) (*ownedReminder, bool) {
	rem, ok := s.reminders[pathID(r)]
	if !ok || rem.owner != userID(r.Context()) {
		return nil, false
	}
	return rem, true
}

func applyReminderInput(rem *models.Reminder, in models.ReminderInput) {
	for k, v := range in {
		switch k {
		case "task_id":
			if f, ok := v.(float64); ok {
				id := int64(f)
				rem.TaskID = &id
			}
		case "reminder_type":
			rem.ReminderType, _ = v.(string)
		case "days_before":
			if f, ok := v.(float64); ok {
				d := int(f)
				rem.DaysBefore = &d
			}
		case "reminder_time":
			rem.ReminderTime, _ = v.(string)
		case "message":
			rem.Message, _ = v.(string)
		case "is_active":
			rem.IsActive, _ = v.(bool)
		}
	}
}
