package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
)

type ReminderService interface {
	List(ctx context.Context) ([]models.Reminder, error)
	Get(ctx context.Context, id int64) (*models.Reminder, error)
	Create(ctx context.Context, in models.ReminderInput) (*models.Reminder, error)
	Update(ctx context.Context, id int64, in models.ReminderInput) (*models.Reminder, error)
	Delete(ctx context.Context, id int64) error

	Notifications(ctx context.Context) ([]models.Notification, error)
	Unread(ctx context.Context) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context) error
}

type reminderService struct {
	api API
}

func NewReminderService(api API) ReminderService {
	return &reminderService{api: api}
}

const notificationsPath = "/reminders/notifications"

func reminderPath(id int64) string {
	return fmt.Sprintf("/reminders/%d", id)
}

func (s *reminderService) List(ctx context.Context) ([]models.Reminder, error) {
	var out []models.Reminder
	if err := s.api.Do(ctx, http.MethodGet, "/reminders/", nil, &out); err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return out, nil
}

func (s *reminderService) Get(ctx context.Context, id int64) (*models.Reminder, error) {
	var out models.Reminder
	if err := s.api.Do(ctx, http.MethodGet, reminderPath(id), nil, &out); err != nil {
		return nil, fmt.Errorf("get reminder %d: %w", id, err)
	}
	return &out, nil
}

func (s *reminderService) Create(ctx context.Context, in models.ReminderInput) (*models.Reminder, error) {
	var out models.Reminder
	if err := s.api.Do(ctx, http.MethodPost, "/reminders/", in, &out); err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	return &out, nil
}

func (s *reminderService) Update(ctx context.Context, id int64, in models.ReminderInput) (*models.Reminder, error) {
	var out models.Reminder
	if err := s.api.Do(ctx, http.MethodPut, reminderPath(id), in, &out); err != nil {
		return nil, fmt.Errorf("update reminder %d: %w", id, err)
	}
	return &out, nil
}

func (s *reminderService) Delete(ctx context.Context, id int64) error {
	if err := s.api.Do(ctx, http.MethodDelete, reminderPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete reminder %d: %w", id, err)
	}
	return nil
}

func (s *reminderService) Notifications(ctx context.Context) ([]models.Notification, error) {
	var out []models.Notification
	if err := s.api.Do(ctx, http.MethodGet, notificationsPath+"/all", nil, &out); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (s *reminderService) Unread(ctx context.Context) ([]models.Notification, error) {
	var out []models.Notification
	if err := s.api.Do(ctx, http.MethodGet, notificationsPath+"/unread", nil, &out); err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	return out, nil
}

func (s *reminderService) MarkRead(ctx context.Context, id int64) error {
	if err := s.api.Do(ctx, http.MethodPatch, fmt.Sprintf("%s/%d/read", notificationsPath, id), nil, nil); err != nil {
		return fmt.Errorf("mark notification %d read: %w", id, err)
	}
	return nil
}

func (s *reminderService) MarkAllRead(ctx context.Context) error {
	if err := s.api.Do(ctx, http.MethodPost, notificationsPath+"/mark-all-read", nil, nil); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
