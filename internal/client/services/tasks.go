package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
)

type TaskService interface {
	List(ctx context.Context, f models.TaskFilter) (*models.TaskPage, error)
	ListByBoard(ctx context.Context, boardID int64) ([]models.Task, error)
	Get(ctx context.Context, id int64) (*models.Task, error)
	Create(ctx context.Context, t models.NewTask) (*models.Task, error)
	Update(ctx context.Context, id int64, upd models.TaskUpdate) (*models.Task, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*models.Task, error)
	Move(ctx context.Context, id, boardID int64) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
}

type taskService struct {
	api API
}

func NewTaskService(api API) TaskService {
	return &taskService{api: api}
}

func taskPath(id int64) string {
	return fmt.Sprintf("/tasks/%d", id)
}

func (s *taskService) List(ctx context.Context, f models.TaskFilter) (*models.TaskPage, error) {
	path := "/tasks/"
	if q := f.Query().Encode(); q != "" {
		path += "?" + q
	}

	var out models.TaskPage
	if err := s.api.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return &out, nil
}

func (s *taskService) ListByBoard(ctx context.Context, boardID int64) ([]models.Task, error) {
	var out []models.Task
	if err := s.api.Do(ctx, http.MethodGet, fmt.Sprintf("/tasks/board/%d", boardID), nil, &out); err != nil {
		return nil, fmt.Errorf("list tasks of board %d: %w", boardID, err)
	}
	return out, nil
}

func (s *taskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	var out models.Task
	if err := s.api.Do(ctx, http.MethodGet, taskPath(id), nil, &out); err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &out, nil
}

func (s *taskService) Create(ctx context.Context, t models.NewTask) (*models.Task, error) {
	var out models.Task
	if err := s.api.Do(ctx, http.MethodPost, "/tasks/", t.WithDefaults(), &out); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &out, nil
}

func (s *taskService) Update(ctx context.Context, id int64, upd models.TaskUpdate) (*models.Task, error) {
	var out models.Task
	if err := s.api.Do(ctx, http.MethodPut, taskPath(id), upd, &out); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return &out, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, id int64, status string) (*models.Task, error) {
	var out models.Task
	if err := s.api.Do(ctx, http.MethodPatch, taskPath(id)+"/status", models.StatusUpdate{Status: status}, &out); err != nil {
		return nil, fmt.Errorf("update status of task %d: %w", id, err)
	}
	return &out, nil
}

func (s *taskService) Move(ctx context.Context, id, boardID int64) (*models.Task, error) {
	var out models.Task
	if err := s.api.Do(ctx, http.MethodPatch, taskPath(id)+"/move", models.MoveRequest{BoardID: boardID}, &out); err != nil {
		return nil, fmt.Errorf("move task %d: %w", id, err)
	}
	return &out, nil
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	if err := s.api.Do(ctx, http.MethodDelete, taskPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}
