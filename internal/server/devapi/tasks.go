package devapi

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
)

type ownedTask struct {
	owner int64
	task  models.Task
}

const defaultPageSize = 20

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	uid := userID(r.Context())

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(q.Get("page_size"))
	if size < 1 {
		size = defaultPageSize
	}

	s.mu.Lock()
	var all []models.Task
	for _, t := range s.tasks {
		if t.owner != uid {
			continue
		}
		if v := q.Get("board_id"); v != "" && (t.task.BoardID == nil || strconv.FormatInt(*t.task.BoardID, 10) != v) {
			continue
		}
		if v := q.Get("status"); v != "" && t.task.Status != v {
			continue
		}
		if v := q.Get("priority"); v != "" && t.task.Priority != v {
			continue
		}
		if v := q.Get("completed"); v != "" && strconv.FormatBool(t.task.Completed) != v {
			continue
		}
		all = append(all, t.task)
	}
	s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	out := models.TaskPage{Tasks: []models.Task{}, Total: len(all), Page: page, PageSize: size}
	if from := (page - 1) * size; from < len(all) {
		out.Tasks = all[from:min(from+size, len(all))]
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTasksByBoard(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())
	boardID := pathID(r)

	s.mu.Lock()
	b, ok := s.boards[boardID]
	if !ok || b.owner != uid {
		s.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "Board not found")
		return
	}
	out := make([]models.Task, 0)
	for _, t := range s.tasks {
		if t.task.BoardID != nil && *t.task.BoardID == boardID {
			out = append(out, t.task)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req models.NewTask
	if !decode(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeMissing(w, "title")
		return
	}

	uid := userID(r.Context())
	now := time.Now().UTC()

	s.mu.Lock()
	if req.BoardID != nil {
		if b, ok := s.boards[*req.BoardID]; !ok || b.owner != uid {
			s.mu.Unlock()
			writeDetail(w, http.StatusNotFound, "Board not found")
			return
		}
	}
	s.nextID++
	dueTime := req.DueTime
	t := &ownedTask{owner: uid, task: models.Task{
		ID:               s.nextID,
		Title:            req.Title,
		Description:      req.Description,
		Priority:         req.Priority,
		Status:           req.Status,
		Completed:        req.Status == "done",
		BoardID:          req.BoardID,
		StatusBadge:      req.StatusBadge,
		StatusBadgeColor: req.StatusBadgeColor,
		AssigneeID:       req.AssigneeID,
		DueDate:          req.DueDate,
		DueTime:          &dueTime,
		CreatedAt:        &now,
		UpdatedAt:        &now,
	}}
	s.tasks[t.task.ID] = t

	if req.DueDate != nil && req.CreateReminder != nil && *req.CreateReminder {
		s.addReminderLocked(uid, t.task, req.ReminderDaysBefore, req.ReminderTime)
	}
	s.notifyLocked(uid, "New task", "Task \""+req.Title+"\" was created", &t.task.ID)
	task := t.task
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	t, ok := s.ownTaskLocked(r)
	var task models.Task
	if ok {
		task = t.task
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var upd models.TaskUpdate
	if !decode(w, r, &upd) {
		return
	}

	s.mu.Lock()
	t, ok := s.ownTaskLocked(r)
	if ok {
		applyTaskUpdate(&t.task, upd)
	}
	var task models.Task
	if ok {
		task = t.task
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	var req models.StatusUpdate
	if !decode(w, r, &req) {
		return
	}
	if req.Status == "" {
		writeMissing(w, "status")
		return
	}

	s.mu.Lock()
	t, ok := s.ownTaskLocked(r)
	var task models.Task
	if ok {
		applyTaskUpdate(&t.task, models.TaskUpdate{"status": req.Status})
		task = t.task
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	var req models.MoveRequest
	if !decode(w, r, &req) {
		return
	}

	uid := userID(r.Context())
	s.mu.Lock()
	t, ok := s.ownTaskLocked(r)
	b, boardOK := s.boards[req.BoardID]
	var task models.Task
	if ok && boardOK && b.owner == uid {
		id := req.BoardID
		t.task.BoardID = &id
		now := time.Now().UTC()
		t.task.UpdatedAt = &now
		task = t.task
	}
	s.mu.Unlock()

	switch {
	case !ok:
		writeDetail(w, http.StatusNotFound, "Task not found")
	case !boardOK || b.owner != uid:
		writeDetail(w, http.StatusNotFound, "Board not found")
	default:
		writeJSON(w, http.StatusOK, task)
	}
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	t, ok := s.ownTaskLocked(r)
	if ok {
		delete(s.tasks, t.task.ID)
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ownTaskLocked(r *http.Request) (*ownedTask, bool) {
	t, ok := s.tasks[pathID(r)]
	if !ok || t.owner != userID(r.Context()) {
		return nil, false
	}
	return t, true
}

func applyTaskUpdate(t *models.Task, upd models.TaskUpdate) {
	for k, v := range upd {
		str, isStr := v.(string)
		switch k {
		case "title":
			t.Title = str
		case "description":
			if isStr {
				t.Description = &str
			} else {
				t.Description = nil
			}
		case "priority":
			t.Priority = str
		case "status":
			t.Status = str
			t.Completed = str == "done"
		case "completed":
			b, _ := v.(bool)
			t.Completed = b
		case "status_badge_color":
			t.StatusBadgeColor = str
		case "due_date":
			if isStr {
				t.DueDate = &str
			} else {
				t.DueDate = nil
			}
		case "due_time":
			if isStr {
				t.DueTime = &str
			}
		}
	}
	now := time.Now().UTC()
	t.UpdatedAt = &now
}
