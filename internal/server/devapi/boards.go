package devapi

import (
	"net/http"
	"sort"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
)

type ownedBoard struct {
	owner int64
	board models.Board
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())

	s.mu.Lock()
	out := make([]models.Board, 0)
	for _, b := range s.boards {
		if b.owner == uid {
			board := b.board
			board.TaskCount = s.countTasksLocked(board.ID)
			out = append(out, board)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var req models.NewBoard
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeMissing(w, "name")
		return
	}

	now := time.Now().UTC()
	s.mu.Lock()
	s.nextID++
	b := &ownedBoard{owner: userID(r.Context()), board: models.Board{
		ID:        s.nextID,
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		Type:      req.Type,
		CreatedAt: &now,
		UpdatedAt: &now,
	}}
	s.boards[b.board.ID] = b
	board := b.board
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, board)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	b, ok := s.ownBoardLocked(r)
	var board models.Board
	if ok {
		board = b.board
		board.TaskCount = s.countTasksLocked(board.ID)
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Board not found")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	var upd models.BoardUpdate
	if !decode(w, r, &upd) {
		return
	}

	s.mu.Lock()
	b, ok := s.ownBoardLocked(r)
	if ok {
		for k, v := range upd {
			str, _ := v.(string)
			switch k {
			case "name":
				b.board.Name = str
			case "color":
				b.board.Color = str
			case "icon":
				b.board.Icon = str
			case "type":
				b.board.Type = str
			}
		}
		now := time.Now().UTC()
		b.board.UpdatedAt = &now
	}
	var board models.Board
	if ok {
		board = b.board
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Board not found")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	b, ok := s.ownBoardLocked(r)
	if ok {
		delete(s.boards, b.board.ID)
		for id, t := range s.tasks {
			if t.task.BoardID != nil && *t.task.BoardID == b.board.ID {
				delete(s.tasks, id)
			}
		}
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusNotFound, "Board not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ownBoardLocked(r *http.Request) (*ownedBoard, bool) {
	b, ok := s.boards[pathID(r)]
	if !ok || b.owner != userID(r.Context()) {
		return nil, false
	}
	return b, true
}

func (s *Server) countTasksLocked(boardID int64) int {
	n := 0
	for _, t := range s.tasks {
		if t.task.BoardID != nil && *t.task.BoardID == boardID {
			n++
		}
	}
	return n
}
