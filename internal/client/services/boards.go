package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
)

type BoardService interface {
	List(ctx context.Context) ([]models.Board, error)
	Get(ctx context.Context, id int64) (*models.Board, error)
	Create(ctx context.Context, b models.NewBoard) (*models.Board, error)
	Update(ctx context.Context, id int64, upd models.BoardUpdate) (*models.Board, error)
	Delete(ctx context.Context, id int64) error
}

type boardService struct {
	api API
}

func NewBoardService(api API) BoardService {
	return &boardService{api: api}
}

func boardPath(id int64) string {
	return fmt.Sprintf("/boards/%d", id)
}

func (s *boardService) List(ctx context.Context) ([]models.Board, error) {
	var out []models.Board
	if err := s.api.Do(ctx, http.MethodGet, "/boards/", nil, &out); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return out, nil
}

func (s *boardService) Get(ctx context.Context, id int64) (*models.Board, error) {
	var out models.Board
	if err := s.api.Do(ctx, http.MethodGet, boardPath(id), nil, &out); err != nil {
		return nil, fmt.Errorf("get board %d: %w", id, err)
	}
	return &out, nil
}

// Create fills the web client's defaults for color, icon and type.
func (s *boardService) Create(ctx context.Context, b models.NewBoard) (*models.Board, error) {
	var out models.Board
	if err := s.api.Do(ctx, http.MethodPost, "/boards/", b.WithDefaults(), &out); err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}
	return &out, nil
}

func (s *boardService) Update(ctx context.Context, id int64, upd models.BoardUpdate) (*models.Board, error) {
	var out models.Board
	if err := s.api.Do(ctx, http.MethodPut, boardPath(id), upd, &out); err != nil {
		return nil, fmt.Errorf("update board %d: %w", id, err)
	}
	return &out, nil
}

func (s *boardService) Delete(ctx context.Context, id int64) error {
	if err := s.api.Do(ctx, http.MethodDelete, boardPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete board %d: %w", id, err)
	}
	return nil
}
