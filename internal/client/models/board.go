package models

import "time"

type Board struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Color     string     `json:"color,omitempty"`
	Icon      string     `json:"icon,omitempty"`
	Type      string     `json:"type,omitempty"`
	TaskCount int        `json:"task_count,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewBoard is the body of POST /boards/.
type NewBoard struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
	Type  string `json:"type"`
}

const (
	DefaultBoardColor = "#1890FF"
	DefaultBoardIcon  = "📊"
	DefaultBoardType  = "personal"
)

// WithDefaults fills unset fields the way the web client does.
func (b NewBoard) WithDefaults() NewBoard {
	if b.Color == "" {
		b.Color = DefaultBoardColor
	}
	if b.Icon == "" {
		b.Icon = DefaultBoardIcon
	}
	if b.Type == "" {
		b.Type = DefaultBoardType
	}
	return b
}

// BoardUpdate is a partial update of a board.
type BoardUpdate map[string]any
