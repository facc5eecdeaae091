package cli

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
)

func (a *App) Boards(ctx context.Context) error {
	a.Navigate(pathBoards)

	boards, err := a.boards.List(ctx)
	if err != nil {
		return err
	}
	if len(boards) == 0 {
		a.println("No boards yet. Create one with newboard.")
		return nil
	}

	rows := make([][]string, 0, len(boards))
	for _, b := range boards {
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10), b.Icon + " " + b.Name, b.Type, strconv.Itoa(b.TaskCount),
		})
	}
	return a.table([]string{"ID", "NAME", "TYPE", "TASKS"}, rows)
}

// NewBoard prompts for a board name; color, icon and type fall back to the
// defaults when left empty.
func (a *App) NewBoard(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Board name", a.out)
	if err != nil {
		return err
	}
	if name == "" {
		return usage("board name is required")
	}
	color, err := getSimpleText(a.reader, "Color (default "+models.DefaultBoardColor+")", a.out)
	if err != nil {
		return err
	}
	kind, err := getSimpleText(a.reader, "Type (default "+models.DefaultBoardType+")", a.out)
	if err != nil {
		return err
	}

	b, err := a.boards.Create(ctx, models.NewBoard{Name: name, Color: color, Type: kind})
	if err != nil {
		return err
	}
	a.printf("Created board #%d %s\n", b.ID, b.Name)
	return nil
}
