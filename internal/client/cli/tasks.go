package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
	"github.com/dmitrijs2005/taskflow/internal/client/services"
)

var taskStatuses = []string{"todo", "in_progress", "done"}

// Tasks lists the tasks of one board (tasks <board>) or all tasks.
func (a *App) Tasks(ctx context.Context, args []string) error {
	var (
		tasks []models.Task
		err   error
	)
	switch len(args) {
	case 0:
		a.Navigate(pathTasks)
		var page *models.TaskPage
		page, err = a.tasks.List(ctx, models.TaskFilter{})
		if page != nil {
			tasks = page.Tasks
		}
	case 1:
		id, perr := parseID(args[0])
		if perr != nil {
			return perr
		}
		a.Navigate(fmt.Sprintf("%s/%d", pathBoards, id))
		tasks, err = a.tasks.ListByBoard(ctx, id)
	default:
		return usage("tasks [board]")
	}
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		a.println("No tasks.")
		return nil
	}
	return a.table([]string{"ID", "TITLE", "STATUS", "PRIORITY", "BOARD", "DUE"}, taskRows(tasks))
}

func taskRows(tasks []models.Task) [][]string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10), t.Title, t.Status, t.Priority, idString(t.BoardID), dueLabel(t.DueDate),
		})
	}
	return rows
}

// NewTask prompts for the task fields. A due date turns on the default
// reminder, the day before at 09:00.
func (a *App) NewTask(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	if title == "" {
		return usage("task title is required")
	}
	desc, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	board, err := getSimpleText(a.reader, "Board id (optional)", a.out)
	if err != nil {
		return err
	}
	priority, err := getSimpleText(a.reader, "Priority (default "+models.DefaultTaskPriority+")", a.out)
	if err != nil {
		return err
	}
	due, err := getSimpleText(a.reader, "Due date "+strings.ToUpper(services.DateLayout)+" (optional)", a.out)
	if err != nil {
		return err
	}

	nt := models.NewTask{Title: title, Priority: priority}
	if desc != "" {
		nt.Description = &desc
	}
	if board != "" {
		id, err := parseID(board)
		if err != nil {
			return err
		}
		nt.BoardID = &id
	}
	if due != "" {
		if _, err := services.ParseDate(due); err != nil {
			return fmt.Errorf("invalid due date %q", due)
		}
		nt.DueDate = &due
	}

	t, err := a.tasks.Create(ctx, nt)
	if err != nil {
		return err
	}
	a.printf("Created task #%d %s\n", t.ID, t.Title)
	return nil
}

// MoveTask moves a task to another board: move <task> <board>.
func (a *App) MoveTask(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("move <task> <board>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	board, err := parseID(args[1])
	if err != nil {
		return err
	}
	t, err := a.tasks.Move(ctx, id, board)
	if err != nil {
		return err
	}
	a.printf("Moved task #%d to board #%d\n", t.ID, board)
	return nil
}

// SetStatus changes a task's status: status <task> <todo|in_progress|done>.
func (a *App) SetStatus(ctx context.Context, args []string) error {
	if len(args) != 2 || !validStatus(args[1]) {
		return usage("status <task> <" + strings.Join(taskStatuses, "|") + ">")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	t, err := a.tasks.UpdateStatus(ctx, id, args[1])
	if err != nil {
		return err
	}
	a.printf("Task #%d is now %s\n", t.ID, t.Status)
	return nil
}

func validStatus(s string) bool {
	for _, st := range taskStatuses {
		if st == s {
			return true
		}
	}
	return false
}

func (a *App) DeleteTask(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("deltask <task>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.tasks.Delete(ctx, id); err != nil {
		return err
	}
	a.printf("Deleted task #%d\n", id)
	return nil
}
