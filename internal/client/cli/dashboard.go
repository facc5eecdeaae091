package cli

import (
	"context"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
	"golang.org/x/sync/errgroup"
)

const dashboardTasks = 5

// Dashboard loads boards, recent tasks and unread notifications
// concurrently. With an expired access token the three requests share one
// refresh.
func (a *App) Dashboard(ctx context.Context) error {
	a.Navigate(pathDashboard)

	var (
		boards []models.Board
		page   *models.TaskPage
		unread []models.Notification
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		boards, err = a.boards.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		page, err = a.tasks.List(gctx, models.TaskFilter{PageSize: dashboardTasks})
		return err
	})
	g.Go(func() (err error) {
		unread, err = a.reminders.Unread(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if name := a.auth.StoredUser(ctx).DisplayName(); name != "" {
		a.println("Welcome, " + name)
	}
	a.printf("Boards: %d  Tasks: %d  Unread notifications: %d\n", len(boards), page.Total, len(unread))
	if len(page.Tasks) == 0 {
		return nil
	}
	return a.table([]string{"ID", "TITLE", "STATUS", "PRIORITY", "BOARD", "DUE"}, taskRows(page.Tasks))
}
