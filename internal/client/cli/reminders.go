package cli

import (
	"context"
	"strconv"
)

func (a *App) Reminders(ctx context.Context) error {
	a.Navigate(pathReminders)

	list, err := a.reminders.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No reminders.")
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, r := range list {
		when := r.ReminderTime
		if r.RemindAt != nil {
			when = r.RemindAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10), idString(r.TaskID), when, r.Message, strconv.FormatBool(r.IsActive),
		})
	}
	return a.table([]string{"ID", "TASK", "WHEN", "MESSAGE", "ACTIVE"}, rows)
}

func (a *App) Notifications(ctx context.Context) error {
	a.Navigate(pathNotifications)

	list, err := a.reminders.Notifications(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No notifications.")
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, n := range list {
		mark := " "
		if !n.IsRead {
			mark = "*"
		}
		rows = append(rows, []string{mark, strconv.FormatInt(n.ID, 10), n.Title, n.Message})
	}
	return a.table([]string{"", "ID", "TITLE", "MESSAGE"}, rows)
}

func (a *App) ReadAll(ctx context.Context) error {
	if err := a.reminders.MarkAllRead(ctx); err != nil {
		return err
	}
	a.println("All notifications marked as read")
	return nil
}
