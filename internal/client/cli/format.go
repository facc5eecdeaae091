package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/client/api"
	"github.com/dmitrijs2005/taskflow/internal/client/services"
	"github.com/dmitrijs2005/taskflow/internal/common"
)

// nowFn is a test seam for the clock used in due-date labels.
var nowFn = time.Now

var ErrUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", ErrUsage, format)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// describeError turns a command error into the line shown to the user.
func describeError(err error) string {
	var apiErr *api.APIError
	switch {
	case errors.Is(err, common.ErrUnavailable):
		return "cannot reach server"
	case errors.Is(err, common.ErrSessionTerminated):
		return "session expired"
	case errors.As(err, &apiErr):
		return apiErr.Message
	default:
		return err.Error()
	}
}

// table writes rows aligned in columns.
func table(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func (a *App) table(header []string, rows [][]string) error {
	return table(a.out, header, rows)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func idString(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

// dueLabel renders a task due date relative to today, or "-" when the task
// has none or the date cannot be parsed.
func dueLabel(due *string) string {
	if due == nil || *due == "" {
		return "-"
	}
	d, err := services.ParseDate(*due)
	if err != nil {
		return *due
	}
	return fmt.Sprintf("%s (%s)", *due, services.FormatDaysUntilDue(services.DaysUntilDue(d, nowFn())))
}
