package services

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/client/api"
	"github.com/dmitrijs2005/taskflow/internal/client/apitest"
	"github.com/dmitrijs2005/taskflow/internal/client/credentials"
	"github.com/dmitrijs2005/taskflow/internal/client/events"
	"github.com/dmitrijs2005/taskflow/internal/client/session"
	"github.com/dmitrijs2005/taskflow/internal/client/storage"
	"github.com/dmitrijs2005/taskflow/internal/logging"
	"github.com/dmitrijs2005/taskflow/internal/server/devapi"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	srv       *devapi.Server
	base      string
	creds     *credentials.Store
	notifier  *events.Notifier
	mgr       *session.Manager
	auth      AuthService
	boards    BoardService
	tasks     TaskService
	reminders ReminderService

	userUpdates atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logging.Nop()
	srv, base := apitest.Start(t, devapi.Options{})

	f := &fixture{srv: srv, base: base, notifier: events.NewNotifier(log)}
	f.creds = credentials.NewStore(storage.NewMemoryStore(), f.notifier, log)
	f.mgr = session.NewManager(session.Options{
		Store:         f.creds,
		Refresher:     api.NewRefresher(base, nil, log),
		Notifier:      f.notifier,
		Logger:        log,
		RedirectDelay: time.Millisecond,
	})
	client := api.NewClient(base, &http.Client{Transport: api.NewTransport(nil, f.creds, f.mgr, log)}, log)

	f.auth = NewAuthService(client, f.creds, f.mgr, log)
	f.boards = NewBoardService(client)
	f.tasks = NewTaskService(client)
	f.reminders = NewReminderService(client)

	t.Cleanup(f.notifier.OnUserUpdated(func(events.UserUpdated) { f.userUpdates.Add(1) }))
	return f
}

// loggedIn registers ann@example.com directly on the backend and logs in.
func (f *fixture) loggedIn(t *testing.T) {
	t.Helper()
	f.srv.AddUser("ann@example.com", "pw", "Ann")
	_, err := f.auth.Login(context.Background(), "ann@example.com", "pw")
	require.NoError(t, err)
}
