package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/taskflow/internal/client/api"
	"github.com/dmitrijs2005/taskflow/internal/client/config"
	"github.com/dmitrijs2005/taskflow/internal/client/credentials"
	"github.com/dmitrijs2005/taskflow/internal/client/events"
	"github.com/dmitrijs2005/taskflow/internal/client/services"
	"github.com/dmitrijs2005/taskflow/internal/client/session"
	"github.com/dmitrijs2005/taskflow/internal/client/storage"
	"github.com/dmitrijs2005/taskflow/internal/logging"
)

// Screen paths the App navigates between. Only the first three are public.
const (
	pathHome          = "/"
	pathLogin         = "/login"
	pathRegister      = "/register"
	pathDashboard     = "/dashboard"
	pathBoards        = "/boards"
	pathTasks         = "/tasks"
	pathReminders     = "/reminders"
	pathNotifications = "/notifications"
	pathProfile       = "/profile"
)

type redirectStore interface {
	TakeRedirectPath(ctx context.Context) string
}

type subscriber interface {
	OnSessionExpired(fn func(events.SessionExpired)) (unsubscribe func())
	OnUserUpdated(fn func(events.UserUpdated)) (unsubscribe func())
}

type App struct {
	auth      services.AuthService
	boards    services.BoardService
	tasks     services.TaskService
	reminders services.ReminderService
	redirects redirectStore
	events    subscriber
	log       logging.Logger
	reader    *bufio.Reader
	closeFn   func() error

	out io.Writer

	mu       sync.Mutex
	location string
	userName string
}

// deps is everything an App needs; NewApp builds the production set and
// tests assemble their own.
type deps struct {
	auth      services.AuthService
	boards    services.BoardService
	tasks     services.TaskService
	reminders services.ReminderService
	redirects redirectStore
	events    subscriber
	log       logging.Logger
	in        io.Reader
	out       io.Writer
}

func newApp(d deps) *App {
	if d.log == nil {
		d.log = logging.Nop()
	}
	return &App{
		auth:      d.auth,
		boards:    d.boards,
		tasks:     d.tasks,
		reminders: d.reminders,
		redirects: d.redirects,
		events:    d.events,
		log:       d.log,
		reader:    bufio.NewReader(d.in),
		out:       &syncWriter{w: d.out},
		location:  pathHome,
	}
}

// NewApp opens the credential database and wires the request pipeline on
// top of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	app := build(c, storage.NewSQLiteStore(db), os.Stdin, os.Stdout, log)
	app.closeFn = db.Close
	return app, nil
}

// build wires credential store, session manager, authenticated transport
// and services over kv. The App itself is the session manager's navigator.
func build(c *config.Config, kv storage.Store, in io.Reader, out io.Writer, log logging.Logger) *App {
	notifier := events.NewNotifier(log)
	creds := credentials.NewStore(kv, notifier, log)

	app := newApp(deps{
		redirects: creds,
		events:    notifier,
		log:       log,
		in:        in,
		out:       out,
	})

	mgr := session.NewManager(session.Options{
		Store:          creds,
		Refresher:      api.NewRefresher(c.ServerURL, nil, log),
		Notifier:       notifier,
		Navigator:      app,
		Logger:         log,
		RefreshTimeout: c.RefreshTimeout,
		RedirectDelay:  c.RedirectDelay,
		LoginPath:      pathLogin,
	})

	hc := &http.Client{
		Transport: api.NewTransport(nil, creds, mgr, log),
		Timeout:   c.RequestTimeout,
	}
	client := api.NewClient(c.ServerURL, hc, log)

	app.auth = services.NewAuthService(client, creds, mgr, log)
	app.boards = services.NewBoardService(client)
	app.tasks = services.NewTaskService(client)
	app.reminders = services.NewReminderService(client)
	return app
}

// Run subscribes to session events, restores the stored user and runs the
// REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	if a.closeFn != nil {
		defer func() {
			if err := a.closeFn(); err != nil {
				a.log.Warn(ctx, "close credential store", "error", err)
			}
		}()
	}

	defer a.events.OnSessionExpired(func(ev events.SessionExpired) {
		a.setUserName("")
		a.println(ev.Message)
	})()
	defer a.events.OnUserUpdated(func(events.UserUpdated) {
		a.refreshUserName(ctx)
	})()

	a.refreshUserName(ctx)
	if a.isLoggedIn(ctx) {
		a.Navigate(pathDashboard)
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

// Location implements session.Navigator.
func (a *App) Location() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.location
}

// Navigate implements session.Navigator. The session manager calls it from
// its own goroutine when the session ends.
func (a *App) Navigate(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.location = path
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.auth.IsAuthenticated(ctx)
}

func (a *App) refreshUserName(ctx context.Context) {
	a.setUserName(a.auth.StoredUser(ctx).DisplayName())
}

func (a *App) setUserName(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

func (a *App) status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.userName == "" {
		return a.location
	}
	return fmt.Sprintf("%s %s", a.userName, a.location)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// syncWriter serializes writes from the REPL and from session event
// handlers, which run on other goroutines.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
