// Package devapi is an in-memory stand-in for the taskflow REST backend.
//
// It implements the auth, profile, board, task and reminder endpoints the
// client uses, issues short-lived HS256 access tokens with single-use
// rotating refresh tokens, and exposes knobs and counters for exercising
// the client's session handling.
package devapi

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/logging"
	"github.com/gorilla/mux"
)

// BasePath is where the API is mounted.
const BasePath = "/api/v1"

const refreshTokenBytes = 32

type Options struct {
	Secret    []byte
	AccessTTL time.Duration
	Logger    logging.Logger
}

// Request is one recorded API call.
type Request struct {
	Method    string
	Route     string
	Token     string
	RequestID string
	Status    int
}

type account struct {
	user     models.User
	password string
}

type Server struct {
	router    *mux.Router
	secret    []byte
	accessTTL time.Duration
	log       logging.Logger

	refreshCalls atomic.Int32

	mu            sync.Mutex
	generation    int64
	nextID        int64
	accounts      map[int64]*account
	byEmail       map[string]int64
	refreshTokens map[string]int64
	boards        map[int64]*ownedBoard
	tasks         map[int64]*ownedTask
	reminders     map[int64]*ownedReminder
	notifications map[int64]*ownedNotification
	requests      []Request

	refreshDelay  time.Duration
	refreshStatus int
	refreshGate   chan struct{}
}

func New(opts Options) *Server {
	if len(opts.Secret) == 0 {
		opts.Secret = []byte("taskflow-dev-secret")
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 15 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	s := &Server{
		secret:        opts.Secret,
		accessTTL:     opts.AccessTTL,
		log:           opts.Logger.With("component", "devapi"),
		accounts:      map[int64]*account{},
		byEmail:       map[string]int64{},
		refreshTokens: map[string]int64{},
		boards:        map[int64]*ownedBoard{},
		tasks:         map[int64]*ownedTask{},
		reminders:     map[int64]*ownedReminder{},
		notifications: map[int64]*ownedNotification{},
	}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix(BasePath).Subrouter()
	api.Use(s.record)

	public := func(path string, h http.HandlerFunc, methods ...string) {
		api.HandleFunc(path, h).Methods(methods...)
	}
	private := func(path string, h http.HandlerFunc, methods ...string) {
		api.Handle(path, s.authenticate(h)).Methods(methods...)
	}

	public("/auth/register", s.handleRegister, http.MethodPost)
	public("/auth/login", s.handleLogin, http.MethodPost)
	public("/auth/refresh", s.handleRefresh, http.MethodPost)
	private("/auth/logout", s.handleLogout, http.MethodPost)
	private("/auth/verify", s.handleVerify, http.MethodGet)
	private("/auth/me", s.handleMe, http.MethodGet)
	private("/auth/me", s.handleUpdateMe, http.MethodPut)
	private("/profile/name", s.handleUpdateName, http.MethodPut)
	private("/profile/avatar", s.handleUploadAvatar, http.MethodPost)
	private("/profile/avatar", s.handleDeleteAvatar, http.MethodDelete)

	private("/boards/", s.handleListBoards, http.MethodGet)
	private("/boards/", s.handleCreateBoard, http.MethodPost)
	private("/boards/{id:[0-9]+}", s.handleGetBoard, http.MethodGet)
	private("/boards/{id:[0-9]+}", s.handleUpdateBoard, http.MethodPut)
	private("/boards/{id:[0-9]+}", s.handleDeleteBoard, http.MethodDelete)

	private("/tasks/", s.handleListTasks, http.MethodGet)
	private("/tasks/", s.handleCreateTask, http.MethodPost)
	private("/tasks/board/{id:[0-9]+}", s.handleTasksByBoard, http.MethodGet)
	private("/tasks/{id:[0-9]+}", s.handleGetTask, http.MethodGet)
	private("/tasks/{id:[0-9]+}", s.handleUpdateTask, http.MethodPut)
	private("/tasks/{id:[0-9]+}", s.handleDeleteTask, http.MethodDelete)
	private("/tasks/{id:[0-9]+}/status", s.handleTaskStatus, http.MethodPatch)
	private("/tasks/{id:[0-9]+}/move", s.handleMoveTask, http.MethodPatch)

	private("/reminders/", s.handleListReminders, http.MethodGet)
	private("/reminders/", s.handleCreateReminder, http.MethodPost)
	private("/reminders/{id:[0-9]+}", s.handleGetReminder, http.MethodGet)
	private("/reminders/{id:[0-9]+}", s.handleUpdateReminder, http.MethodPut)
	private("/reminders/{id:[0-9]+}", s.handleDeleteReminder, http.MethodDelete)
	private("/reminders/notifications/all", s.handleNotifications, http.MethodGet)
	private("/reminders/notifications/unread", s.handleUnread, http.MethodGet)
	private("/reminders/notifications/{id:[0-9]+}/read", s.handleMarkRead, http.MethodPatch)
	private("/reminders/notifications/mark-all-read", s.handleMarkAllRead, http.MethodPost)

	return r
}

// AddUser creates an account directly, bypassing /auth/register.
func (s *Server) AddUser(email, password, fullName string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(email, password, fullName, "")
}

func (s *Server) addUserLocked(email, password, fullName, phone string) models.User {
	s.nextID++
	u := models.User{ID: s.nextID, Email: email, FullName: fullName, Phone: phone}
	s.accounts[u.ID] = &account{user: u, password: password}
	s.byEmail[email] = u.ID
	return u
}

// IssueTokens mints a token pair for an existing user, as login would.
func (s *Server) IssueTokens(userID int64) (models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(userID)
}

func (s *Server) issueLocked(userID int64) (models.TokenPair, error) {
	access, err := generateToken(userID, s.generation, s.secret, s.accessTTL)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := common.MakeRandHexString(refreshTokenBytes)
	if err != nil {
		return models.TokenPair{}, err
	}
	s.refreshTokens[refresh] = userID
	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ExpireAccessTokens makes every access token issued so far fail with 401.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
}

// RevokeRefreshTokens forgets every outstanding refresh token.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshTokens = map[string]int64{}
}

// FailRefresh makes /auth/refresh answer with status. 0 restores normal
// behaviour.
func (s *Server) FailRefresh(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshStatus = status
}

func (s *Server) SetRefreshDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshDelay = d
}

// HoldRefresh blocks /auth/refresh handlers until the returned release
// function is called.
func (s *Server) HoldRefresh() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.refreshGate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.refreshGate == gate {
				s.refreshGate = nil
			}
			s.mu.Unlock()
			close(gate)
		})
	}
}

func (s *Server) RefreshCalls() int {
	return int(s.refreshCalls.Load())
}

// Requests returns every recorded call, oldest first.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Hits counts recorded calls to route, a path template relative to
// BasePath such as "/tasks/{id:[0-9]+}".
func (s *Server) Hits(method, route string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Route == route {
			n++
		}
	}
	return n
}
