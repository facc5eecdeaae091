// Package session coordinates access-token renewal for every in-flight
// request of the process.
//
// At most one refresh call is outstanding at any time. Callers that observe
// a 401 while a refresh is running queue behind it and all resume with the
// same outcome, in the order they arrived. A failed refresh ends the session:
// credentials are wiped, subscribers are told why, and the UI is sent to the
// login route after a short delay.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/client/events"
	"github.com/dmitrijs2005/taskflow/internal/client/models"
	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/logging"
)

const (
	DefaultRefreshTimeout = 15 * time.Second
	DefaultRedirectDelay  = 1500 * time.Millisecond
	DefaultLoginPath      = "/login"
	DefaultExpiredMessage = "Your session has expired. Please log in again."
)

// DefaultPublicPaths returns the routes a session can expire on without
// a redirect path being stored.
func DefaultPublicPaths() []string {
	return []string{"/", "/login", "/register"}
}

type Status int

const (
	StatusIdle Status = iota
	StatusRefreshing
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRefreshing:
		return "refreshing"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// TokenStore is the part of the credential store the manager touches.
type TokenStore interface {
	Tokens(ctx context.Context) (models.TokenPair, bool)
	RefreshToken(ctx context.Context) string
	SetTokens(ctx context.Context, pair models.TokenPair) error
	SetUser(ctx context.Context, user *models.User) error
	SetRedirectPath(ctx context.Context, path string) error
	Clear(ctx context.Context) error
}

// Refresher exchanges a refresh token for a new token pair. It must not go
// through the request pipeline that calls back into the manager.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
}

type Publisher interface {
	PublishSessionExpired(ctx context.Context, ev events.SessionExpired)
}

// Navigator exposes the current UI location and forces navigation.
type Navigator interface {
	Location() string
	Navigate(path string)
}

// BackendMessager is implemented by errors carrying a message from the
// backend that is fit to show to the user.
type BackendMessager interface {
	BackendMessage() string
}

type Options struct {
	Store     TokenStore
	Refresher Refresher
	Notifier  Publisher
	Navigator Navigator
	Logger    logging.Logger

	RefreshTimeout time.Duration
	RedirectDelay  time.Duration
	LoginPath      string
	PublicPaths    []string
}

type result struct {
	token string
	err   error
}

type Manager struct {
	store     TokenStore
	refresher Refresher
	events    Publisher
	nav       Navigator
	log       logging.Logger

	refreshTimeout time.Duration
	redirectDelay  time.Duration
	loginPath      string
	publicPaths    []string

	mu       sync.Mutex
	status   Status
	waiters  []chan result
	expiring bool
}

func NewManager(opts Options) *Manager {
	m := &Manager{
		store:          opts.Store,
		refresher:      opts.Refresher,
		events:         opts.Notifier,
		nav:            opts.Navigator,
		log:            opts.Logger,
		refreshTimeout: opts.RefreshTimeout,
		redirectDelay:  opts.RedirectDelay,
		loginPath:      opts.LoginPath,
		publicPaths:    slices.Clone(opts.PublicPaths),
	}
	if m.log == nil {
		m.log = logging.Nop()
	}
	m.log = m.log.With("component", "session")
	if m.nav == nil {
		m.nav = nopNavigator{}
	}
	if m.events == nil {
		m.events = nopPublisher{}
	}
	if m.refreshTimeout <= 0 {
		m.refreshTimeout = DefaultRefreshTimeout
	}
	if m.redirectDelay <= 0 {
		m.redirectDelay = DefaultRedirectDelay
	}
	if m.loginPath == "" {
		m.loginPath = DefaultLoginPath
	}
	if m.publicPaths == nil {
		m.publicPaths = DefaultPublicPaths()
	}
	return m
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// HandleUnauthorized is called by the request pipeline when a request sent
// with sentWith came back 401. It returns the access token to replay the
// request with, or an error wrapping common.ErrSessionTerminated.
//
// If the stored token already differs from sentWith, a refresh finished
// while the request was in flight and the stored token is returned as is.
func (m *Manager) HandleUnauthorized(ctx context.Context, sentWith string) (string, error) {
	m.mu.Lock()
	if m.status == StatusIdle && sentWith != "" {
		if pair, ok := m.store.Tokens(ctx); ok && pair.AccessToken != sentWith {
			m.mu.Unlock()
			m.log.Debug(ctx, "access token rotated while request was in flight")
			return pair.AccessToken, nil
		}
	}
	return m.await(ctx)
}

// Refresh joins the running refresh cycle or starts a new one.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	return m.await(ctx)
}

// await registers the caller as a waiter, starting a refresh cycle when
// none is running. It must be called with m.mu held and releases it.
func (m *Manager) await(ctx context.Context) (string, error) {
	if m.status == StatusIdle {
		refreshToken := m.store.RefreshToken(ctx)
		if refreshToken == "" {
			m.mu.Unlock()
			m.log.Info(ctx, "no refresh token, ending session")
			m.Expire(ctx, "")
			return "", fmt.Errorf("%w: %w", common.ErrSessionTerminated, common.ErrNoRefreshToken)
		}
		m.status = StatusRefreshing
		go m.run(context.WithoutCancel(ctx), refreshToken)
	}

	ch := make(chan result, 1)
	m.waiters = append(m.waiters, ch)
	m.mu.Unlock()

	select {
	case r := <-ch:
		return r.token, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (m *Manager) run(ctx context.Context, refreshToken string) {
	ctx, cancel := context.WithTimeout(ctx, m.refreshTimeout)
	defer cancel()

	m.log.Debug(ctx, "refreshing access token")

	resp, err := m.call(ctx, refreshToken)
	if err == nil {
		err = m.persist(ctx, resp)
	}
	if err != nil {
		m.log.Warn(ctx, "token refresh failed", "error", err)
		m.Expire(ctx, backendMessage(err))
		m.settle(result{err: fmt.Errorf("%w: %w", common.ErrSessionTerminated, err)})
		return
	}

	m.log.Debug(ctx, "access token refreshed")
	m.settle(result{token: resp.AccessToken})
}

// call bounds the refresher by ctx even if it ignores cancellation.
func (m *Manager) call(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	type outcome struct {
		resp *models.AuthResponse
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		resp, err := m.refresher.Refresh(ctx, refreshToken)
		done <- outcome{resp, err}
	}()

	select {
	case o := <-done:
		return o.resp, o.err
	case <-ctx.Done():
		return nil, fmt.Errorf("refresh: %w", ctx.Err())
	}
}

func (m *Manager) persist(ctx context.Context, resp *models.AuthResponse) error {
	if resp == nil || !resp.Tokens().Complete() {
		return common.ErrMalformedTokenResponse
	}
	if err := m.store.SetTokens(ctx, resp.Tokens()); err != nil {
		return fmt.Errorf("store tokens: %w", err)
	}
	if resp.User != nil {
		if err := m.store.SetUser(ctx, resp.User); err != nil {
			m.log.Warn(ctx, "cannot store refreshed user", "error", err)
		}
	}
	return nil
}

// settle resolves every waiter, oldest first, and returns to idle.
func (m *Manager) settle(r result) {
	m.mu.Lock()
	waiters := m.waiters
	m.waiters = nil
	m.status = StatusIdle
	m.mu.Unlock()

	for _, w := range waiters {
		w <- r
	}
}

// Expire runs the session-expiry sequence. Calls made while a previous
// sequence has not yet navigated away are ignored.
func (m *Manager) Expire(ctx context.Context, message string) {
	m.mu.Lock()
	if m.expiring {
		m.mu.Unlock()
		m.log.Debug(ctx, "session expiry already in progress")
		return
	}
	m.expiring = true
	m.mu.Unlock()

	location := m.nav.Location()

	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "cannot clear credentials", "error", err)
	}
	if !m.isPublic(location) {
		if err := m.store.SetRedirectPath(ctx, location); err != nil {
			m.log.Warn(ctx, "cannot store redirect path", "error", err)
		}
	}

	if message == "" {
		message = DefaultExpiredMessage
	}
	m.log.Info(ctx, "session expired", "location", location)
	m.events.PublishSessionExpired(ctx, events.SessionExpired{Message: message})

	time.AfterFunc(m.redirectDelay, func() {
		m.nav.Navigate(m.loginPath)

		m.mu.Lock()
		m.expiring = false
		m.mu.Unlock()
	})
}

func (m *Manager) isPublic(location string) bool {
	if location == "" {
		return true
	}
	path, _, _ := strings.Cut(location, "?")
	for _, p := range m.publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

func backendMessage(err error) string {
	var bm BackendMessager
	if errors.As(err, &bm) {
		return bm.BackendMessage()
	}
	return ""
}

type nopNavigator struct{}

func (nopNavigator) Location() string { return "" }
func (nopNavigator) Navigate(string)  {}

type nopPublisher struct{}

func (nopPublisher) PublishSessionExpired(context.Context, events.SessionExpired) {}
