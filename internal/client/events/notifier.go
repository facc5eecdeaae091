// Package events is the process-wide notification channel between the
// session layer and whatever renders the UI.
//
// Publishers: the session manager (SessionExpired) and the credential store
// (UserUpdated). Subscribers register typed handlers and get back an
// unsubscribe function. Delivery is synchronous on the publisher's goroutine,
// in no particular order; a panicking handler is recovered and logged and
// does not affect the publisher or other handlers.
package events

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/taskflow/internal/logging"
)

// SessionExpired is published once per expiry, before the login redirect.
type SessionExpired struct {
	Message string
}

// UserUpdated carries no payload; subscribers re-read the credential store.
type UserUpdated struct{}

type Notifier struct {
	log            logging.Logger
	sessionExpired *topic[SessionExpired]
	userUpdated    *topic[UserUpdated]
}

func NewNotifier(log logging.Logger) *Notifier {
	return &Notifier{
		log:            log,
		sessionExpired: newTopic[SessionExpired]("session_expired"),
		userUpdated:    newTopic[UserUpdated]("user_updated"),
	}
}

func (n *Notifier) OnSessionExpired(fn func(SessionExpired)) (unsubscribe func()) {
	return n.sessionExpired.subscribe(fn)
}

func (n *Notifier) OnUserUpdated(fn func(UserUpdated)) (unsubscribe func()) {
	return n.userUpdated.subscribe(fn)
}

func (n *Notifier) PublishSessionExpired(ctx context.Context, ev SessionExpired) {
	n.sessionExpired.publish(ctx, n.log, ev)
}

func (n *Notifier) PublishUserUpdated(ctx context.Context) {
	n.userUpdated.publish(ctx, n.log, UserUpdated{})
}

type topic[T any] struct {
	name     string
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]func(T)
}

func newTopic[T any](name string) *topic[T] {
	return &topic[T]{name: name, handlers: make(map[uint64]func(T))}
}

func (t *topic[T]) subscribe(fn func(T)) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.handlers[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.handlers, id)
			t.mu.Unlock()
		})
	}
}

func (t *topic[T]) publish(ctx context.Context, log logging.Logger, ev T) {
	// Handlers run outside the lock so they may unsubscribe themselves.
	t.mu.RLock()
	hs := make([]func(T), 0, len(t.handlers))
	for _, h := range t.handlers {
		hs = append(hs, h)
	}
	t.mu.RUnlock()

	for _, h := range hs {
		deliver(ctx, log, t.name, h, ev)
	}
}

func deliver[T any](ctx context.Context, log logging.Logger, name string, h func(T), ev T) {
	defer func() {
		if p := recover(); p != nil {
			log.Error(ctx, "event handler panicked", "event", name, "panic", p)
		}
	}()
	h(ev)
}
