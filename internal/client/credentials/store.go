// Package credentials persists the authentication record: the access and
// refresh tokens, the user snapshot and the path to return to after the
// next login.
//
// The two tokens are always written together and read together. A record
// holding only one of them reads as unauthenticated. Getters never fail:
// substrate errors are logged and reported as "no value".
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
	"github.com/dmitrijs2005/taskflow/internal/client/storage"
	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/logging"
)

var ErrIncompleteTokens = errors.New("access and refresh token must both be set")

// Publisher receives the user-updated notification.
type Publisher interface {
	PublishUserUpdated(ctx context.Context)
}

type Store struct {
	// mu makes token pair reads and writes, and user read-modify-write,
	// atomic with respect to each other.
	mu     sync.RWMutex
	kv     storage.Store
	events Publisher
	log    logging.Logger
}

func NewStore(kv storage.Store, events Publisher, log logging.Logger) *Store {
	return &Store{kv: kv, events: events, log: log.With("component", "credentials")}
}

// Save persists a fresh login: both tokens and the user snapshot, in one
// write. A nil user is stored as JSON null.
func (s *Store) Save(ctx context.Context, accessToken, refreshToken string, user *models.User) error {
	if accessToken == "" || refreshToken == "" {
		return ErrIncompleteTokens
	}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.kv.SetMany(ctx, map[string][]byte{
		common.KeyAccessToken:  []byte(accessToken),
		common.KeyRefreshToken: []byte(refreshToken),
		common.KeyUser:         userJSON,
	})
}

// SetTokens overwrites both tokens atomically, leaving the user untouched.
func (s *Store) SetTokens(ctx context.Context, pair models.TokenPair) error {
	if !pair.Complete() {
		return ErrIncompleteTokens
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.kv.SetMany(ctx, map[string][]byte{
		common.KeyAccessToken:  []byte(pair.AccessToken),
		common.KeyRefreshToken: []byte(pair.RefreshToken),
	})
}

// Tokens returns the stored pair, and false when either token is missing.
func (s *Store) Tokens(ctx context.Context) (models.TokenPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	access := s.get(ctx, common.KeyAccessToken)
	refresh := s.get(ctx, common.KeyRefreshToken)
	pair := models.TokenPair{AccessToken: string(access), RefreshToken: string(refresh)}
	if !pair.Complete() {
		return models.TokenPair{}, false
	}
	return pair, true
}

func (s *Store) AccessToken(ctx context.Context) string {
	pair, _ := s.Tokens(ctx)
	return pair.AccessToken
}

func (s *Store) RefreshToken(ctx context.Context) string {
	pair, _ := s.Tokens(ctx)
	return pair.RefreshToken
}

// IsAuthenticated checks presence only. Validity is established by the
// backend.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	return s.AccessToken(ctx) != ""
}

func (s *Store) User(ctx context.Context) *models.User {
	s.mu.RLock()
	raw := s.get(ctx, common.KeyUser)
	s.mu.RUnlock()

	if len(raw) == 0 {
		return nil
	}
	var u *models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.log.Warn(ctx, "stored user is not valid JSON", "error", err)
		return nil
	}
	return u
}

// SetUser replaces the user snapshot and publishes UserUpdated.
func (s *Store) SetUser(ctx context.Context, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	err = s.kv.Set(ctx, common.KeyUser, raw)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.events.PublishUserUpdated(ctx)
	return nil
}

// UpdateUserField sets one JSON field of the stored user, keeping fields
// this client does not model, and publishes UserUpdated.
func (s *Store) UpdateUserField(ctx context.Context, field string, value any) error {
	s.mu.Lock()
	fields := map[string]any{}
	if raw := s.get(ctx, common.KeyUser); len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
			fields = map[string]any{}
		}
	}
	fields[field] = value

	raw, err := json.Marshal(fields)
	if err == nil {
		err = s.kv.Set(ctx, common.KeyUser, raw)
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("update user field %s: %w", field, err)
	}

	s.events.PublishUserUpdated(ctx)
	return nil
}

// Clear removes the whole record, including the pending redirect path.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.kv.DeleteMany(ctx,
		common.KeyAccessToken,
		common.KeyRefreshToken,
		common.KeyUser,
		common.KeyRedirectAfterLogin,
	)
}

func (s *Store) RedirectPath(ctx context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.get(ctx, common.KeyRedirectAfterLogin))
}

func (s *Store) SetRedirectPath(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Set(ctx, common.KeyRedirectAfterLogin, []byte(path))
}

// TakeRedirectPath returns the pending redirect path and deletes it.
func (s *Store) TakeRedirectPath(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := string(s.get(ctx, common.KeyRedirectAfterLogin))
	if path == "" {
		return ""
	}
	if err := s.kv.Delete(ctx, common.KeyRedirectAfterLogin); err != nil {
		s.log.Warn(ctx, "cannot delete redirect path", "error", err)
	}
	return path
}

func (s *Store) get(ctx context.Context, key string) []byte {
	v, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "credential read failed", "key", key, "error", err)
		return nil
	}
	return v
}
