package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/logging"
)

const (
	pathProfileName   = "/profile/name"
	pathProfileAvatar = "/profile/avatar"
	avatarFormField   = "file"
)

// AuthService defines authentication and profile operations.
//
// Contract:
//   - Login/Register: authenticate and persist the credential record.
//   - Logout: best-effort backend notification; local credentials are
//     always cleared.
//   - VerifySession: boolean check, never an error.
//   - RefreshNow: force a refresh cycle (joins one already running).
//   - Me/UpdateProfile/UpdateName/UploadAvatar/DeleteAvatar: profile calls
//     that keep the stored user snapshot in sync.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	VerifySession(ctx context.Context) bool
	RefreshNow(ctx context.Context) (string, error)
	Me(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error)
	UpdateName(ctx context.Context, fullName string) (*models.User, error)
	UploadAvatar(ctx context.Context, filename string, r io.Reader) (*models.User, error)
	DeleteAvatar(ctx context.Context) (*models.User, error)
	StoredUser(ctx context.Context) *models.User
	IsAuthenticated(ctx context.Context) bool
}

type authService struct {
	api       API
	creds     Credentials
	refresher Refresher
	log       logging.Logger
}

func NewAuthService(api API, creds Credentials, refresher Refresher, log logging.Logger) AuthService {
	return &authService{api: api, creds: creds, refresher: refresher, log: log.With("service", "auth")}
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.api.Do(ctx, http.MethodPost, common.PathLogin, models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := a.persist(ctx, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	a.log.Info(ctx, "logged in", "user_id", userID(resp.User))
	return &resp, nil
}

func (a *authService) Register(ctx context.Context, reg models.Registration) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.api.Do(ctx, http.MethodPost, common.PathRegister, reg, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := a.persist(ctx, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	a.log.Info(ctx, "registered", "user_id", userID(resp.User))
	return &resp, nil
}

func (a *authService) persist(ctx context.Context, resp *models.AuthResponse) error {
	if !resp.Tokens().Complete() {
		return common.ErrMalformedTokenResponse
	}
	return a.creds.Save(ctx, resp.AccessToken, resp.RefreshToken, resp.User)
}

// Logout only returns an error when the local credentials could not be
// cleared.
func (a *authService) Logout(ctx context.Context) (err error) {
	defer func() {
		if cerr := a.creds.Clear(ctx); cerr != nil {
			err = fmt.Errorf("logout: %w", cerr)
		}
	}()

	if !a.creds.IsAuthenticated(ctx) {
		return nil
	}
	if perr := a.api.Do(ctx, http.MethodPost, common.PathLogout, struct{}{}, nil); perr != nil {
		a.log.Warn(ctx, "backend logout failed", "error", perr)
	}
	return nil
}

func (a *authService) VerifySession(ctx context.Context) bool {
	if !a.creds.IsAuthenticated(ctx) {
		return false
	}
	if err := a.api.Do(ctx, http.MethodGet, common.PathVerify, nil, nil); err != nil {
		a.log.Debug(ctx, "session not valid", "error", err)
		return false
	}
	return true
}

func (a *authService) RefreshNow(ctx context.Context) (string, error) {
	token, err := a.refresher.Refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	return token, nil
}

func (a *authService) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := a.api.Do(ctx, http.MethodGet, common.PathMe, nil, &u); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return a.storeUser(ctx, &u)
}

func (a *authService) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.User, error) {
	var u models.User
	if err := a.api.Do(ctx, http.MethodPut, common.PathMe, upd, &u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return a.storeUser(ctx, &u)
}

func (a *authService) UpdateName(ctx context.Context, fullName string) (*models.User, error) {
	var u models.User
	if err := a.api.Do(ctx, http.MethodPut, pathProfileName, models.NameUpdate{FullName: fullName}, &u); err != nil {
		return nil, fmt.Errorf("update name: %w", err)
	}
	if err := a.creds.UpdateUserField(ctx, "full_name", fullName); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *authService) UploadAvatar(ctx context.Context, filename string, r io.Reader) (*models.User, error) {
	var u models.User
	if err := a.api.Upload(ctx, pathProfileAvatar, avatarFormField, filename, r, &u); err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	if err := a.creds.UpdateUserField(ctx, "avatar_url", u.AvatarURL); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *authService) DeleteAvatar(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := a.api.Do(ctx, http.MethodDelete, pathProfileAvatar, nil, &u); err != nil {
		return nil, fmt.Errorf("delete avatar: %w", err)
	}
	if err := a.creds.UpdateUserField(ctx, "avatar_url", nil); err != nil {
		return nil, err
	}
	return &u, nil
}

func (a *authService) StoredUser(ctx context.Context) *models.User {
	return a.creds.User(ctx)
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	return a.creds.IsAuthenticated(ctx)
}

func (a *authService) storeUser(ctx context.Context, u *models.User) (*models.User, error) {
	if err := a.creds.SetUser(ctx, u); err != nil {
		return nil, fmt.Errorf("store user: %w", err)
	}
	return u, nil
}

func userID(u *models.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}
