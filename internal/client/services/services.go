// Package services contains the application services of the taskflow
// client: authentication and profile management, boards, tasks and
// reminders. Every call goes through the authenticated API client, so an
// expired access token is renewed transparently.
package services

import (
	"context"
	"io"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
)

// API is the request surface the services need from api.Client.
type API interface {
	Do(ctx context.Context, method, path string, in, out any) error
	Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error
}

// Credentials is the part of the credential store the services write.
type Credentials interface {
	Save(ctx context.Context, accessToken, refreshToken string, user *models.User) error
	SetUser(ctx context.Context, user *models.User) error
	UpdateUserField(ctx context.Context, field string, value any) error
	User(ctx context.Context) *models.User
	IsAuthenticated(ctx context.Context) bool
	Clear(ctx context.Context) error
}

// Refresher starts or joins a token refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}
