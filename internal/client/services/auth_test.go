package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/dmitrijs2005/taskflow/internal/client/api"
	"github.com/dmitrijs2005/taskflow/internal/client/models"
	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_PersistsCredentials(t *testing.T) {
	f := newFixture(t)
	f.srv.AddUser("ann@example.com", "pw", "Ann")
	ctx := context.Background()

	resp, err := f.auth.Login(ctx, "ann@example.com", "pw")

	require.NoError(t, err)
	assert.True(t, resp.Tokens().Complete())
	assert.True(t, f.auth.IsAuthenticated(ctx))
	require.NotNil(t, f.auth.StoredUser(ctx))
	assert.Equal(t, int64(1), f.auth.StoredUser(ctx).ID)

	pair, ok := f.creds.Tokens(ctx)
	require.True(t, ok)
	assert.Equal(t, resp.Tokens(), pair)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	f.srv.AddUser("ann@example.com", "pw", "Ann")

	_, err := f.auth.Login(context.Background(), "ann@example.com", "nope")

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, api.KindUnauthorized, apiErr.Kind)
	assert.False(t, f.auth.IsAuthenticated(context.Background()))
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := "555"

	resp, err := f.auth.Register(ctx, models.Registration{Email: "bo@example.com", Password: "pw", FullName: "Bo", Phone: &phone})

	require.NoError(t, err)
	assert.Equal(t, "Bo", resp.User.FullName)
	assert.Equal(t, "555", f.auth.StoredUser(ctx).Phone)
	assert.True(t, f.auth.IsAuthenticated(ctx))
}

func TestRegister_ValidationMessageIsVerbatim(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), models.Registration{Email: "bo@example.com"})

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, api.KindValidation, apiErr.Kind)
	assert.Equal(t, "field required: password; field required: full_name", apiErr.Message)
}

func TestLogout_ClearsAndRevokes(t *testing.T) {
	f := newFixture(t)
	f.loggedIn(t)
	ctx := context.Background()
	refresh := f.creds.RefreshToken(ctx)

	require.NoError(t, f.auth.Logout(ctx))

	assert.False(t, f.auth.IsAuthenticated(ctx))
	assert.Nil(t, f.auth.StoredUser(ctx))
	assert.Equal(t, 1, f.srv.Hits(http.MethodPost, common.PathLogout))

	// The backend forgot the refresh token too.
	_, err := api.NewRefresher(f.base, nil, logging.Nop()).Refresh(ctx, refresh)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogout_Unauthenticated_NoBackendCall(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.auth.Logout(context.Background()))
	assert.Zero(t, f.srv.Hits(http.MethodPost, common.PathLogout))
}

type failingAPI struct{ calls int }

func (f *failingAPI) Do(context.Context, string, string, any, any) error {
	f.calls++
	return &api.APIError{Kind: api.KindNetwork, Message: "cannot reach server"}
}

func (f *failingAPI) Upload(context.Context, string, string, string, io.Reader, any) error {
	f.calls++
	return errors.New("unreachable")
}

func TestLogout_BackendFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.loggedIn(t)
	ctx := context.Background()
	fa := &failingAPI{}
	svc := NewAuthService(fa, f.creds, f.mgr, logging.Nop())

	require.NoError(t, svc.Logout(ctx))

	assert.Equal(t, 1, fa.calls)
	assert.False(t, f.creds.IsAuthenticated(ctx))
}

func TestVerifySession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.False(t, f.auth.VerifySession(ctx))
	assert.Zero(t, f.srv.Hits(http.MethodGet, common.PathVerify))

	f.loggedIn(t)
	assert.True(t, f.auth.VerifySession(ctx))

	f.srv.ExpireAccessTokens()
	f.srv.RevokeRefreshTokens()
	assert.False(t, f.auth.VerifySession(ctx))
	assert.False(t, f.auth.IsAuthenticated(ctx))
}

func TestRefreshNow(t *testing.T) {
	f := newFixture(t)
	f.loggedIn(t)
	ctx := context.Background()
	before := f.creds.AccessToken(ctx)

	token, err := f.auth.RefreshNow(ctx)

	require.NoError(t, err)
	assert.NotEqual(t, before, token)
	assert.Equal(t, token, f.creds.AccessToken(ctx))
	assert.Equal(t, 1, f.srv.RefreshCalls())
}

func TestRefreshNow_Unauthenticated(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.RefreshNow(context.Background())

	assert.ErrorIs(t, err, common.ErrSessionTerminated)
	assert.ErrorIs(t, err, common.ErrNoRefreshToken)
}

func TestProfileOperationsUpdateStoredUser(t *testing.T) {
	f := newFixture(t)
	f.loggedIn(t)
	ctx := context.Background()
	base := f.userUpdates.Load()

	u, err := f.auth.UpdateName(ctx, "Ann Lee")
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", u.FullName)
	assert.Equal(t, "Ann Lee", f.auth.StoredUser(ctx).FullName)

	_, err = f.auth.UpdateProfile(ctx, models.ProfileUpdate{"phone": "777"})
	require.NoError(t, err)
	assert.Equal(t, "777", f.auth.StoredUser(ctx).Phone)

	_, err = f.auth.UploadAvatar(ctx, "me.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/1/me.png", f.auth.StoredUser(ctx).AvatarURL)

	_, err = f.auth.DeleteAvatar(ctx)
	require.NoError(t, err)
	assert.Empty(t, f.auth.StoredUser(ctx).AvatarURL)

	me, err := f.auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", me.FullName)

	assert.Equal(t, base+5, f.userUpdates.Load())
}
