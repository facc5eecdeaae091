package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/logging"
)

// Refresher calls the refresh endpoint on the bare transport, so a 401 from
// it can never re-enter the session manager.
type Refresher struct {
	c *Client
}

func NewRefresher(baseURL string, base http.RoundTripper, log logging.Logger) *Refresher {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Refresher{c: NewClient(baseURL, &http.Client{Transport: base}, log.With("caller", "refresh"))}
}

func (r *Refresher) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := r.c.Do(ctx, http.MethodPost, common.PathRefresh, models.RefreshRequest{RefreshToken: refreshToken}, &resp); err != nil {
		return nil, err
	}
	if !resp.Tokens().Complete() {
		return nil, common.ErrMalformedTokenResponse
	}
	return &resp, nil
}
