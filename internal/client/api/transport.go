package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/logging"
	"github.com/google/uuid"
)

// TokenSource yields the access token to attach. "" means send no
// Authorization header.
type TokenSource interface {
	AccessToken(ctx context.Context) string
}

// UnauthorizedHandler decides what happens to a request that came back 401.
// session.Manager implements it.
type UnauthorizedHandler interface {
	HandleUnauthorized(ctx context.Context, sentWith string) (string, error)
}

// Transport is an http.RoundTripper that authenticates requests and replays
// each of them at most once after a token refresh.
type Transport struct {
	base    http.RoundTripper
	tokens  TokenSource
	session UnauthorizedHandler
	log     logging.Logger
}

func NewTransport(base http.RoundTripper, tokens TokenSource, session UnauthorizedHandler, log logging.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, tokens: tokens, session: session, log: log.With("component", "transport")}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	requestID := req.Header.Get(common.RequestIDHeaderName)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	token := t.tokens.AccessToken(ctx)
	resp, err := t.base.RoundTrip(authorize(req, req.Body, token, requestID))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized || !renewable(req) {
		return resp, nil
	}

	log := t.log.With("request_id", requestID, "method", req.Method, "path", req.URL.Path)

	var body io.ReadCloser
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			log.Warn(ctx, "request body cannot be replayed, returning 401")
			return resp, nil
		}
		if body, err = req.GetBody(); err != nil {
			log.Warn(ctx, "cannot rewind request body", "error", err)
			return resp, nil
		}
	}

	newToken, err := t.session.HandleUnauthorized(ctx, token)
	if err != nil {
		if body != nil {
			_ = body.Close()
		}
		if errors.Is(err, common.ErrSessionTerminated) {
			log.Debug(ctx, "session terminated, returning 401", "error", err)
			return resp, nil
		}
		drain(resp)
		return nil, err
	}

	drain(resp)
	log.Debug(ctx, "replaying request with renewed token")

	// The replay is not inspected again: a second 401 goes to the caller.
	return t.base.RoundTrip(authorize(req, body, newToken, requestID))
}

// renewable reports whether a 401 to req belongs to the session. Credential
// exchanges answer 401 for a wrong password or a dead refresh token and are
// handed back as is.
func renewable(req *http.Request) bool {
	path := strings.TrimSuffix(req.URL.Path, "/")
	for _, p := range []string{common.PathRefresh, common.PathLogin, common.PathRegister} {
		if strings.HasSuffix(path, p) {
			return false
		}
	}
	return true
}

func authorize(req *http.Request, body io.ReadCloser, token, requestID string) *http.Request {
	out := req.Clone(req.Context())
	out.Body = body
	out.Header.Set(common.RequestIDHeaderName, requestID)
	if token != "" {
		out.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	} else {
		out.Header.Del(common.AuthorizationHeaderName)
	}
	return out
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
