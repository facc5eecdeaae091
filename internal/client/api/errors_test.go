package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/dmitrijs2005/taskflow/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestFromResponse(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    Kind
		wantMessage string
		wantBackend bool
		wantIs      []error
	}{
		{
			name:        "string detail",
			status:      http.StatusBadRequest,
			body:        `{"detail":"Email already registered"}`,
			wantKind:    KindValidation,
			wantMessage: "Email already registered",
			wantBackend: true,
			wantIs:      []error{common.ErrValidation},
		},
		{
			name:        "validation list",
			status:      http.StatusUnprocessableEntity,
			body:        `{"detail":[{"loc":["body","email"],"msg":"field required","type":"x"},{"loc":["body",0],"msg":"too short","type":"y"}]}`,
			wantKind:    KindValidation,
			wantMessage: "field required; too short",
			wantBackend: true,
		},
		{
			name:        "object detail kept raw",
			status:      http.StatusConflict,
			body:        `{"detail":{"code":7}}`,
			wantKind:    KindValidation,
			wantMessage: `{"code":7}`,
			wantBackend: true,
		},
		{
			name:        "message member",
			status:      http.StatusBadRequest,
			body:        `{"message":"nope"}`,
			wantKind:    KindValidation,
			wantMessage: "nope",
			wantBackend: true,
		},
		{
			name:        "unauthorized without body",
			status:      http.StatusUnauthorized,
			wantKind:    KindUnauthorized,
			wantMessage: "session expired",
			wantIs:      []error{common.ErrUnauthorized},
		},
		{
			name:        "not found",
			status:      http.StatusNotFound,
			body:        `{"detail":"Task not found"}`,
			wantKind:    KindValidation,
			wantMessage: "Task not found",
			wantBackend: true,
			wantIs:      []error{common.ErrValidation, common.ErrNotFound},
		},
		{
			name:        "server error with html",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantKind:    KindServer,
			wantMessage: "bad gateway",
			wantIs:      []error{common.ErrServer},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fromResponse(response(tt.status, tt.body))

			assert.Equal(t, tt.wantKind, err.Kind)
			assert.Equal(t, tt.status, err.Status)
			assert.Equal(t, tt.wantMessage, err.Message)
			if tt.wantBackend {
				assert.Equal(t, tt.wantMessage, err.BackendMessage())
			} else {
				assert.Empty(t, err.BackendMessage())
			}
			for _, target := range tt.wantIs {
				assert.ErrorIs(t, err, target)
			}
		})
	}
}

func TestNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := NewClient(url, nil, logging.Nop())
	err := c.Do(context.Background(), http.MethodGet, "/boards/", nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.Equal(t, "cannot reach server", apiErr.Message)
	assert.ErrorIs(t, err, common.ErrUnavailable)
	assert.Empty(t, apiErr.BackendMessage())
}

func TestClient_DecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	t.Cleanup(ts.Close)

	var out map[string]any
	err := NewClient(ts.URL, nil, logging.Nop()).Do(context.Background(), http.MethodGet, "/", nil, &out)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindDecode, apiErr.Kind)
}

func TestClient_EmptySuccessBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(ts.Close)

	var out map[string]any
	err := NewClient(ts.URL+"/", nil, logging.Nop()).Do(context.Background(), http.MethodDelete, "/boards/1", nil, &out)
	assert.NoError(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "network", KindNetwork.String())
	assert.Equal(t, "Kind(0)", Kind(0).String())
	assert.True(t, errors.Is(&APIError{Kind: KindServer}, common.ErrServer))
}
