// Package apitest serves the in-memory backend from package devapi for
// the duration of a test.
package apitest

import (
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/taskflow/internal/server/devapi"
)

// Start serves a new devapi.Server on a local listener for the duration of
// the test and returns it with the API base URL.
func Start(t testing.TB, opts devapi.Options) (*devapi.Server, string) {
	t.Helper()
	s := devapi.New(opts)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts.URL + devapi.BasePath
}
