package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/taskflow/internal/logging"
	"github.com/dmitrijs2005/taskflow/internal/server/config"
	"github.com/dmitrijs2005/taskflow/internal/server/devapi"
	"github.com/stretchr/testify/require"
)

func TestNewApp_EmptySecret(t *testing.T) {
	cfg := &config.Config{}
	_, err := NewApp(cfg, logging.Nop())
	require.Error(t, err)
}

func TestServe_DemoLoginAndShutdown(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	app, err := NewApp(cfg, logging.Nop())
	require.NoError(t, err)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, lis) }()

	body, _ := json.Marshal(map[string]string{"email": cfg.SeedEmail, "password": cfg.SeedPassword})
	url := "http://" + lis.Addr().String() + devapi.BasePath + "/auth/login"

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Post(url, "application/json", bytes.NewReader(body))
		return err == nil
	}, time.Second, 10*time.Millisecond)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * shutdownTimeout):
		t.Fatal("server did not stop")
	}
}
