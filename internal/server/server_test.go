package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"p2p-chat-be/internal/bootstrap"
	"p2p-chat-be/internal/config"
	"p2p-chat-be/internal/pkg/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogFilePath:        filepath.Join(dir, "app.log"),
			ChatLogFilePath:    filepath.Join(dir, "chat.log"),
			CorsAllowedOrigins: "*",
		},
		Auth: config.AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour},
		Chat: config.ChatConfig{SendBufferSize: 8, MaxMessageSize: 4096, BlockCacheTTL: time.Minute},
	}

	container := bootstrap.NewContainer(testdb.New(t), cfg)
	require.NoError(t, container.Start(context.Background()))
	assert.Nil(t, container.PresenceMirror)

	srv := New(cfg, container)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func TestHealthReportsSessionCount(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.GetApp().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Sessions int `json:"sessions"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 0, body.Data.Sessions)
}

func TestRoutesAreMounted(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Ann","email":"ann@x.io","phoneNumber":"0811111111"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.GetApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = srv.GetApp().Test(httptest.NewRequest(http.MethodGet, "/api/users", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = srv.GetApp().Test(httptest.NewRequest(http.MethodGet, "/api/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestAnnouncementsUnavailableWithoutBus(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Ann","email":"ann@x.io","phoneNumber":"0811111111"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.GetApp().Test(req)
	require.NoError(t, err)

	var auth struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&auth))

	req = httptest.NewRequest(http.MethodPost, "/api/announcements", strings.NewReader(`{"title":"t","message":"m"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+auth.Data.AccessToken)
	resp, err = srv.GetApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
