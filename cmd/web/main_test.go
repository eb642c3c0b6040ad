package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/signup/internal/config"
)

func TestBuildRouter(t *testing.T) {
	h, err := buildRouter(config.Default(t.TempDir()), zap.NewNop().Sugar())
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/signup")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))

	resp, err = http.Post(srv.URL+"/api/signup", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBuildRouterFailsOnBadDefinition(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Form.Definition = "missing.yaml"

	_, err := buildRouter(cfg, zap.NewNop().Sugar())
	assert.Error(t, err)
}
