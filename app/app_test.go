package app

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grafana/dskit/services"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

var logger = *slog.New(slog.DiscardHandler)

func TestNewApp(t *testing.T) {
	cfg, _ := defaultConfig(t)

	a, err := New(*cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, a.ModuleManager)
	require.True(t, a.ModuleManager.IsUserVisibleModule(Prober))
	require.False(t, a.ModuleManager.IsUserVisibleModule(Server))

	cfg.Target = ""
	a, err = New(*cfg, logger)
	require.NoError(t, err)
	require.Equal(t, All, a.cfg.Target)
}

func TestNewAppUnknownTarget(t *testing.T) {
	cfg, _ := defaultConfig(t)
	cfg.Target = "ripper"

	_, err := New(*cfg, logger)
	require.ErrorContains(t, err, `unknown target "ripper"`)

	cfg.Target = Server
	_, err = New(*cfg, logger)
	require.Error(t, err)
}

func TestStatusHandler(t *testing.T) {
	cfg, _ := defaultConfig(t)
	a, err := New(*cfg, logger)
	require.NoError(t, err)

	running := services.NewIdleService(nil, nil)
	require.NoError(t, services.StartAndAwaitRunning(context.Background(), running))
	defer func() {
		require.NoError(t, services.StopAndAwaitTerminated(context.Background(), running))
	}()

	a.serviceMap = map[string]services.Service{
		Server: running,
		Prober: services.NewIdleService(nil, nil),
	}

	rec := httptest.NewRecorder()
	a.statusHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

	var states yaml.MapSlice
	require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &states))
	require.Equal(t, yaml.MapSlice{
		{Key: Prober, Value: "New"},
		{Key: Server, Value: "Running"},
	}, states)
}
