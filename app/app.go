package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"sort"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/modules"
	"github.com/grafana/dskit/server"
	"github.com/grafana/dskit/services"
	"github.com/grafana/dskit/signals"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const metricsNamespace = "mpegprobe"

type App struct {
	cfg    Config
	logger slog.Logger

	Server *server.Server

	ModuleManager *modules.Manager
	serviceMap    map[string]services.Service
}

// New creates and returns a new App.
func New(cfg Config, logger slog.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
	}

	if a.cfg.Target == "" {
		a.cfg.Target = All
	}

	if err := a.setupModuleManager(); err != nil {
		return nil, errors.Wrap(err, "failed to setup module manager")
	}

	if !slices.Contains(a.ModuleManager.UserVisibleModuleNames(), a.cfg.Target) {
		return nil, fmt.Errorf("unknown target %q, expected one of %v", a.cfg.Target, a.ModuleManager.UserVisibleModuleNames())
	}

	return a, nil
}

func (a *App) Run() error {
	serviceMap, err := a.ModuleManager.InitModuleServices(a.cfg.Target)
	if err != nil {
		return fmt.Errorf("failed to init module services %w", err)
	}
	a.serviceMap = serviceMap

	servs := []services.Service(nil)
	for _, s := range serviceMap {
		servs = append(servs, s)
	}

	sm, err := services.NewManager(servs...)
	if err != nil {
		return fmt.Errorf("failed to start service manager %w", err)
	}
	sm.AddListener(services.NewManagerListener(a.healthy, a.stopped, a.failed(sm)))

	a.Server.HTTP.Handle("/status", a.statusHandler())

	// A signal stops the manager, which stops every module.
	handler := signals.NewHandler(a.Server.Log)
	go func() {
		handler.Loop()
		sm.StopAsync()
	}()

	if err := sm.StartAsync(context.Background()); err != nil {
		return fmt.Errorf("failed to start service manager %w", err)
	}

	return sm.AwaitStopped(context.Background())
}

func (a *App) healthy() {
	a.logger.Info("started", "target", a.cfg.Target, "modules", a.moduleNames())
}

func (a *App) stopped() {
	a.logger.Info("stopped")
}

// failed stops everything once any module fails.
func (a *App) failed(sm *services.Manager) func(services.Service) {
	return func(service services.Service) {
		sm.StopAsync()

		for m, s := range a.serviceMap {
			if s != service {
				continue
			}
			if service.FailureCase() == modules.ErrStopProcess {
				a.logger.Info("received stop signal via return error", "module", m, "err", service.FailureCase())
			} else {
				a.logger.Error("module failed", "module", m, "err", service.FailureCase())
			}
			return
		}

		a.logger.Error("module failed", "module", "unknown", "err", service.FailureCase())
	}
}

func (a *App) moduleNames() []string {
	names := make([]string, 0, len(a.serviceMap))
	for m := range a.serviceMap {
		names = append(names, m)
	}
	sort.Strings(names)
	return names
}

// statusHandler renders the state of every module service as YAML.
func (a *App) statusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		states := yaml.MapSlice{}
		for _, m := range a.moduleNames() {
			states = append(states, yaml.MapItem{Key: m, Value: a.serviceMap[m].State().String()})
		}

		out, err := yaml.Marshal(states)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(out)
	})
}

// kitLogger is the logfmt logger handed to dskit, filtered at the
// configured level.
func (a *App) kitLogger() kitlog.Logger {
	l := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	l = kitlog.With(l, "ts", kitlog.DefaultTimestampUTC)

	var allow level.Option
	switch a.cfg.LogLevel {
	case "debug":
		allow = level.AllowDebug()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	default:
		allow = level.AllowInfo()
	}

	return level.NewFilter(l, allow)
}
