package app

import (
	"context"
	"fmt"

	"github.com/grafana/dskit/modules"
	"github.com/grafana/dskit/server"
	"github.com/grafana/dskit/services"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zachfi/mpegprobe/modules/prober"
)

const (
	Server string = "server"

	Prober string = "prober"

	All string = "all"
)

var dependencies = map[string][]string{
	Prober: {Server},
	All:    {Prober},
}

func (a *App) setupModuleManager() error {
	mm := modules.NewManager(a.kitLogger())
	mm.RegisterModule(Server, a.initServer, modules.UserInvisibleModule)
	mm.RegisterModule(Prober, a.initProber)
	mm.RegisterModule(All, nil)

	for mod, deps := range dependencies {
		if err := mm.AddDependency(mod, deps...); err != nil {
			return errors.Wrapf(err, "failed to add dependencies of %s", mod)
		}
	}

	a.ModuleManager = mm

	return nil
}

func (a *App) initProber() (services.Service, error) {
	p, err := prober.New(a.cfg.Prober, a.logger, prometheus.DefaultRegisterer)
	if err != nil {
		return nil, errors.Wrap(err, "unable to init "+Prober)
	}

	a.Server.HTTP.Handle("/probe", p)

	return p, nil
}

func (a *App) initServer() (services.Service, error) {
	a.cfg.Server.MetricsNamespace = metricsNamespace
	a.cfg.Server.ExcludeRequestInLog = true
	a.cfg.Server.RegisterInstrumentation = true
	a.cfg.Server.Log = a.kitLogger()

	srv, err := server.New(a.cfg.Server)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create server")
	}
	a.Server = srv

	serverDone := make(chan error, 1)

	running := func(ctx context.Context) error {
		go func() {
			defer close(serverDone)
			serverDone <- srv.Run()
		}()

		select {
		case <-ctx.Done():
			return nil
		case err := <-serverDone:
			if err != nil {
				return err
			}
			return fmt.Errorf("server stopped unexpectedly")
		}
	}

	stopping := func(_ error) error {
		// Keep serving /probe and /status until every other module is done.
		for m, s := range a.serviceMap {
			if m != Server {
				_ = s.AwaitTerminated(context.Background())
			}
		}

		srv.Shutdown()
		<-serverDone
		a.logger.Info("server stopped")
		return nil
	}

	return services.NewBasicService(nil, running, stopping), nil
}
