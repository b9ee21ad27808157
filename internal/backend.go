package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markusressel/g2go/internal/api"
	"github.com/markusressel/g2go/internal/configuration"
	"github.com/markusressel/g2go/internal/engine"
	"github.com/markusressel/g2go/internal/events"
	"github.com/markusressel/g2go/internal/gateway"
	"github.com/markusressel/g2go/internal/hotkey"
	"github.com/markusressel/g2go/internal/persistence"
	"github.com/markusressel/g2go/internal/probe"
	"github.com/markusressel/g2go/internal/sensors"
	"github.com/markusressel/g2go/internal/statistics"
	"github.com/markusressel/g2go/internal/status"
	"github.com/markusressel/g2go/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Daemon holds the long living objects shared by all actors.
type Daemon struct {
	Config   configuration.Configuration
	Gateway  gateway.Gateway
	Store    persistence.SettingsStore
	Bus      *events.Bus
	Board    *status.Board
	Prober   *probe.Prober
	Probe    probe.Result
	Engine   *engine.Engine
	Feed     *sensors.Feed
	Registry *prometheus.Registry

	unsubscribe events.UnsubscribeFunc
}

// NewGateway returns the device gateway selected by the configuration.
func NewGateway(config configuration.Configuration) (gateway.Gateway, error) {
	switch config.Backend {
	case configuration.BackendDell, "":
		return gateway.NewDell(config), nil
	case configuration.BackendSimulated:
		return gateway.NewSimulated(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", config.Backend)
	}
}

// InitializeObjects probes the device and starts the engine.
// A failed probe is not fatal, the engine then runs with the reduced capabilities.
func InitializeObjects(ctx context.Context, config configuration.Configuration, gw gateway.Gateway) (*Daemon, error) {
	store := persistence.NewPersistence(config.DbPath)
	if err := store.Init(); err != nil {
		return nil, err
	}

	board := status.NewBoard()
	bus := events.NewBus()

	prober := probe.NewProber(gw, board)
	probeCtx, cancel := context.WithTimeout(ctx, config.CommandTimeout)
	result := prober.Probe(probeCtx)
	cancel()
	if result.Err != nil {
		var permissionErr *probe.PermissionError
		if errors.As(result.Err, &permissionErr) {
			ui.Warning("Run 'g2go setup' to install the missing permission rules")
		}
	}

	notifier := ui.NewNotifier(store, func(question string) bool {
		// the default may change while the daemon runs
		return ui.InteractivePrompt(configuration.CurrentConfig.Notifications.Enabled)(question)
	})
	eng := engine.NewEngine(gw, store, bus, board, notifier, config.ModeSwitchDelay)
	unsubscribe := eng.Start(result.Capabilities)

	registry := prometheus.NewRegistry()
	feed := sensors.NewFeed(gw, board, config.SensorPollingRate)
	statistics.Register(registry,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		statistics.NewEngineCollector(eng),
		statistics.NewFanCollector(feed, eng),
		statistics.NewSensorCollector(feed),
	)

	return &Daemon{
		Config:      config,
		Gateway:     gw,
		Store:       store,
		Bus:         bus,
		Board:       board,
		Prober:      prober,
		Probe:       result,
		Engine:      eng,
		Feed:        feed,
		Registry:    registry,
		unsubscribe: unsubscribe,
	}, nil
}

// Close stops following external turbo toggles.
func (d *Daemon) Close() {
	if d.unsubscribe != nil {
		d.unsubscribe()
	}
}

func RunDaemon(config configuration.Configuration) {
	gw, err := NewGateway(config)
	if err != nil {
		ui.Fatal("%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	daemon, err := InitializeObjects(ctx, config, gw)
	if err != nil {
		ui.Fatal("Unable to initialize: %v", err)
	}
	defer daemon.Close()

	if config.RestoreOnStartup {
		daemon.Engine.Restore(ctx)
	}

	var g run.Group
	{
		if config.Statistics.Enabled {
			// === Prometheus Exporter
			handler := promhttp.HandlerFor(daemon.Registry, promhttp.HandlerOpts{})
			addServer(ctx, &g, "statistics", fmt.Sprintf(":%d", config.Statistics.Port), handler)
		}
	}
	{
		if config.Api.Enabled {
			// === REST API
			rest := api.CreateRestService(api.Services{
				Engine:   daemon.Engine,
				Feed:     daemon.Feed,
				Board:    daemon.Board,
				Prober:   daemon.Prober,
				Probe:    daemon.Probe,
				Registry: daemon.Registry,
			})
			addServer(ctx, &g, "api", fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port), rest)
		}
	}
	{
		if config.Profiling.Enabled {
			mux := http.NewServeMux()
			mux.HandleFunc("/debug/pprof/", pprof.Index)
			mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
			mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
			mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
			mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
			addServer(ctx, &g, "profiling", fmt.Sprintf("%s:%d", config.Profiling.Host, config.Profiling.Port), mux)
		}
	}
	{
		// === sensor polling
		g.Add(func() error {
			err := daemon.Feed.Run(ctx)
			ui.Info("Sensor feed stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Error polling sensors: %v", err)
			}
		})
	}
	{
		if config.Hotkey.Enabled && daemon.Engine.Capabilities().PowerSupported {
			// === turbo hotkey
			monitor := hotkey.NewMonitor(config.Hotkey, daemon.Bus)
			g.Add(func() error {
				err := monitor.Run(ctx)
				ui.Info("Hotkey monitor stopped.")
				return err
			}, func(err error) {
				if err != nil {
					ui.Warning("Error monitoring hotkey: %v", err)
				}
			})
		}
	}
	{
		// === settings written by other processes
		g.Add(func() error {
			err := persistence.Watch(ctx, daemon.Store.Path(), func() {
				if daemon.Engine.Reload() {
					ui.Debug("Settings reloaded from %s", daemon.Store.Path())
				}
			})
			if err != nil {
				ui.Warning("Unable to watch settings, external changes are ignored: %v", err)
				<-ctx.Done()
			}
			return nil
		}, func(err error) {})
	}
	{
		current := config
		configuration.WatchConfig(func(updated configuration.Configuration) {
			if updated.Backend != current.Backend || updated.DbPath != current.DbPath {
				ui.Warning("Changes to backend and dbPath require a restart")
			}
			if updated.SensorPollingRate != current.SensorPollingRate {
				daemon.Feed.SetPollingRate(updated.SensorPollingRate)
			}
			current = updated
			configuration.CurrentConfig = updated
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received SIGTERM signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
	}
}

// addServer runs an http server as an actor of g until ctx is done.
func addServer(ctx context.Context, g *run.Group, name string, addr string, handler http.Handler) {
	server := &http.Server{Addr: addr, Handler: handler}
	g.Add(func() error {
		ui.Info("Starting %s server on %s", name, addr)
		errs := make(chan error, 1)
		go func() {
			errs <- server.ListenAndServe()
		}()

		select {
		case err := <-errs:
			if !errors.Is(err, http.ErrServerClosed) {
				ui.Error("Cannot start %s server (%v)", name, err)
			}
			<-ctx.Done()
			return nil
		case <-ctx.Done():
			ui.Info("Stopping %s server...", name)
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer timeoutCancel()
			return server.Shutdown(timeoutCtx)
		}
	}, func(err error) {
		if err != nil {
			ui.Warning("Error stopping %s server: %v", name, err)
		} else {
			ui.Info("%s server stopped.", name)
		}
	})
}
