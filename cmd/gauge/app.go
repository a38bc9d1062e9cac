// cmd/gauge/app.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/modbus-gauge/internal/config"
	"github.com/tamzrod/modbus-gauge/internal/logging"
	"github.com/tamzrod/modbus-gauge/internal/mqtt"
	"github.com/tamzrod/modbus-gauge/internal/poller"
	"github.com/tamzrod/modbus-gauge/internal/sink"
	"github.com/tamzrod/modbus-gauge/internal/status"
	"github.com/tamzrod/modbus-gauge/internal/writer"
)

// ConfigPath is the YAML file given on the command line.
type ConfigPath string

// Sinks holds every enabled sink plus the pieces that need their own goroutine.
type Sinks struct {
	Fanout  *sink.Fanout
	Metrics *sink.Metrics // nil when disabled
	Mirror  *sink.Mirror  // nil when disabled
}

// App is the fully wired daemon.
type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	board   *status.Board
	pollers []*poller.Poller
	sinks   *Sinks
}

func NewApp(cfg *config.Config, log zerolog.Logger, board *status.Board, pollers []*poller.Poller, sinks *Sinks) *App {
	return &App{cfg: cfg, log: log, board: board, pollers: pollers, sinks: sinks}
}

// ---- PROVIDERS ----

// fetchTimeout bounds the startup request to sources_url.
const fetchTimeout = 10 * time.Second

// ProvideConfig loads, fetches remote sources, validates, then normalizes.
// Any error here is fatal.
func ProvideConfig(path ConfigPath) (*config.Config, error) {
	cfg, err := config.Load(string(path))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	if err := config.Resolve(ctx, cfg, nil); err != nil {
		return nil, err
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}

func ProvideLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(cfg.Gauge.Log)
}

// ProvideBoard marks a target stale after three of its slowest cycles pass silently.
func ProvideBoard(cfg *config.Config) *status.Board {
	var slowest time.Duration
	for _, src := range cfg.Gauge.Sources {
		timeout := time.Duration(src.TimeoutMs) * time.Millisecond
		for _, t := range src.Targets {
			d := time.Duration(max(t.IntervalMs, t.BackoffMs))*time.Millisecond + timeout
			slowest = max(slowest, d)
		}
	}

	b := status.NewBoard(3 * slowest)
	for _, src := range cfg.Gauge.Sources {
		for _, t := range src.Targets {
			b.Register(t.ID)
		}
	}
	return b
}

func ProvidePollers(cfg *config.Config, log zerolog.Logger) ([]*poller.Poller, error) {
	return poller.BuildAll(cfg, log)
}

// ProvideSinks builds the enabled sinks. The status sink always runs first.
func ProvideSinks(cfg *config.Config, log zerolog.Logger, board *status.Board) (*Sinks, func(), error) {
	sc := cfg.Gauge.Sinks
	out := &Sinks{}
	var closers []func()

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	list := []sink.Sink{sink.NewStatus(board)}

	if sc.Console.Enabled == nil || *sc.Console.Enabled {
		list = append(list, sink.NewConsole(os.Stdout, sc.Console.Format))
	}

	if sc.MQTT.Enabled {
		cli, err := mqtt.New(mqtt.Config{
			BrokerURL: sc.MQTT.Broker,
			ClientID:  sc.MQTT.ClientID,
			Username:  sc.MQTT.Username,
			Password:  sc.MQTT.Password,
			TLS:       sc.MQTT.TLS,
		}, log.With().Str("sink", "mqtt").Logger())
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { cli.Close(250) })
		list = append(list, sink.NewMQTT(cli, sc.MQTT.TopicPrefix, *sc.MQTT.QoS, *sc.MQTT.Retain))
	}

	if sc.Metrics.Enabled {
		out.Metrics = sink.NewMetrics(sc.Metrics.Namespace, board)
		list = append(list, out.Metrics)
	}

	if sc.Mirror.Enabled {
		cli, err := writer.BuildClient(sc.Mirror)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = cli.Close() })
		w := writer.New(writer.BuildPlan(cfg), cli)
		out.Mirror = sink.NewMirror(w, board, log.With().Str("sink", "mirror").Logger())
		list = append(list, out.Mirror)
	}

	out.Fanout = sink.NewFanout(log, list...)
	return out, cleanup, nil
}

// ---- RUN ----

// Run starts one goroutine per poller plus the status watcher and the
// metrics endpoint. It returns when ctx is cancelled or a server fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	ids := a.board.IDs()
	if a.sinks.Mirror != nil {
		a.sinks.Mirror.Assert(ids)
	}

	for _, p := range a.pollers {
		p := p
		g.Go(func() error {
			return p.Run(ctx, a.sinks.Fanout)
		})
	}

	g.Go(func() error {
		return a.board.Watch(ctx, time.Second, a.onStatusChange)
	})

	if a.sinks.Metrics != nil {
		srv := &http.Server{
			Addr:              a.cfg.Gauge.Sinks.Metrics.Listen,
			Handler:           a.metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			a.log.Info().Str("listen", srv.Addr).Msg("metrics listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	a.log.Info().Int("targets", len(a.pollers)).Msg("gauge started")
	return g.Wait()
}

func (a *App) onStatusChange(ids []string) {
	for _, id := range ids {
		if s, ok := a.board.Snapshot(id); ok {
			a.log.Debug().Str("target", id).Str("health", status.HealthName(s.Health)).
				Uint16("seconds_in_error", s.SecondsInError).Msg("status changed")
		}
		if a.sinks.Metrics != nil {
			a.sinks.Metrics.Refresh(id)
		}
	}
	if a.sinks.Mirror != nil {
		if err := a.sinks.Mirror.Refresh(ids); err != nil {
			a.log.Warn().Err(err).Msg("status tick write failed")
		}
	}
}

func (a *App) metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.sinks.Metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}
