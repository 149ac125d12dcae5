package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/alerts"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/dashboard"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/loop"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/registry"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/telemetry"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/webevents"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/infrastructure/backend"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/infrastructure/natsstore"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/infrastructure/router"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/infrastructure/tracing"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/infrastructure/transport"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/presentation/api"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

const serviceName string = "iot-tamper-dashboard"

type flagType int
type flagMap map[flagType]string

const (
	listenAddress flagType = iota
	servicePort
	natsURL
	transportURL
	backendURL
	enableTracing
	logLevel
	allowedOrigins
	configurationFile
)

func defaultFlags() flagMap {
	return flagMap{
		listenAddress: "0.0.0.0",
		servicePort:   "8080",
		natsURL:       "nats://localhost:4222",
		transportURL:  "ws://localhost:8000",
		backendURL:    "",
		enableTracing: "true",
		logLevel:      "info",

		allowedOrigins:    "*",
		configurationFile: "",
	}
}

type appConfig struct {
	Dashboard dashboardConfig `yaml:"dashboard"`
}

type dashboardConfig struct {
	Mode              telemetry.Mode            `yaml:"mode"`
	TickInterval      time.Duration             `yaml:"tickInterval"`
	HistorySize       int                       `yaml:"historySize"`
	ChartWindow       int                       `yaml:"chartWindow"`
	MaxNotifications  int                       `yaml:"maxNotifications"`
	RecentAlertWindow time.Duration             `yaml:"recentAlertWindow"`
	TrackedFile       string                    `yaml:"trackedFile"`
	Reconnect         telemetry.ReconnectPolicy `yaml:"reconnect"`
	SubscriptionRetry retryConfig               `yaml:"subscriptionRetry"`
	Buckets           natsstore.Config          `yaml:"buckets"`
}

type retryConfig struct {
	InitialInterval time.Duration `yaml:"initialInterval"`
	MaxInterval     time.Duration `yaml:"maxInterval"`
}

func defaultConfig() *appConfig {
	return &appConfig{
		Dashboard: dashboardConfig{
			Mode:              telemetry.ModeSynthetic,
			TickInterval:      time.Second,
			HistorySize:       50,
			ChartWindow:       13,
			MaxNotifications:  dashboard.DefaultMaxNotifications,
			RecentAlertWindow: 30 * time.Second,
			TrackedFile:       backend.DefaultTrackedFile,
			SubscriptionRetry: retryConfig{
				InitialInterval: time.Second,
				MaxInterval:     30 * time.Second,
			},
			Buckets: natsstore.Config{
				DevicesBucket:   "devices",
				AlertsBucket:    "alerts",
				FinalDataBucket: "final-data",
			},
		},
	}
}

func main() {
	serviceVersion := buildinfo.SourceVersion()
	logger := newLogger(serviceName, serviceVersion)

	ctx, flags := parseExternalConfig(context.Background(), logger, defaultFlags())

	logger = logger.Level(parseLevel(flags[logLevel]))
	ctx = logging.NewContextWithLogger(ctx, logger)
	logger.Info().Msg("starting up ...")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanup, err := tracing.Init(ctx, logger, flags[enableTracing] == "true", serviceName, serviceVersion)
	exitIf(err, logger, "failed to init tracing")
	defer cleanup()

	cfg, err := loadConfiguration(flags[configurationFile])
	exitIf(err, logger, "could not load configuration")

	storeCfg := cfg.Dashboard.Buckets
	storeCfg.URL = flags[natsURL]

	store, err := natsstore.New(ctx, storeCfg, logger)
	exitIf(err, logger, "could not connect to nats")
	defer store.Close()

	svc, err := newDashboard(flags, cfg, store, logger)
	exitIf(err, logger, "failed to create dashboard")

	r := router.New(serviceName,
		router.WithAllowedOrigins(strings.Split(flags[allowedOrigins], ",")...),
		router.WithLogger(logger),
	)
	api.RegisterHandlers(ctx, r, svc.dashboard, svc.events)

	server := &http.Server{
		Addr:              net.JoinHostPort(flags[listenAddress], flags[servicePort]),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go svc.dashboard.Run(ctx)

	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down ...")

		svc.events.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shut down http server")
		}
	}()

	logger.Info().Str("addr", server.Addr).Str("mode", string(cfg.Dashboard.Mode)).Msg("listening for requests")

	err = server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		exitIf(err, logger, "failed to start http server")
	}
}

type service struct {
	dashboard dashboard.Dashboard
	events    webevents.WebEvents
}

type stores interface {
	Devices() *natsstore.DeviceCollection
	Alerts() *natsstore.AlertCollection
	Blobs() *natsstore.BlobStore
}

func newDashboard(flags flagMap, cfg *appConfig, s stores, logger zerolog.Logger) (service, error) {
	dc := cfg.Dashboard

	var dialer transport.Dialer
	if dc.Mode == telemetry.ModeLive {
		wsDialer, err := transport.NewWebsocketDialer(flags[transportURL], logger)
		if err != nil {
			return service{}, err
		}
		dialer = wsDialer
	} else if dc.Mode != telemetry.ModeSynthetic {
		return service{}, fmt.Errorf("unknown telemetry mode %q", dc.Mode)
	}

	l := loop.New(0)

	devices := registry.New(s.Devices(), l.Dispatch, logger,
		registry.WithRetry(dc.SubscriptionRetry.InitialInterval, dc.SubscriptionRetry.MaxInterval),
	)

	source := telemetry.New(telemetry.Config{
		Mode:         dc.Mode,
		TickInterval: dc.TickInterval,
		HistorySize:  dc.HistorySize,
		Reconnect:    dc.Reconnect,
	}, telemetry.NewRandomGenerator(time.Now().UnixNano()), dialer, l.Dispatch, logger)

	alertFeed := alerts.New(s.Alerts(), s.Blobs(), l.Dispatch, logger,
		alerts.WithRecentWindow(dc.RecentAlertWindow),
	)

	var backendClient backend.Client
	if flags[backendURL] != "" {
		backendClient = backend.New(flags[backendURL])
	}

	events := webevents.New()

	d := dashboard.New(l, devices, source, alertFeed, s.Blobs(), backendClient, events, dashboard.Config{
		ChartWindow:      dc.ChartWindow,
		MaxNotifications: dc.MaxNotifications,
		TrackedFile:      dc.TrackedFile,
	}, logger)

	return service{dashboard: d, events: events}, nil
}

func loadConfiguration(path string) (*appConfig, error) {
	if path == "" {
		return defaultConfig(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return parseExternalConfigFile(f)
}

func parseExternalConfigFile(cfgFile io.ReadCloser) (*appConfig, error) {
	defer cfgFile.Close()

	b, err := io.ReadAll(cfgFile)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	err = yaml.Unmarshal(b, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseExternalConfig(ctx context.Context, logger zerolog.Logger, flags flagMap) (context.Context, flagMap) {
	flags = applyEnvironment(logger, flags)

	apply := func(f flagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("config", "dashboard configuration file", apply(configurationFile))
	flag.Func("nats", "nats server url", apply(natsURL))
	flag.Func("transport", "websocket url of the telemetry transport", apply(transportURL))
	flag.Func("backend", "base url of the auxiliary backend", apply(backendURL))
	flag.Parse()

	return ctx, flags
}

// applyEnvironment lets environment variables override the defaults in flags.
func applyEnvironment(logger zerolog.Logger, flags flagMap) flagMap {
	envOrDef := env.GetVariableOrDefault

	flags[listenAddress] = envOrDef(logger, "LISTEN_ADDRESS", flags[listenAddress])
	flags[servicePort] = envOrDef(logger, "SERVICE_PORT", flags[servicePort])
	flags[natsURL] = envOrDef(logger, "NATS_URL", flags[natsURL])
	flags[transportURL] = envOrDef(logger, "TRANSPORT_URL", flags[transportURL])
	flags[backendURL] = envOrDef(logger, "BACKEND_URL", flags[backendURL])
	flags[enableTracing] = envOrDef(logger, "ENABLE_TRACING", flags[enableTracing])
	flags[logLevel] = envOrDef(logger, "LOG_LEVEL", flags[logLevel])
	flags[allowedOrigins] = envOrDef(logger, "ALLOWED_ORIGINS", flags[allowedOrigins])
	flags[configurationFile] = envOrDef(logger, "CONFIG_FILE", flags[configurationFile])

	return flags
}

func newLogger(serviceName, serviceVersion string) zerolog.Logger {
	return log.With().Str("service", strings.ToLower(serviceName)).Str("version", serviceVersion).Logger()
}

// parseLevel falls back to info for empty or unknown levels.
func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func exitIf(err error, logger zerolog.Logger, msg string) {
	if err != nil {
		logger.Error().Err(err).Msg(msg)
		time.Sleep(2 * time.Second)
		os.Exit(1)
	}
}
