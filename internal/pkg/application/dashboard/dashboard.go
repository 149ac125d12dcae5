package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/alerts"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/loop"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/registry"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/telemetry"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/webevents"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/infrastructure/backend"
	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

var (
	ErrNoDeviceSelected     = errors.New("no device selected")
	ErrSimulationDisabled   = errors.New("simulation is turned off")
	ErrNotificationNotFound = errors.New("notification not found")
)

const (
	DefaultMaxNotifications = 20
	viewRefreshInterval     = time.Second
	backendTimeout          = 10 * time.Second
)

//go:generate moq -rm -out dashboard_mock.go . Dashboard

// Dashboard is the view-model behind the tamper dashboard. Intents are safe to
// call from any goroutine; they are executed on the dashboard's event loop.
type Dashboard interface {
	Run(ctx context.Context)
	View() View

	SelectDevice(ctx context.Context, deviceID string) (View, error)
	Deselect(ctx context.Context) (View, error)
	RegisterDevice(ctx context.Context, info types.DeviceInfo) (string, error)
	SetSimulation(ctx context.Context, enabled bool) (View, error)
	SimulateTamper(ctx context.Context) (string, error)
	DownloadFinalData(ctx context.Context, alertID string) (alerts.Download, error)
	DismissNotification(ctx context.Context, notificationID string) (View, error)
}

type Config struct {
	ChartWindow      int    `yaml:"chartWindow"`
	MaxNotifications int    `yaml:"maxNotifications"`
	TrackedFile      string `yaml:"trackedFile"`
}

type Option func(*dashboard)

func WithClock(now func() time.Time) Option {
	return func(d *dashboard) {
		d.now = now
	}
}

type dashboard struct {
	cfg     Config
	loop    *loop.Loop
	devices registry.Feed
	source  telemetry.Source
	alerts  alerts.Feed
	blobs   alerts.BlobStore
	backend backend.Client
	events  webevents.WebEvents
	log     zerolog.Logger
	now     func() time.Time

	ctx           context.Context
	notifications []types.Notification
	fresh         bool

	view atomic.Pointer[View]
}

// New wires the feeds to the dashboard. The feeds must have been created with l.Dispatch
// as their dispatcher. backendClient and events may be nil.
func New(l *loop.Loop, devices registry.Feed, source telemetry.Source, alertFeed alerts.Feed, blobs alerts.BlobStore, backendClient backend.Client, events webevents.WebEvents, cfg Config, log zerolog.Logger, opts ...Option) Dashboard {
	if cfg.ChartWindow <= 0 {
		cfg.ChartWindow = telemetry.DefaultChartWindow
	}
	if cfg.MaxNotifications <= 0 {
		cfg.MaxNotifications = DefaultMaxNotifications
	}
	if cfg.TrackedFile == "" {
		cfg.TrackedFile = backend.DefaultTrackedFile
	}

	d := &dashboard{
		cfg:     cfg,
		loop:    l,
		devices: devices,
		source:  source,
		alerts:  alertFeed,
		blobs:   blobs,
		backend: backendClient,
		events:  events,
		log:     log,
		now:     time.Now,
		ctx:     context.Background(),
	}

	for _, opt := range opts {
		opt(d)
	}

	source.SetListener(d)
	alertFeed.SetListener(d)
	l.AfterEach(d.afterEach)

	v := d.buildView()
	d.view.Store(&v)

	return d
}

// Run subscribes to the device collection, starts the telemetry source and runs the
// event loop until ctx is cancelled. Every subscription is released before it returns.
func (d *dashboard) Run(ctx context.Context) {
	d.ctx = logging.NewContextWithLogger(ctx, d.log)

	d.loop.Post(func() {
		d.devices.Subscribe(d.ctx)
	})

	d.source.Start(d.ctx)

	go func() {
		ticker := time.NewTicker(viewRefreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.loop.Post(func() {})
			}
		}
	}()

	d.log.Info().Str("mode", string(d.source.Mode())).Msg("dashboard started")

	d.loop.Run(ctx)

	d.alerts.Unsubscribe()
	d.source.Detach()
	d.devices.Unsubscribe()

	d.log.Info().Msg("dashboard stopped")
}

func (d *dashboard) View() View {
	return *d.view.Load()
}

func (d *dashboard) afterEach() {
	if d.fresh {
		d.fresh = false
		return
	}
	d.refresh()
}

func (d *dashboard) refresh() {
	v := d.buildView()
	d.view.Store(&v)

	if d.events != nil {
		if err := d.events.Publish(webevents.EventView, v); err != nil {
			d.log.Warn().Err(err).Msg("failed to publish view")
		}
	}
}

// call runs fn on the loop and returns the view as it was right after fn.
func (d *dashboard) call(ctx context.Context, fn func() error) (View, error) {
	var err error
	var v View

	callErr := d.loop.Call(ctx, func() {
		err = fn()
		d.refresh()
		d.fresh = true
		v = d.View()
	})
	if callErr != nil {
		return View{}, callErr
	}

	return v, err
}

func (d *dashboard) SelectDevice(ctx context.Context, deviceID string) (View, error) {
	changed := false
	runCtx := ctx

	v, err := d.call(ctx, func() error {
		previous, hadSelection := d.devices.Selected()

		device, err := d.devices.Select(deviceID)
		if err != nil {
			return err
		}

		changed = !hadSelection || previous.ID != device.ID

		runCtx = d.ctx
		d.alerts.Subscribe(d.ctx, device.ID)
		d.source.Attach(d.ctx, device.ID)

		if changed {
			d.log.Info().Str("device_id", device.ID).Msg("device selected")
		}

		return nil
	})

	if err == nil && changed {
		d.notifyBackend(runCtx, deviceID)
	}

	return v, err
}

// notifyBackend tells the auxiliary backend about a selection. Failures are only logged.
func (d *dashboard) notifyBackend(runCtx context.Context, deviceID string) {
	if d.backend == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(runCtx, backendTimeout)
		defer cancel()

		if err := d.backend.RegisterDevice(ctx, deviceID); err != nil {
			d.log.Warn().Err(err).Str("device_id", deviceID).Msg("backend device registration failed")
		}

		if err := d.backend.TrackHash(ctx, d.cfg.TrackedFile); err != nil {
			d.log.Warn().Err(err).Str("file", d.cfg.TrackedFile).Msg("backend hash tracking failed")
		}
	}()
}

func (d *dashboard) Deselect(ctx context.Context) (View, error) {
	return d.call(ctx, func() error {
		d.devices.Deselect()
		d.alerts.Unsubscribe()
		d.source.Detach()
		return nil
	})
}

func (d *dashboard) RegisterDevice(ctx context.Context, info types.DeviceInfo) (string, error) {
	return d.devices.Register(ctx, info)
}

func (d *dashboard) SetSimulation(ctx context.Context, enabled bool) (View, error) {
	return d.call(ctx, func() error {
		d.source.SetSimulating(enabled)
		d.log.Debug().Bool("simulating", enabled).Msg("simulation toggled")
		return nil
	})
}

// SimulateTamper triggers a tamper event for the selected device. In live mode the
// request is sent over the transport and the resulting alert arrives as a push. In
// synthetic mode a final report is stored and a tamper alert referencing it is
// created; its id is returned.
func (d *dashboard) SimulateTamper(ctx context.Context) (string, error) {
	var device types.Device
	var history []types.SensorReading
	var mode telemetry.Mode
	runCtx := ctx

	_, err := d.call(ctx, func() error {
		var ok bool
		device, ok = d.devices.Selected()
		if !ok {
			return ErrNoDeviceSelected
		}

		if device.Destroyed() {
			return fmt.Errorf("%w: %s", registry.ErrDeviceDestroyed, device.ID)
		}

		if !d.source.Simulating() {
			return ErrSimulationDisabled
		}

		runCtx = d.ctx
		mode = d.source.Mode()
		if mode == telemetry.ModeSynthetic {
			history = d.source.History()
			return nil
		}

		err := d.source.SimulateTamper(ctx, device.ID)
		if errors.Is(err, telemetry.ErrNotConnected) {
			d.notify(types.SeverityError, "Simulation Error", "Not connected to the server", "")
		}
		return err
	})

	if err != nil || mode == telemetry.ModeLive {
		return "", err
	}

	return d.storeTamper(ctx, runCtx, device.ID, history)
}

func (d *dashboard) storeTamper(ctx, runCtx context.Context, deviceID string, history []types.SensorReading) (string, error) {
	now := d.now().UTC()

	report := telemetry.NewFinalReport(deviceID, history, map[string]string{
		"type":        types.AlertTypeTamper,
		"triggeredBy": "simulation",
	}, now)

	b, err := json.Marshal(report)
	if err != nil {
		return "", err
	}

	ref, err := d.blobs.Store(ctx, deviceID, b)
	if err != nil {
		return "", fmt.Errorf("failed to store final data: %w", err)
	}

	alertID, err := d.alerts.CreateAlert(ctx, types.AlertTypeTamper, deviceID, alerts.WithFinalDataRef(ref), alerts.WithTimestamp(now))
	if err != nil {
		return "", err
	}

	if d.backend != nil {
		go func() {
			ctx, cancel := context.WithTimeout(runCtx, backendTimeout)
			defer cancel()

			if err := d.backend.TriggerTamper(ctx, deviceID); err != nil {
				d.log.Warn().Err(err).Str("device_id", deviceID).Msg("backend tamper trigger failed")
			}
		}()
	}

	return alertID, nil
}

func (d *dashboard) DownloadFinalData(ctx context.Context, alertID string) (alerts.Download, error) {
	var alert types.Alert
	var found bool

	err := d.loop.Call(ctx, func() {
		alert, found = d.alerts.Find(alertID)
	})
	if err != nil {
		return alerts.Download{}, err
	}

	if !found {
		return alerts.Download{}, fmt.Errorf("%w: %s", alerts.ErrAlertNotFound, alertID)
	}

	return d.alerts.DownloadFinalData(ctx, alert)
}

func (d *dashboard) DismissNotification(ctx context.Context, notificationID string) (View, error) {
	return d.call(ctx, func() error {
		_, index, ok := lo.FindIndexOf(d.notifications, func(n types.Notification) bool {
			return n.ID == notificationID
		})
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotificationNotFound, notificationID)
		}

		d.notifications = append(d.notifications[:index], d.notifications[index+1:]...)
		return nil
	})
}
