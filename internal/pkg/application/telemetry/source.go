package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/loop"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/infrastructure/transport"
	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/rs/zerolog"
)

type Mode string

const (
	ModeSynthetic Mode = "synthetic"
	ModeLive      Mode = "live"
)

var (
	ErrNotConnected = errors.New("not connected to the server")
	ErrNotAttached  = errors.New("no device attached")
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSynthetic, ModeLive:
		return Mode(s), nil
	case "":
		return ModeSynthetic, nil
	}
	return "", fmt.Errorf("unknown telemetry mode %q", s)
}

type ReconnectPolicy struct {
	Enabled         bool          `yaml:"enabled"`
	InitialInterval time.Duration `yaml:"initialInterval"`
	MaxInterval     time.Duration `yaml:"maxInterval"`
	MaxElapsedTime  time.Duration `yaml:"maxElapsedTime"`
}

type Config struct {
	Mode         Mode
	TickInterval time.Duration
	HistorySize  int
	Reconnect    ReconnectPolicy
}

//go:generate moq -rm -out listener_mock.go . Listener

// Listener receives connection lifecycle changes and tamper alerts pushed over the
// transport. It is always called on the dispatcher goroutine.
type Listener interface {
	Connected(deviceID string)
	Disconnected(deviceID string)
	TransportFailed(deviceID string, err error)
	TamperPushed(alert types.Alert)
}

// Source produces the current reading and its bounded history, either from a
// local generator or from a device scoped transport connection. All methods
// except Start must be called from the dispatcher goroutine.
type Source interface {
	Start(ctx context.Context)
	Mode() Mode

	Tick(now time.Time)

	SetSimulating(enabled bool)
	Simulating() bool

	Attach(ctx context.Context, deviceID string)
	Detach()
	AttachedDevice() string
	Connected() bool
	ActiveConnections() int

	SimulateTamper(ctx context.Context, deviceID string) error

	Current() (types.SensorReading, bool)
	History() []types.SensorReading
	Reset()

	SetListener(l Listener)
}

type source struct {
	cfg       Config
	generator Generator
	dialer    transport.Dialer
	dispatch  loop.Dispatcher
	log       zerolog.Logger
	listener  Listener
	now       func() time.Time

	simulating bool
	current    *types.SensorReading
	history    *History

	deviceID   string
	ctx        context.Context
	cancel     context.CancelFunc
	conn       transport.Connection
	dialing    bool
	connected  bool
	generation uint64

	retry            backoff.BackOff
	reconnectPending bool
}

func New(cfg Config, generator Generator, dialer transport.Dialer, dispatch loop.Dispatcher, log zerolog.Logger) Source {
	if cfg.Mode == "" {
		cfg.Mode = ModeSynthetic
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}

	return &source{
		cfg:        cfg,
		generator:  generator,
		dialer:     dialer,
		dispatch:   dispatch,
		log:        log.With().Str("mode", string(cfg.Mode)).Logger(),
		listener:   nopListener{},
		now:        time.Now,
		simulating: true,
		history:    NewHistory(cfg.HistorySize),
	}
}

func (s *source) SetListener(l Listener) {
	if l == nil {
		l = nopListener{}
	}
	s.listener = l
}

func (s *source) Mode() Mode {
	return s.cfg.Mode
}

// Start launches the synthetic ticker. It does nothing in live mode. The ticker
// stops when ctx is cancelled.
func (s *source) Start(ctx context.Context) {
	if s.cfg.Mode != ModeSynthetic {
		return
	}

	go func() {
		ticker := time.NewTicker(s.cfg.TickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				s.dispatch(func() { s.Tick(t) })
			}
		}
	}()
}

func (s *source) Tick(now time.Time) {
	if s.cfg.Mode != ModeSynthetic {
		return
	}

	s.publish(s.generator.Next(now))
}

func (s *source) publish(r types.SensorReading) {
	if r.Timestamp.IsZero() {
		r.Timestamp = s.now()
	}

	s.current = &r
	s.history.Add(r)
}

func (s *source) SetSimulating(enabled bool) {
	s.simulating = enabled
}

func (s *source) Simulating() bool {
	return s.simulating
}

// Attach scopes the source to a device. Readings from a previous device are
// discarded and any previous connection is closed before a new one is dialed.
func (s *source) Attach(ctx context.Context, deviceID string) {
	if deviceID == s.deviceID && (s.conn != nil || s.dialing || s.cfg.Mode == ModeSynthetic) {
		return
	}

	previous := s.deviceID
	s.Detach()

	s.deviceID = deviceID
	s.ctx, s.cancel = context.WithCancel(ctx)

	if previous != deviceID {
		s.retry = nil
	}

	if s.cfg.Mode == ModeLive {
		s.dial()
	}
}

func (s *source) Detach() {
	s.generation++

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			s.log.Debug().Err(err).Str("device_id", s.deviceID).Msg("close failed")
		}
		s.log.Info().Str("device_id", s.deviceID).Msg("closed transport connection")
	}

	s.conn = nil
	s.dialing = false
	s.connected = false
	s.reconnectPending = false
	s.deviceID = ""
	s.Reset()
}

func (s *source) AttachedDevice() string {
	return s.deviceID
}

func (s *source) Connected() bool {
	return s.connected
}

func (s *source) ActiveConnections() int {
	if s.conn != nil || s.dialing {
		return 1
	}
	return 0
}

func (s *source) dial() {
	if s.dialer == nil {
		return
	}

	ctx := s.ctx
	generation := s.generation
	deviceID := s.deviceID
	s.dialing = true

	go func() {
		conn, err := s.dialer.Dial(ctx, deviceID)

		s.dispatch(func() {
			if generation != s.generation {
				if conn != nil {
					conn.Close()
				}
				return
			}

			s.dialing = false

			if err != nil {
				s.log.Warn().Err(err).Str("device_id", deviceID).Msg("failed to connect to transport")
				s.listener.TransportFailed(deviceID, err)
				s.scheduleReconnect()
				return
			}

			s.conn = conn
			go s.pump(conn, generation)
		})
	}()
}

func (s *source) pump(conn transport.Connection, generation uint64) {
	for e := range conn.Events() {
		event := e
		s.dispatch(func() {
			if generation != s.generation {
				return
			}
			s.handleEvent(event)
		})
	}
}

func (s *source) handleEvent(e transport.Event) {
	switch e.Kind {
	case transport.Opened:
		s.connected = true
		if s.retry != nil {
			s.retry.Reset()
		}
		s.log.Info().Str("device_id", s.deviceID).Msg("connected to transport")
		s.listener.Connected(s.deviceID)

	case transport.Message:
		switch msg := e.Message.(type) {
		case types.SensorUpdate:
			if s.simulating {
				s.publish(msg.Reading)
			}
		case types.TamperAlert:
			alert := msg.Alert
			if alert.DeviceID == "" {
				alert.DeviceID = s.deviceID
			}
			s.listener.TamperPushed(alert)
		}

	case transport.Error:
		s.log.Warn().Err(e.Err).Str("device_id", s.deviceID).Msg("transport error")
		s.listener.TransportFailed(s.deviceID, e.Err)

	case transport.Closed:
		s.connected = false
		s.conn = nil
		s.log.Info().Str("device_id", s.deviceID).Msg("transport connection closed")
		s.listener.Disconnected(s.deviceID)
		s.scheduleReconnect()
	}
}

// scheduleReconnect redials the attached device after the next backoff interval.
// It is a no-op unless reconnects are enabled, and at most one redial is pending.
func (s *source) scheduleReconnect() {
	policy := s.cfg.Reconnect
	if !policy.Enabled || s.reconnectPending || s.deviceID == "" {
		return
	}

	if s.retry == nil {
		b := backoff.NewExponentialBackOff()
		if policy.InitialInterval > 0 {
			b.InitialInterval = policy.InitialInterval
		}
		if policy.MaxInterval > 0 {
			b.MaxInterval = policy.MaxInterval
		}
		b.MaxElapsedTime = policy.MaxElapsedTime
		s.retry = b
	}

	wait := s.retry.NextBackOff()
	if wait == backoff.Stop {
		s.log.Warn().Str("device_id", s.deviceID).Msg("giving up reconnecting to transport")
		return
	}

	generation := s.generation
	s.reconnectPending = true

	time.AfterFunc(wait, func() {
		s.dispatch(func() {
			if generation != s.generation || !s.reconnectPending {
				return
			}
			s.reconnectPending = false
			s.log.Debug().Str("device_id", s.deviceID).Dur("after", wait).Msg("reconnecting to transport")
			s.dial()
		})
	})
}

// SimulateTamper asks the remote side to run a tamper event for the device.
func (s *source) SimulateTamper(ctx context.Context, deviceID string) error {
	if s.deviceID == "" || s.deviceID != deviceID {
		return ErrNotAttached
	}

	if s.conn == nil || !s.connected {
		return ErrNotConnected
	}

	err := s.conn.Send(ctx, types.SimulateTamper{DeviceID: deviceID})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotConnected, err)
	}

	return nil
}

func (s *source) Current() (types.SensorReading, bool) {
	if s.current == nil {
		return types.SensorReading{}, false
	}
	return *s.current, true
}

func (s *source) History() []types.SensorReading {
	return s.history.All()
}

func (s *source) Reset() {
	s.current = nil
	s.history.Reset()
}

type nopListener struct{}

func (nopListener) Connected(string)              {}
func (nopListener) Disconnected(string)           {}
func (nopListener) TransportFailed(string, error) {}
func (nopListener) TamperPushed(types.Alert)      {}
