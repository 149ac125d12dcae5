package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/loop"
	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

var (
	ErrDeviceNotFound  = errors.New("device not found")
	ErrDeviceDestroyed = errors.New("device is destroyed")
)

var errSubscriptionClosed = errors.New("device subscription closed")

// DeviceSnapshot carries the complete current device set, or the error that ended
// the watch.
type DeviceSnapshot struct {
	Devices []types.Device
	Err     error
}

//go:generate moq -rm -out devicecollection_mock.go . DeviceCollection

type DeviceCollection interface {
	Watch(ctx context.Context) (<-chan DeviceSnapshot, error)
	Create(ctx context.Context, device types.Device) error
}

// Feed keeps the device list in memory. Every method except Register must be called
// from the goroutine that owns the dispatcher.
type Feed interface {
	Subscribe(ctx context.Context)
	Unsubscribe()
	Apply(snapshot DeviceSnapshot)

	Register(ctx context.Context, info types.DeviceInfo) (string, error)

	Select(deviceID string) (types.Device, error)
	Deselect()
	Selected() (types.Device, bool)

	MarkDestroyed(deviceID string)

	Devices() []types.Device
	Confirmed(deviceID string) (types.Device, bool)
	Banner() string
	ActiveSubscriptions() int
}

type Option func(*feed)

func WithClock(now func() time.Time) Option {
	return func(f *feed) {
		f.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(f *feed) {
		f.newID = newID
	}
}

// WithRetry sets the bounds of the exponential backoff used to resubscribe after
// a failed watch.
func WithRetry(initialInterval, maxInterval time.Duration) Option {
	return func(f *feed) {
		f.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initialInterval
			b.MaxInterval = maxInterval
			b.MaxElapsedTime = 0
			return b
		}
	}
}

type feed struct {
	collection DeviceCollection
	dispatch   loop.Dispatcher
	log        zerolog.Logger

	now        func() time.Time
	newID      func() string
	newBackOff func() backoff.BackOff

	confirmed  []types.Device
	optimistic map[string]string
	selectedID string
	banner     string

	generation uint64
	cancel     context.CancelFunc
}

func New(collection DeviceCollection, dispatch loop.Dispatcher, log zerolog.Logger, opts ...Option) Feed {
	f := &feed{
		collection: collection,
		dispatch:   dispatch,
		log:        log,
		now:        time.Now,
		newID:      uuid.NewString,
		optimistic: map[string]string{},
	}

	WithRetry(500*time.Millisecond, 30*time.Second)(f)

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Subscribe opens the live device watch. A previous subscription, if any, is
// released first so there is never more than one.
func (f *feed) Subscribe(ctx context.Context) {
	f.Unsubscribe()

	subCtx, cancel := context.WithCancel(ctx)
	f.generation++
	f.cancel = cancel

	go f.watch(subCtx, f.generation)

	f.log.Debug().Uint64("generation", f.generation).Msg("subscribed to device collection")
}

func (f *feed) Unsubscribe() {
	if f.cancel == nil {
		return
	}

	f.cancel()
	f.cancel = nil
	f.generation++

	f.log.Debug().Msg("released device subscription")
}

func (f *feed) ActiveSubscriptions() int {
	if f.cancel != nil {
		return 1
	}
	return 0
}

func (f *feed) watch(ctx context.Context, generation uint64) {
	post := func(snapshot DeviceSnapshot) {
		f.dispatch(func() {
			if generation != f.generation {
				return
			}
			f.Apply(snapshot)
		})
	}

	b := backoff.WithContext(f.newBackOff(), ctx)

	for {
		err := f.consume(ctx, func(snapshot DeviceSnapshot) {
			b.Reset()
			post(snapshot)
		})

		if ctx.Err() != nil {
			return
		}

		post(DeviceSnapshot{Err: err})

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (f *feed) consume(ctx context.Context, onSnapshot func(DeviceSnapshot)) error {
	snapshots, err := f.collection.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch devices: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snapshot, ok := <-snapshots:
			if !ok {
				return errSubscriptionClosed
			}
			if snapshot.Err != nil {
				return snapshot.Err
			}
			onSnapshot(snapshot)
		}
	}
}

// Apply replaces the confirmed device list with the snapshot. Optimistic status
// overrides are dropped once the confirmed state agrees with them.
func (f *feed) Apply(snapshot DeviceSnapshot) {
	if snapshot.Err != nil {
		f.log.Error().Err(snapshot.Err).Msg("device subscription failed")
		f.banner = "Device list could not be refreshed, retrying"
		return
	}

	f.confirmed = lo.UniqBy(snapshot.Devices, func(d types.Device) string {
		return d.ID
	})
	f.banner = ""

	for id, status := range f.optimistic {
		if d, ok := f.Confirmed(id); ok && d.Status == status {
			delete(f.optimistic, id)
		}
	}
}

// Register creates a new active device in the collection and returns its id. The
// device shows up in the feed once the collection reports it back. Register only
// reads immutable fields and may be called from any goroutine.
func (f *feed) Register(ctx context.Context, info types.DeviceInfo) (string, error) {
	device := types.Device{
		ID:           f.newID(),
		Status:       types.DeviceStatusActive,
		RegisteredAt: f.now().UTC(),
		Name:         info.Name,
		Description:  info.Description,
	}

	err := f.collection.Create(ctx, device)
	if err != nil {
		return "", fmt.Errorf("failed to register device: %w", err)
	}

	f.log.Info().Str("device_id", device.ID).Msg("registered device")

	return device.ID, nil
}

func (f *feed) Select(deviceID string) (types.Device, error) {
	d, ok := f.find(deviceID)
	if !ok {
		return types.Device{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	if d.Destroyed() && f.selectedID != deviceID {
		return types.Device{}, fmt.Errorf("%w: %s", ErrDeviceDestroyed, deviceID)
	}

	f.selectedID = deviceID

	return d, nil
}

func (f *feed) Deselect() {
	f.selectedID = ""
}

func (f *feed) Selected() (types.Device, bool) {
	if f.selectedID == "" {
		return types.Device{}, false
	}

	d, ok := f.find(f.selectedID)
	if !ok {
		return types.Device{ID: f.selectedID}, true
	}

	return d, true
}

// MarkDestroyed records a local status change that the device collection has not
// confirmed yet.
func (f *feed) MarkDestroyed(deviceID string) {
	if d, ok := f.Confirmed(deviceID); ok && d.Destroyed() {
		return
	}

	f.optimistic[deviceID] = types.DeviceStatusDestroyed
}

func (f *feed) Devices() []types.Device {
	return lo.Map(f.confirmed, func(d types.Device, _ int) types.Device {
		if status, ok := f.optimistic[d.ID]; ok {
			d.Status = status
		}
		return d
	})
}

func (f *feed) Confirmed(deviceID string) (types.Device, bool) {
	return lo.Find(f.confirmed, func(d types.Device) bool {
		return d.ID == deviceID
	})
}

func (f *feed) Banner() string {
	return f.banner
}

func (f *feed) find(deviceID string) (types.Device, bool) {
	return lo.Find(f.Devices(), func(d types.Device) bool {
		return d.ID == deviceID
	})
}
