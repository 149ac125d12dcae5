package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestSubscribeAppliesSnapshots(t *testing.T) {
	is, dispatched, f, collection := testSetup(t)

	snapshots := make(chan DeviceSnapshot, 1)
	collection.WatchFunc = func(ctx context.Context) (<-chan DeviceSnapshot, error) {
		return snapshots, nil
	}

	f.Subscribe(context.Background())
	defer f.Unsubscribe()

	snapshots <- DeviceSnapshot{Devices: []types.Device{device("device1", types.DeviceStatusActive), device("device2", types.DeviceStatusActive)}}
	runNext(t, dispatched)

	is.Equal(len(f.Devices()), 2)
	is.Equal(f.Devices()[0].ID, "device1")
	is.Equal(f.ActiveSubscriptions(), 1)
}

func TestSnapshotReplacesListAndDropsDuplicateIDs(t *testing.T) {
	is, _, f, _ := testSetup(t)

	f.Apply(DeviceSnapshot{Devices: []types.Device{device("device1", types.DeviceStatusActive)}})
	f.Apply(DeviceSnapshot{Devices: []types.Device{
		device("device2", types.DeviceStatusActive),
		device("device3", types.DeviceStatusActive),
		device("device2", types.DeviceStatusDestroyed),
	}})

	devices := f.Devices()
	is.Equal(len(devices), 2)
	is.Equal(devices[0].ID, "device2")
	is.Equal(devices[0].Status, types.DeviceStatusActive)
	is.Equal(devices[1].ID, "device3")
}

func TestSubscriptionErrorShowsBannerAndRetries(t *testing.T) {
	is, dispatched, f, collection := testSetup(t, WithRetry(time.Millisecond, 5*time.Millisecond))

	snapshots := make(chan DeviceSnapshot, 1)
	collection.WatchFunc = func(ctx context.Context) (<-chan DeviceSnapshot, error) {
		if len(collection.WatchCalls()) == 1 {
			return nil, errors.New("connection refused")
		}
		return snapshots, nil
	}

	f.Apply(DeviceSnapshot{Devices: []types.Device{device("device1", types.DeviceStatusActive)}})

	f.Subscribe(context.Background())
	defer f.Unsubscribe()

	runNext(t, dispatched)
	is.True(f.Banner() != "")
	is.Equal(len(f.Devices()), 1) // last known state is kept

	snapshots <- DeviceSnapshot{Devices: []types.Device{device("device1", types.DeviceStatusActive), device("device2", types.DeviceStatusActive)}}
	runNext(t, dispatched)

	is.Equal(f.Banner(), "")
	is.Equal(len(f.Devices()), 2)
	is.Equal(len(collection.WatchCalls()), 2)
}

func TestReleasedSubscriptionDoesNotWriteState(t *testing.T) {
	is, dispatched, f, collection := testSetup(t)

	snapshots := make(chan DeviceSnapshot, 1)
	collection.WatchFunc = func(ctx context.Context) (<-chan DeviceSnapshot, error) {
		return snapshots, nil
	}

	f.Subscribe(context.Background())
	waitFor(t, func() bool { return len(collection.WatchCalls()) == 1 })

	f.Unsubscribe()
	is.Equal(f.ActiveSubscriptions(), 0)

	snapshots <- DeviceSnapshot{Devices: []types.Device{device("device1", types.DeviceStatusActive)}}
	time.Sleep(20 * time.Millisecond)
	drain(dispatched)

	is.Equal(len(f.Devices()), 0)
}

func TestSubscribeTwiceKeepsOneSubscription(t *testing.T) {
	is, _, f, collection := testSetup(t)

	collection.WatchFunc = func(ctx context.Context) (<-chan DeviceSnapshot, error) {
		return make(chan DeviceSnapshot), nil
	}

	f.Subscribe(context.Background())
	f.Subscribe(context.Background())
	defer f.Unsubscribe()

	is.Equal(f.ActiveSubscriptions(), 1)

	waitFor(t, func() bool { return len(collection.WatchCalls()) == 2 })

	cancelled := 0
	for _, c := range collection.WatchCalls() {
		if c.Ctx.Err() != nil {
			cancelled++
		}
	}
	is.Equal(cancelled, 1)
}

func TestRegisterCreatesActiveDevice(t *testing.T) {
	registeredAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	is, _, f, collection := testSetup(t,
		WithClock(func() time.Time { return registeredAt }),
		WithIDGenerator(func() string { return "4f0e6c1e-8f7a-4d55-9c1b-1f3f3f0b2a11" }),
	)

	collection.CreateFunc = func(ctx context.Context, device types.Device) error {
		return nil
	}

	id, err := f.Register(context.Background(), types.DeviceInfo{Name: "crate sensor"})
	is.NoErr(err)
	is.Equal(id, "4f0e6c1e-8f7a-4d55-9c1b-1f3f3f0b2a11")

	created := collection.CreateCalls()[0].Device
	is.Equal(created.Status, types.DeviceStatusActive)
	is.Equal(created.RegisteredAt, registeredAt)
	is.Equal(created.Name, "crate sensor")

	is.Equal(len(f.Devices()), 0) // arrives through the subscription, not inserted locally
}

func TestRegisterFailureIsReturned(t *testing.T) {
	is, _, f, collection := testSetup(t)

	collection.CreateFunc = func(ctx context.Context, device types.Device) error {
		return errors.New("permission denied")
	}

	_, err := f.Register(context.Background(), types.DeviceInfo{})
	is.True(err != nil)
}

func TestSelectRejectsUnknownAndDestroyedDevices(t *testing.T) {
	is, _, f, _ := testSetup(t)

	f.Apply(DeviceSnapshot{Devices: []types.Device{device("device1", types.DeviceStatusActive), device("device2", types.DeviceStatusDestroyed)}})

	_, err := f.Select("nosuchdevice")
	is.True(errors.Is(err, ErrDeviceNotFound))

	_, err = f.Select("device2")
	is.True(errors.Is(err, ErrDeviceDestroyed))

	d, err := f.Select("device1")
	is.NoErr(err)
	is.Equal(d.ID, "device1")

	_, err = f.Select("device1")
	is.NoErr(err)

	selected, ok := f.Selected()
	is.True(ok)
	is.Equal(selected.ID, "device1")

	f.Deselect()
	_, ok = f.Selected()
	is.True(!ok)
}

func TestOptimisticStatusConvergesWithConfirmedState(t *testing.T) {
	is, _, f, _ := testSetup(t)

	f.Apply(DeviceSnapshot{Devices: []types.Device{device("device1", types.DeviceStatusActive)}})
	_, err := f.Select("device1")
	is.NoErr(err)

	f.MarkDestroyed("device1")

	is.Equal(f.Devices()[0].Status, types.DeviceStatusDestroyed)
	confirmed, _ := f.Confirmed("device1")
	is.Equal(confirmed.Status, types.DeviceStatusActive)

	// the registry still reports the device as active
	f.Apply(DeviceSnapshot{Devices: []types.Device{device("device1", types.DeviceStatusActive)}})
	is.Equal(f.Devices()[0].Status, types.DeviceStatusDestroyed)

	f.Apply(DeviceSnapshot{Devices: []types.Device{device("device1", types.DeviceStatusDestroyed)}})
	is.Equal(f.Devices()[0].Status, types.DeviceStatusDestroyed)
	confirmed, _ = f.Confirmed("device1")
	is.Equal(confirmed.Status, types.DeviceStatusDestroyed)

	// the override is gone once confirmed, so a later confirmed status wins
	f.Apply(DeviceSnapshot{Devices: []types.Device{device("device1", types.DeviceStatusActive)}})
	is.Equal(f.Devices()[0].Status, types.DeviceStatusActive)

	selected, ok := f.Selected()
	is.True(ok)
	is.Equal(selected.ID, "device1")
}

func testSetup(t *testing.T, opts ...Option) (*is.I, chan func(), Feed, *DeviceCollectionMock) {
	is := is.New(t)

	dispatched := make(chan func(), 16)
	dispatch := func(fn func()) {
		dispatched <- fn
	}

	collection := &DeviceCollectionMock{}
	f := New(collection, dispatch, zerolog.Nop(), opts...)

	return is, dispatched, f, collection
}

func device(id, status string) types.Device {
	return types.Device{ID: id, Status: status, RegisteredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func runNext(t *testing.T, dispatched chan func()) {
	t.Helper()

	select {
	case fn := <-dispatched:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a dispatched event")
	}
}

func drain(dispatched chan func()) {
	for {
		select {
		case fn := <-dispatched:
			fn()
		default:
			return
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}
