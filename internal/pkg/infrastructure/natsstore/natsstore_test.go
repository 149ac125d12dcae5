package natsstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/alerts"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/registry"
	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/matryer/is"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/rs/zerolog"
)

func TestDeviceWatchDeliversSnapshotsInFirstSeenOrder(t *testing.T) {
	is, ctx, store := testSetup(t)

	devices := store.Devices()
	registered := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	is.NoErr(devices.Create(ctx, types.Device{ID: "device1", Status: types.DeviceStatusActive, RegisteredAt: registered}))

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	snapshots, err := devices.Watch(watchCtx)
	is.NoErr(err)

	first := nextDeviceSnapshot(t, snapshots)
	is.NoErr(first.Err)
	is.Equal(len(first.Devices), 1)
	is.Equal(first.Devices[0].ID, "device1")
	is.True(first.Devices[0].RegisteredAt.Equal(registered))

	is.NoErr(devices.Create(ctx, types.Device{ID: "device2", Status: types.DeviceStatusActive, RegisteredAt: registered}))

	second := nextDeviceSnapshot(t, snapshots)
	is.Equal(len(second.Devices), 2)
	is.Equal(second.Devices[1].ID, "device2")

	destroyed, err := json.Marshal(types.Device{ID: "device1", Status: types.DeviceStatusDestroyed, RegisteredAt: registered})
	is.NoErr(err)
	_, err = devices.kv.Put(ctx, "device1", destroyed)
	is.NoErr(err)

	third := nextDeviceSnapshot(t, snapshots)
	is.Equal(len(third.Devices), 2)
	is.Equal(third.Devices[0].ID, "device1")
	is.True(third.Devices[0].Destroyed())
}

func TestDeviceWatchOnEmptyBucketSendsEmptySnapshot(t *testing.T) {
	is, ctx, store := testSetup(t)

	snapshots, err := store.Devices().Watch(ctx)
	is.NoErr(err)

	first := nextDeviceSnapshot(t, snapshots)
	is.NoErr(first.Err)
	is.Equal(len(first.Devices), 0)
}

func TestCreateDeviceTwiceFails(t *testing.T) {
	is, ctx, store := testSetup(t)

	d := types.Device{ID: "device1", Status: types.DeviceStatusActive, RegisteredAt: time.Now()}
	is.NoErr(store.Devices().Create(ctx, d))

	err := store.Devices().Create(ctx, d)
	is.True(errors.Is(err, ErrDeviceExists))
}

func TestDeviceIDsAreValidated(t *testing.T) {
	is, ctx, store := testSetup(t)

	err := store.Devices().Create(ctx, types.Device{ID: "device.1"})
	is.True(errors.Is(err, ErrInvalidDeviceID))

	_, err = store.Alerts().Watch(ctx, "")
	is.True(errors.Is(err, ErrInvalidDeviceID))

	_, err = store.Blobs().Store(ctx, "a b", []byte("{}"))
	is.True(errors.Is(err, ErrInvalidDeviceID))
}

func TestAlertWatchIsScopedToDevice(t *testing.T) {
	is, ctx, store := testSetup(t)

	collection := store.Alerts()
	now := time.Now().UTC().Truncate(time.Millisecond)

	id, err := collection.Create(ctx, types.Alert{Type: types.AlertTypeTamper, DeviceID: "device1", Timestamp: now})
	is.NoErr(err)
	is.True(id != "")

	_, err = collection.Create(ctx, types.Alert{ID: "other", Type: types.AlertTypeTamper, DeviceID: "device2", Timestamp: now})
	is.NoErr(err)

	snapshots, err := collection.Watch(ctx, "device1")
	is.NoErr(err)

	first := nextAlertSnapshot(t, snapshots)
	is.NoErr(first.Err)
	is.Equal(len(first.Alerts), 1)
	is.Equal(first.Alerts[0].ID, id)
	is.Equal(first.Alerts[0].DeviceID, "device1")
	is.True(first.Alerts[0].Timestamp.Equal(now))

	_, err = collection.Create(ctx, types.Alert{ID: "a2", Type: "low-battery", DeviceID: "device1", Timestamp: now})
	is.NoErr(err)

	second := nextAlertSnapshot(t, snapshots)
	is.Equal(len(second.Alerts), 2)
	is.Equal(second.Alerts[1].ID, "a2")
}

func TestBlobStoreRoundTripsFinalData(t *testing.T) {
	is, ctx, store := testSetup(t)

	blobs := store.Blobs()
	blobs.now = func() time.Time { return time.UnixMilli(1714557600000) }

	ref, err := blobs.Store(ctx, "device1", []byte(`{"deviceId":"device1"}`))
	is.NoErr(err)
	is.Equal(ref, "device_data/device1/final_dump_1714557600000.json")

	location, err := blobs.URL(ctx, ref)
	is.NoErr(err)
	is.Equal(location, "nats-object://final-data/device_data/device1/final_dump_1714557600000.json")

	data, err := blobs.Fetch(ctx, location)
	is.NoErr(err)
	is.Equal(string(data), `{"deviceId":"device1"}`)
}

func TestBlobStoreReportsMissingAndForeignLocations(t *testing.T) {
	is, ctx, store := testSetup(t)

	_, err := store.Blobs().URL(ctx, "device_data/device1/final_dump_1.json")
	is.True(errors.Is(err, ErrBlobNotFound))

	_, err = store.Blobs().Fetch(ctx, "https://example.com/final.json")
	is.True(errors.Is(err, ErrInvalidLocation))

	_, err = store.Blobs().Fetch(ctx, "nats-object://final-data/device_data/device1/final_dump_1.json")
	is.True(errors.Is(err, ErrBlobNotFound))
}

func testSetup(t *testing.T) (*is.I, context.Context, *Store) {
	is := is.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	srv := runJetStreamServer(t)

	store, err := New(ctx, Config{URL: srv.ClientURL()}, zerolog.Nop())
	is.NoErr(err)
	t.Cleanup(store.Close)

	return is, ctx, store
}

func runJetStreamServer(t *testing.T) *server.Server {
	t.Helper()

	srv, err := server.NewServer(&server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("failed to create nats server: %s", err.Error())
	}

	go srv.Start()

	if !srv.ReadyForConnections(10 * time.Second) {
		srv.Shutdown()
		t.Fatal("embedded nats server not ready for connections")
	}

	t.Cleanup(srv.Shutdown)

	return srv
}

func nextDeviceSnapshot(t *testing.T, snapshots <-chan registry.DeviceSnapshot) registry.DeviceSnapshot {
	t.Helper()

	select {
	case s, ok := <-snapshots:
		if !ok {
			t.Fatal("device snapshots closed")
		}
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a device snapshot")
	}
	return registry.DeviceSnapshot{}
}

func nextAlertSnapshot(t *testing.T, snapshots <-chan alerts.AlertSnapshot) alerts.AlertSnapshot {
	t.Helper()

	select {
	case s, ok := <-snapshots:
		if !ok {
			t.Fatal("alert snapshots closed")
		}
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for an alert snapshot")
	}
	return alerts.AlertSnapshot{}
}
