package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/alerts"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/loop"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/registry"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/telemetry"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/webevents"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/infrastructure/backend"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/infrastructure/transport"
	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	device1 = "3f2a9c1e-7b4d-4e8a-9c2f-1a2b3c4d5e6f"
	device2 = "8d0c6b2a-1e3f-4a5b-8c7d-9e0f1a2b3c4d"
)

func TestSelectingTheSameDeviceTwiceSubscribesOnce(t *testing.T) {
	f := setup(t, telemetry.ModeSynthetic)
	is := f.is

	f.publishDevices(active(device1), active(device2))

	v, err := f.d.SelectDevice(f.ctx, device1)
	is.NoErr(err)
	is.Equal(v.Selected.ID, device1)
	is.Equal(v.Selected.Label, "3f2a9c1e")

	_, err = f.d.SelectDevice(f.ctx, device1)
	is.NoErr(err)

	waitUntil(t, func() bool { return len(f.alertStore.WatchCalls()) == 1 })
	waitUntil(t, func() bool { return len(f.backend.TrackHashCalls()) == 1 })

	is.Equal(len(f.backend.RegisterDeviceCalls()), 1)
	is.Equal(f.backend.RegisterDeviceCalls()[0].DeviceID, device1)
	is.Equal(f.backend.TrackHashCalls()[0].File, "prototype.txt")

	time.Sleep(20 * time.Millisecond)
	is.Equal(len(f.alertStore.WatchCalls()), 1)
	is.Equal(len(f.backend.RegisterDeviceCalls()), 1)
}

func TestSelectingAnUnknownDeviceIsRejected(t *testing.T) {
	f := setup(t, telemetry.ModeSynthetic)
	is := f.is

	f.publishDevices(active(device1))

	_, err := f.d.SelectDevice(f.ctx, "unknown")
	is.True(errors.Is(err, registry.ErrDeviceNotFound))
	is.Equal(f.d.View().Selected, nil)
}

func TestDeselectReleasesSubscriptionAndConnection(t *testing.T) {
	f := setup(t, telemetry.ModeLive)
	is := f.is

	f.publishDevices(active(device1))

	_, err := f.d.SelectDevice(f.ctx, device1)
	is.NoErr(err)

	f.transportEvents <- transport.Event{Kind: transport.Opened}
	f.eventually(t, func(v View) bool { return v.Connected })

	waitUntil(t, func() bool { return len(f.alertStore.WatchCalls()) == 1 })

	v, err := f.d.Deselect(f.ctx)
	is.NoErr(err)
	is.Equal(v.Selected, nil)
	is.True(!v.Connected)
	is.Equal(len(v.History), 0)
	is.Equal(len(v.Alerts), 0)

	is.Equal(len(f.conn.CloseCalls()), 1)
	waitUntil(t, func() bool { return f.alertStore.WatchCalls()[0].Ctx.Err() != nil })
}

func TestSimulateTamperRequiresSelectedDevice(t *testing.T) {
	f := setup(t, telemetry.ModeSynthetic)
	is := f.is

	_, err := f.d.SimulateTamper(f.ctx)
	is.True(errors.Is(err, ErrNoDeviceSelected))
	is.Equal(len(f.blobs.StoreCalls()), 0)
	is.Equal(len(f.alertStore.CreateCalls()), 0)
}

func TestSyntheticTamperStoresReportAndCreatesAlert(t *testing.T) {
	f := setup(t, telemetry.ModeSynthetic)
	is := f.is

	f.publishDevices(active(device1))

	_, err := f.d.SelectDevice(f.ctx, device1)
	is.NoErr(err)

	before := time.Now().UTC()

	alertID, err := f.d.SimulateTamper(f.ctx)
	is.NoErr(err)

	is.Equal(len(f.blobs.StoreCalls()), 1)
	is.Equal(f.blobs.StoreCalls()[0].DeviceID, device1)

	report := telemetry.FinalReport{}
	is.NoErr(json.Unmarshal(f.blobs.StoreCalls()[0].Data, &report))
	is.Equal(report.DeviceID, device1)

	is.Equal(len(f.alertStore.CreateCalls()), 1)
	created := f.alertStore.CreateCalls()[0].Alert
	is.Equal(created.ID, alertID)
	is.Equal(created.Type, types.AlertTypeTamper)
	is.Equal(created.DeviceID, device1)
	is.Equal(created.FinalDataRef, "device_data/"+device1+"/final_dump_1714557600000.json")
	is.True(!created.Timestamp.Before(before))

	// nothing is inserted locally, the alert has to come back through the subscription
	is.Equal(len(f.d.View().Alerts), 0)

	waitUntil(t, func() bool { return len(f.backend.TriggerTamperCalls()) == 1 })

	// the device record is left alone, only the device itself reports destruction
	is.Equal(len(f.deviceStore.CreateCalls()), 0)
	is.Equal(f.d.View().Selected.Status, types.DeviceStatusActive)

	f.alertSnapshots <- alerts.AlertSnapshot{Alerts: []types.Alert{created}}

	v := f.eventually(t, func(v View) bool { return len(v.Alerts) == 1 })
	is.Equal(v.Alerts[0].ID, alertID)
	is.Equal(v.Alerts[0].Title, "Alert! - Tamper Detected")
	is.True(v.Alerts[0].HasFinalData)
	is.Equal(len(v.RecentAlerts), 1)

	is.Equal(notificationsFor(v, alertID), 1)
	is.Equal(v.Notifications[0].Severity, types.SeverityCritical)
}

func TestDestroyedDeviceCannotRunTamperSimulation(t *testing.T) {
	f := setup(t, telemetry.ModeSynthetic)
	is := f.is

	f.publishDevices(destroyed(device2), active(device1))

	_, err := f.d.SelectDevice(f.ctx, device2)
	is.True(errors.Is(err, registry.ErrDeviceDestroyed))

	v, err := f.d.SelectDevice(f.ctx, device1)
	is.NoErr(err)
	is.True(v.CanSimulateTamper)

	card, _ := lo.Find(v.Devices, func(c DeviceCard) bool { return c.ID == device2 })
	is.True(!card.Selectable)

	f.publishDevices(destroyed(device2), destroyed(device1))
	v = f.eventually(t, func(v View) bool { return v.Selected.Status == types.DeviceStatusDestroyed })
	is.True(!v.CanSimulateTamper)

	_, err = f.d.SimulateTamper(f.ctx)
	is.True(errors.Is(err, registry.ErrDeviceDestroyed))
	is.Equal(len(f.blobs.StoreCalls()), 0)
}

func TestSimulationToggleGatesTamperSimulation(t *testing.T) {
	f := setup(t, telemetry.ModeSynthetic)
	is := f.is

	f.publishDevices(active(device1))
	_, err := f.d.SelectDevice(f.ctx, device1)
	is.NoErr(err)

	v, err := f.d.SetSimulation(f.ctx, false)
	is.NoErr(err)
	is.True(!v.Simulating)
	is.True(!v.CanSimulateTamper)

	_, err = f.d.SimulateTamper(f.ctx)
	is.True(errors.Is(err, ErrSimulationDisabled))
}

func TestLiveTamperPushConvergesWithDeviceCollection(t *testing.T) {
	f := setup(t, telemetry.ModeLive)
	is := f.is

	f.publishDevices(active(device1))

	_, err := f.d.SelectDevice(f.ctx, device1)
	is.NoErr(err)

	f.transportEvents <- transport.Event{Kind: transport.Opened}
	v := f.eventually(t, func(v View) bool { return v.Connected })
	is.Equal(v.Notifications[0].Title, "Connected to server")

	_, err = f.d.SetSimulation(f.ctx, false)
	is.NoErr(err)

	pushed := types.Alert{
		ID:           "a1",
		Type:         types.AlertTypeTamper,
		Timestamp:    time.Now().UTC(),
		FinalDataRef: "device_data/" + device1 + "/final_dump_1.json",
	}
	f.transportEvents <- transport.Event{Kind: transport.Message, Message: types.TamperAlert{Alert: pushed}}

	v = f.eventually(t, func(v View) bool {
		return len(v.Alerts) == 1 && v.Devices[0].Status == types.DeviceStatusDestroyed
	})
	is.Equal(v.Alerts[0].ID, "a1")
	is.Equal(v.Alerts[0].DeviceID, device1)
	is.Equal(notificationsFor(v, "a1"), 1)
	is.Equal(len(f.blobs.FetchCalls()), 1)

	f.publishDevices(destroyed(device1))

	older := types.Alert{ID: "a0", Type: "low-battery", DeviceID: device1, Timestamp: time.Now().Add(-time.Hour).UTC()}
	confirmed := pushed
	confirmed.DeviceID = device1
	f.alertSnapshots <- alerts.AlertSnapshot{Alerts: []types.Alert{older, confirmed}}

	v = f.eventually(t, func(v View) bool { return len(v.Alerts) == 2 })
	is.Equal(v.Alerts[0].ID, "a1")
	is.Equal(v.Alerts[1].ID, "a0")
	is.Equal(v.Devices[0].Status, types.DeviceStatusDestroyed)
	is.Equal(notificationsFor(v, "a1"), 1)
	is.Equal(notificationsFor(v, "a0"), 0)
}

func TestLiveTamperSimulationDependsOnConnection(t *testing.T) {
	f := setup(t, telemetry.ModeLive)
	is := f.is

	f.publishDevices(active(device1))
	v, err := f.d.SelectDevice(f.ctx, device1)
	is.NoErr(err)
	is.True(!v.CanSimulateTamper)

	_, err = f.d.SimulateTamper(f.ctx)
	is.True(errors.Is(err, telemetry.ErrNotConnected))

	v = f.d.View()
	is.Equal(len(v.Notifications), 1)
	is.Equal(v.Notifications[0].Severity, types.SeverityError)
	is.Equal(v.Notifications[0].Description, "Not connected to the server")

	f.transportEvents <- transport.Event{Kind: transport.Opened}
	v = f.eventually(t, func(v View) bool { return v.Connected })
	is.True(v.CanSimulateTamper)

	alertID, err := f.d.SimulateTamper(f.ctx)
	is.NoErr(err)
	is.Equal(alertID, "")
	is.Equal(f.conn.SendCalls()[0].Msg.DeviceID, device1)
	is.Equal(len(f.blobs.StoreCalls()), 0)
}

func TestDownloadFinalData(t *testing.T) {
	f := setup(t, telemetry.ModeSynthetic)
	is := f.is

	f.publishDevices(active(device1))
	_, err := f.d.SelectDevice(f.ctx, device1)
	is.NoErr(err)

	f.alertSnapshots <- alerts.AlertSnapshot{Alerts: []types.Alert{
		{ID: "a1", Type: types.AlertTypeTamper, DeviceID: device1, Timestamp: time.Now().Add(-time.Hour), FinalDataRef: "device_data/" + device1 + "/final_dump_1.json"},
	}}
	f.eventually(t, func(v View) bool { return len(v.Alerts) == 1 })

	download, err := f.d.DownloadFinalData(f.ctx, "a1")
	is.NoErr(err)
	is.Equal(download.Filename, "device-"+device1+"-final-data.json")
	is.Equal(string(download.Data), `{"deviceId":"`+device1+`"}`)

	_, err = f.d.DownloadFinalData(f.ctx, "unknown")
	is.True(errors.Is(err, alerts.ErrAlertNotFound))
}

func TestDownloadWithoutFinalDataNotifiesOnce(t *testing.T) {
	f := setup(t, telemetry.ModeSynthetic)
	is := f.is

	f.publishDevices(active(device1))
	_, err := f.d.SelectDevice(f.ctx, device1)
	is.NoErr(err)

	f.alertSnapshots <- alerts.AlertSnapshot{Alerts: []types.Alert{
		{ID: "a2", Type: types.AlertTypeTamper, DeviceID: device1, Timestamp: time.Now().Add(-time.Hour)},
	}}
	f.eventually(t, func(v View) bool { return len(v.Alerts) == 1 })

	_, err = f.d.DownloadFinalData(f.ctx, "a2")
	is.True(errors.Is(err, alerts.ErrNoFinalData))

	f.eventually(t, func(v View) bool { return len(v.Notifications) > 0 })
	time.Sleep(20 * time.Millisecond)
	v := f.d.View()

	is.Equal(len(v.Notifications), 1)
	is.Equal(v.Notifications[0].Title, "Download failed")
	is.True(v.Notifications[0].Dismissible)
	is.Equal(len(v.Alerts), 1)
}

func TestDismissNotification(t *testing.T) {
	f := setup(t, telemetry.ModeLive)
	is := f.is

	f.publishDevices(active(device1))
	_, err := f.d.SelectDevice(f.ctx, device1)
	is.NoErr(err)

	f.transportEvents <- transport.Event{Kind: transport.Opened}
	v := f.eventually(t, func(v View) bool { return len(v.Notifications) == 1 })

	v, err = f.d.DismissNotification(f.ctx, v.Notifications[0].ID)
	is.NoErr(err)
	is.Equal(len(v.Notifications), 0)

	_, err = f.d.DismissNotification(f.ctx, "unknown")
	is.True(errors.Is(err, ErrNotificationNotFound))
}

func TestRegisterDeviceCreatesActiveDevice(t *testing.T) {
	f := setup(t, telemetry.ModeSynthetic)
	is := f.is

	id, err := f.d.RegisterDevice(f.ctx, types.DeviceInfo{Name: "prototype"})
	is.NoErr(err)
	is.True(id != "")

	created := f.deviceStore.CreateCalls()[0].Device
	is.Equal(created.ID, id)
	is.Equal(created.Status, types.DeviceStatusActive)
	is.Equal(created.Name, "prototype")
}

func TestViewIsPublishedToBrowsers(t *testing.T) {
	f := setup(t, telemetry.ModeSynthetic)
	is := f.is

	f.publishDevices(active(device1))

	views := lo.Filter(f.events.PublishCalls(), func(c struct {
		Event string
		Data  any
	}, _ int) bool {
		return c.Event == webevents.EventView
	})
	is.True(len(views) > 0)
}

func TestTitleCase(t *testing.T) {
	is := is.New(t)

	is.Equal(titleCase("tamper"), "Tamper")
	is.Equal(titleCase("low-battery"), "Low-battery")
	is.Equal(titleCase("unauthorized Access"), "Unauthorized Access")
	is.Equal(titleCase(""), "")
	is.Equal(alertTitle("tamper"), "Alert! - Tamper Detected")
}

func TestShortID(t *testing.T) {
	is := is.New(t)

	is.Equal(shortID(device1), "3f2a9c1e")
	is.Equal(shortID("dev1"), "dev1")
}

type fixture struct {
	is  *is.I
	ctx context.Context
	d   Dashboard

	deviceStore     *registry.DeviceCollectionMock
	deviceSnapshots chan registry.DeviceSnapshot
	alertStore      *alerts.AlertCollectionMock
	alertSnapshots  chan alerts.AlertSnapshot
	blobs           *alerts.BlobStoreMock
	backend         *backend.ClientMock
	events          *webevents.WebEventsMock
	conn            *transport.ConnectionMock
	transportEvents chan transport.Event
}

func setup(t *testing.T, mode telemetry.Mode) *fixture {
	f := &fixture{
		is:              is.New(t),
		deviceSnapshots: make(chan registry.DeviceSnapshot, 4),
		alertSnapshots:  make(chan alerts.AlertSnapshot, 4),
		transportEvents: make(chan transport.Event, 8),
	}

	f.deviceStore = &registry.DeviceCollectionMock{
		WatchFunc: func(ctx context.Context) (<-chan registry.DeviceSnapshot, error) {
			return f.deviceSnapshots, nil
		},
		CreateFunc: func(ctx context.Context, device types.Device) error {
			return nil
		},
	}

	f.alertStore = &alerts.AlertCollectionMock{
		WatchFunc: func(ctx context.Context, deviceID string) (<-chan alerts.AlertSnapshot, error) {
			return f.alertSnapshots, nil
		},
		CreateFunc: func(ctx context.Context, alert types.Alert) (string, error) {
			return alert.ID, nil
		},
	}

	f.blobs = &alerts.BlobStoreMock{
		StoreFunc: func(ctx context.Context, deviceID string, data []byte) (string, error) {
			return "device_data/" + deviceID + "/final_dump_1714557600000.json", nil
		},
		URLFunc: func(ctx context.Context, ref string) (string, error) {
			return "nats-object://final-data/" + ref, nil
		},
		FetchFunc: func(ctx context.Context, location string) ([]byte, error) {
			return []byte(`{"deviceId":"` + device1 + `"}`), nil
		},
	}

	f.backend = &backend.ClientMock{
		RegisterDeviceFunc: func(ctx context.Context, deviceID string) error { return nil },
		TrackHashFunc:      func(ctx context.Context, file string) error { return nil },
		TriggerTamperFunc:  func(ctx context.Context, deviceID string) error { return nil },
	}

	f.events = &webevents.WebEventsMock{
		PublishFunc: func(event string, data any) error { return nil },
	}

	f.conn = &transport.ConnectionMock{
		EventsFunc: func() <-chan transport.Event { return f.transportEvents },
		SendFunc:   func(ctx context.Context, msg types.SimulateTamper) error { return nil },
		CloseFunc:  func() error { return nil },
	}

	dialer := &transport.DialerMock{
		DialFunc: func(ctx context.Context, deviceID string) (transport.Connection, error) {
			return f.conn, nil
		},
	}

	log := zerolog.Nop()
	l := loop.New(0)

	source := telemetry.New(telemetry.Config{Mode: mode, TickInterval: time.Hour}, telemetry.NewRandomGenerator(1), dialer, l.Dispatch, log)
	devices := registry.New(f.deviceStore, l.Dispatch, log)
	alertFeed := alerts.New(f.alertStore, f.blobs, l.Dispatch, log)

	f.d = New(l, devices, source, alertFeed, f.blobs, f.backend, f.events, Config{}, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	f.ctx = ctx

	go f.d.Run(ctx)

	return f
}

// publishDevices sends a device snapshot and waits until the view reflects it.
func (f *fixture) publishDevices(devices ...types.Device) {
	f.deviceSnapshots <- registry.DeviceSnapshot{Devices: devices}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v := f.d.View()
		if len(v.Devices) == len(devices) && lo.EveryBy(devices, func(d types.Device) bool {
			card, ok := lo.Find(v.Devices, func(c DeviceCard) bool { return c.ID == d.ID })
			return ok && card.Status == d.Status
		}) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}

	f.is.Fail() // device snapshot was not applied
}

func (f *fixture) eventually(t *testing.T, cond func(View) bool) View {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		v := f.d.View()
		if cond(v) {
			return v
		}
		if time.Now().After(deadline) {
			t.Fatal("view did not reach the expected state")
			return v
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition was not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func notificationsFor(v View, alertID string) int {
	return lo.CountBy(v.Notifications, func(n types.Notification) bool {
		return n.AlertID == alertID
	})
}

func active(id string) types.Device {
	return types.Device{ID: id, Status: types.DeviceStatusActive, RegisteredAt: time.Now().UTC()}
}

func destroyed(id string) types.Device {
	return types.Device{ID: id, Status: types.DeviceStatusDestroyed, RegisteredAt: time.Now().UTC()}
}
