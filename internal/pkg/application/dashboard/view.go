package dashboard

import (
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/telemetry"
	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/samber/lo"
)

// View is an immutable snapshot of everything the dashboard renders.
type View struct {
	Mode       string `json:"mode"`
	Simulating bool   `json:"simulating"`
	Connected  bool   `json:"connected"`
	Banner     string `json:"banner,omitempty"`

	Devices  []DeviceCard `json:"devices"`
	Selected *DeviceCard  `json:"selected,omitempty"`

	Current *types.SensorReading   `json:"current,omitempty"`
	History []types.SensorReading  `json:"history"`
	Chart   []telemetry.ChartPoint `json:"chart"`
	Stats   telemetry.Stats        `json:"stats"`

	Alerts        []AlertRow           `json:"alerts"`
	RecentAlerts  []AlertRow           `json:"recentAlerts"`
	Notifications []types.Notification `json:"notifications"`

	CanSimulateTamper bool      `json:"canSimulateTamper"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type DeviceCard struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	Name         string    `json:"name,omitempty"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registeredAt"`
	Selectable   bool      `json:"selectable"`
	Selected     bool      `json:"selected"`
}

type AlertRow struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	DeviceID     string    `json:"deviceId"`
	Title        string    `json:"title"`
	Timestamp    time.Time `json:"timestamp"`
	HasFinalData bool      `json:"hasFinalData"`
}

func (d *dashboard) buildView() View {
	now := d.now()

	selected, hasSelection := d.devices.Selected()
	history := d.source.History()

	v := View{
		Mode:          string(d.source.Mode()),
		Simulating:    d.source.Simulating(),
		Connected:     d.source.Connected(),
		Banner:        d.devices.Banner(),
		History:       history,
		Chart:         telemetry.ChartPoints(history, d.cfg.ChartWindow),
		Stats:         telemetry.CalculateStats(history),
		Alerts:        lo.Map(d.alerts.Alerts(), toAlertRow),
		RecentAlerts:  lo.Map(d.alerts.Recent(now), toAlertRow),
		Notifications: append([]types.Notification{}, d.notifications...),
		UpdatedAt:     now,
	}

	v.Devices = lo.Map(d.devices.Devices(), func(device types.Device, _ int) DeviceCard {
		return toDeviceCard(device, hasSelection && device.ID == selected.ID)
	})

	if hasSelection {
		card := toDeviceCard(selected, true)
		v.Selected = &card
		v.CanSimulateTamper = !selected.Destroyed() && v.Simulating &&
			(d.source.Mode() == telemetry.ModeSynthetic || v.Connected)
	}

	if current, ok := d.source.Current(); ok {
		v.Current = &current
	}

	return v
}

func toDeviceCard(device types.Device, selected bool) DeviceCard {
	return DeviceCard{
		ID:           device.ID,
		Label:        shortID(device.ID),
		Name:         device.Name,
		Status:       device.Status,
		RegisteredAt: device.RegisteredAt,
		Selectable:   !device.Destroyed() || selected,
		Selected:     selected,
	}
}

func toAlertRow(alert types.Alert, _ int) AlertRow {
	return AlertRow{
		ID:           alert.ID,
		Type:         alert.Type,
		DeviceID:     alert.DeviceID,
		Title:        alertTitle(alert.Type),
		Timestamp:    alert.Timestamp,
		HasFinalData: alert.FinalDataRef != "",
	}
}

func alertTitle(alertType string) string {
	return fmt.Sprintf("Alert! - %s Detected", titleCase(alertType))
}

// titleCase upper cases the first character and leaves the rest alone.
func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func shortID(id string) string {
	if utf8.RuneCountInString(id) <= 8 {
		return id
	}
	return string([]rune(id)[:8])
}
