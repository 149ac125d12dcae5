package dashboard

import (
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/alerts"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/telemetry"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/webevents"
	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/google/uuid"
)

var (
	_ telemetry.Listener = (*dashboard)(nil)
	_ alerts.Listener    = (*dashboard)(nil)
)

// notify adds a dismissible notification, newest first, and pushes it to the browser.
// Must be called on the loop.
func (d *dashboard) notify(severity, title, description, alertID string) types.Notification {
	n := types.Notification{
		ID:          uuid.NewString(),
		Severity:    severity,
		Title:       title,
		Description: description,
		AlertID:     alertID,
		Dismissible: true,
		Timestamp:   d.now().UTC(),
	}

	d.notifications = append([]types.Notification{n}, d.notifications...)
	if len(d.notifications) > d.cfg.MaxNotifications {
		d.notifications = d.notifications[:d.cfg.MaxNotifications]
	}

	if d.events != nil {
		if err := d.events.Publish(webevents.EventNotification, n); err != nil {
			d.log.Warn().Err(err).Msg("failed to publish notification")
		}
	}

	return n
}

func (d *dashboard) Connected(deviceID string) {
	d.notify(types.SeverityInfo, "Connected to server", "Monitoring device "+deviceID, "")
}

func (d *dashboard) Disconnected(deviceID string) {
	d.notify(types.SeverityWarning, "Disconnected from server", "Stopped monitoring device "+deviceID, "")
}

func (d *dashboard) TransportFailed(deviceID string, err error) {
	d.notify(types.SeverityError, "Connection error", err.Error(), "")
}

func (d *dashboard) TamperPushed(alert types.Alert) {
	d.alerts.OnTamperPush(d.ctx, alert)
}

func (d *dashboard) AlertRaised(alert types.Alert, severity string) {
	if alert.Type == types.AlertTypeTamper {
		d.notify(severity, "TAMPER DETECTED", "Device self-destruct sequence initiated. Final data stored.", alert.ID)
		return
	}

	d.notify(severity, alertTitle(alert.Type), "Device "+shortID(alert.DeviceID), alert.ID)
}

// FinalDataRetrieved means the device has dumped its data and destroyed itself. The
// status change stays local until the device collection reports it.
func (d *dashboard) FinalDataRetrieved(alert types.Alert, data []byte) {
	d.log.Info().Str("device_id", alert.DeviceID).Int("bytes", len(data)).Msg("final data retrieved, marking device destroyed")
	d.devices.MarkDestroyed(alert.DeviceID)
}

func (d *dashboard) DownloadFailed(alert types.Alert, err error) {
	d.notify(types.SeverityError, "Download failed", err.Error(), alert.ID)
}
