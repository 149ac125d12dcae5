package natsstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/alerts"
	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
)

var _ alerts.AlertCollection = (*AlertCollection)(nil)

// AlertCollection keys alerts as <deviceID>.<alertID> so that a watch can be
// scoped to a single device.
type AlertCollection struct {
	kv  jetstream.KeyValue
	log zerolog.Logger
}

func alertKey(deviceID, alertID string) string {
	return deviceID + "." + alertID
}

func (c *AlertCollection) Watch(ctx context.Context, deviceID string) (<-chan alerts.AlertSnapshot, error) {
	if err := validateDeviceID(deviceID); err != nil {
		return nil, err
	}

	watcher, err := c.kv.Watch(ctx, alertKey(deviceID, "*"))
	if err != nil {
		return nil, fmt.Errorf("failed to watch alerts for %s: %w", deviceID, err)
	}

	log := c.log.With().Str("bucket", c.kv.Bucket()).Str("device_id", deviceID).Logger()
	out := make(chan alerts.AlertSnapshot, 1)

	go relay(ctx, watcher, func(state *keyedValues) alerts.AlertSnapshot {
		list := make([]types.Alert, 0, len(state.order))
		state.each(func(key string, value []byte) {
			var a types.Alert
			if err := json.Unmarshal(value, &a); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("skipping malformed alert record")
				return
			}
			list = append(list, a)
		})
		return alerts.AlertSnapshot{Alerts: list}
	}, func(err error) alerts.AlertSnapshot {
		return alerts.AlertSnapshot{Err: err}
	}, out, log)

	return out, nil
}

func (c *AlertCollection) Create(ctx context.Context, alert types.Alert) (string, error) {
	if err := validateDeviceID(alert.DeviceID); err != nil {
		return "", err
	}

	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}

	b, err := json.Marshal(alert)
	if err != nil {
		return "", err
	}

	if _, err := c.kv.Create(ctx, alertKey(alert.DeviceID, alert.ID), b); err != nil {
		return "", fmt.Errorf("failed to store alert: %w", err)
	}

	return alert.ID, nil
}
