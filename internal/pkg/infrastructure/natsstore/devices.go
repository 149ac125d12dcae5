package natsstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/registry"
	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
)

var _ registry.DeviceCollection = (*DeviceCollection)(nil)

// DeviceCollection stores one KV entry per device, keyed by device id.
type DeviceCollection struct {
	kv  jetstream.KeyValue
	log zerolog.Logger
}

func (c *DeviceCollection) Watch(ctx context.Context) (<-chan registry.DeviceSnapshot, error) {
	watcher, err := c.kv.WatchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to watch devices: %w", err)
	}

	log := c.log.With().Str("bucket", c.kv.Bucket()).Logger()
	out := make(chan registry.DeviceSnapshot, 1)

	go relay(ctx, watcher, func(state *keyedValues) registry.DeviceSnapshot {
		devices := make([]types.Device, 0, len(state.order))
		state.each(func(key string, value []byte) {
			var d types.Device
			if err := json.Unmarshal(value, &d); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("skipping malformed device record")
				return
			}
			if d.ID == "" {
				d.ID = key
			}
			devices = append(devices, d)
		})
		return registry.DeviceSnapshot{Devices: devices}
	}, func(err error) registry.DeviceSnapshot {
		return registry.DeviceSnapshot{Err: err}
	}, out, log)

	return out, nil
}

func (c *DeviceCollection) Create(ctx context.Context, device types.Device) error {
	if err := validateDeviceID(device.ID); err != nil {
		return err
	}

	b, err := json.Marshal(device)
	if err != nil {
		return err
	}

	_, err = c.kv.Create(ctx, device.ID, b)
	if errors.Is(err, jetstream.ErrKeyExists) {
		return fmt.Errorf("%w: %s", ErrDeviceExists, device.ID)
	}

	return err
}
