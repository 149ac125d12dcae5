package natsstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidDeviceID = errors.New("invalid device id")
	ErrDeviceExists    = errors.New("device already exists")
	ErrBlobNotFound    = errors.New("final data not found")
	ErrInvalidLocation = errors.New("invalid final data location")
)

var errWatcherStopped = errors.New("watcher stopped")

// Device ids end up in KV keys and object names. Dots are reserved as the
// separator between device and alert id.
var validDeviceID = regexp.MustCompile(`^[A-Za-z0-9_=-]+$`)

func validateDeviceID(deviceID string) error {
	if !validDeviceID.MatchString(deviceID) {
		return fmt.Errorf("%w %q", ErrInvalidDeviceID, deviceID)
	}
	return nil
}

type Config struct {
	URL             string `yaml:"url"`
	DevicesBucket   string `yaml:"devices"`
	AlertsBucket    string `yaml:"alerts"`
	FinalDataBucket string `yaml:"finalData"`
}

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = nats.DefaultURL
	}
	if c.DevicesBucket == "" {
		c.DevicesBucket = "devices"
	}
	if c.AlertsBucket == "" {
		c.AlertsBucket = "alerts"
	}
	if c.FinalDataBucket == "" {
		c.FinalDataBucket = "final-data"
	}
	return c
}

// Store holds the JetStream buckets that back the device and alert collections
// and the final data blobs.
type Store struct {
	nc  *nats.Conn
	js  jetstream.JetStream
	log zerolog.Logger

	devices *DeviceCollection
	alerts  *AlertCollection
	blobs   *BlobStore
}

func New(ctx context.Context, cfg Config, log zerolog.Logger) (*Store, error) {
	cfg = cfg.withDefaults()

	nc, err := nats.Connect(cfg.URL,
		nats.Name("tamper-dashboard"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("disconnected from nats")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrlRedacted()).Msg("reconnected to nats")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	devicesKV, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      cfg.DevicesBucket,
		Description: "registered tamper devices",
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.DevicesBucket, err)
	}

	alertsKV, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      cfg.AlertsBucket,
		Description: "device alerts keyed by device and alert id",
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.AlertsBucket, err)
	}

	objects, err := js.CreateOrUpdateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      cfg.FinalDataBucket,
		Description: "final data dumps captured on tamper",
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create object store %s: %w", cfg.FinalDataBucket, err)
	}

	log.Info().Str("url", nc.ConnectedUrlRedacted()).Msg("connected to nats")

	return &Store{
		nc:      nc,
		js:      js,
		log:     log,
		devices: &DeviceCollection{kv: devicesKV, log: log},
		alerts:  &AlertCollection{kv: alertsKV, log: log},
		blobs:   &BlobStore{bucket: cfg.FinalDataBucket, objects: objects, now: time.Now},
	}, nil
}

func (s *Store) Devices() *DeviceCollection {
	return s.devices
}

func (s *Store) Alerts() *AlertCollection {
	return s.alerts
}

func (s *Store) Blobs() *BlobStore {
	return s.blobs
}

func (s *Store) Close() {
	if err := s.nc.Drain(); err != nil {
		s.log.Debug().Err(err).Msg("drain failed")
		s.nc.Close()
	}
}
