package natsstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/alerts"
	"github.com/nats-io/nats.go/jetstream"
)

var _ alerts.BlobStore = (*BlobStore)(nil)

const locationScheme = "nats-object"

type BlobStore struct {
	bucket  string
	objects jetstream.ObjectStore
	now     func() time.Time
}

// Store writes data as device_data/<deviceID>/final_dump_<epochMillis>.json and
// returns that name as the reference.
func (b *BlobStore) Store(ctx context.Context, deviceID string, data []byte) (string, error) {
	if err := validateDeviceID(deviceID); err != nil {
		return "", err
	}

	name := fmt.Sprintf("device_data/%s/final_dump_%d.json", deviceID, b.now().UnixMilli())

	if _, err := b.objects.PutBytes(ctx, name, data); err != nil {
		return "", fmt.Errorf("failed to store final data: %w", err)
	}

	return name, nil
}

func (b *BlobStore) URL(ctx context.Context, ref string) (string, error) {
	if _, err := b.objects.GetInfo(ctx, ref); err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return "", fmt.Errorf("%w: %s", ErrBlobNotFound, ref)
		}
		return "", err
	}

	u := url.URL{Scheme: locationScheme, Host: b.bucket, Path: "/" + ref}
	return u.String(), nil
}

func (b *BlobStore) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLocation, err)
	}

	if u.Scheme != locationScheme || u.Host != b.bucket {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLocation, location)
	}

	data, err := b.objects.GetBytes(ctx, strings.TrimPrefix(u.Path, "/"))
	if err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, u.Path)
		}
		return nil, err
	}

	return data, nil
}
