package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

//go:generate moq -rm -out backend_mock.go . Client

var ErrUnexpectedStatus = errors.New("unexpected response status")

const DefaultTrackedFile = "prototype.txt"

// Client notifies the auxiliary backend about dashboard actions. The calls
// are fire and forget from the dashboard's point of view.
type Client interface {
	RegisterDevice(ctx context.Context, deviceID string) error
	TrackHash(ctx context.Context, file string) error
	TriggerTamper(ctx context.Context, deviceID string) error
}

type client struct {
	url        string
	httpClient http.Client
}

var tracer = otel.Tracer("tamper-dashboard/backend")

func New(backendURL string) Client {
	return &client{
		url: strings.TrimSuffix(backendURL, "/"),
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
	}
}

type devicePayload struct {
	DeviceID string `json:"device_id"`
}

func (c *client) RegisterDevice(ctx context.Context, deviceID string) error {
	var err error
	ctx, span := tracer.Start(ctx, "register-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	err = c.post(ctx, "/register_device", devicePayload{DeviceID: deviceID})
	return err
}

func (c *client) TrackHash(ctx context.Context, file string) error {
	var err error
	ctx, span := tracer.Start(ctx, "track-hash")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if file == "" {
		file = DefaultTrackedFile
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/track_hash/"+url.PathEscape(file), nil)
	if err != nil {
		err = fmt.Errorf("failed to create http request: %w", err)
		return err
	}

	err = c.do(ctx, req)
	return err
}

func (c *client) TriggerTamper(ctx context.Context, deviceID string) error {
	var err error
	ctx, span := tracer.Start(ctx, "trigger-tamper")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	err = c.post(ctx, "/trigger_tamper", devicePayload{DeviceID: deviceID})
	return err
}

func (c *client) post(ctx context.Context, path string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(ctx, req)
}

func (c *client) do(ctx context.Context, req *http.Request) error {
	log := logging.GetFromContext(ctx)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Debug().Str("path", req.URL.Path).Int("status", resp.StatusCode).Str("body", string(body)).Msg("backend rejected request")
		return fmt.Errorf("%w %d from %s", ErrUnexpectedStatus, resp.StatusCode, req.URL.Path)
	}

	io.Copy(io.Discard, resp.Body)

	return nil
}
