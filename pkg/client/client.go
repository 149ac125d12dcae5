package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrUnavailable        = errors.New("service unavailable")
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// DashboardClient talks to the /api/v0 endpoints of a running tamper dashboard.
type DashboardClient interface {
	GetDashboard(ctx context.Context) (View, error)
	ListDevices(ctx context.Context) ([]Device, error)
	ListAlerts(ctx context.Context, recentOnly bool) ([]Alert, error)
	RegisterDevice(ctx context.Context, info types.DeviceInfo) (string, error)
	SelectDevice(ctx context.Context, deviceID string) (View, error)
	Deselect(ctx context.Context) (View, error)
	SetSimulation(ctx context.Context, enabled bool) (View, error)
	SimulateTamper(ctx context.Context) (string, error)
	DownloadFinalData(ctx context.Context, alertID string) (string, []byte, error)
	DismissNotification(ctx context.Context, notificationID string) error
}

type dashboardClient struct {
	url        string
	httpClient http.Client
}

var tracer = otel.Tracer("tamper-dashboard-client")

func New(dashboardURL string) DashboardClient {
	return &dashboardClient{
		url: strings.TrimSuffix(dashboardURL, "/"),
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
}

type View struct {
	Mode              string                `json:"mode"`
	Simulating        bool                  `json:"simulating"`
	Connected         bool                  `json:"connected"`
	Banner            string                `json:"banner,omitempty"`
	Devices           []Device              `json:"devices"`
	Selected          *Device               `json:"selected,omitempty"`
	Current           *types.SensorReading  `json:"current,omitempty"`
	History           []types.SensorReading `json:"history"`
	Alerts            []Alert               `json:"alerts"`
	RecentAlerts      []Alert               `json:"recentAlerts"`
	Notifications     []types.Notification  `json:"notifications"`
	CanSimulateTamper bool                  `json:"canSimulateTamper"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

type Device struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	Name         string    `json:"name,omitempty"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registeredAt"`
	Selectable   bool      `json:"selectable"`
	Selected     bool      `json:"selected"`
}

func (d Device) IsDestroyed() bool {
	return d.Status == types.DeviceStatusDestroyed
}

type Alert struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	DeviceID     string    `json:"deviceId"`
	Title        string    `json:"title"`
	Timestamp    time.Time `json:"timestamp"`
	HasFinalData bool      `json:"hasFinalData"`
}

type response[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

func (c *dashboardClient) GetDashboard(ctx context.Context) (View, error) {
	var err error
	ctx, span := tracer.Start(ctx, "get-dashboard")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	v := View{}
	err = c.do(ctx, http.MethodGet, "/api/v0/dashboard", nil, http.StatusOK, &v)
	return v, err
}

func (c *dashboardClient) ListDevices(ctx context.Context) ([]Device, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-devices")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	devices := []Device{}
	err = c.do(ctx, http.MethodGet, "/api/v0/devices", nil, http.StatusOK, &devices)
	return devices, err
}

func (c *dashboardClient) ListAlerts(ctx context.Context, recentOnly bool) ([]Alert, error) {
	var err error
	ctx, span := tracer.Start(ctx, "list-alerts")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	path := "/api/v0/alerts"
	if recentOnly {
		path += "?recent=true"
	}

	rows := []Alert{}
	err = c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &rows)
	return rows, err
}

func (c *dashboardClient) RegisterDevice(ctx context.Context, info types.DeviceInfo) (string, error) {
	var err error
	ctx, span := tracer.Start(ctx, "register-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	created := struct {
		ID string `json:"id"`
	}{}
	err = c.do(ctx, http.MethodPost, "/api/v0/devices", info, http.StatusCreated, &created)
	return created.ID, err
}

func (c *dashboardClient) SelectDevice(ctx context.Context, deviceID string) (View, error) {
	var err error
	ctx, span := tracer.Start(ctx, "select-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body := struct {
		DeviceID string `json:"deviceId"`
	}{deviceID}

	v := View{}
	err = c.do(ctx, http.MethodPut, "/api/v0/devices/selected", body, http.StatusOK, &v)
	return v, err
}

func (c *dashboardClient) Deselect(ctx context.Context) (View, error) {
	var err error
	ctx, span := tracer.Start(ctx, "deselect-device")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	v := View{}
	err = c.do(ctx, http.MethodDelete, "/api/v0/devices/selected", nil, http.StatusOK, &v)
	return v, err
}

func (c *dashboardClient) SetSimulation(ctx context.Context, enabled bool) (View, error) {
	var err error
	ctx, span := tracer.Start(ctx, "set-simulation")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	body := struct {
		Enabled bool `json:"enabled"`
	}{enabled}

	v := View{}
	err = c.do(ctx, http.MethodPut, "/api/v0/simulation", body, http.StatusOK, &v)
	return v, err
}

func (c *dashboardClient) SimulateTamper(ctx context.Context) (string, error) {
	var err error
	ctx, span := tracer.Start(ctx, "simulate-tamper")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	accepted := struct {
		AlertID string `json:"alertId"`
	}{}
	err = c.do(ctx, http.MethodPost, "/api/v0/tamper", nil, http.StatusAccepted, &accepted)
	return accepted.AlertID, err
}

// DownloadFinalData returns the suggested filename together with the stored document.
func (c *dashboardClient) DownloadFinalData(ctx context.Context, alertID string) (string, []byte, error) {
	var err error
	ctx, span := tracer.Start(ctx, "download-final-data")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	resp, err := c.send(ctx, http.MethodGet, "/api/v0/alerts/"+url.PathEscape(alertID)+"/final-data", nil)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed to read response body: %w", err)
		return "", nil, err
	}

	if resp.StatusCode != http.StatusOK {
		err = statusError(resp.StatusCode, b)
		return "", nil, err
	}

	filename := ""
	if _, params, perr := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); perr == nil {
		filename = params["filename"]
	}

	return filename, b, nil
}

func (c *dashboardClient) DismissNotification(ctx context.Context, notificationID string) error {
	var err error
	ctx, span := tracer.Start(ctx, "dismiss-notification")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	err = c.do(ctx, http.MethodDelete, "/api/v0/notifications/"+url.PathEscape(notificationID), nil, http.StatusNoContent, nil)
	return err
}

func (c *dashboardClient) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}

	return resp, nil
}

func (c *dashboardClient) do(ctx context.Context, method, path string, body any, expected int, result any) error {
	log := logging.GetFromContext(ctx)

	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expected {
		log.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("dashboard rejected request")
		return statusError(resp.StatusCode, b)
	}

	if result == nil || len(b) == 0 {
		return nil
	}

	r := response[json.RawMessage]{}
	if err = json.Unmarshal(b, &r); err != nil {
		return fmt.Errorf("failed to unmarshal response body: %w", err)
	}

	if err = json.Unmarshal(r.Data, result); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}

	return nil
}

func statusError(status int, body []byte) error {
	r := response[json.RawMessage]{}
	_ = json.Unmarshal(body, &r)

	reason := r.Error
	if reason == "" {
		reason = http.StatusText(status)
	}

	var sentinel error
	switch status {
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	case http.StatusPreconditionFailed:
		sentinel = ErrPreconditionFailed
	case http.StatusServiceUnavailable:
		sentinel = ErrUnavailable
	default:
		sentinel = ErrUnexpectedResponse
	}

	return fmt.Errorf("%w (%d): %s", sentinel, status, reason)
}
