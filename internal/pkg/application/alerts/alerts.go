package alerts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/loop"
	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("iot-tamper-dashboard/alerts")

var (
	ErrNoFinalData     = errors.New("alert has no final data")
	ErrAlertNotFound   = errors.New("alert not found")
	ErrMissingDeviceID = errors.New("device id is required")
	errWatchClosed     = errors.New("alert subscription closed")
)

const DefaultRecentWindow = 30 * time.Second

// AlertSnapshot carries every alert currently matching the subscription scope, or
// the error that ended the watch.
type AlertSnapshot struct {
	Alerts []types.Alert
	Err    error
}

//go:generate moq -rm -out alerts_mock.go . AlertCollection BlobStore Listener

type AlertCollection interface {
	Watch(ctx context.Context, deviceID string) (<-chan AlertSnapshot, error)
	Create(ctx context.Context, alert types.Alert) (string, error)
}

// BlobStore keeps final data snapshots. Store returns a reference that URL
// resolves to something Fetch can retrieve.
type BlobStore interface {
	Store(ctx context.Context, deviceID string, data []byte) (string, error)
	URL(ctx context.Context, ref string) (string, error)
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Listener is told about alerts that should be surfaced to the user. It is called
// on the dispatcher goroutine.
type Listener interface {
	AlertRaised(alert types.Alert, severity string)
	FinalDataRetrieved(alert types.Alert, data []byte)
	DownloadFailed(alert types.Alert, err error)
}

type Download struct {
	Filename string
	Data     []byte
}

type CreateOption func(*types.Alert)

func WithFinalDataRef(ref string) CreateOption {
	return func(a *types.Alert) {
		a.FinalDataRef = ref
	}
}

func WithTimestamp(ts time.Time) CreateOption {
	return func(a *types.Alert) {
		a.Timestamp = ts
	}
}

// Feed keeps the alerts of the selected device, newest first. Subscribe, Unsubscribe,
// Apply, OnTamperPush and the accessors must be called from the dispatcher goroutine.
// CreateAlert and DownloadFinalData perform I/O and may be called from anywhere.
type Feed interface {
	Subscribe(ctx context.Context, deviceID string)
	Unsubscribe()
	Apply(snapshot AlertSnapshot)
	Scope() string
	ActiveSubscriptions() int

	CreateAlert(ctx context.Context, alertType, deviceID string, opts ...CreateOption) (string, error)
	OnTamperPush(ctx context.Context, alert types.Alert)
	DownloadFinalData(ctx context.Context, alert types.Alert) (Download, error)

	Alerts() []types.Alert
	Recent(now time.Time) []types.Alert
	Find(alertID string) (types.Alert, bool)

	SetListener(l Listener)
}

type Option func(*feed)

func WithClock(now func() time.Time) Option {
	return func(f *feed) {
		f.now = now
	}
}

func WithRecentWindow(window time.Duration) Option {
	return func(f *feed) {
		if window > 0 {
			f.recentWindow = window
		}
	}
}

type feed struct {
	collection AlertCollection
	blobs      BlobStore
	dispatch   loop.Dispatcher
	listener   Listener
	log        zerolog.Logger

	now          func() time.Time
	recentWindow time.Duration

	deviceID     string
	subscribedAt time.Time
	seeded       bool
	confirmed    []types.Alert
	pushed       []types.Alert
	shown        map[string]struct{}

	generation uint64
	cancel     context.CancelFunc
}

func New(collection AlertCollection, blobs BlobStore, dispatch loop.Dispatcher, log zerolog.Logger, opts ...Option) Feed {
	f := &feed{
		collection:   collection,
		blobs:        blobs,
		dispatch:     dispatch,
		listener:     nopListener{},
		log:          log,
		now:          time.Now,
		recentWindow: DefaultRecentWindow,
		shown:        map[string]struct{}{},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *feed) SetListener(l Listener) {
	if l == nil {
		l = nopListener{}
	}
	f.listener = l
}

// Subscribe scopes the feed to the alerts of a single device. Subscribing to the
// current scope again is a no-op unless its watch has failed, in which case the
// watch is reopened and the last known alerts are kept until the next snapshot.
func (f *feed) Subscribe(ctx context.Context, deviceID string) {
	sameScope := f.deviceID != "" && f.deviceID == deviceID
	if sameScope && f.cancel != nil {
		return
	}

	if !sameScope {
		f.Unsubscribe()
		f.deviceID = deviceID
		f.subscribedAt = f.now()
		f.seeded = false
	}

	subCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.generation++

	go f.watch(subCtx, deviceID, f.generation)

	f.log.Debug().Str("device_id", deviceID).Msg("subscribed to alerts")
}

// Unsubscribe releases the subscription and clears the alerts of the previous scope.
// Alerts that have already been surfaced stay marked as shown.
func (f *feed) Unsubscribe() {
	f.generation++

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
		f.log.Debug().Str("device_id", f.deviceID).Msg("released alert subscription")
	}

	f.deviceID = ""
	f.confirmed = nil
	f.pushed = nil
}

func (f *feed) Scope() string {
	return f.deviceID
}

func (f *feed) ActiveSubscriptions() int {
	if f.cancel != nil {
		return 1
	}
	return 0
}

func (f *feed) watch(ctx context.Context, deviceID string, generation uint64) {
	post := func(snapshot AlertSnapshot) {
		f.dispatch(func() {
			if generation != f.generation {
				return
			}
			f.Apply(snapshot)
		})
	}

	snapshots, err := f.collection.Watch(ctx, deviceID)
	if err != nil {
		post(AlertSnapshot{Err: fmt.Errorf("failed to watch alerts: %w", err)})
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-snapshots:
			if !ok {
				if ctx.Err() == nil {
					post(AlertSnapshot{Err: errWatchClosed})
				}
				return
			}
			post(snapshot)
			if snapshot.Err != nil {
				return
			}
		}
	}
}

// Apply replaces the confirmed alerts with the snapshot. Pushed alerts that the
// snapshot does not contain yet stay at the head of the list.
func (f *feed) Apply(snapshot AlertSnapshot) {
	if snapshot.Err != nil {
		f.log.Error().Err(snapshot.Err).Str("device_id", f.deviceID).Msg("alert subscription failed")
		if f.cancel != nil {
			f.cancel()
			f.cancel = nil
		}
		return
	}

	confirmed := lo.UniqBy(snapshot.Alerts, func(a types.Alert) string {
		return a.ID
	})
	sort.SliceStable(confirmed, func(i, j int) bool {
		return confirmed[i].Timestamp.After(confirmed[j].Timestamp)
	})

	ids := lo.SliceToMap(confirmed, func(a types.Alert) (string, struct{}) {
		return a.ID, struct{}{}
	})

	f.pushed = lo.Reject(f.pushed, func(a types.Alert, _ int) bool {
		_, ok := ids[a.ID]
		return ok
	})
	f.confirmed = confirmed

	seeding := !f.seeded
	f.seeded = true

	for i := len(confirmed) - 1; i >= 0; i-- {
		a := confirmed[i]
		if _, ok := f.shown[a.ID]; ok {
			continue
		}

		f.shown[a.ID] = struct{}{}

		// alerts that existed before the subscription was opened are history, not news
		if seeding && a.Timestamp.Before(f.subscribedAt) {
			continue
		}

		f.listener.AlertRaised(a, severityOf(a))
	}
}

// CreateAlert stores a new alert and returns its id. The alert is not added to
// the feed; it arrives through the subscription like any other alert.
func (f *feed) CreateAlert(ctx context.Context, alertType, deviceID string, opts ...CreateOption) (string, error) {
	if deviceID == "" {
		return "", ErrMissingDeviceID
	}

	if alertType == "" {
		alertType = types.AlertTypeTamper
	}

	alert := types.Alert{
		ID:        uuid.NewString(),
		Type:      alertType,
		DeviceID:  deviceID,
		Timestamp: f.now().UTC(),
	}

	for _, opt := range opts {
		opt(&alert)
	}

	id, err := f.collection.Create(ctx, alert)
	if err != nil {
		return "", fmt.Errorf("failed to create %s alert for %s: %w", alertType, deviceID, err)
	}

	f.log.Info().Str("device_id", deviceID).Str("alert_id", id).Str("type", alertType).Msg("alert created")

	return id, nil
}

// OnTamperPush inserts an alert received over the transport at the head of the list
// without waiting for the subscription. If the alert references final data it is
// fetched in the background and reported to the listener on success.
func (f *feed) OnTamperPush(ctx context.Context, alert types.Alert) {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	if alert.Type == "" {
		alert.Type = types.AlertTypeTamper
	}
	if alert.Timestamp.IsZero() {
		alert.Timestamp = f.now().UTC()
	}

	_, known := f.Find(alert.ID)
	if !known {
		f.pushed = append([]types.Alert{alert}, f.pushed...)
	}

	if _, ok := f.shown[alert.ID]; !ok {
		f.shown[alert.ID] = struct{}{}
		f.listener.AlertRaised(alert, types.SeverityCritical)
	}

	if alert.FinalDataRef == "" || f.blobs == nil {
		return
	}

	generation := f.generation

	go func() {
		data, err := f.fetch(ctx, alert)

		f.dispatch(func() {
			if err != nil {
				f.log.Warn().Err(err).Str("alert_id", alert.ID).Msg("could not retrieve final data")
				return
			}
			if generation != f.generation {
				f.log.Debug().Str("alert_id", alert.ID).Msg("final data arrived for a released scope")
			}
			f.listener.FinalDataRetrieved(alert, data)
		})
	}()
}

func (f *feed) fetch(ctx context.Context, alert types.Alert) (data []byte, err error) {
	ctx, span := tracer.Start(ctx, "fetch-final-data")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	span.SetAttributes(attribute.String("alert_id", alert.ID), attribute.String("device_id", alert.DeviceID))

	if alert.FinalDataRef == "" {
		return nil, ErrNoFinalData
	}

	url, err := f.blobs.URL(ctx, alert.FinalDataRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", alert.FinalDataRef, err)
	}

	data, err = f.blobs.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	return data, nil
}

// DownloadFinalData retrieves the snapshot referenced by alert. A failure raises
// exactly one notification through the listener and leaves the feed untouched.
func (f *feed) DownloadFinalData(ctx context.Context, alert types.Alert) (Download, error) {
	var data []byte
	var err error

	if f.blobs == nil {
		err = ErrNoFinalData
	} else {
		data, err = f.fetch(ctx, alert)
	}

	if err != nil {
		f.dispatch(func() {
			f.listener.DownloadFailed(alert, err)
		})
		return Download{}, err
	}

	return Download{
		Filename: fmt.Sprintf("device-%s-final-data.json", alert.DeviceID),
		Data:     data,
	}, nil
}

func (f *feed) Alerts() []types.Alert {
	result := make([]types.Alert, 0, len(f.pushed)+len(f.confirmed))
	result = append(result, f.pushed...)
	result = append(result, f.confirmed...)
	return result
}

// Recent returns the alerts raised within the recent window before now.
func (f *feed) Recent(now time.Time) []types.Alert {
	since := now.Add(-f.recentWindow)

	return lo.Filter(f.Alerts(), func(a types.Alert, _ int) bool {
		return !a.Timestamp.Before(since)
	})
}

func (f *feed) Find(alertID string) (types.Alert, bool) {
	return lo.Find(f.Alerts(), func(a types.Alert) bool {
		return a.ID == alertID
	})
}

func severityOf(a types.Alert) string {
	if a.Type == types.AlertTypeTamper {
		return types.SeverityCritical
	}
	return types.SeverityWarning
}

type nopListener struct{}

func (nopListener) AlertRaised(types.Alert, string)        {}
func (nopListener) FinalDataRetrieved(types.Alert, []byte) {}
func (nopListener) DownloadFailed(types.Alert, error)      {}
