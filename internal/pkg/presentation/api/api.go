package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/alerts"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/dashboard"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/registry"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/application/telemetry"
	"github.com/diwise/iot-tamper-dashboard/internal/pkg/infrastructure/natsstore"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("iot-tamper-dashboard/api")

const maxBodySize = 64 * 1024

// RegisterHandlers mounts the dashboard endpoints on router. events serves the
// server sent event stream and may be nil.
func RegisterHandlers(ctx context.Context, router *chi.Mux, svc dashboard.Dashboard, events http.Handler) *chi.Mux {

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v0", func(r chi.Router) {
		r.Get("/dashboard", getDashboardHandler(svc))

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", queryDevicesHandler(svc))
			r.Post("/", registerDeviceHandler(svc))
			r.Put("/selected", selectDeviceHandler(svc))
			r.Delete("/selected", deselectDeviceHandler(svc))
		})

		r.Put("/simulation", setSimulationHandler(svc))
		r.Post("/tamper", simulateTamperHandler(svc))

		r.Get("/alerts", queryAlertsHandler(svc))
		r.Get("/alerts/{alertID}/final-data", downloadFinalDataHandler(svc))

		r.Delete("/notifications/{notificationID}", dismissNotificationHandler(svc))
	})

	if events != nil {
		router.Get("/events", events.ServeHTTP)
	}

	return router
}

func getDashboardHandler(svc dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ApiResponse{Data: svc.View()})
	}
}

func queryDevicesHandler(svc dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newListResponse(svc.View().Devices))
	}
}

func queryAlertsHandler(svc dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := svc.View()

		rows := v.Alerts
		if recent, _ := strconv.ParseBool(r.URL.Query().Get("recent")); recent {
			rows = v.RecentAlerts
		}

		writeJSON(w, http.StatusOK, newListResponse(rows))
	}
}

func registerDeviceHandler(svc dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "register-device")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := withTraceID(ctx, span)

		req := registerDeviceRequest{}
		if err = decodeBody(r, &req, true); err != nil {
			requestLogger.Debug().Err(err).Msg("unable to decode body")
			writeError(w, http.StatusBadRequest, err)
			return
		}

		id, err := svc.RegisterDevice(ctx, req.DeviceInfo)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to register device")
			writeError(w, statusFor(err), err)
			return
		}

		w.Header().Set("Location", "/api/v0/devices/"+id)
		writeJSON(w, http.StatusCreated, ApiResponse{Data: registeredDevice{ID: id}})
	}
}

func selectDeviceHandler(svc dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "select-device")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := withTraceID(ctx, span)

		req := selectDeviceRequest{}
		if err = decodeBody(r, &req, false); err != nil || req.DeviceID == "" {
			if err == nil {
				err = errors.New("deviceId is required")
			}
			writeError(w, http.StatusBadRequest, err)
			return
		}

		requestLogger = requestLogger.With().Str("device_id", req.DeviceID).Logger()

		v, err := svc.SelectDevice(ctx, req.DeviceID)
		if err != nil {
			requestLogger.Debug().Err(err).Msg("unable to select device")
			writeError(w, statusFor(err), err)
			return
		}

		writeJSON(w, http.StatusOK, ApiResponse{Data: v})
	}
}

func deselectDeviceHandler(svc dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "deselect-device")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := withTraceID(ctx, span)

		v, err := svc.Deselect(ctx)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to deselect device")
			writeError(w, statusFor(err), err)
			return
		}

		writeJSON(w, http.StatusOK, ApiResponse{Data: v})
	}
}

func setSimulationHandler(svc dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "set-simulation")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := withTraceID(ctx, span)

		req := simulationRequest{}
		if err = decodeBody(r, &req, false); err != nil || req.Enabled == nil {
			if err == nil {
				err = errors.New("enabled is required")
			}
			writeError(w, http.StatusBadRequest, err)
			return
		}

		v, err := svc.SetSimulation(ctx, *req.Enabled)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to toggle simulation")
			writeError(w, statusFor(err), err)
			return
		}

		writeJSON(w, http.StatusOK, ApiResponse{Data: v})
	}
}

func simulateTamperHandler(svc dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "simulate-tamper")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := withTraceID(ctx, span)

		alertID, err := svc.SimulateTamper(ctx)
		if err != nil {
			requestLogger.Info().Err(err).Msg("tamper simulation rejected")
			writeError(w, statusFor(err), err)
			return
		}

		writeJSON(w, http.StatusAccepted, ApiResponse{Data: tamperResponse{AlertID: alertID}})
	}
}

func downloadFinalDataHandler(svc dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "download-final-data")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		ctx, requestLogger := withTraceID(ctx, span)

		alertID := chi.URLParam(r, "alertID")
		requestLogger = requestLogger.With().Str("alert_id", alertID).Logger()

		download, err := svc.DownloadFinalData(ctx, alertID)
		if err != nil {
			requestLogger.Warn().Err(err).Msg("final data download failed")
			writeError(w, statusFor(err), err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
		w.WriteHeader(http.StatusOK)
		w.Write(download.Data)
	}
}

func dismissNotificationHandler(svc dashboard.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "dismiss-notification")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := withTraceID(ctx, span)

		_, err = svc.DismissNotification(ctx, chi.URLParam(r, "notificationID"))
		if err != nil {
			requestLogger.Debug().Err(err).Msg("unable to dismiss notification")
			writeError(w, statusFor(err), err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrDeviceNotFound),
		errors.Is(err, alerts.ErrAlertNotFound),
		errors.Is(err, alerts.ErrNoFinalData),
		errors.Is(err, natsstore.ErrBlobNotFound),
		errors.Is(err, dashboard.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrDeviceDestroyed),
		errors.Is(err, natsstore.ErrDeviceExists):
		return http.StatusConflict
	case errors.Is(err, dashboard.ErrNoDeviceSelected),
		errors.Is(err, dashboard.ErrSimulationDisabled):
		return http.StatusPreconditionFailed
	case errors.Is(err, natsstore.ErrInvalidDeviceID):
		return http.StatusBadRequest
	case errors.Is(err, telemetry.ErrNotConnected):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// decodeBody reads a JSON body into v. An empty body is accepted when allowEmpty is set.
func decodeBody(r *http.Request, v any, allowEmpty bool) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("unable to read body: %w", err)
	}

	if len(body) == 0 {
		if allowEmpty {
			return nil
		}
		return errors.New("request body is empty")
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("unable to unmarshal body: %w", err)
	}

	return nil
}

// withTraceID returns the request logger, tagged with the trace id when there is
// one, and a context carrying it.
func withTraceID(ctx context.Context, span trace.Span) (context.Context, zerolog.Logger) {
	log := logging.GetFromContext(ctx)
	if sc := span.SpanContext(); sc.HasTraceID() {
		log = log.With().Str("traceID", sc.TraceID().String()).Logger()
		ctx = logging.NewContextWithLogger(ctx, log)
	}
	return ctx, log
}

func writeJSON(w http.ResponseWriter, status int, response ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response.Byte())
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ApiResponse{Error: err.Error()})
}
