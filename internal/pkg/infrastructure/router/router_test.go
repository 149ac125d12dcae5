package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestRequestLoggerIsAddedToContext(t *testing.T) {
	is := is.New(t)

	buf := &bytes.Buffer{}
	r := New("test", WithLogger(zerolog.New(buf)))
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		l := logging.GetFromContext(r.Context())
		l.Info().Msg("pong")
		w.WriteHeader(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	is.Equal(w.Code, http.StatusNoContent)
	is.True(strings.Contains(buf.String(), `"path":"/ping"`))
	is.True(strings.Contains(buf.String(), `"message":"pong"`))
}

func TestCorsAllowsConfiguredOrigin(t *testing.T) {
	is := is.New(t)

	r := New("test", WithAllowedOrigins("http://dashboard.local"))
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	is.Equal(w.Header().Get("Access-Control-Allow-Origin"), "http://dashboard.local")

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://elsewhere.local")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	is.Equal(w.Header().Get("Access-Control-Allow-Origin"), "")
}
