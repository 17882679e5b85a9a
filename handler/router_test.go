package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"genai-camera/internal/config"
	"genai-camera/internal/domain"
	"genai-camera/internal/metrics"
	"genai-camera/internal/usecase"
)

type panickingCaption struct{}

func (panickingCaption) Latest(_ context.Context) (domain.Classification, bool, error) {
	panic("boom")
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_BearerMode(t *testing.T) {
	_, _, _, svc := newAllServices()
	h, err := NewRouter(svc, Options{AuthMode: config.AuthModeBearer})
	require.NoError(t, err)

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/prompts", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/prompts", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec = serve(t, h, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/prompts", nil)
	req.Header.Set("Authorization", "Bearer eyJhbGciOi")
	rec = serve(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_NoAuthMode(t *testing.T) {
	c, _, _, svc := newAllServices()
	h, err := NewRouter(svc, Options{AuthMode: config.AuthModeNone})
	require.NoError(t, err)

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/caption", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, c.calls)
}

func TestRouter_CORS(t *testing.T) {
	_, _, _, svc := newAllServices()
	h, err := NewRouter(svc, Options{AuthMode: config.AuthModeNone})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/prompts", nil)
	req.Header.Set("Origin", "https://d111.cloudfront.net")
	rec := serve(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	// Preflight never reaches the identity check.
	h, err = NewRouter(svc, Options{AuthMode: config.AuthModeBearer})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodOptions, "/prompt", nil)
	req.Header.Set("Origin", "https://d111.cloudfront.net")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Authorization")
	rec = serve(t, h, req)
	require.Less(t, rec.Code, 300)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}

func TestRouter_RecoversPanics(t *testing.T) {
	h, err := NewRouter(Services{Caption: panickingCaption{}}, Options{AuthMode: config.AuthModeNone})
	require.NoError(t, err)

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/caption", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"INTERNAL_ERROR","message":"Internal server error"}`, rec.Body.String())
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	_, _, _, svc := newAllServices()
	h, err := NewRouter(svc, Options{AuthMode: config.AuthModeNone})
	require.NoError(t, err)

	rec := serve(t, h, httptest.NewRequest(http.MethodDelete, "/caption", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type discardImages struct{}

func (discardImages) PutImage(_ context.Context, _ string, _ []byte, _ string) error { return nil }

func TestRouter_MissingImageAlwaysBadRequest(t *testing.T) {
	camera, err := usecase.NewCameraService(discardImages{}, 0)
	require.NoError(t, err)
	h, err := NewRouter(Services{Camera: camera}, Options{AuthMode: config.AuthModeNone})
	require.NoError(t, err)

	for _, body := range []string{``, `{}`, `{"inFileName":"a.jpg"}`, `{"image":""}`, `{"image":"data:image/jpeg;base64,"}`} {
		t.Run(body, func(t *testing.T) {
			rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/camera", strings.NewReader(body)))
			require.Equal(t, http.StatusBadRequest, rec.Code)

			out := parseBody[errorResponse](t, rec.Body.String())
			require.Equal(t, string(usecase.ErrorInvalidInput), out.Error)
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	_, _, _, svc := newAllServices()
	reg := prometheus.NewRegistry()
	h, err := NewRouter(svc, Options{AuthMode: config.AuthModeNone, Metrics: metrics.NewCollector(reg)})
	require.NoError(t, err)

	serve(t, h, httptest.NewRequest(http.MethodGet, "/prompts", nil))
	serve(t, h, httptest.NewRequest(http.MethodGet, "/prompts", nil))
	serve(t, h, httptest.NewRequest(http.MethodGet, "/missing", nil))

	expected := `
# HELP camera_http_requests_total Total number of HTTP requests served
# TYPE camera_http_requests_total counter
camera_http_requests_total{method="GET",route="/prompts",status="200"} 2
camera_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "camera_http_requests_total"))
}
