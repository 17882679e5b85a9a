package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"genai-camera/internal/config"
	"genai-camera/internal/domain"
	"genai-camera/internal/metrics"
)

// Options configures the cross-cutting middleware.
type Options struct {
	// AuthMode is one of config.AuthModeAPIGateway (default),
	// config.AuthModeBearer or config.AuthModeNone.
	AuthMode string
	// Metrics is optional.
	Metrics *metrics.Collector
}

type router struct {
	svc Services
}

// NewRouter builds the HTTP API shared by the Lambda functions and the dev
// server.
func NewRouter(svc Services, opts Options) (http.Handler, error) {
	if svc.empty() {
		return nil, errors.New("handler: at least one service is required")
	}
	identity, err := identityMiddleware(opts.AuthMode)
	if err != nil {
		return nil, err
	}

	rt := &router{svc: svc}
	mux := chi.NewRouter()
	mux.Use(
		hlog.NewHandler(log.Logger),
		correlationID,
		hlog.AccessHandler(accessLog),
		recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"OPTIONS", "GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowedHeaders: []string{"Content-Type", "X-Amz-Date", "Authorization", "X-Api-Key"},
			ExposedHeaders: []string{correlationHeader},
			MaxAge:         300,
		}),
	)
	if opts.Metrics != nil {
		mux.Use(requestMetrics(opts.Metrics))
	}

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Group(func(r chi.Router) {
		r.Use(identity)
		if svc.Caption != nil {
			r.Get("/caption", rt.wrap(rt.handleCaption))
		}
		if svc.Prompts != nil {
			r.Get("/prompts", rt.wrap(rt.handleListPrompts))
			r.Put("/prompt", rt.wrap(rt.handlePutPrompt))
		}
		if svc.Camera != nil {
			r.Post("/camera", rt.wrap(rt.handleCamera))
		}
	})

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, &routeError{status: http.StatusNotFound, code: "NOT_FOUND", message: "Route not found"})
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, &routeError{status: http.StatusMethodNotAllowed, code: "METHOD_NOT_ALLOWED", message: "Method not allowed"})
	})
	return mux, nil
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (rt *router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			writeError(w, r, err)
		}
	}
}

// GET /caption
// An empty object is returned until the analyzer has written a record.
func (rt *router) handleCaption(w http.ResponseWriter, r *http.Request) error {
	rec, found, err := rt.svc.Caption.Latest(r.Context())
	if err != nil {
		return err
	}
	if !found {
		respondJSON(w, http.StatusOK, struct{}{})
		return nil
	}
	respondJSON(w, http.StatusOK, rec)
	return nil
}

// GET /prompts
func (rt *router) handleListPrompts(w http.ResponseWriter, r *http.Request) error {
	out, err := rt.svc.Prompts.List(r.Context())
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, out)
	return nil
}

// PUT /prompt
// Body: {"id": "<prompt id>", "prompt": "<text>", "selectedId": "<prompt id>"}
func (rt *router) handlePutPrompt(w http.ResponseWriter, r *http.Request) error {
	req, err := decodeBody[domain.PutPromptRequest](r)
	if err != nil {
		return err
	}
	out, err := rt.svc.Prompts.Put(r.Context(), req)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, out)
	return nil
}

// POST /camera
// Body: {"image": "<base64 jpeg>", "inFileName": "<client file name>"}
func (rt *router) handleCamera(w http.ResponseWriter, r *http.Request) error {
	req, err := decodeBody[domain.UploadImageRequest](r)
	if err != nil {
		return err
	}
	out, err := rt.svc.Camera.Upload(r.Context(), req)
	if err != nil {
		return err
	}
	respondJSON(w, http.StatusOK, out)
	return nil
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("Request served")
}

func identityMiddleware(mode string) (func(http.Handler) http.Handler, error) {
	switch mode {
	case "", config.AuthModeAPIGateway:
		return requireAuthorizerClaims, nil
	case config.AuthModeBearer:
		return requireBearerToken, nil
	case config.AuthModeNone:
		return func(next http.Handler) http.Handler { return next }, nil
	default:
		return nil, fmt.Errorf("handler: unknown auth mode %q", mode)
	}
}
