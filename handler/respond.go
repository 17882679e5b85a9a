package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"genai-camera/internal/usecase"
)

const (
	maxBodyBytes = 8 << 20

	internalMessage  = "Internal server error"
	uploadErrMessage = "Error uploading file"
)

type errorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// routeError is a transport-level failure that never reaches a service.
type routeError struct {
	status  int
	code    string
	message string
}

func (e *routeError) Error() string { return e.message }

var errUnauthorized = &routeError{status: http.StatusUnauthorized, code: string(usecase.ErrorUnauthorized), message: "Unauthorized"}

var reasonMessages = map[string]string{
	"invalid_body":        "Request body must be a JSON object",
	"body_too_large":      "Request body is too large",
	"missing_image":       "Image data is missing",
	"invalid_base64":      "Image data must be base64 encoded",
	"image_too_large":     "Image is too large",
	"missing_selected_id": "selectedId is required",
	"empty_prompt":        "prompt must not be empty",
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var re *routeError
	if errors.As(err, &re) {
		hlog.FromRequest(r).Warn().Int("status", re.status).Str("code", re.code).Msg("Request rejected")
		respondJSON(w, re.status, errorResponse{Error: re.code, Message: re.message})
		return
	}

	code := usecase.CodeOf(err)
	status := statusFor(code)
	reason := ""
	var ucErr *usecase.Error
	if errors.As(err, &ucErr) {
		reason = ucErr.Reason
	}

	logger := hlog.FromRequest(r)
	evt := logger.Warn()
	if status >= http.StatusInternalServerError {
		evt = logger.Error()
	}
	evt.Err(err).Int("status", status).Str("code", string(code)).Str("reason", reason).Msg("Request failed")

	if code == usecase.ErrorUploadFailed {
		respondJSON(w, status, errorResponse{Message: uploadErrMessage})
		return
	}
	msg, ok := reasonMessages[reason]
	if !ok || status >= http.StatusInternalServerError {
		msg = internalMessage
		if status < http.StatusInternalServerError {
			msg = http.StatusText(status)
		}
	}
	respondJSON(w, status, errorResponse{Error: string(code), Message: msg})
}

func statusFor(code usecase.ErrorCode) int {
	switch code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest
	case usecase.ErrorPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case usecase.ErrorUnauthorized:
		return http.StatusUnauthorized
	case usecase.ErrorNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody[T any](r *http.Request) (T, error) {
	var v T
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(&v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return v, &usecase.Error{Code: usecase.ErrorPayloadTooLarge, Reason: "body_too_large", Err: err}
		}
		return v, &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "invalid_body", Err: err}
	}
	return v, nil
}
