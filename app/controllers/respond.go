package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"goal-planner/app/engine"
	"goal-planner/app/generator"
	"goal-planner/app/logging"
	"goal-planner/app/models"
	"goal-planner/app/services"
	"goal-planner/app/speech"
)

// UserHeader carries the caller's user ID.
const UserHeader = "X-User-ID"

const maxBodyBytes = 1 << 20

type apiError struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func userID(r *http.Request) string {
	return r.Header.Get(UserHeader)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

func writeAudio(w http.ResponseWriter, audio []byte) {
	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return goerr.Wrap(err, "invalid request payload")
	}
	return nil
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNoUser):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrPlanNotFound), errors.Is(err, services.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrRejectedOutput),
		errors.Is(err, generator.ErrGeneration),
		errors.Is(err, speech.ErrEmptyText),
		errors.Is(err, engine.ErrBatchTooSmall):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrSchemaViolation):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := apiError{Error: err.Error()}

	var verr *models.ValidationError
	if status == http.StatusUnprocessableEntity && errors.As(err, &verr) {
		body.Field = verr.Field
	}

	logger := logging.From(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
		if status == http.StatusInternalServerError {
			body.Error = http.StatusText(status)
		}
	} else {
		logger.Info("request rejected", "status", status, "error", err)
	}
	writeJSON(w, r, status, body)
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	logging.From(r.Context()).Info("bad request", "error", err)
	writeJSON(w, r, http.StatusBadRequest, apiError{Error: err.Error()})
}
