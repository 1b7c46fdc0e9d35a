package response

import (
	"encoding/json"
	"net/http"

	"github.com/etuition/etuition-api/pkg/apperr"
	"github.com/etuition/etuition-api/pkg/logger"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// OK sends a 200 JSON response.
func OK(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusOK, v)
}

// Created sends a 201 JSON response.
func Created(w http.ResponseWriter, v interface{}) {
	JSON(w, http.StatusCreated, v)
}

// Error sends {"message": message} with status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Message: message})
}

// Fail maps err onto a status and message. Unclassified errors and internal
// faults are logged with their cause and answered with a generic message.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Internal("Server error", err)
	}

	status := e.Kind.Status()
	log := logger.WithCtx(r.Context())
	switch {
	case status >= http.StatusInternalServerError:
		log.Error("request failed", "kind", e.Kind.String(), "error", err, "path", r.URL.Path)
	default:
		log.Debug("request rejected", "kind", e.Kind.String(), "error", err, "path", r.URL.Path)
	}

	message := e.Message
	if message == "" {
		message = http.StatusText(status)
	}
	JSON(w, status, ErrorBody{Message: message, Errors: e.Fields})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}
