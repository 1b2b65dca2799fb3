package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
)

// Envelope is the body shape of every JSON response.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Write sends body with the given status.
func Write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func write(w http.ResponseWriter, status int, body Envelope) {
	Write(w, status, body)
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: data})
}

// Message sends a 200 JSON response with a message and optional data.
func Message(w http.ResponseWriter, message string, data interface{}) {
	write(w, http.StatusOK, Envelope{Status: http.StatusOK, Message: message, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, Envelope{Status: http.StatusCreated, Data: data})
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Status: status, Message: message})
}

// ValidationError sends a 400 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusBadRequest, Envelope{
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Fail maps err to its status code. Unclassified errors are logged and
// reported as a generic 500.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	write(w, statusOf(r, err), bodyOf(err, false))
}

// FailWithError is Fail, but the message goes in the "error" field.
// The auth endpoints use this shape.
func FailWithError(w http.ResponseWriter, r *http.Request, err error, prefix string) {
	body := bodyOf(err, true)
	body.Error = prefix + body.Error
	write(w, statusOf(r, err), body)
}

func statusOf(r *http.Request, err error) int {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		logger.WithCtx(r.Context()).Error("request failed", "error", err)
	}
	return kind.HTTPStatus()
}

func bodyOf(err error, asError bool) Envelope {
	kind := apperr.KindOf(err)
	body := Envelope{Status: kind.HTTPStatus()}

	msg := "Internal Server Error"
	if ae, ok := asAppErr(err); ok && kind != apperr.Internal {
		msg = ae.Message
		if len(ae.Fields) > 0 {
			body.Errors = ae.Fields
		}
	}
	if asError {
		body.Error = msg
	} else {
		body.Message = msg
	}
	return body
}

func asAppErr(err error) (*apperr.Error, bool) {
	var ae *apperr.Error
	ok := errors.As(err, &ae)
	return ae, ok
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden resource")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}
