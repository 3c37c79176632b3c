package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"

	"TRAVBUD_BACK-END/internal/apperr"
	"TRAVBUD_BACK-END/internal/logger"
)

const msgSomethingWentWrong = "Something went wrong"

var development atomic.Bool

// SetDevelopment toggles internal error messages and stacks in responses.
func SetDevelopment(on bool) { development.Store(on) }

// Envelope wraps every successful response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Stack   string              `json:"stack,omitempty"`
}

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.Warn("Failed to encode response", zap.Error(err))
	}
}

func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	WriteJSONResponse(w, status, Envelope{Success: true, Message: message, Data: data})
}

// WriteError maps err to its status and writes the error envelope. Errors
// that are not *apperr.Error are treated as internal.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Internal(msgSomethingWentWrong, err)
	}
	status := ae.Kind.HTTPStatus()
	body := ErrorEnvelope{Message: ae.Message, Code: ae.Code, Errors: ae.Fields}

	if ae.Kind == apperr.KindInternal {
		logger.FromContext(r.Context()).Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(ae),
		)
		if development.Load() {
			body.Message = ae.Error()
			body.Stack = string(ae.Stack)
		} else {
			body.Message = msgSomethingWentWrong
		}
	}
	WriteJSONResponse(w, status, body)
}
