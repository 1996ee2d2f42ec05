// Package respond writes the response envelope the dashboard expects:
// {"status": "success"|"error"} plus data, message and id fields as the
// endpoint requires.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

func JSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Data(w http.ResponseWriter, code int, data any) {
	JSON(w, code, map[string]any{
		"status": statusSuccess,
		"data":   data,
	})
}

func Message(w http.ResponseWriter, code int, message string) {
	JSON(w, code, map[string]any{
		"status":  statusSuccess,
		"message": message,
	})
}

func Created(w http.ResponseWriter, message string, id any) {
	JSON(w, http.StatusCreated, map[string]any{
		"status":  statusSuccess,
		"message": message,
		"id":      id,
	})
}

func Error(w http.ResponseWriter, code int, message string) {
	JSON(w, code, map[string]any{
		"status":  statusError,
		"message": message,
	})
}
