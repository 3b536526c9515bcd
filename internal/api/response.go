package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/prk7048/LOA-AGENT/internal/engine"
)

const maxBodyBytes = 1 << 20

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: message}})
}

// writeEngineError maps the engine error taxonomy onto HTTP statuses.
func (a *API) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case engine.IsValidation(err):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, engine.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, engine.ErrStorageUnavailable):
		a.logger(r).Error("storage unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage unavailable")
	case errors.Is(err, engine.ErrSourceUnavailable):
		writeError(w, http.StatusBadGateway, "SOURCE_UNAVAILABLE", err.Error())
	default:
		a.logger(r).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid payload")
		return false
	}
	return true
}
