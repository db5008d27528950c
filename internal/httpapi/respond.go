package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/predictionbingo/backend/internal/auth"
	"github.com/predictionbingo/backend/internal/service"
)

type errorResponse struct {
	Error string       `json:"error"`
	Kind  service.Kind `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service error kinds onto HTTP status codes. Store
// failures are logged with their cause but surfaced opaquely.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, auth.ErrInvalidUsername) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: service.KindValidation})
		return
	}

	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		slog.Error("Unclassified failure", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: service.KindStore})
		return
	}

	var status int
	switch svcErr.Kind {
	case service.KindValidation:
		status = http.StatusBadRequest
	case service.KindQuotaExceeded:
		status = http.StatusUnprocessableEntity
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindPhaseClosed, service.KindGroupLocked,
		service.KindCapacityExceeded, service.KindInvalidTransition:
		status = http.StatusConflict
	default:
		slog.Error("Store failure", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: service.KindStore})
		return
	}

	writeJSON(w, status, errorResponse{Error: svcErr.Message, Kind: svcErr.Kind})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: service.KindValidation})
		return false
	}
	return true
}
