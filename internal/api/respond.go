package api

import (
	"encoding/json"
	"net/http"

	"github.com/huangsam/mindscore/internal/service"
	"github.com/huangsam/mindscore/schema"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// statusFor maps an error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case service.CodeUnknownInstrument, service.CodeInsufficientHistory:
		return http.StatusNotFound
	case service.CodeMissingResponses, service.CodeInvalidResponses, service.CodeUnknownQuestions:
		return http.StatusUnprocessableEntity
	case service.CodeInvalidRequest:
		return http.StatusBadRequest
	case service.CodeNoStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError classifies err and writes it with the matching status.
func writeError(w http.ResponseWriter, err error) {
	resp := service.Classify(err)
	writeJSON(w, statusFor(resp.Code), resp)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, schema.ErrorResponse{Code: service.CodeInvalidRequest, Message: message})
}
