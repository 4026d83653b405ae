package service

import (
	"errors"

	"github.com/huangsam/mindscore/internal/contract"
	"github.com/huangsam/mindscore/schema"
)

// Error codes carried by schema.ErrorResponse.
const (
	CodeUnknownInstrument   = "unknown_instrument"
	CodeMissingResponses    = "missing_responses"
	CodeInvalidResponses    = "invalid_responses"
	CodeUnknownQuestions    = "unknown_questions"
	CodeInsufficientHistory = "insufficient_history"
	CodeInvalidRequest      = "invalid_request"
	CodeNoStore             = "store_unavailable"
	CodeInternal            = "internal"
)

// Classify turns an error into the response body the adapters return.
func Classify(err error) schema.ErrorResponse {
	resp := schema.ErrorResponse{Code: CodeInternal, Message: err.Error()}

	var unknown *schema.UnknownInstrumentError
	var missing *schema.MissingResponseError
	var invalid *schema.InvalidResponseError
	var unknownQ *schema.UnknownQuestionError
	var insufficient *schema.InsufficientHistoryError
	var reqErr *contract.RequestError

	switch {
	case errors.As(err, &unknown):
		resp.Code = CodeUnknownInstrument
		resp.IDs = []string{unknown.Key}
	case errors.As(err, &missing):
		resp.Code = CodeMissingResponses
		resp.IDs = missing.Missing
	case errors.As(err, &invalid):
		resp.Code = CodeInvalidResponses
		resp.IDs = invalid.Invalid
	case errors.As(err, &unknownQ):
		resp.Code = CodeUnknownQuestions
		resp.IDs = unknownQ.Unknown
	case errors.As(err, &insufficient):
		resp.Code = CodeInsufficientHistory
		resp.IDs = []string{insufficient.InstrumentKey}
	case errors.As(err, &reqErr):
		resp.Code = CodeInvalidRequest
	case errors.Is(err, ErrNoStore):
		resp.Code = CodeNoStore
	}
	return resp
}
