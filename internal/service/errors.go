package service

import (
	"errors"
	"net/http"

	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
)

// StatusFor maps an error returned by the dashboard service to an HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, consolidation.ErrInputSchema),
		errors.Is(err, consolidation.ErrInputParse),
		errors.Is(err, consolidation.ErrUnknownCountry),
		errors.Is(err, consolidation.ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, consolidation.ErrEmptyResult):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ErrorKind names the error class for API payloads.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, consolidation.ErrInputSchema):
		return "input_schema"
	case errors.Is(err, consolidation.ErrInputParse):
		return "input_parse"
	case errors.Is(err, consolidation.ErrUnknownCountry):
		return "unknown_country"
	case errors.Is(err, consolidation.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, consolidation.ErrEmptyResult):
		return "empty_result"
	default:
		return "internal"
	}
}
