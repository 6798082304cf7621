package server

import (
	"encoding/json"
	"net/http"

	"claimdesk/pkg/types"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	OK    bool      `json:"ok"`
	Error *apiError `json:"error,omitempty"`
	Data  any       `json:"data,omitempty"`
}

func (s *Service) respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{OK: true, Data: data}); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(envelope{OK: false, Error: &apiError{Code: code, Message: message}})
	if err != nil {
		s.logger.WithError(err).Error("failed to encode error response")
	}
}

// respondOperationError maps a claim-engine error onto its stable code and
// HTTP status. Anything outside the taxonomy is logged and surfaced as a
// bare internal error.
func (s *Service) respondOperationError(w http.ResponseWriter, err error) {
	code := types.ErrorCode(err)

	var status int
	switch code {
	case "not_found":
		status = http.StatusNotFound
	case "forbidden":
		status = http.StatusForbidden
	case "illegal_state", "illegal_transition":
		status = http.StatusConflict
	case "unknown_reference_code", "invalid_date", "validation":
		status = http.StatusUnprocessableEntity
	default:
		s.logger.WithError(err).Error("claim operation failed")
		s.respondError(w, http.StatusInternalServerError, "internal", "something went wrong")
		return
	}

	s.respondError(w, status, code, err.Error())
}
