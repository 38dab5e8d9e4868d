package http

import (
	"errors"
	"net/http"

	"github.com/aretw0/chatsim/pkg/domain"
	"github.com/aretw0/chatsim/pkg/flowfetch"
)

type errorBody struct {
	Error string `json:"error"`
}

// StatusFor maps engine errors to HTTP status codes.
func StatusFor(err error) int {
	var statusErr *flowfetch.StatusError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrButtonNotFound):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionTerminated):
		return http.StatusConflict
	case errors.Is(err, flowfetch.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, flowfetch.ErrInvalidURL), errors.Is(err, domain.ErrEmptyFlow), errors.As(err, &statusErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Debug(op+" rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}
