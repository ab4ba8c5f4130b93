package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/wordmosaic/pkg/errors"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeErr maps err to a status code. Errors without a known code are
// logged and reported as internal errors without detail.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		s.writeError(w, status, code, "internal error")
		return
	}
	s.writeError(w, status, code, errors.UserMessage(err))
}

func classify(err error) (int, string) {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT"
	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "CANCELED"
	case errors.IsConfiguration(err):
		return http.StatusBadRequest, string(errors.GetCode(err))
	}
	code := errors.GetCode(err)
	switch code {
	case errors.ErrCodeUnsupportedFile:
		return http.StatusUnsupportedMediaType, string(code)
	case errors.ErrCodeExtract, errors.ErrCodeInvalidFilename:
		return http.StatusUnprocessableEntity, string(code)
	case errors.ErrCodeNotFound:
		return http.StatusNotFound, string(code)
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented, string(code)
	}
	return http.StatusInternalServerError, string(errors.ErrCodeInternal)
}
