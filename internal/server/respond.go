package server

import (
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/matzehuels/treemap/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := code.HTTPStatus()
	msg := errors.UserMessage(err)
	if code == errors.ErrCodeCanceled {
		s.logger.Debug("request abandoned", "err", err)
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		msg = "internal error"
	}
	s.writeJSON(w, status, errorBody{Code: code, Message: msg})
}

// decodeJSON reads a JSON request body of at most s.maxBody bytes into v.
func (s *Server) decodeJSON(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, s.maxBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
