package server

import (
	"encoding/json"
	"io"
	"net/http"

	gverrors "github.com/matzehuels/graphview/pkg/errors"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

type errorBody struct {
	Code  gverrors.Code `json:"code"`
	Error string        `json:"error"`
}

func statusFor(err error) int {
	switch gverrors.GetCode(err) {
	case gverrors.ErrCodeInvalidOperation:
		return http.StatusConflict
	case gverrors.ErrCodeNotFound:
		return http.StatusNotFound
	case gverrors.ErrCodeConfiguration, gverrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := gverrors.GetCode(err)
	if code == "" {
		code = gverrors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "id", RequestID(r.Context()), "error", err)
	}
	writeJSON(w, status, errorBody{Code: code, Error: gverrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into v. An empty body leaves v untouched when
// optional is set.
func decode(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v)
	if err == io.EOF && optional {
		return nil
	}
	if err != nil {
		return gverrors.Wrap(gverrors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
