package api

import (
	"encoding/json"
	"errors"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/logger"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// badRequestError is a client error whose message is returned verbatim.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

// WriteError maps err to a status code and writes an ErrorResponse.
// Invalid input is a 400; everything else, store corruption included, is a 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var badReq *badRequestError

	switch {
	case errors.As(err, &badReq):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request %s %s failed (request_id=%s): %v",
			r.Method, r.URL.Path, chimiddleware.GetReqID(r.Context()), err)
	}

	WriteJSON(w, status, ErrorResponse{Error: err.Error()})
}

// WriteJSON writes data as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
