package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/sercha-learn/internal/core/ports/driving"
)

// HealthMessage is reported by the health endpoint.
const HealthMessage = "Sercha Learn is running"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Topic string `json:"topic"`
}

// SemanticSearchRequest is the body of POST /api/semantic_search.
type SemanticSearchRequest struct {
	Query string `json:"query"`

	// K is the number of results. Zero uses the server default.
	K int `json:"k,omitempty"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type handlers struct {
	orchestrator driving.Orchestrator
}

// search handles POST /api/search.
func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	var body SearchRequest
	if err := decodeBody(r, &body); err != nil {
		WriteError(w, r, err)
		return
	}
	if strings.TrimSpace(body.Topic) == "" {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Topic is required"})
		return
	}

	result, err := h.orchestrator.Run(r.Context(), body.Topic)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// semanticSearch handles POST /api/semantic_search.
func (h *handlers) semanticSearch(w http.ResponseWriter, r *http.Request) {
	var body SemanticSearchRequest
	if err := decodeBody(r, &body); err != nil {
		WriteError(w, r, err)
		return
	}
	if strings.TrimSpace(body.Query) == "" {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Query is required"})
		return
	}

	resp, err := h.orchestrator.SemanticSearch(r.Context(), body.Query, body.K)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Message: HealthMessage})
}

func (h *handlers) capabilities(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.orchestrator.Capabilities())
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &badRequestError{msg: "Invalid JSON body"}
	}
	return nil
}
