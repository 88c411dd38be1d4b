package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nvelichkov/fieldsearch/internal/engine"
	"github.com/nvelichkov/fieldsearch/pkg/logger"
)

// Handler serves the search HTTP API.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:    svc,
		logger: slog.Default().With("component", "http-handler"),
	}
}

// SearchResponse is the JSON body returned by GET /search.
type SearchResponse struct {
	Query     string            `json:"query"`
	TotalHits int               `json:"total_hits"`
	Cached    bool              `json:"cached"`
	Results   []engine.Document `json:"results"`
}

// Search handles GET /search?q=…. An empty or unmatched query returns an
// empty result set, never an error.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	docs, cached := h.svc.Search(r.Context(), query)
	logger.FromContext(r.Context()).Debug("search served",
		"query", query,
		"hits", len(docs),
		"cached", cached,
	)
	h.writeJSON(w, http.StatusOK, SearchResponse{
		Query:     query,
		TotalHits: len(docs),
		Cached:    cached,
		Results:   docs,
	})
}

// AddDocumentsRequest is the JSON body accepted by POST /documents.
type AddDocumentsRequest struct {
	Documents []engine.Document `json:"documents"`
}

// AddDocuments handles POST /documents.
func (h *Handler) AddDocuments(w http.ResponseWriter, r *http.Request) {
	var req AddDocumentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Documents) == 0 {
		h.writeError(w, http.StatusBadRequest, "documents must not be empty")
		return
	}
	added := h.svc.AddDocuments(r.Context(), req.Documents)
	logger.FromContext(r.Context()).Info("documents added",
		"submitted", len(req.Documents),
		"accepted", added,
	)
	h.writeJSON(w, http.StatusAccepted, map[string]any{
		"submitted": len(req.Documents),
		"accepted":  added,
		"total":     h.svc.DocumentCount(),
	})
}

// AddFieldRequest is the JSON body accepted by POST /fields.
type AddFieldRequest struct {
	Name string `json:"name"`
}

// AddField handles POST /fields, registering a searchable field and
// reindexing the collection on it.
func (h *Handler) AddField(w http.ResponseWriter, r *http.Request) {
	var req AddFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "field name must not be empty")
		return
	}
	h.svc.AddSearchableField(r.Context(), req.Name)
	logger.FromContext(r.Context()).Info("searchable field added", "field", req.Name)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"fields": h.svc.SearchableFields(),
	})
}

// Stats handles GET /stats with collection and index counters.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"documents": h.svc.DocumentCount(),
		"terms":     h.svc.TermCount(),
		"fields":    h.svc.SearchableFields(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
