package server

import (
	"net/http"
	"time"

	"github.com/nvelichkov/fieldsearch/pkg/health"
	"github.com/nvelichkov/fieldsearch/pkg/metrics"
	"github.com/nvelichkov/fieldsearch/pkg/middleware"
)

// NewRouter wires the API routes with the standard middleware chain. The
// scrape endpoint is mounted only when exposeMetrics is set.
func NewRouter(h *Handler, m *metrics.Metrics, checker *health.Checker, requestTimeout time.Duration, exposeMetrics bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", h.Search)
	mux.HandleFunc("POST /documents", h.AddDocuments)
	mux.HandleFunc("POST /fields", h.AddField)
	mux.HandleFunc("GET /stats", h.Stats)
	mux.Handle("GET /healthz", checker.Handler())
	if exposeMetrics {
		mux.Handle("GET /metrics", m.Handler())
	}

	return middleware.Chain(mux,
		middleware.RequestID,
		middleware.Metrics(m),
		middleware.Timeout(requestTimeout),
	)
}
