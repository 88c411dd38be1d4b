// Package server exposes the engine over HTTP. Service adds the
// mutual-exclusion discipline the single-threaded engine requires for
// concurrent serving: mutations take the write lock, searches the read
// lock.
package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nvelichkov/fieldsearch/internal/engine"
	"github.com/nvelichkov/fieldsearch/internal/querycache"
	"github.com/nvelichkov/fieldsearch/pkg/metrics"
)

// Service serializes access to the engine and layers the query cache and
// metrics on top of it.
type Service struct {
	mu      sync.RWMutex
	engine  *engine.Engine
	cache   *querycache.Cache // nil when Redis is disabled or unreachable
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewService(eng *engine.Engine, cache *querycache.Cache, m *metrics.Metrics) *Service {
	return &Service{
		engine:  eng,
		cache:   cache,
		metrics: m,
		logger:  slog.Default().With("component", "search-service"),
	}
}

// Search runs a query, serving from the cache when possible. The second
// return reports a cache hit.
func (s *Service) Search(ctx context.Context, query string) ([]engine.Document, bool) {
	start := time.Now()
	var (
		docs   []engine.Document
		cached bool
	)
	if s.cache != nil {
		docs, cached = s.cache.GetOrCompute(ctx, query, func() []engine.Document {
			return s.searchLocked(query)
		})
	} else {
		docs = s.searchLocked(query)
	}

	status := "miss"
	if cached {
		status = "hit"
		s.metrics.CacheHitsTotal.Inc()
	} else if s.cache != nil {
		s.metrics.CacheMissesTotal.Inc()
	}
	outcome := "hit"
	if len(docs) == 0 {
		outcome = "zero_result"
	}
	s.metrics.SearchesTotal.WithLabelValues(outcome).Inc()
	s.metrics.SearchLatency.WithLabelValues(status).Observe(time.Since(start).Seconds())
	s.metrics.SearchResultsCount.Observe(float64(len(docs)))
	return docs, cached
}

func (s *Service) searchLocked(query string) []engine.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Search(query)
}

// AddDocuments indexes docs under the write lock and invalidates the query
// cache. It returns the number of documents accepted into the collection.
func (s *Service) AddDocuments(ctx context.Context, docs []engine.Document) int {
	s.mu.Lock()
	before := s.engine.DocumentCount()
	writesBefore := s.engine.TokenWrites()
	s.engine.AddDocuments(docs)
	added := s.engine.DocumentCount() - before
	writes := s.engine.TokenWrites() - writesBefore
	s.mu.Unlock()

	s.metrics.DocumentsIndexedTotal.Add(float64(added))
	s.metrics.IndexedTokensTotal.Add(float64(writes))
	s.invalidateCache(ctx)
	if added < len(docs) {
		s.logger.Warn("documents skipped during indexing",
			"submitted", len(docs),
			"accepted", added,
		)
	}
	return added
}

// AddSearchableField registers a field and reindexes the collection on it.
func (s *Service) AddSearchableField(ctx context.Context, name string) {
	s.mu.Lock()
	writesBefore := s.engine.TokenWrites()
	s.engine.AddSearchableField(name)
	writes := s.engine.TokenWrites() - writesBefore
	fields := len(s.engine.SearchableFields())
	s.mu.Unlock()

	s.metrics.IndexedTokensTotal.Add(float64(writes))
	s.metrics.SearchableFields.Set(float64(fields))
	s.invalidateCache(ctx)
}

// DocumentCount returns the collection size.
func (s *Service) DocumentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.DocumentCount()
}

// SearchableFields returns the registered fields.
func (s *Service) SearchableFields() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.SearchableFields()
}

// TermCount returns the number of distinct index tokens.
func (s *Service) TermCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.TermCount()
}

func (s *Service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error("query cache invalidation failed", "error", err)
	}
}
