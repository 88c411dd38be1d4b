// Package engine implements the search engine facade: it owns the document
// collection, the searchable-field registry, the inverted index store, and
// the pluggable sanitizer, tokenizer, index strategy, and pruning strategy.
//
// An Engine is single-threaded by design; it contains no locking and
// expects all calls to be serialized by the caller. internal/server wraps
// it with the read/write-lock discipline needed for concurrent serving.
package engine

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/nvelichkov/fieldsearch/internal/index"
	"github.com/nvelichkov/fieldsearch/internal/sanitize"
	"github.com/nvelichkov/fieldsearch/internal/scoring"
	"github.com/nvelichkov/fieldsearch/internal/strategy"
	"github.com/nvelichkov/fieldsearch/internal/tokenizer"
	apperrors "github.com/nvelichkov/fieldsearch/pkg/errors"
)

// Document is re-exported for callers that only import the engine.
type Document = index.Document

// Engine is the search facade. The zero value is not usable; construct
// with New.
type Engine struct {
	uidField    string
	initialized bool

	sanitizer sanitize.Sanitizer
	tokenizer tokenizer.Tokenizer
	expander  strategy.IndexStrategy
	pruner    strategy.PruningStrategy

	store  *index.Store
	scorer *scoring.Scorer

	documents []Document
	fields    []string
	fieldSet  map[string]struct{}
}

// New creates an engine keyed on uidField, in weighted (TF-IDF) mode with
// the default strategies: lower-case sanitizer, word tokenizer, exact-word
// indexing, and all-words-must-match pruning.
func New(uidField string) *Engine {
	store := index.NewStore(index.Weighted)
	return &Engine{
		uidField:  uidField,
		sanitizer: sanitize.LowerCase{},
		tokenizer: tokenizer.Words{},
		expander:  strategy.ExactWord{},
		pruner:    strategy.AllWordsMustMatch{},
		store:     store,
		scorer:    scoring.NewScorer(store),
		fieldSet:  make(map[string]struct{}),
	}
}

// SetMode switches between weighted (TF-IDF ranked) and plain (unranked
// membership) indexing. It fails once any document has been indexed.
func (e *Engine) SetMode(weighted bool) error {
	if e.initialized {
		return apperrors.Newf(apperrors.ErrEngineLocked, http.StatusConflict,
			"cannot change mode after documents are indexed")
	}
	mode := index.Plain
	if weighted {
		mode = index.Weighted
	}
	if mode == e.store.Mode() {
		return nil
	}
	e.store = index.NewStore(mode)
	e.scorer = scoring.NewScorer(e.store)
	return nil
}

// SetSanitizer replaces the text sanitizer. It fails once any document has
// been indexed, since already-written index keys would no longer agree
// with query normalization.
func (e *Engine) SetSanitizer(s sanitize.Sanitizer) error {
	if e.initialized {
		return apperrors.Newf(apperrors.ErrEngineLocked, http.StatusConflict,
			"cannot change sanitizer after documents are indexed")
	}
	e.sanitizer = s
	return nil
}

// SetTokenizer replaces the tokenizer, with the same pre-indexing-only
// constraint as SetSanitizer.
func (e *Engine) SetTokenizer(t tokenizer.Tokenizer) error {
	if e.initialized {
		return apperrors.Newf(apperrors.ErrEngineLocked, http.StatusConflict,
			"cannot change tokenizer after documents are indexed")
	}
	e.tokenizer = t
	return nil
}

// SetIndexStrategy replaces the token expansion strategy, with the same
// pre-indexing-only constraint as SetSanitizer.
func (e *Engine) SetIndexStrategy(s strategy.IndexStrategy) error {
	if e.initialized {
		return apperrors.Newf(apperrors.ErrEngineLocked, http.StatusConflict,
			"cannot change index strategy after documents are indexed")
	}
	e.expander = s
	return nil
}

// SetPruningStrategy replaces the candidate-merging policy. It only affects
// query-time behavior, so it may be changed at any time.
func (e *Engine) SetPruningStrategy(p strategy.PruningStrategy) {
	e.pruner = p
}

// AddSearchableField registers a field for indexing and reindexes every
// document added so far on that field alone.
func (e *Engine) AddSearchableField(name string) {
	if _, ok := e.fieldSet[name]; ok {
		return
	}
	e.fieldSet[name] = struct{}{}
	e.fields = append(e.fields, name)
	e.indexDocuments(e.documents, []string{name})
}

// AddDocument appends a single document and indexes it across all
// registered searchable fields.
func (e *Engine) AddDocument(doc Document) {
	e.AddDocuments([]Document{doc})
}

// AddDocuments appends docs to the collection and indexes just those
// documents across all registered searchable fields. Documents without a
// usable uid value are skipped silently.
func (e *Engine) AddDocuments(docs []Document) {
	added := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if _, ok := e.uidOf(doc); !ok {
			continue
		}
		added = append(added, doc)
	}
	e.documents = append(e.documents, added...)
	e.indexDocuments(added, e.fields)
}

// indexDocuments runs one indexing pass: sanitize, tokenize, and expand
// each (document, field) pair, writing every expanded token to the store.
// Any pass over at least one document locks the engine configuration, and
// every pass clears the IDF cache since collection size or document
// frequencies may have changed.
func (e *Engine) indexDocuments(docs []Document, fields []string) {
	for _, doc := range docs {
		uid, ok := e.uidOf(doc)
		if !ok {
			continue
		}
		for _, field := range fields {
			text, ok := doc[field].(string)
			if !ok {
				// Non-string values are not indexable.
				continue
			}
			for _, token := range e.tokenizer.Tokenize(e.sanitizer.Sanitize(text)) {
				for _, key := range e.expander.ExpandToken(token) {
					e.store.Add(key, uid, doc)
				}
			}
		}
	}
	if len(docs) > 0 {
		e.initialized = true
	}
	e.scorer.Invalidate()
}

// Search sanitizes and tokenizes the query, gathers one candidate set per
// token, merges them through the pruning strategy, and returns the matching
// documents: relevance-sorted in weighted mode, unordered in plain mode.
// Empty and unmatched queries return an empty slice.
func (e *Engine) Search(query string) []Document {
	tokens := e.tokenizer.Tokenize(e.sanitizer.Sanitize(query))
	if len(tokens) == 0 {
		return []Document{}
	}
	perToken := make([]map[string]index.Candidate, len(tokens))
	for i, token := range tokens {
		perToken[i] = e.store.Candidates(token)
	}
	merged := e.pruner.Prune(perToken)

	if e.store.Mode() == index.Plain {
		docs := make([]Document, 0, len(merged))
		for _, cand := range merged {
			docs = append(docs, cand.Doc)
		}
		return docs
	}

	type hit struct {
		doc   Document
		score float64
	}
	total := len(e.documents)
	hits := make([]hit, 0, len(merged))
	for uid, cand := range merged {
		hits = append(hits, hit{
			doc:   cand.Doc,
			score: e.scorer.Score(tokens, uid, total),
		})
	}
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	docs := make([]Document, len(hits))
	for i, h := range hits {
		docs[i] = h.doc
	}
	return docs
}

// DocumentCount returns the size of the document collection.
func (e *Engine) DocumentCount() int { return len(e.documents) }

// SearchableFields returns the registered field names in registration order.
func (e *Engine) SearchableFields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// TokenWrites returns the total number of expanded-token writes, for
// metrics.
func (e *Engine) TokenWrites() uint64 { return e.store.Writes() }

// TermCount returns the number of distinct tokens in the index.
func (e *Engine) TermCount() int { return e.store.TermCount() }

// Initialized reports whether any document has been indexed, which locks
// the mode, sanitizer, tokenizer, and index strategy.
func (e *Engine) Initialized() bool { return e.initialized }

// uidOf extracts the document's identity from the configured uid field.
// String, integer, and float values are accepted; floats cover JSON-decoded
// numbers. Anything else makes the document non-indexable.
func (e *Engine) uidOf(doc Document) (string, bool) {
	switch v := doc[e.uidField].(type) {
	case string:
		return v, v != ""
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}
