// Package index implements the in-memory inverted index backing the search
// engine. A Store holds one of two parallel representations selected by
// Mode: plain membership (token -> uid -> document) or weighted postings
// (token -> per-document token counts) for TF-IDF ranking.
package index

// Document is a caller-supplied record, a mapping from field name to value.
// The engine never mutates documents; they are held by reference.
type Document map[string]any

// Candidate is one entry of a per-token candidate set during a query.
// TokenCount is populated only in weighted mode.
type Candidate struct {
	Doc        Document
	TokenCount int
}

// Posting records how often a token occurs in a single document.
type Posting struct {
	TokenCount int
	Doc        Document
}

// TokenStats is the weighted index entry for one token.
type TokenStats struct {
	// DocumentsCount is the number of distinct documents containing the
	// token; always equal to len(Postings).
	DocumentsCount int
	// TotalTokenCount is the total occurrences across all documents.
	TotalTokenCount int
	Postings        map[string]*Posting
}

// Mode selects the index representation.
type Mode int

const (
	Plain Mode = iota
	Weighted
)

func (m Mode) String() string {
	if m == Weighted {
		return "weighted"
	}
	return "plain"
}

// Store is the inverted index. It is not safe for concurrent use; callers
// serialize access (see internal/server.Service).
type Store struct {
	mode     Mode
	plain    map[string]map[string]Document
	weighted map[string]*TokenStats
	writes   uint64
}

// NewStore creates an empty Store in the given mode.
func NewStore(mode Mode) *Store {
	s := &Store{mode: mode}
	if mode == Weighted {
		s.weighted = make(map[string]*TokenStats)
	} else {
		s.plain = make(map[string]map[string]Document)
	}
	return s
}

func (s *Store) Mode() Mode { return s.mode }

// Add records one occurrence of token in the document identified by uid.
// Plain mode is an idempotent overwrite; weighted mode maintains the
// per-token and per-document counters.
func (s *Store) Add(token, uid string, doc Document) {
	s.writes++
	if s.mode == Plain {
		docs, ok := s.plain[token]
		if !ok {
			docs = make(map[string]Document)
			s.plain[token] = docs
		}
		docs[uid] = doc
		return
	}

	stats, ok := s.weighted[token]
	if !ok {
		// First occurrence is pre-counted in TotalTokenCount.
		stats = &TokenStats{
			TotalTokenCount: 1,
			Postings:        make(map[string]*Posting),
		}
		s.weighted[token] = stats
	} else {
		stats.TotalTokenCount++
	}
	if p, seen := stats.Postings[uid]; seen {
		p.TokenCount++
	} else {
		stats.DocumentsCount++
		stats.Postings[uid] = &Posting{TokenCount: 1, Doc: doc}
	}
}

// Candidates returns the candidate set for token. An unseen token yields an
// empty, non-nil map.
func (s *Store) Candidates(token string) map[string]Candidate {
	if s.mode == Plain {
		docs := s.plain[token]
		out := make(map[string]Candidate, len(docs))
		for uid, doc := range docs {
			out[uid] = Candidate{Doc: doc}
		}
		return out
	}

	stats := s.weighted[token]
	if stats == nil {
		return map[string]Candidate{}
	}
	out := make(map[string]Candidate, len(stats.Postings))
	for uid, p := range stats.Postings {
		out[uid] = Candidate{Doc: p.Doc, TokenCount: p.TokenCount}
	}
	return out
}

// DocFrequency returns the number of distinct documents containing token,
// or 0 when the token is absent.
func (s *Store) DocFrequency(token string) int {
	if s.mode == Plain {
		return len(s.plain[token])
	}
	if stats := s.weighted[token]; stats != nil {
		return stats.DocumentsCount
	}
	return 0
}

// TokenCount returns how often token occurs in the document identified by
// uid (weighted mode only; 0 otherwise).
func (s *Store) TokenCount(token, uid string) int {
	if s.mode != Weighted {
		return 0
	}
	if stats := s.weighted[token]; stats != nil {
		if p := stats.Postings[uid]; p != nil {
			return p.TokenCount
		}
	}
	return 0
}

// Stats exposes the weighted entry for token, for diagnostics and tests.
func (s *Store) Stats(token string) (*TokenStats, bool) {
	stats, ok := s.weighted[token]
	return stats, ok
}

// TermCount returns the number of distinct tokens in the index.
func (s *Store) TermCount() int {
	if s.mode == Plain {
		return len(s.plain)
	}
	return len(s.weighted)
}

// Writes returns the total number of token writes since creation.
func (s *Store) Writes() uint64 { return s.writes }
