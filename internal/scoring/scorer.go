// Package scoring computes TF-IDF relevance of a query token set against
// indexed documents, memoizing per-token inverse document frequency.
package scoring

import (
	"math"

	"github.com/nvelichkov/fieldsearch/internal/index"
)

// Scorer ranks documents with TF-IDF over a weighted index store. IDF
// values are cached per token; the engine calls Invalidate whenever the
// index or the collection grows, since both change the inputs.
type Scorer struct {
	store    *index.Store
	idfCache map[string]float64
}

func NewScorer(store *index.Store) *Scorer {
	return &Scorer{
		store:    store,
		idfCache: make(map[string]float64),
	}
}

// IDF returns 1 + ln(N / (1 + df(token))) for the given collection size N.
// A degenerate +Inf result (possible only when N is 0) is clamped to 0 so
// an empty collection cannot produce undefined ranking.
func (s *Scorer) IDF(token string, totalDocs int) float64 {
	if idf, ok := s.idfCache[token]; ok {
		return idf
	}
	df := s.store.DocFrequency(token)
	idf := 1 + math.Log(float64(totalDocs)/float64(1+df))
	if math.IsInf(idf, 0) {
		idf = 0
	}
	s.idfCache[token] = idf
	return idf
}

// Score sums tf(token, uid) * idf(token) over the query tokens. Term
// frequency is the document's token count in the weighted index, 0 when the
// document does not contain the token. Scores are not normalized by
// document length.
func (s *Scorer) Score(tokens []string, uid string, totalDocs int) float64 {
	var score float64
	for _, token := range tokens {
		tf := s.store.TokenCount(token, uid)
		if tf == 0 {
			continue
		}
		score += float64(tf) * s.IDF(token, totalDocs)
	}
	return score
}

// Invalidate clears the IDF cache in full.
func (s *Scorer) Invalidate() {
	clear(s.idfCache)
}
