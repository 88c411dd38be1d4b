package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvelichkov/fieldsearch/internal/index"
)

func newFoxStore() *index.Store {
	s := index.NewStore(index.Weighted)
	docA := index.Document{"id": "a"}
	docB := index.Document{"id": "b"}
	s.Add("fox", "a", docA)
	s.Add("fox", "b", docB)
	s.Add("quick", "a", docA)
	return s
}

func TestIDFFormula(t *testing.T) {
	s := newFoxStore()
	scorer := NewScorer(s)

	// df("fox") = 2 over N = 2: idf = 1 + ln(2/3).
	assert.InDelta(t, 1+math.Log(2.0/3.0), scorer.IDF("fox", 2), 1e-12)
	// df("quick") = 1 over N = 2: idf = 1 + ln(1) = 1.
	assert.InDelta(t, 1.0, scorer.IDF("quick", 2), 1e-12)
	// Absent token: df = 0, idf = 1 + ln(N/1).
	assert.InDelta(t, 1+math.Log(2.0), scorer.IDF("zebra", 2), 1e-12)
}

func TestIDFDegenerateCollectionClampsToZero(t *testing.T) {
	s := index.NewStore(index.Weighted)
	scorer := NewScorer(s)
	idf := scorer.IDF("anything", 0)
	assert.Zero(t, idf)
	assert.False(t, math.IsInf(idf, 0))
}

func TestIDFIsCachedUntilInvalidated(t *testing.T) {
	s := newFoxStore()
	scorer := NewScorer(s)

	before := scorer.IDF("fox", 2)

	// Grow the index behind the cache's back; the memoized value must
	// hold until Invalidate.
	s.Add("fox", "c", index.Document{"id": "c"})
	assert.Equal(t, before, scorer.IDF("fox", 3))

	scorer.Invalidate()
	after := scorer.IDF("fox", 3)
	require.NotEqual(t, before, after)
	assert.InDelta(t, 1+math.Log(3.0/4.0), after, 1e-12)
}

func TestScoreSumsTFTimesIDF(t *testing.T) {
	s := index.NewStore(index.Weighted)
	docA := index.Document{"id": "a"}
	s.Add("fox", "a", docA)
	s.Add("fox", "a", docA)
	s.Add("quick", "a", docA)
	scorer := NewScorer(s)

	tokens := []string{"fox", "quick"}
	want := 2*scorer.IDF("fox", 1) + 1*scorer.IDF("quick", 1)
	assert.InDelta(t, want, scorer.Score(tokens, "a", 1), 1e-12)

	// A document containing none of the tokens scores zero.
	assert.Zero(t, scorer.Score(tokens, "missing", 1))
}

func TestScoreMonotonicInTokenCount(t *testing.T) {
	s := index.NewStore(index.Weighted)
	docA := index.Document{"id": "a"}
	docB := index.Document{"id": "b"}
	s.Add("fox", "a", docA)
	s.Add("fox", "a", docA)
	s.Add("fox", "a", docA)
	s.Add("fox", "b", docB)
	scorer := NewScorer(s)

	tokens := []string{"fox"}
	assert.Greater(t, scorer.Score(tokens, "a", 2), scorer.Score(tokens, "b", 2))
}
