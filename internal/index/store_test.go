package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainAddIsIdempotent(t *testing.T) {
	s := NewStore(Plain)
	doc := Document{"id": "a", "text": "hello"}

	s.Add("hello", "a", doc)
	s.Add("hello", "a", doc)
	s.Add("hello", "a", doc)

	cands := s.Candidates("hello")
	require.Len(t, cands, 1)
	assert.Equal(t, doc, cands["a"].Doc)
	assert.Equal(t, 1, s.DocFrequency("hello"))
}

func TestWeightedCountInvariants(t *testing.T) {
	s := NewStore(Weighted)
	docA := Document{"id": "a"}
	docB := Document{"id": "b"}

	// "fox" twice in a, once in b; "lazy" once in b.
	s.Add("fox", "a", docA)
	s.Add("fox", "a", docA)
	s.Add("fox", "b", docB)
	s.Add("lazy", "b", docB)

	fox, ok := s.Stats("fox")
	require.True(t, ok)
	assert.Equal(t, 2, fox.DocumentsCount)
	assert.Equal(t, len(fox.Postings), fox.DocumentsCount)
	assert.Equal(t, 3, fox.TotalTokenCount)

	sum := 0
	for _, p := range fox.Postings {
		assert.GreaterOrEqual(t, p.TokenCount, 1)
		sum += p.TokenCount
	}
	assert.Equal(t, fox.TotalTokenCount, sum)

	lazy, ok := s.Stats("lazy")
	require.True(t, ok)
	assert.Equal(t, 1, lazy.DocumentsCount)
	assert.Equal(t, 1, lazy.TotalTokenCount)
}

func TestUnseenTokenYieldsEmptyCandidates(t *testing.T) {
	for _, mode := range []Mode{Plain, Weighted} {
		t.Run(mode.String(), func(t *testing.T) {
			s := NewStore(mode)
			cands := s.Candidates("zebra")
			require.NotNil(t, cands)
			assert.Empty(t, cands)
			assert.Equal(t, 0, s.DocFrequency("zebra"))
			assert.Equal(t, 0, s.TokenCount("zebra", "a"))
		})
	}
}

func TestWeightedCandidatesCarryTokenCounts(t *testing.T) {
	s := NewStore(Weighted)
	doc := Document{"id": "a"}
	s.Add("fox", "a", doc)
	s.Add("fox", "a", doc)

	cands := s.Candidates("fox")
	require.Len(t, cands, 1)
	assert.Equal(t, 2, cands["a"].TokenCount)
	assert.Equal(t, 2, s.TokenCount("fox", "a"))
}

func TestTermAndWriteCounters(t *testing.T) {
	s := NewStore(Weighted)
	doc := Document{"id": "a"}
	s.Add("one", "a", doc)
	s.Add("two", "a", doc)
	s.Add("two", "a", doc)

	assert.Equal(t, 2, s.TermCount())
	assert.Equal(t, uint64(3), s.Writes())
}
