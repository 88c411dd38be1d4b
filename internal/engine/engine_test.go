package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvelichkov/fieldsearch/internal/index"
	"github.com/nvelichkov/fieldsearch/internal/sanitize"
	"github.com/nvelichkov/fieldsearch/internal/strategy"
	"github.com/nvelichkov/fieldsearch/internal/tokenizer"
	apperrors "github.com/nvelichkov/fieldsearch/pkg/errors"
)

func newFoxEngine(t *testing.T, weighted bool) *Engine {
	t.Helper()
	e := New("id")
	require.NoError(t, e.SetMode(weighted))
	e.AddSearchableField("text")
	e.AddDocuments([]Document{
		{"id": 1, "text": "The quick brown fox"},
		{"id": 2, "text": "The lazy fox"},
	})
	return e
}

func uids(t *testing.T, docs []Document) []any {
	t.Helper()
	out := make([]any, len(docs))
	for i, d := range docs {
		out[i] = d["id"]
	}
	return out
}

func TestSearchEndToEnd(t *testing.T) {
	e := newFoxEngine(t, true)

	both := e.Search("fox")
	assert.ElementsMatch(t, []any{1, 2}, uids(t, both))

	onlyFirst := e.Search("quick")
	require.Len(t, onlyFirst, 1)
	assert.Equal(t, 1, onlyFirst[0]["id"])

	assert.Empty(t, e.Search("zebra"))
	assert.Empty(t, e.Search(""))
	assert.Empty(t, e.Search("   "))
}

func TestSearchPlainModeReturnsMembers(t *testing.T) {
	e := newFoxEngine(t, false)

	both := e.Search("fox")
	assert.ElementsMatch(t, []any{1, 2}, uids(t, both))
	assert.Empty(t, e.Search("zebra"))
}

func TestConfigurationLock(t *testing.T) {
	e := New("id")
	require.NoError(t, e.SetMode(false))
	require.NoError(t, e.SetSanitizer(sanitize.CasePreserving{}))
	require.NoError(t, e.SetTokenizer(tokenizer.Words{}))
	require.NoError(t, e.SetIndexStrategy(strategy.Prefix{}))
	assert.False(t, e.Initialized())

	e.AddSearchableField("text")
	assert.False(t, e.Initialized(), "registering a field on an empty collection must not lock")

	e.AddDocument(Document{"id": "a", "text": "hello"})
	require.True(t, e.Initialized())

	assert.ErrorIs(t, e.SetMode(true), apperrors.ErrEngineLocked)
	assert.ErrorIs(t, e.SetSanitizer(sanitize.LowerCase{}), apperrors.ErrEngineLocked)
	assert.ErrorIs(t, e.SetTokenizer(tokenizer.Words{}), apperrors.ErrEngineLocked)
	assert.ErrorIs(t, e.SetIndexStrategy(strategy.ExactWord{}), apperrors.ErrEngineLocked)

	// Pruning only affects query-time merging and stays swappable.
	e.SetPruningStrategy(strategy.AnyWordMatches{})
}

func TestAddSearchableFieldReindexesExistingDocuments(t *testing.T) {
	e := New("id")
	e.AddSearchableField("title")
	e.AddDocuments([]Document{
		{"id": 1, "title": "alpha", "body": "shared term"},
		{"id": 2, "title": "beta", "body": "shared term"},
	})
	assert.Empty(t, e.Search("shared"), "body is not searchable yet")

	e.AddSearchableField("body")
	assert.ElementsMatch(t, []any{1, 2}, uids(t, e.Search("shared")))
}

func TestNonStringFieldValuesAreSkipped(t *testing.T) {
	e := New("id")
	e.AddSearchableField("text")
	e.AddSearchableField("views")
	e.AddDocument(Document{"id": 1, "text": "readable", "views": 42})

	assert.Len(t, e.Search("readable"), 1)
	assert.Empty(t, e.Search("42"))
}

func TestDocumentsWithoutUIDAreSkipped(t *testing.T) {
	e := New("id")
	e.AddSearchableField("text")
	e.AddDocuments([]Document{
		{"text": "orphan"},
		{"id": []int{1}, "text": "weird uid"},
		{"id": 1, "text": "kept"},
	})

	assert.Equal(t, 1, e.DocumentCount())
	assert.Empty(t, e.Search("orphan"))
	assert.Len(t, e.Search("kept"), 1)
}

func TestPlainReindexingIsIdempotent(t *testing.T) {
	doc := Document{"id": "a", "text": "repeat repeat repeat"}

	once := New("id")
	require.NoError(t, once.SetMode(false))
	once.AddSearchableField("text")
	once.AddDocument(doc)

	twice := New("id")
	require.NoError(t, twice.SetMode(false))
	twice.AddSearchableField("text")
	twice.AddDocument(doc)
	twice.AddDocument(doc)

	// Map overwrite, not duplication: the uid appears once under the
	// token no matter how often the document was indexed.
	assert.Len(t, once.Search("repeat"), 1)
	assert.Len(t, twice.Search("repeat"), 1)
}

func TestWeightedRankingPrefersHigherTermFrequency(t *testing.T) {
	e := New("id")
	e.AddSearchableField("text")
	e.AddDocuments([]Document{
		{"id": "sparse", "text": "fox"},
		{"id": "dense", "text": "fox fox fox"},
	})

	got := e.Search("fox")
	require.Len(t, got, 2)
	assert.Equal(t, "dense", got[0]["id"])
	assert.Equal(t, "sparse", got[1]["id"])
}

func TestRankingReflectsCollectionGrowth(t *testing.T) {
	e := New("id")
	e.AddSearchableField("text")
	e.AddDocuments([]Document{
		{"id": "a", "text": "fox fox rare"},
		{"id": "b", "text": "fox common"},
	})

	first := e.Search("fox rare")
	require.NotEmpty(t, first)

	// Adding documents clears the IDF cache, so the next query must see
	// the new collection size and document frequencies.
	e.AddDocument(Document{"id": "c", "text": "fox everywhere"})
	again := e.Search("fox rare")
	require.NotEmpty(t, again)
	assert.Equal(t, "a", again[0]["id"])
}

// firstToken returns the first per-token candidate set unchanged, which
// degenerates search to "documents containing the first query token".
type firstToken struct{}

func (firstToken) Prune(perToken []map[string]index.Candidate) map[string]index.Candidate {
	if len(perToken) == 0 {
		return map[string]index.Candidate{}
	}
	return perToken[0]
}

func TestPruningStrategyPassThrough(t *testing.T) {
	e := newFoxEngine(t, true)
	e.SetPruningStrategy(firstToken{})

	got := e.Search("quick zebra")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0]["id"])
}

func TestPrefixIndexStrategyEnablesPartialMatch(t *testing.T) {
	e := New("id")
	require.NoError(t, e.SetIndexStrategy(strategy.Prefix{}))
	e.AddSearchableField("text")
	e.AddDocument(Document{"id": 1, "text": "searching"})

	assert.Len(t, e.Search("sea"), 1)
	assert.Len(t, e.Search("searching"), 1)
	assert.Empty(t, e.Search("arching"), "prefix expansion does not match word interiors")
}

func TestCaseFoldingDefault(t *testing.T) {
	e := New("id")
	e.AddSearchableField("text")
	e.AddDocument(Document{"id": 1, "text": "Quick BROWN Fox"})

	assert.Len(t, e.Search("brown"), 1)
	assert.Len(t, e.Search("BROWN"), 1)
}

func TestUIDValueKinds(t *testing.T) {
	e := New("id")
	e.AddSearchableField("text")
	e.AddDocuments([]Document{
		{"id": "str", "text": "match"},
		{"id": 7, "text": "match"},
		{"id": int64(8), "text": "match"},
		{"id": 9.0, "text": "match"},
	})

	assert.Equal(t, 4, e.DocumentCount())
	assert.Len(t, e.Search("match"), 4)
}

func TestDuplicateSearchableFieldIsNoOp(t *testing.T) {
	e := New("id")
	e.AddSearchableField("text")
	e.AddDocument(Document{"id": 1, "text": "fox"})
	writes := e.TokenWrites()

	e.AddSearchableField("text")
	assert.Equal(t, writes, e.TokenWrites())
	assert.Equal(t, []string{"text"}, e.SearchableFields())
}
