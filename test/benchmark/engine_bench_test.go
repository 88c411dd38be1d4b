// Package benchmark contains Go benchmarks for the index store, the
// tokenizer, and the full search engine, measuring throughput and
// allocation behaviour.
package benchmark

import (
	"fmt"
	"testing"

	"github.com/nvelichkov/fieldsearch/internal/engine"
	"github.com/nvelichkov/fieldsearch/internal/index"
	"github.com/nvelichkov/fieldsearch/internal/strategy"
	"github.com/nvelichkov/fieldsearch/internal/tokenizer"
)

const benchText = "distributed search engines build inverted indexes from tokenized document text and rank results by term frequency"

// BenchmarkStoreAdd measures raw token-write throughput in both modes.
func BenchmarkStoreAdd(b *testing.B) {
	for _, mode := range []index.Mode{index.Plain, index.Weighted} {
		b.Run(mode.String(), func(b *testing.B) {
			s := index.NewStore(mode)
			doc := index.Document{"id": "doc"}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.Add(fmt.Sprintf("token-%d", i%1000), "doc", doc)
			}
		})
	}
}

// BenchmarkTokenize measures the word tokenizer on a typical sentence.
func BenchmarkTokenize(b *testing.B) {
	tok := tokenizer.Words{}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tok.Tokenize(benchText)
	}
}

// BenchmarkEngineAddDocument measures per-document indexing throughput at
// various pre-loaded collection sizes.
func BenchmarkEngineAddDocument(b *testing.B) {
	for _, preload := range []int{100, 1000, 5000} {
		b.Run(fmt.Sprintf("preload_%d", preload), func(b *testing.B) {
			e := engine.New("id")
			e.AddSearchableField("text")
			for i := 0; i < preload; i++ {
				e.AddDocument(engine.Document{
					"id":   fmt.Sprintf("preload-%d", i),
					"text": benchText,
				})
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				e.AddDocument(engine.Document{
					"id":   fmt.Sprintf("bench-%d", i),
					"text": benchText,
				})
			}
		})
	}
}

// BenchmarkEngineSearch measures end-to-end weighted search latency over a
// 10 000 document collection.
func BenchmarkEngineSearch(b *testing.B) {
	e := engine.New("id")
	e.AddSearchableField("text")
	for i := 0; i < 10000; i++ {
		e.AddDocument(engine.Document{
			"id":   fmt.Sprintf("doc-%d", i),
			"text": benchText,
		})
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Search("inverted indexes")
	}
}

// BenchmarkEngineSearchPrefix measures search cost when the index was
// built with prefix expansion.
func BenchmarkEngineSearchPrefix(b *testing.B) {
	e := engine.New("id")
	if err := e.SetIndexStrategy(strategy.Prefix{}); err != nil {
		b.Fatal(err)
	}
	e.AddSearchableField("text")
	for i := 0; i < 1000; i++ {
		e.AddDocument(engine.Document{
			"id":   fmt.Sprintf("doc-%d", i),
			"text": benchText,
		})
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Search("inver")
	}
}
