// Package tokenizer splits sanitized text into index tokens. The base Words
// tokenizer splits on non-alphanumeric boundaries; StopWordFilter and
// Stemmer wrap any Tokenizer to drop common words and strip suffixes.
package tokenizer

import (
	"strings"
	"unicode"
)

// Tokenizer splits text into a sequence of tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Words splits on any run of non-letter, non-digit runes. Empty input
// yields an empty slice.
type Words struct{}

func (Words) Tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {}, "this": {}, "but": {}, "they": {},
	"have": {}, "had": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "which": {}, "their": {}, "if": {}, "each": {},
	"do": {}, "not": {}, "no": {}, "so": {}, "can": {},
}

// StopWordFilter drops common English words from the wrapped tokenizer's
// output.
type StopWordFilter struct {
	inner Tokenizer
}

func NewStopWordFilter(inner Tokenizer) *StopWordFilter {
	return &StopWordFilter{inner: inner}
}

func (f *StopWordFilter) Tokenize(text string) []string {
	tokens := f.inner.Tokenize(text)
	out := tokens[:0:len(tokens)]
	for _, t := range tokens {
		if _, stop := stopWords[strings.ToLower(t)]; !stop {
			out = append(out, t)
		}
	}
	return out
}

// Stemmer reduces each token from the wrapped tokenizer to a stem using a
// simple suffix-stripping table.
type Stemmer struct {
	inner Tokenizer
}

func NewStemmer(inner Tokenizer) *Stemmer {
	return &Stemmer{inner: inner}
}

func (s *Stemmer) Tokenize(text string) []string {
	tokens := s.inner.Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if stemmed := stem(t); stemmed != "" {
			out = append(out, stemmed)
		}
	}
	return out
}

var suffixRules = []struct {
	suffix      string
	replacement string
	minLen      int
}{
	{"ational", "ate", 2},
	{"tional", "tion", 2},
	{"encies", "ence", 2},
	{"ances", "ance", 2},
	{"ments", "ment", 2},
	{"izing", "ize", 2},
	{"ating", "ate", 2},
	{"iness", "y", 2},
	{"ously", "ous", 2},
	{"ively", "ive", 2},
	{"eness", "ene", 2},
	{"tion", "t", 3},
	{"sion", "s", 3},
	{"ying", "y", 2},
	{"ling", "l", 3},
	{"ies", "y", 2},
	{"ing", "", 3},
	{"ers", "er", 2},
	{"est", "", 3},
	{"ful", "", 3},
	{"ous", "", 3},
	{"ess", "", 3},
	{"ble", "", 3},
	{"ed", "", 3},
	{"er", "", 3},
	{"ly", "", 3},
	{"es", "", 3},
	{"ss", "ss", 2},
	{"s", "", 3},
}

func stem(word string) string {
	for _, rule := range suffixRules {
		if strings.HasSuffix(word, rule.suffix) {
			stemmed := word[:len(word)-len(rule.suffix)] + rule.replacement
			if len(stemmed) >= rule.minLen {
				return stemmed
			}
		}
	}
	return word
}
