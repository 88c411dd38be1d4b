// Package strategy holds the two pluggable query policies of the engine:
// index strategies, which expand a token into the keys written to the
// inverted index, and pruning strategies, which merge per-token candidate
// sets into a single result set.
package strategy

// IndexStrategy expands a single token into zero or more index keys.
type IndexStrategy interface {
	ExpandToken(token string) []string
}

// ExactWord indexes the token as-is. This is the engine default.
type ExactWord struct{}

func (ExactWord) ExpandToken(token string) []string {
	if token == "" {
		return nil
	}
	return []string{token}
}

// Prefix expands a token into all of its non-empty prefixes, enabling
// partial-match search on word beginnings.
type Prefix struct{}

func (Prefix) ExpandToken(token string) []string {
	runes := []rune(token)
	out := make([]string, 0, len(runes))
	for i := 1; i <= len(runes); i++ {
		out = append(out, string(runes[:i]))
	}
	return out
}

// AllSubstrings expands a token into every non-empty substring, enabling
// partial-match search anywhere in a word. Index size grows quadratically
// with token length.
type AllSubstrings struct{}

func (AllSubstrings) ExpandToken(token string) []string {
	runes := []rune(token)
	seen := make(map[string]struct{}, len(runes)*len(runes)/2)
	out := make([]string, 0, len(runes)*len(runes)/2)
	for i := 0; i < len(runes); i++ {
		for j := i + 1; j <= len(runes); j++ {
			sub := string(runes[i:j])
			if _, dup := seen[sub]; dup {
				continue
			}
			seen[sub] = struct{}{}
			out = append(out, sub)
		}
	}
	return out
}
