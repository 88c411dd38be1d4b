package strategy

import "github.com/nvelichkov/fieldsearch/internal/index"

// PruningStrategy merges one candidate set per query token into a single
// result set. It is the only policy point for combining multi-token
// queries; the engine accepts any implementation.
type PruningStrategy interface {
	Prune(perToken []map[string]index.Candidate) map[string]index.Candidate
}

// AllWordsMustMatch keeps only documents present in every per-token set
// (intersection). This is the engine default.
type AllWordsMustMatch struct{}

func (AllWordsMustMatch) Prune(perToken []map[string]index.Candidate) map[string]index.Candidate {
	if len(perToken) == 0 {
		return map[string]index.Candidate{}
	}

	// Seed from the smallest set to bound the intersection work.
	smallest := 0
	for i, m := range perToken {
		if len(m) < len(perToken[smallest]) {
			smallest = i
		}
	}
	merged := make(map[string]index.Candidate, len(perToken[smallest]))
	for uid, cand := range perToken[smallest] {
		merged[uid] = cand
	}
	for i, m := range perToken {
		if i == smallest {
			continue
		}
		for uid := range merged {
			if _, ok := m[uid]; !ok {
				delete(merged, uid)
			}
		}
	}
	return merged
}

// AnyWordMatches keeps documents present in at least one per-token set
// (union).
type AnyWordMatches struct{}

func (AnyWordMatches) Prune(perToken []map[string]index.Candidate) map[string]index.Candidate {
	merged := make(map[string]index.Candidate)
	for _, m := range perToken {
		for uid, cand := range m {
			if _, ok := merged[uid]; !ok {
				merged[uid] = cand
			}
		}
	}
	return merged
}
