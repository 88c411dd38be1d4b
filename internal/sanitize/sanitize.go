// Package sanitize normalizes raw field and query text before tokenization.
package sanitize

import "strings"

// Sanitizer normalizes raw text.
type Sanitizer interface {
	Sanitize(text string) string
}

// LowerCase trims surrounding whitespace and case-folds. This is the
// engine default.
type LowerCase struct{}

func (LowerCase) Sanitize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// CasePreserving trims surrounding whitespace but leaves case intact, for
// collections where case carries meaning.
type CasePreserving struct{}

func (CasePreserving) Sanitize(text string) string {
	return strings.TrimSpace(text)
}
