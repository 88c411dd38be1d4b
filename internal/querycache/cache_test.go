package querycache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"case insensitive", "Quick Fox", "quick fox", true},
		{"word order", "fox quick", "quick fox", true},
		{"extra whitespace", "  quick   fox ", "quick fox", true},
		{"different terms", "quick fox", "lazy fox", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.same {
				assert.Equal(t, normalizeQuery(tt.a), normalizeQuery(tt.b))
			} else {
				assert.NotEqual(t, normalizeQuery(tt.a), normalizeQuery(tt.b))
			}
		})
	}
}

func TestBuildKeyIsPrefixedAndStable(t *testing.T) {
	c := &Cache{}
	k1 := c.buildKey("quick fox")
	k2 := c.buildKey("Fox  QUICK")
	assert.Equal(t, k1, k2)
	assert.True(t, strings.HasPrefix(k1, keyPrefix))
}
