package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultMatcher() *Matcher {
	return NewMatcher(DefaultIntents(), DefaultThreshold, DefaultFallback)
}

func TestMatchKnownIntent(t *testing.T) {
	m := defaultMatcher()

	match := m.Match("hello there")
	assert.Equal(t, "greeting", match.Intent)
	assert.False(t, match.Fallback)
	assert.Greater(t, match.Confidence, DefaultThreshold)
	assert.NotEmpty(t, match.Response)
}

func TestMatchIsCaseAndPunctuationInsensitive(t *testing.T) {
	m := defaultMatcher()

	lower := m.Match("how do i book a session")
	shouty := m.Match("HOW DO I BOOK A SESSION???")
	require.Equal(t, lower.Intent, shouty.Intent)
	assert.InDelta(t, lower.Confidence, shouty.Confidence, 1e-9)
}

func TestMatchFallsBackBelowThreshold(t *testing.T) {
	m := defaultMatcher()

	match := m.Match("colorless green ideas sleep furiously")
	assert.True(t, match.Fallback)
	assert.Equal(t, "unknown", match.Intent)
	assert.Equal(t, DefaultFallback, match.Response)
	assert.Zero(t, match.Confidence)
}

func TestMatchEmptyMessage(t *testing.T) {
	m := defaultMatcher()

	match := m.Match("")
	assert.True(t, match.Fallback)
}

func TestCosine(t *testing.T) {
	a := vectorize("book a session")
	assert.InDelta(t, 1.0, cosine(a, a), 1e-9, "identical vectors score 1")
	assert.Zero(t, cosine(a, vectorize("zzz qqq")), "disjoint vectors score 0")
	assert.Zero(t, cosine(a, termVector{}))
}
