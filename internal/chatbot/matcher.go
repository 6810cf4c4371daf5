package chatbot

import (
	"math"
	"strings"
	"unicode"
)

// Intent is a canned conversational topic with example phrasings and a
// fixed reply.
type Intent struct {
	Name     string
	Examples []string
	Response string
	Link     string
}

// Match is the outcome of matching a message against the intent set.
type Match struct {
	Intent     string
	Response   string
	Link       string
	Confidence float64
	Fallback   bool
}

// Matcher scores messages against precomputed example term vectors. It is
// built once at startup and injected where needed; it holds no mutable
// state and is safe for concurrent use.
type Matcher struct {
	threshold float64
	fallback  string
	intents   []Intent
	vectors   [][]termVector
}

type termVector map[string]float64

// NewMatcher precomputes term vectors for every example phrase.
func NewMatcher(intents []Intent, threshold float64, fallback string) *Matcher {
	m := &Matcher{
		threshold: threshold,
		fallback:  fallback,
		intents:   intents,
		vectors:   make([][]termVector, len(intents)),
	}
	for i, intent := range intents {
		vectors := make([]termVector, len(intent.Examples))
		for j, example := range intent.Examples {
			vectors[j] = vectorize(example)
		}
		m.vectors[i] = vectors
	}
	return m
}

// Match returns the best-scoring intent for the message, or the fallback
// reply when nothing clears the threshold.
func (m *Matcher) Match(message string) Match {
	query := vectorize(message)

	best := Match{
		Intent:   "unknown",
		Response: m.fallback,
		Fallback: true,
	}
	highest := m.threshold

	for i, vectors := range m.vectors {
		for _, v := range vectors {
			score := cosine(query, v)
			if score > highest {
				highest = score
				best = Match{
					Intent:     m.intents[i].Name,
					Response:   m.intents[i].Response,
					Link:       m.intents[i].Link,
					Confidence: score,
				}
			}
		}
	}

	return best
}

// vectorize builds a term-frequency vector over lowercased word tokens.
func vectorize(text string) termVector {
	v := termVector{}
	for _, token := range tokenize(text) {
		v[token]++
	}
	return v
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func cosine(a, b termVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for term, weight := range a {
		normA += weight * weight
		if other, ok := b[term]; ok {
			dot += weight * other
		}
	}
	for _, weight := range b {
		normB += weight * weight
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
