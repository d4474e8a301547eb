/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package consensus

import (
	"math"
	"strings"
	"unicode"
)

// vector is a sparse term-weight mapping, L2-normalized after construction so
// cosine similarity reduces to a dot product.
type vector map[string]float64

// tokenize lowercases the text and splits on non-alphanumeric runes, keeping
// tokens of at least two characters. This mirrors the word-level tokenization
// of the reference vectorizer.
func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := words[:0]
	for _, w := range words {
		if len(w) >= 2 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// vectorize builds one term-frequency/inverse-document-frequency space over
// exactly the given documents and returns each document's normalized vector.
//
// Weighting uses smoothed inverse document frequency,
// ln((1+n)/(1+df)) + 1, so terms present in every document still carry a
// small positive weight. Documents with no recognizable terms produce an
// empty vector, which has zero similarity to everything including itself.
func vectorize(docs []string) []vector {
	n := len(docs)
	tokenized := make([][]string, n)
	df := make(map[string]int)
	for i, doc := range docs {
		tokenized[i] = tokenize(doc)
		seen := make(map[string]bool, len(tokenized[i]))
		for _, term := range tokenized[i] {
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log(float64(1+n)/float64(1+count)) + 1
	}

	vectors := make([]vector, n)
	for i, terms := range tokenized {
		v := make(vector, len(terms))
		for _, term := range terms {
			v[term] += idf[term]
		}
		normalize(v)
		vectors[i] = v
	}
	return vectors
}

// normalize scales v to unit length in place. Empty vectors are left as-is.
func normalize(v vector) {
	var sumSquares float64
	for _, w := range v {
		sumSquares += w * w
	}
	if sumSquares == 0 {
		return
	}
	norm := math.Sqrt(sumSquares)
	for term, w := range v {
		v[term] = w / norm
	}
}

// dot returns the inner product of two normalized vectors, i.e. their cosine
// similarity. Iterates the smaller vector.
func dot(a, b vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for term, w := range a {
		sum += w * b[term]
	}
	return sum
}
