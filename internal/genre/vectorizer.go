// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package genre

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// wordPattern matches runs of word characters. Runs shorter than two runes
// are discarded by tokenize.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Vectorizer turns documents into L2-normalized TF-IDF vectors over a
// vocabulary of unigrams and adjacent-word bigrams.
type Vectorizer struct {
	// Vocabulary lists features in index order (sorted).
	Vocabulary []string `json:"vocabulary"`
	// IDF holds the smoothed inverse document frequency per feature.
	IDF []float64 `json:"idf"`

	index map[string]int
}

// SparseVector maps feature index to weight.
type SparseVector map[int]float64

// stripAccents lowercases s and removes combining marks after NFKD
// decomposition so that "mágia" and "magia" produce the same token, and
// ligatures and fullwidth forms fold to their plain letters.
func stripAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// tokenize returns the unigram and bigram features of doc in document order.
func tokenize(doc string) []string {
	words := wordPattern.FindAllString(stripAccents(doc), -1)

	tokens := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) >= 2 {
			tokens = append(tokens, w)
		}
	}

	features := make([]string, 0, 2*len(tokens))
	features = append(features, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		features = append(features, tokens[i]+" "+tokens[i+1])
	}
	return features
}

// FitVectorizer learns the vocabulary and IDF weights from docs.
func FitVectorizer(docs []string) *Vectorizer {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, f := range tokenize(doc) {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			df[f]++
		}
	}

	vocab := make([]string, 0, len(df))
	for f := range df {
		vocab = append(vocab, f)
	}
	sort.Strings(vocab)

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for i, f := range vocab {
		idf[i] = math.Log((1+n)/(1+float64(df[f]))) + 1
	}

	v := &Vectorizer{Vocabulary: vocab, IDF: idf}
	v.buildIndex()
	return v
}

func (v *Vectorizer) buildIndex() {
	v.index = make(map[string]int, len(v.Vocabulary))
	for i, f := range v.Vocabulary {
		v.index[f] = i
	}
}

// Size returns the number of features.
func (v *Vectorizer) Size() int { return len(v.Vocabulary) }

// Transform vectorizes doc. Features outside the vocabulary are ignored, so
// the result is empty when doc shares nothing with the training set.
// Transform does not modify v and is safe for concurrent use.
func (v *Vectorizer) Transform(doc string) SparseVector {
	vec := make(SparseVector)
	for _, f := range tokenize(doc) {
		if i, ok := v.index[f]; ok {
			vec[i]++
		}
	}

	var norm2 float64
	for i, tf := range vec {
		w := tf * v.IDF[i]
		vec[i] = w
		norm2 += w * w
	}
	if norm2 == 0 {
		return vec
	}

	l2 := math.Sqrt(norm2)
	for i := range vec {
		vec[i] /= l2
	}
	return vec
}
