// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package genre

import (
	"math"
	"sort"
)

// Alpha is the additive (Laplace) smoothing applied to feature counts.
const Alpha = 1.0

// NaiveBayes is a multinomial naive Bayes model over TF-IDF features.
type NaiveBayes struct {
	// Classes are sorted; ties in Predict resolve to the lowest index.
	Classes        []Label     `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// FitNaiveBayes estimates class priors from label frequencies and smoothed
// per-class feature distributions from the summed feature weights.
func FitNaiveBayes(rows []SparseVector, labels []Label, nFeatures int) *NaiveBayes {
	counts := make(map[Label]int)
	for _, l := range labels {
		counts[l]++
	}

	classes := make([]Label, 0, len(counts))
	for l := range counts {
		classes = append(classes, l)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	classIndex := make(map[Label]int, len(classes))
	for i, l := range classes {
		classIndex[l] = i
	}

	featureCount := make([][]float64, len(classes))
	for i := range featureCount {
		featureCount[i] = make([]float64, nFeatures)
	}
	for r, row := range rows {
		c := classIndex[labels[r]]
		for f, w := range row {
			featureCount[c][f] += w
		}
	}

	nb := &NaiveBayes{
		Classes:        classes,
		ClassLogPrior:  make([]float64, len(classes)),
		FeatureLogProb: make([][]float64, len(classes)),
	}
	total := float64(len(labels))
	for c, l := range classes {
		nb.ClassLogPrior[c] = math.Log(float64(counts[l]) / total)

		var sum float64
		for _, v := range featureCount[c] {
			sum += v + Alpha
		}
		logSum := math.Log(sum)

		nb.FeatureLogProb[c] = make([]float64, nFeatures)
		for f, v := range featureCount[c] {
			nb.FeatureLogProb[c][f] = math.Log(v+Alpha) - logSum
		}
	}
	return nb
}

// JointLogLikelihood scores x against every class.
func (nb *NaiveBayes) JointLogLikelihood(x SparseVector) []float64 {
	scores := make([]float64, len(nb.Classes))
	for c := range nb.Classes {
		s := nb.ClassLogPrior[c]
		for f, w := range x {
			s += w * nb.FeatureLogProb[c][f]
		}
		scores[c] = s
	}
	return scores
}

// Predict returns the highest scoring class for x.
func (nb *NaiveBayes) Predict(x SparseVector) Label {
	scores := nb.JointLogLikelihood(x)
	best := 0
	for c := 1; c < len(scores); c++ {
		if scores[c] > scores[best] {
			best = c
		}
	}
	return nb.Classes[best]
}
