package classifier

import (
	"fmt"
	"math"
	"sort"
)

// DefaultSmoothing is the additive smoothing constant applied to every token
// count so tokens unseen in a class during training never collapse a
// posterior to zero.
const DefaultSmoothing = 0.1

// NaiveBayes is a multinomial naive Bayes classifier over sparse weighted
// feature vectors. Fields are exported for gob serialization.
type NaiveBayes struct {
	Classes        []string
	ClassLogPrior  []float64
	FeatureLogProb [][]float64
	Alpha          float64
	FeatureCount   int
}

// NewNaiveBayes returns an unfitted classifier with default smoothing.
func NewNaiveBayes() *NaiveBayes {
	return &NaiveBayes{Alpha: DefaultSmoothing}
}

// Fit estimates class priors and per-class token likelihoods from the given
// vectors and labels. Classes are ordered alphabetically; that order defines
// the probability columns returned by Proba.
func (nb *NaiveBayes) Fit(vectors []map[int]float64, labels []string, featureCount int) error {
	if len(vectors) == 0 {
		return fmt.Errorf("cannot fit classifier on empty training set")
	}
	if len(vectors) != len(labels) {
		return fmt.Errorf("vector count %d does not match label count %d", len(vectors), len(labels))
	}

	classIndex := make(map[string]int)
	for _, label := range labels {
		if _, ok := classIndex[label]; !ok {
			classIndex[label] = 0
		}
	}
	classes := make([]string, 0, len(classIndex))
	for label := range classIndex {
		classes = append(classes, label)
	}
	sort.Strings(classes)
	for i, label := range classes {
		classIndex[label] = i
	}

	docCounts := make([]float64, len(classes))
	featureSums := make([][]float64, len(classes))
	totals := make([]float64, len(classes))
	for i := range featureSums {
		featureSums[i] = make([]float64, featureCount)
	}

	for i, vec := range vectors {
		c := classIndex[labels[i]]
		docCounts[c]++
		for idx, value := range vec {
			featureSums[c][idx] += value
			totals[c] += value
		}
	}

	nb.Classes = classes
	nb.FeatureCount = featureCount
	nb.ClassLogPrior = make([]float64, len(classes))
	nb.FeatureLogProb = make([][]float64, len(classes))
	totalDocs := float64(len(vectors))

	for c := range classes {
		nb.ClassLogPrior[c] = math.Log(docCounts[c] / totalDocs)
		nb.FeatureLogProb[c] = make([]float64, featureCount)
		denom := math.Log(totals[c] + nb.Alpha*float64(featureCount))
		for f := 0; f < featureCount; f++ {
			nb.FeatureLogProb[c][f] = math.Log(featureSums[c][f]+nb.Alpha) - denom
		}
	}
	return nil
}

// Proba returns the posterior probability distribution over Classes for one
// vector. The result always sums to 1 within floating-point tolerance.
func (nb *NaiveBayes) Proba(vec map[int]float64) []float64 {
	joint := make([]float64, len(nb.Classes))
	for c := range nb.Classes {
		score := nb.ClassLogPrior[c]
		for idx, value := range vec {
			if idx < nb.FeatureCount {
				score += value * nb.FeatureLogProb[c][idx]
			}
		}
		joint[c] = score
	}

	// Normalize in log space for numerical stability.
	maxScore := math.Inf(-1)
	for _, s := range joint {
		if s > maxScore {
			maxScore = s
		}
	}
	var sum float64
	probs := make([]float64, len(joint))
	for c, s := range joint {
		probs[c] = math.Exp(s - maxScore)
		sum += probs[c]
	}
	for c := range probs {
		probs[c] /= sum
	}
	return probs
}
