// Package classifier implements the two-stage text classification pipeline:
// TF-IDF vectorization over word n-grams feeding a multinomial naive Bayes
// classifier with additive smoothing.
package classifier

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
)

// ErrNotFitted is returned when predictions are requested before Fit.
var ErrNotFitted = errors.New("pipeline not fitted")

// Pipeline composes the vectorizer and classifier stages. Every call to
// NewPipeline produces fully independent state; two pipelines fitted in the
// same process never share vocabulary or weights.
type Pipeline struct {
	Vectorizer *Vectorizer
	Classifier *NaiveBayes
}

// NewPipeline returns a fresh, unfitted pipeline with default settings.
func NewPipeline() *Pipeline {
	return &Pipeline{
		Vectorizer: NewVectorizer(),
		Classifier: NewNaiveBayes(),
	}
}

// Fit trains the pipeline on parallel slices of feature texts and labels.
func (p *Pipeline) Fit(texts, labels []string) error {
	if len(texts) != len(labels) {
		return fmt.Errorf("text count %d does not match label count %d", len(texts), len(labels))
	}
	if len(texts) == 0 {
		return fmt.Errorf("cannot fit pipeline on empty training set")
	}

	if err := p.Vectorizer.Fit(texts); err != nil {
		return fmt.Errorf("failed to fit vectorizer: %w", err)
	}

	vectors := make([]map[int]float64, len(texts))
	for i, text := range texts {
		vectors[i] = p.Vectorizer.Transform(text)
	}

	if err := p.Classifier.Fit(vectors, labels, len(p.Vectorizer.Vocabulary)); err != nil {
		return fmt.Errorf("failed to fit classifier: %w", err)
	}
	return nil
}

// Fitted reports whether the pipeline has been trained.
func (p *Pipeline) Fitted() bool {
	return p.Classifier != nil && len(p.Classifier.Classes) > 0
}

// Labels returns the class labels seen during fitting, in the column order
// used by PredictProba.
func (p *Pipeline) Labels() []string {
	if !p.Fitted() {
		return nil
	}
	return p.Classifier.Classes
}

// PredictProba returns, for each text, a probability distribution over the
// fitted labels summing to 1.
func (p *Pipeline) PredictProba(texts []string) ([][]float64, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	probs := make([][]float64, len(texts))
	for i, text := range texts {
		probs[i] = p.Classifier.Proba(p.Vectorizer.Transform(text))
	}
	return probs, nil
}

// Predict returns the most probable label for each text.
func (p *Pipeline) Predict(texts []string) ([]string, error) {
	probs, err := p.PredictProba(texts)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(texts))
	for i, dist := range probs {
		labels[i] = p.Classifier.Classes[argmax(dist)]
	}
	return labels, nil
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// Encode serializes the fitted pipeline to w as an opaque blob.
func (p *Pipeline) Encode(w io.Writer) error {
	if !p.Fitted() {
		return ErrNotFitted
	}
	if err := gob.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("failed to encode pipeline: %w", err)
	}
	return nil
}

// Decode reads a pipeline previously written by Encode.
func Decode(r io.Reader) (*Pipeline, error) {
	var p Pipeline
	if err := gob.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode pipeline: %w", err)
	}
	return &p, nil
}
