// Package predictor serves batch inference requests against a persisted
// model. Artifacts are loaded exactly once; all state is immutable after
// construction, so concurrent read-only use needs no locking.
package predictor

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/the-sorting-hat/internal/classifier"
	"github.com/Veraticus/the-sorting-hat/internal/feature"
	"github.com/Veraticus/the-sorting-hat/internal/model"
	"github.com/Veraticus/the-sorting-hat/internal/storage"
)

// UnknownCategoryName is returned when a predicted id has no entry in the
// category map.
const UnknownCategoryName = "Unknown"

// Predictor holds one loaded model and category map.
type Predictor struct {
	pipeline   *classifier.Pipeline
	categories model.CategoryMap
}

// New loads the persisted model and category map. A missing model is a fatal
// precondition and surfaces as common.ErrModelNotFound.
func New(modelPath, categoriesPath string) (*Predictor, error) {
	pipeline, err := storage.LoadModel(modelPath)
	if err != nil {
		return nil, err
	}
	categories, err := storage.LoadCategoryMap(categoriesPath)
	if err != nil {
		return nil, err
	}

	slog.Debug("loaded model artifacts",
		"labels", len(pipeline.Labels()),
		"categories", len(categories))
	return &Predictor{pipeline: pipeline, categories: categories}, nil
}

// PredictOne classifies a single transaction described by its parts and
// returns the top category with its confidence.
func (p *Predictor) PredictOne(payee, notes string, amount float64) (model.Prediction, error) {
	text := feature.Encode(model.Transaction{
		PayeeName: payee,
		Notes:     notes,
		Amount:    amount,
	})

	id, confidence, err := p.classify(text)
	if err != nil {
		return model.Prediction{}, err
	}

	name, ok := p.categories.Lookup(id)
	if !ok {
		name = UnknownCategoryName
	}
	return model.Prediction{
		CategoryID:   id,
		CategoryName: name,
		Confidence:   confidence,
	}, nil
}

// PredictBatch classifies every transaction in the request, preserving each
// input's correlation index in its output record. Transactions with neither
// payee nor notes skip the model entirely and come back with a null category
// and zero confidence.
func (p *Predictor) PredictBatch(transactions []model.BatchTransaction) ([]model.BatchResult, error) {
	results := make([]model.BatchResult, len(transactions))

	for i, tx := range transactions {
		results[i] = model.BatchResult{Index: tx.Index}

		payee := feature.ResolvePayee(tx.PayeeName, tx.ImportedPayee)
		notes := feature.CleanNotes(tx.Notes)
		if payee == "" && notes == "" {
			// Nothing but the amount token to go on; a prediction would be
			// noise.
			continue
		}

		text := feature.Encode(model.Transaction{
			PayeeName:     tx.PayeeName,
			ImportedPayee: tx.ImportedPayee,
			Notes:         tx.Notes,
			Amount:        tx.Amount,
		})
		id, confidence, err := p.classify(text)
		if err != nil {
			return nil, fmt.Errorf("transaction index %d: %w", tx.Index, err)
		}

		results[i].CategoryID = &id
		results[i].Confidence = confidence
		if name, ok := p.categories.Lookup(id); ok {
			results[i].CategoryName = &name
		}
	}
	return results, nil
}

func (p *Predictor) classify(text string) (string, float64, error) {
	probs, err := p.pipeline.PredictProba([]string{text})
	if err != nil {
		return "", 0, err
	}

	labels := p.pipeline.Labels()
	best := 0
	for j, prob := range probs[0] {
		if prob > probs[0][best] {
			best = j
		}
	}
	return labels[best], probs[0][best], nil
}
