// Package trainer builds labeled datasets from an exported corpus and fits
// fresh classification pipelines, reporting cross-validated accuracy.
package trainer

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/the-sorting-hat/internal/classifier"
	"github.com/Veraticus/the-sorting-hat/internal/common"
	"github.com/Veraticus/the-sorting-hat/internal/feature"
	"github.com/Veraticus/the-sorting-hat/internal/model"
	"github.com/Veraticus/the-sorting-hat/internal/storage"
)

// DefaultMinSamples is the minimum number of usable labeled transactions
// required to train a useful model.
const DefaultMinSamples = 10

// MaxFolds caps the cross-validation fold count; fewer folds are used when
// class cardinality is below it.
const MaxFolds = 5

// Options configures a training run.
type Options struct {
	// MinSamples overrides DefaultMinSamples when positive.
	MinSamples int
}

// Result holds the outputs of one training run.
type Result struct {
	Pipeline          *classifier.Pipeline
	Categories        model.CategoryMap
	UnknownCategories map[string]int
	CVAccuracy        float64
	UsableCount       int
	LabelCount        int
}

// FilterUsable returns the transactions eligible for training, preserving
// corpus order: categorized, category id present in the map, and non-empty
// encoded text. Transactions referencing an unmapped category id are counted
// per id so the anomaly can be reported rather than silently dropped.
func FilterUsable(transactions []model.Transaction, categories model.CategoryMap) ([]model.Transaction, map[string]int) {
	usable := make([]model.Transaction, 0, len(transactions))
	unknown := make(map[string]int)

	for _, tx := range transactions {
		if !tx.Categorized() {
			continue
		}
		if _, ok := categories.Lookup(tx.Category); !ok {
			unknown[tx.Category]++
			continue
		}
		if feature.Encode(tx) == "" {
			continue
		}
		usable = append(usable, tx)
	}
	return usable, unknown
}

// Dataset encodes transactions into parallel (text, label) slices.
func Dataset(transactions []model.Transaction) ([]string, []string) {
	texts := make([]string, len(transactions))
	labels := make([]string, len(transactions))
	for i, tx := range transactions {
		texts[i] = feature.Encode(tx)
		labels[i] = tx.Category
	}
	return texts, labels
}

// Train fits a fresh pipeline on all usable transactions in the corpus and
// computes cross-validated accuracy. It fails with an InsufficientDataError
// when too few usable labeled examples remain after filtering.
func Train(corpus *model.TrainingCorpus, opts Options) (*Result, error) {
	minSamples := opts.MinSamples
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}

	categories := model.NewCategoryMap(corpus.Categories)
	usable, unknown := FilterUsable(corpus.Transactions, categories)

	for id, count := range unknown {
		slog.Warn("transactions reference a category id missing from the category table",
			"category_id", id,
			"count", count)
	}

	if len(usable) < minSamples {
		return nil, common.NewInsufficientDataError(len(usable), minSamples)
	}

	texts, labels := Dataset(usable)
	labelCount := distinctCount(labels)
	slog.Info("training classifier",
		"examples", len(texts),
		"categories", labelCount)

	pipeline := classifier.NewPipeline()
	if err := pipeline.Fit(texts, labels); err != nil {
		return nil, fmt.Errorf("failed to train pipeline: %w", err)
	}

	accuracy, err := CrossValidate(texts, labels)
	if err != nil {
		return nil, fmt.Errorf("cross-validation failed: %w", err)
	}

	return &Result{
		Pipeline:          pipeline,
		Categories:        categories,
		UnknownCategories: unknown,
		CVAccuracy:        accuracy,
		UsableCount:       len(usable),
		LabelCount:        labelCount,
	}, nil
}

// CrossValidate estimates accuracy with k-fold validation over the dataset in
// order, k = min(MaxFolds, distinct labels). A single-label dataset cannot be
// folded; its one class is trivially always predicted, so accuracy is 1.
func CrossValidate(texts, labels []string) (float64, error) {
	folds := distinctCount(labels)
	if folds > MaxFolds {
		folds = MaxFolds
	}
	if folds > len(texts) {
		folds = len(texts)
	}
	if folds < 2 {
		slog.Warn("skipping cross-validation, need at least 2 distinct labels")
		return 1.0, nil
	}

	n := len(texts)
	var totalScore float64
	for f := 0; f < folds; f++ {
		start := f * n / folds
		end := (f + 1) * n / folds

		trainTexts := make([]string, 0, n-(end-start))
		trainLabels := make([]string, 0, n-(end-start))
		trainTexts = append(trainTexts, texts[:start]...)
		trainTexts = append(trainTexts, texts[end:]...)
		trainLabels = append(trainLabels, labels[:start]...)
		trainLabels = append(trainLabels, labels[end:]...)

		pipeline := classifier.NewPipeline()
		if err := pipeline.Fit(trainTexts, trainLabels); err != nil {
			return 0, fmt.Errorf("fold %d: %w", f, err)
		}
		predicted, err := pipeline.Predict(texts[start:end])
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", f, err)
		}

		correct := 0
		for i, label := range labels[start:end] {
			if predicted[i] == label {
				correct++
			}
		}
		totalScore += float64(correct) / float64(end-start)
	}
	return totalScore / float64(folds), nil
}

// Save persists the fitted model and category map artifacts.
func (r *Result) Save(modelPath, categoriesPath string) error {
	if err := storage.SaveModel(modelPath, r.Pipeline); err != nil {
		return err
	}
	if err := storage.SaveCategoryMap(categoriesPath, r.Categories); err != nil {
		return err
	}
	slog.Info("saved model artifacts", "model", modelPath, "categories", categoriesPath)
	return nil
}

func distinctCount(labels []string) int {
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		seen[label] = struct{}{}
	}
	return len(seen)
}
