// Package evaluator estimates real-world classifier accuracy with a
// deterministic two-way split of the labeled corpus and surfaces the model's
// specific failure modes.
package evaluator

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/Veraticus/the-sorting-hat/internal/classifier"
	"github.com/Veraticus/the-sorting-hat/internal/common"
	"github.com/Veraticus/the-sorting-hat/internal/feature"
	"github.com/Veraticus/the-sorting-hat/internal/model"
	"github.com/Veraticus/the-sorting-hat/internal/trainer"
)

// Default evaluation policy: two training cycles need twice the trainer's
// minimum, and the recommendation tiers preserve the historical thresholds.
const (
	DefaultMinTransactions     = 20
	DefaultProductionThreshold = 0.85
	DefaultUsableThreshold     = 0.70
)

// Recommendation is the coarse quality tier derived from combined accuracy.
type Recommendation string

// Recommendation tiers.
const (
	RecommendationProduction  Recommendation = "production-ready"
	RecommendationNeedsData   Recommendation = "usable, needs more data"
	RecommendationLowAccuracy Recommendation = "low accuracy, needs more/better labeled data"
)

// Config controls an evaluation run. Zero values fall back to defaults.
type Config struct {
	// OnProgress, when set, is called after each test example of a cycle.
	OnProgress          func(cycle string, done, total int)
	MinTransactions     int
	ProductionThreshold float64
	UsableThreshold     float64
}

func (c *Config) applyDefaults() {
	if c.MinTransactions <= 0 {
		c.MinTransactions = DefaultMinTransactions
	}
	if c.ProductionThreshold <= 0 {
		c.ProductionThreshold = DefaultProductionThreshold
	}
	if c.UsableThreshold <= 0 {
		c.UsableThreshold = DefaultUsableThreshold
	}
}

// Failure is one misclassified test example. Expected and Predicted are
// category ids; Notes has any annotation segment already stripped.
type Failure struct {
	Payee      string
	Notes      string
	Expected   string
	Predicted  string
	Amount     float64
	Confidence float64
}

// ConfusionPair counts how often one category was mistaken for another,
// keyed by resolved display names.
type ConfusionPair struct {
	Expected  string
	Predicted string
	Count     int
}

// CycleResult holds the metrics of one train/test cycle.
type CycleResult struct {
	CategoryAccuracy  map[string]float64
	CategoryCounts    map[string]int
	Name              string
	Failures          []Failure
	Confusions        []ConfusionPair
	TrainCount        int
	TestCount         int
	Correct           int
	Wrong             int
	Accuracy          float64
	ConfidenceCorrect float64
	ConfidenceWrong   float64
}

// Report is the full outcome of a two-cycle evaluation.
type Report struct {
	UnknownCategories map[string]int
	Recommendation    Recommendation
	Cycles            [2]CycleResult
	UsableCount       int
	CategoryCount     int
	CombinedAccuracy  float64
}

// Run filters the corpus to usable transactions, splits them by positional
// parity, and executes both train/test cycles with independent pipelines.
// Nothing is persisted.
func Run(corpus *model.TrainingCorpus, cfg Config) (*Report, error) {
	cfg.applyDefaults()

	categories := model.NewCategoryMap(corpus.Categories)
	usable, unknown := trainer.FilterUsable(corpus.Transactions, categories)

	for id, count := range unknown {
		slog.Warn("transactions reference a category id missing from the category table",
			"category_id", id,
			"count", count)
	}

	if len(usable) < cfg.MinTransactions {
		return nil, common.NewInsufficientDataError(len(usable), cfg.MinTransactions)
	}

	var even, odd []model.Transaction
	for i, tx := range usable {
		if i%2 == 0 {
			even = append(even, tx)
		} else {
			odd = append(odd, tx)
		}
	}
	slog.Info("split corpus for evaluation", "even", len(even), "odd", len(odd))

	report := &Report{
		UnknownCategories: unknown,
		UsableCount:       len(usable),
		CategoryCount:     distinctCategories(usable),
	}

	cycle1, err := runCycle("train even, test odd", even, odd, categories, cfg.OnProgress)
	if err != nil {
		return nil, err
	}
	cycle2, err := runCycle("train odd, test even", odd, even, categories, cfg.OnProgress)
	if err != nil {
		return nil, err
	}

	report.Cycles = [2]CycleResult{cycle1, cycle2}
	report.CombinedAccuracy = (cycle1.Accuracy + cycle2.Accuracy) / 2
	report.Recommendation = tierFor(report.CombinedAccuracy, cfg)
	return report, nil
}

func runCycle(name string, trainTxs, testTxs []model.Transaction, categories model.CategoryMap, onProgress func(string, int, int)) (CycleResult, error) {
	trainTexts, trainLabels := trainer.Dataset(trainTxs)

	// A fresh pipeline per cycle: the two fits must never share state.
	pipeline := classifier.NewPipeline()
	if err := pipeline.Fit(trainTexts, trainLabels); err != nil {
		return CycleResult{}, fmt.Errorf("%s: %w", name, err)
	}
	labels := pipeline.Labels()

	result := CycleResult{
		Name:             name,
		TrainCount:       len(trainTxs),
		TestCount:        len(testTxs),
		CategoryAccuracy: make(map[string]float64),
		CategoryCounts:   make(map[string]int),
	}

	correctByCategory := make(map[string]int)
	var confidenceCorrectSum, confidenceWrongSum float64

	for i, tx := range testTxs {
		probs, err := pipeline.PredictProba([]string{feature.Encode(tx)})
		if err != nil {
			return CycleResult{}, fmt.Errorf("%s: %w", name, err)
		}

		best := 0
		for j, p := range probs[0] {
			if p > probs[0][best] {
				best = j
			}
		}
		predicted := labels[best]
		confidence := probs[0][best]

		result.CategoryCounts[tx.Category]++
		if predicted == tx.Category {
			result.Correct++
			correctByCategory[tx.Category]++
			confidenceCorrectSum += confidence
		} else {
			result.Wrong++
			confidenceWrongSum += confidence
			result.Failures = append(result.Failures, Failure{
				Payee:      failurePayee(tx),
				Notes:      feature.CleanNotes(tx.Notes),
				Amount:     tx.Amount,
				Expected:   tx.Category,
				Predicted:  predicted,
				Confidence: confidence,
			})
		}

		if onProgress != nil {
			onProgress(name, i+1, len(testTxs))
		}
	}

	result.Accuracy = float64(result.Correct) / float64(result.TestCount)
	if result.Correct > 0 {
		result.ConfidenceCorrect = confidenceCorrectSum / float64(result.Correct)
	}
	if result.Wrong > 0 {
		result.ConfidenceWrong = confidenceWrongSum / float64(result.Wrong)
	}
	for id, total := range result.CategoryCounts {
		result.CategoryAccuracy[id] = float64(correctByCategory[id]) / float64(total)
	}

	// Most confident mistakes first: those point at labeling problems.
	sort.SliceStable(result.Failures, func(i, j int) bool {
		return result.Failures[i].Confidence > result.Failures[j].Confidence
	})
	result.Confusions = confusionPairs(result.Failures, categories)

	slog.Info("evaluation cycle complete",
		"cycle", name,
		"accuracy", result.Accuracy,
		"correct", result.Correct,
		"wrong", result.Wrong)
	return result, nil
}

// failurePayee mirrors the encoder's fallback chain but labels a fully empty
// payee explicitly for the diagnostic listing.
func failurePayee(tx model.Transaction) string {
	if payee := feature.ResolvePayee(tx.PayeeName, tx.ImportedPayee); payee != "" {
		return payee
	}
	return "Unknown"
}

func confusionPairs(failures []Failure, categories model.CategoryMap) []ConfusionPair {
	counts := make(map[[2]string]int)
	for _, f := range failures {
		key := [2]string{categories.Resolve(f.Expected), categories.Resolve(f.Predicted)}
		counts[key]++
	}

	pairs := make([]ConfusionPair, 0, len(counts))
	for key, count := range counts {
		pairs = append(pairs, ConfusionPair{Expected: key[0], Predicted: key[1], Count: count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		if pairs[i].Expected != pairs[j].Expected {
			return pairs[i].Expected < pairs[j].Expected
		}
		return pairs[i].Predicted < pairs[j].Predicted
	})
	return pairs
}

func tierFor(accuracy float64, cfg Config) Recommendation {
	switch {
	case accuracy >= cfg.ProductionThreshold:
		return RecommendationProduction
	case accuracy >= cfg.UsableThreshold:
		return RecommendationNeedsData
	default:
		return RecommendationLowAccuracy
	}
}

func distinctCategories(transactions []model.Transaction) int {
	seen := make(map[string]struct{})
	for _, tx := range transactions {
		seen[tx.Category] = struct{}{}
	}
	return len(seen)
}
