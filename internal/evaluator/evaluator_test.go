package evaluator

import (
	"fmt"
	"testing"

	"github.com/Veraticus/the-sorting-hat/internal/common"
	"github.com/Veraticus/the-sorting-hat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalCorpus builds n transactions with strongly distinguishing payees,
// arranged in category pairs so both parities of the split contain both
// categories.
func evalCorpus(n int) *model.TrainingCorpus {
	corpus := &model.TrainingCorpus{
		Categories: []model.Category{
			{ID: "cat-food", Name: "Food"},
			{ID: "cat-gas", Name: "Gas"},
		},
	}
	for i := 0; i < n; i++ {
		var tx model.Transaction
		if (i/2)%2 == 0 {
			tx = model.Transaction{
				ID:        fmt.Sprintf("tx-%d", i),
				PayeeName: "Trader Joes Groceries",
				Amount:    -50,
				Category:  "cat-food",
			}
		} else {
			tx = model.Transaction{
				ID:        fmt.Sprintf("tx-%d", i),
				PayeeName: "Shell Gasoline Station",
				Amount:    -40,
				Category:  "cat-gas",
			}
		}
		corpus.Transactions = append(corpus.Transactions, tx)
	}
	return corpus
}

func TestRun_TwoCategoryCorpus(t *testing.T) {
	report, err := Run(evalCorpus(20), Config{})
	require.NoError(t, err)

	assert.Equal(t, 20, report.UsableCount)
	assert.Equal(t, 2, report.CategoryCount)
	assert.Equal(t, 10, report.Cycles[0].TrainCount)
	assert.Equal(t, 10, report.Cycles[0].TestCount)
	assert.Equal(t, 10, report.Cycles[1].TrainCount)
	assert.Equal(t, 10, report.Cycles[1].TestCount)

	// Strongly distinguishing payees should classify near-perfectly.
	assert.GreaterOrEqual(t, report.CombinedAccuracy, 0.9)
	assert.Equal(t, RecommendationProduction, report.Recommendation)
}

func TestRun_CombinedAccuracyIsExactMean(t *testing.T) {
	report, err := Run(evalCorpus(21), Config{})
	require.NoError(t, err)

	want := (report.Cycles[0].Accuracy + report.Cycles[1].Accuracy) / 2
	assert.Equal(t, want, report.CombinedAccuracy)
}

func TestRun_SplitIsDisjointCover(t *testing.T) {
	for _, n := range []int{20, 21, 25} {
		t.Run(fmt.Sprintf("%d transactions", n), func(t *testing.T) {
			report, err := Run(evalCorpus(n), Config{})
			require.NoError(t, err)

			evenCount := report.Cycles[1].TestCount
			oddCount := report.Cycles[0].TestCount
			assert.Equal(t, n, evenCount+oddCount)
			assert.LessOrEqual(t, evenCount-oddCount, 1)
			assert.GreaterOrEqual(t, evenCount-oddCount, 0)
		})
	}
}

func TestRun_InsufficientTransactions(t *testing.T) {
	_, err := Run(evalCorpus(19), Config{})

	var insufficientErr *common.InsufficientDataError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 19, insufficientErr.Found)
	assert.Equal(t, 20, insufficientErr.Required)
}

func TestRun_UnknownCategoriesCountedNotEvaluated(t *testing.T) {
	corpus := evalCorpus(20)
	corpus.Transactions = append(corpus.Transactions,
		model.Transaction{ID: "ghost", PayeeName: "Mystery", Amount: -1, Category: "ghost-id"})

	report, err := Run(corpus, Config{})
	require.NoError(t, err)

	assert.Equal(t, 20, report.UsableCount)
	assert.Equal(t, map[string]int{"ghost-id": 1}, report.UnknownCategories)
}

func TestRun_CategoryAbsentFromTestSubsetOmitted(t *testing.T) {
	// 20 food transactions and a single trailing-position gas pair placed so
	// every gas transaction lands on one parity.
	corpus := &model.TrainingCorpus{
		Categories: []model.Category{
			{ID: "cat-food", Name: "Food"},
			{ID: "cat-gas", Name: "Gas"},
		},
	}
	for i := 0; i < 20; i++ {
		corpus.Transactions = append(corpus.Transactions, model.Transaction{
			ID:        fmt.Sprintf("food-%d", i),
			PayeeName: "Trader Joes Groceries",
			Amount:    -50,
			Category:  "cat-food",
		})
	}
	// Positions 20 and 22 are even: gas only ever appears in the even subset.
	corpus.Transactions = append(corpus.Transactions,
		model.Transaction{ID: "gas-0", PayeeName: "Shell Gasoline", Amount: -40, Category: "cat-gas"},
		model.Transaction{ID: "pad", PayeeName: "Trader Joes Groceries", Amount: -50, Category: "cat-food"},
		model.Transaction{ID: "gas-1", PayeeName: "Shell Gasoline", Amount: -40, Category: "cat-gas"},
	)

	report, err := Run(corpus, Config{})
	require.NoError(t, err)

	// Cycle 1 tests on the odd subset, which contains no gas transactions, so
	// gas must not appear in its per-category accuracy map.
	assert.NotContains(t, report.Cycles[0].CategoryAccuracy, "cat-gas")
	assert.Contains(t, report.Cycles[1].CategoryAccuracy, "cat-gas")
}

func TestRun_FailureDiagnostics(t *testing.T) {
	// Identical payees with conflicting labels force misclassifications.
	corpus := &model.TrainingCorpus{
		Categories: []model.Category{
			{ID: "cat-a", Name: "Alpha"},
			{ID: "cat-b", Name: "Beta"},
		},
	}
	for i := 0; i < 24; i++ {
		category := "cat-a"
		if i%2 == 1 {
			category = "cat-b"
		}
		corpus.Transactions = append(corpus.Transactions, model.Transaction{
			ID:        fmt.Sprintf("tx-%d", i),
			PayeeName: "Ambiguous Vendor",
			Notes:     "recurring [AI: 0.5]",
			Amount:    -10,
			Category:  category,
		})
	}

	report, err := Run(corpus, Config{})
	require.NoError(t, err)

	// Even positions are all cat-a, odd all cat-b: each cycle trains on one
	// label and tests on the other, so every test example fails.
	for _, cycle := range report.Cycles {
		require.Len(t, cycle.Failures, cycle.TestCount)
		assert.Equal(t, 0, cycle.Correct)

		for _, f := range cycle.Failures {
			assert.Equal(t, "Ambiguous Vendor", f.Payee)
			assert.Equal(t, "recurring", f.Notes, "notes must be cleaned of annotations")
			assert.InDelta(t, -10, f.Amount, 1e-9)
		}
		// Sorted by confidence descending.
		for i := 1; i < len(cycle.Failures); i++ {
			assert.GreaterOrEqual(t, cycle.Failures[i-1].Confidence, cycle.Failures[i].Confidence)
		}

		require.Len(t, cycle.Confusions, 1)
		assert.Equal(t, cycle.TestCount, cycle.Confusions[0].Count)
	}

	// Confusion pairs use resolved names.
	first := report.Cycles[0].Confusions[0]
	assert.Contains(t, []string{"Alpha", "Beta"}, first.Expected)
	assert.Contains(t, []string{"Alpha", "Beta"}, first.Predicted)

	assert.Equal(t, RecommendationLowAccuracy, report.Recommendation)
}

func TestRun_ConfidenceSplit(t *testing.T) {
	report, err := Run(evalCorpus(20), Config{})
	require.NoError(t, err)

	for _, cycle := range report.Cycles {
		if cycle.Correct > 0 {
			assert.Greater(t, cycle.ConfidenceCorrect, 0.0)
			assert.LessOrEqual(t, cycle.ConfidenceCorrect, 1.0)
		}
		if cycle.Wrong == 0 {
			assert.Zero(t, cycle.ConfidenceWrong)
		}
	}
}

func TestRun_ProgressCallback(t *testing.T) {
	var calls int
	var lastCycle string
	_, err := Run(evalCorpus(20), Config{
		OnProgress: func(cycle string, done, total int) {
			calls++
			lastCycle = cycle
			assert.LessOrEqual(t, done, total)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 20, calls)
	assert.Equal(t, "train odd, test even", lastCycle)
}

func TestTierFor(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()

	tests := []struct {
		want     Recommendation
		accuracy float64
	}{
		{RecommendationProduction, 0.95},
		{RecommendationProduction, 0.85},
		{RecommendationNeedsData, 0.84},
		{RecommendationNeedsData, 0.70},
		{RecommendationLowAccuracy, 0.69},
		{RecommendationLowAccuracy, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tierFor(tt.accuracy, cfg), "accuracy %v", tt.accuracy)
	}
}

func TestCustomThresholds(t *testing.T) {
	cfg := Config{ProductionThreshold: 0.99, UsableThreshold: 0.5}
	cfg.applyDefaults()

	assert.Equal(t, RecommendationNeedsData, tierFor(0.95, cfg))
	assert.Equal(t, RecommendationLowAccuracy, tierFor(0.4, cfg))
}
