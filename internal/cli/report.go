package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/the-sorting-hat/internal/evaluator"
	"github.com/Veraticus/the-sorting-hat/internal/model"
	"github.com/Veraticus/the-sorting-hat/internal/trainer"
)

const (
	maxCategoryRows = 10
	maxFailureRows  = 15
	maxConfusions   = 10
)

// RenderTrainingSummary formats the outcome of a training run.
func RenderTrainingSummary(result *trainer.Result, modelPath, categoriesPath string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", ChartIcon, TitleStyle.Render("Training complete"))
	fmt.Fprintf(&b, "   Categorized transactions: %d\n", result.UsableCount)
	fmt.Fprintf(&b, "   Categories: %d\n", result.LabelCount)
	fmt.Fprintf(&b, "   Cross-validation accuracy: %s\n", BoldStyle.Render(percent(result.CVAccuracy)))

	renderUnknownCategories(&b, result.UnknownCategories)

	fmt.Fprintf(&b, "\n%s Files created:\n", SaveIcon)
	fmt.Fprintf(&b, "   - %s\n", modelPath)
	fmt.Fprintf(&b, "   - %s\n", categoriesPath)
	return b.String()
}

// RenderEvaluationReport formats the full two-cycle evaluation report.
func RenderEvaluationReport(report *evaluator.Report, categories model.CategoryMap) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", SplitIcon, TitleStyle.Render("Evaluation"))
	fmt.Fprintf(&b, "   Usable transactions: %d across %d categories\n",
		report.UsableCount, report.CategoryCount)
	renderUnknownCategories(&b, report.UnknownCategories)

	for _, cycle := range report.Cycles {
		renderCycle(&b, cycle, categories)
	}

	fmt.Fprintf(&b, "\n%s\n", strings.Repeat("=", 70))
	fmt.Fprintf(&b, "  %s\n", TitleStyle.Render("COMBINED RESULTS"))
	fmt.Fprintf(&b, "%s\n", strings.Repeat("=", 70))
	fmt.Fprintf(&b, "\n%s Average accuracy: %s\n", TargetIcon, BoldStyle.Render(percent(report.CombinedAccuracy)))
	for _, cycle := range report.Cycles {
		fmt.Fprintf(&b, "   %s: %s\n", cycle.Name, percent(cycle.Accuracy))
	}

	fmt.Fprintf(&b, "\n%s Recommendation: %s\n", HintIcon, renderRecommendation(report.Recommendation))
	return b.String()
}

func renderCycle(b *strings.Builder, cycle evaluator.CycleResult, categories model.CategoryMap) {
	fmt.Fprintf(b, "\n%s\n", strings.Repeat("=", 70))
	fmt.Fprintf(b, "  %s\n", TitleStyle.Render(cycle.Name))
	fmt.Fprintf(b, "%s\n", strings.Repeat("=", 70))

	fmt.Fprintf(b, "\n%s Overall accuracy: %s\n", ChartIcon, BoldStyle.Render(percent(cycle.Accuracy)))
	fmt.Fprintf(b, "   Correct: %d / %d\n", cycle.Correct, cycle.TestCount)
	fmt.Fprintf(b, "   Wrong: %d\n", cycle.Wrong)

	fmt.Fprintf(b, "\n   Avg confidence when correct: %s\n", percent(cycle.ConfidenceCorrect))
	fmt.Fprintf(b, "   Avg confidence when wrong: %s\n", percent(cycle.ConfidenceWrong))

	renderCategoryAccuracy(b, cycle, categories)
	renderFailures(b, cycle, categories)
	renderConfusions(b, cycle)
}

func renderCategoryAccuracy(b *strings.Builder, cycle evaluator.CycleResult, categories model.CategoryMap) {
	if len(cycle.CategoryAccuracy) == 0 {
		return
	}

	ids := make([]string, 0, len(cycle.CategoryAccuracy))
	for id := range cycle.CategoryAccuracy {
		ids = append(ids, id)
	}
	// Most frequent test categories first.
	sort.Slice(ids, func(i, j int) bool {
		if cycle.CategoryCounts[ids[i]] != cycle.CategoryCounts[ids[j]] {
			return cycle.CategoryCounts[ids[i]] > cycle.CategoryCounts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > maxCategoryRows {
		ids = ids[:maxCategoryRows]
	}

	fmt.Fprintf(b, "\n   Per-category accuracy (top %d by frequency):\n", maxCategoryRows)
	for _, id := range ids {
		fmt.Fprintf(b, "   %-25s %7s (%d samples)\n",
			truncate(categories.Resolve(id), 25),
			percent(cycle.CategoryAccuracy[id]),
			cycle.CategoryCounts[id])
	}
}

func renderFailures(b *strings.Builder, cycle evaluator.CycleResult, categories model.CategoryMap) {
	if len(cycle.Failures) == 0 {
		return
	}

	fmt.Fprintf(b, "\n%s Failures (showing up to %d, most confident first):\n", ErrorIcon, maxFailureRows)
	fmt.Fprintf(b, "   %-25s %-15s %-15s %s\n", "Payee", "Expected", "Predicted", "Conf")

	failures := cycle.Failures
	if len(failures) > maxFailureRows {
		failures = failures[:maxFailureRows]
	}
	for _, f := range failures {
		fmt.Fprintf(b, "   %-25s %-15s %-15s %s\n",
			truncate(f.Payee, 25),
			truncate(categories.Resolve(f.Expected), 15),
			truncate(categories.Resolve(f.Predicted), 15),
			percent(f.Confidence))
	}
}

func renderConfusions(b *strings.Builder, cycle evaluator.CycleResult) {
	if len(cycle.Confusions) == 0 {
		return
	}

	fmt.Fprintf(b, "\n   Most common confusions:\n")
	confusions := cycle.Confusions
	if len(confusions) > maxConfusions {
		confusions = confusions[:maxConfusions]
	}
	for _, pair := range confusions {
		fmt.Fprintf(b, "   %-20s -> %-20s (%dx)\n",
			truncate(pair.Expected, 20), truncate(pair.Predicted, 20), pair.Count)
	}
}

func renderUnknownCategories(b *strings.Builder, unknown map[string]int) {
	if len(unknown) == 0 {
		return
	}

	total := 0
	for _, count := range unknown {
		total += count
	}
	fmt.Fprintf(b, "   %s %s\n", WarningIcon, WarningStyle.Render(fmt.Sprintf(
		"%d transactions across %d category ids not present in the category table (excluded)",
		total, len(unknown))))
}

func renderRecommendation(rec evaluator.Recommendation) string {
	switch rec {
	case evaluator.RecommendationProduction:
		return SuccessStyle.Render(SuccessIcon + " " + string(rec))
	case evaluator.RecommendationNeedsData:
		return WarningStyle.Render(WarningIcon + " " + string(rec))
	default:
		return ErrorStyle.Render(ErrorIcon + " " + string(rec))
	}
}

func percent(value float64) string {
	return fmt.Sprintf("%.1f%%", value*100)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
