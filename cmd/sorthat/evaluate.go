package main

import (
	"log/slog"

	"github.com/Veraticus/the-sorting-hat/internal/cli"
	"github.com/Veraticus/the-sorting-hat/internal/config"
	"github.com/Veraticus/the-sorting-hat/internal/evaluator"
	"github.com/Veraticus/the-sorting-hat/internal/model"
	"github.com/Veraticus/the-sorting-hat/internal/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Estimate classifier accuracy with an even/odd split",
		Long: `Estimate real-world accuracy by splitting the labeled corpus into even and
odd positions, training two independent models, and testing each on the
opposite half. Reports per-category accuracy, confidence statistics, and the
most confident misclassifications. Nothing is persisted.`,
		RunE: runEvaluate,
	}

	cmd.Flags().Float64("production-threshold", evaluator.DefaultProductionThreshold, "combined accuracy needed for the production-ready tier")
	cmd.Flags().Float64("usable-threshold", evaluator.DefaultUsableThreshold, "combined accuracy needed for the usable tier")

	_ = viper.BindPFlag("evaluate.production_threshold", cmd.Flags().Lookup("production-threshold"))
	_ = viper.BindPFlag("evaluate.usable_threshold", cmd.Flags().Lookup("usable-threshold"))

	return cmd
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	corpusPath := config.ExpandPath(viper.GetString("data.corpus"))

	slog.Info("loading training corpus", "path", corpusPath)
	corpus, err := storage.LoadCorpus(corpusPath)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	var barCycle string
	report, err := evaluator.Run(corpus, evaluator.Config{
		ProductionThreshold: viper.GetFloat64("evaluate.production_threshold"),
		UsableThreshold:     viper.GetFloat64("evaluate.usable_threshold"),
		OnProgress: func(cycle string, done, total int) {
			if cycle != barCycle {
				bar = cli.NewProgressBar(total, "Evaluating: "+cycle)
				barCycle = cycle
			}
			_ = bar.Set(done)
		},
	})
	if err != nil {
		return err
	}

	cmd.Print(cli.RenderEvaluationReport(report, model.NewCategoryMap(corpus.Categories)))
	return nil
}
