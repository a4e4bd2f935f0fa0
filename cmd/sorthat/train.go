package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/the-sorting-hat/internal/cli"
	"github.com/Veraticus/the-sorting-hat/internal/config"
	"github.com/Veraticus/the-sorting-hat/internal/storage"
	"github.com/Veraticus/the-sorting-hat/internal/trainer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the classifier on exported transactions",
		Long: `Train a fresh classification model on the exported training corpus.

The fitted model and the category map are persisted for the predict command,
and cross-validated accuracy is reported.`,
		RunE: runTrain,
	}

	cmd.Flags().Int("min-samples", trainer.DefaultMinSamples, "minimum usable transactions required to train")
	_ = viper.BindPFlag("training.min_samples", cmd.Flags().Lookup("min-samples"))

	return cmd
}

func runTrain(cmd *cobra.Command, _ []string) error {
	corpusPath := config.ExpandPath(viper.GetString("data.corpus"))

	slog.Info("loading training corpus", "path", corpusPath)
	corpus, err := storage.LoadCorpus(corpusPath)
	if err != nil {
		return err
	}

	result, err := trainer.Train(corpus, trainer.Options{
		MinSamples: viper.GetInt("training.min_samples"),
	})
	if err != nil {
		return err
	}

	modelPath := config.ExpandPath(viper.GetString("data.model"))
	categoriesPath := config.ExpandPath(viper.GetString("data.categories"))
	if err := result.Save(modelPath, categoriesPath); err != nil {
		return fmt.Errorf("failed to save artifacts: %w", err)
	}

	cmd.Print(cli.RenderTrainingSummary(result, modelPath, categoriesPath))
	return nil
}
