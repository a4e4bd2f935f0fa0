package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/the-sorting-hat/internal/config"
	"github.com/Veraticus/the-sorting-hat/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export categorized transactions for training",
		Long: `Export the category table and all on-budget transactions from an Actual
Budget database file into the training corpus JSON.

Examples:
  sorthat export --budget-db ~/budgets/My-Finances/db.sqlite
  sorthat export --budget-db db.sqlite --output training_data.json`,
		RunE: runExport,
	}

	cmd.Flags().String("budget-db", "", "path to the Actual Budget db.sqlite file")
	cmd.Flags().StringP("output", "o", "", "corpus output path (default: data.corpus config)")

	_ = viper.BindPFlag("export.budget_db", cmd.Flags().Lookup("budget-db"))
	_ = viper.BindPFlag("export.output", cmd.Flags().Lookup("output"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	dbPath := config.ExpandPath(viper.GetString("export.budget_db"))
	if dbPath == "" {
		return fmt.Errorf("no budget database configured, set --budget-db or export.budget_db")
	}

	outPath := config.ExpandPath(viper.GetString("export.output"))
	if outPath == "" {
		outPath = config.ExpandPath(viper.GetString("data.corpus"))
	}

	slog.Info("exporting transactions", "budget_db", dbPath)
	corpus, err := storage.ExportCorpus(cmd.Context(), dbPath)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if err := storage.SaveCorpus(outPath, corpus); err != nil {
		return fmt.Errorf("failed to write corpus: %w", err)
	}

	cmd.Printf("Exported %d transactions and %d categories to %s\n",
		len(corpus.Transactions), len(corpus.Categories), outPath)
	return nil
}
