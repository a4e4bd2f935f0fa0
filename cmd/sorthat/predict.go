package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/the-sorting-hat/internal/common"
	"github.com/Veraticus/the-sorting-hat/internal/config"
	"github.com/Veraticus/the-sorting-hat/internal/model"
	"github.com/Veraticus/the-sorting-hat/internal/predictor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict categories using the trained model",
		Long: `Predict budget categories for transactions using the persisted model.

By default a batch request is read from stdin as JSON:
  {"transactions": [{"index": 0, "payee_name": "...", "amount": -12.5}, ...]}
and a JSON array of predictions is written to stdout, one entry per input in
input order.

With --payee (and optionally --notes, --amount) a single prediction is made
instead.

Examples:
  cat batch.json | sorthat predict
  sorthat predict --payee "Trader Joe's" --amount -42.50`,
		RunE: runPredict,
	}

	cmd.Flags().String("payee", "", "payee for a single prediction")
	cmd.Flags().String("notes", "", "notes for a single prediction")
	cmd.Flags().Float64("amount", 0, "signed amount for a single prediction")

	return cmd
}

func runPredict(cmd *cobra.Command, _ []string) error {
	modelPath := config.ExpandPath(viper.GetString("data.model"))
	categoriesPath := config.ExpandPath(viper.GetString("data.categories"))

	p, err := predictor.New(modelPath, categoriesPath)
	if err != nil {
		return err
	}

	if payee, _ := cmd.Flags().GetString("payee"); payee != "" {
		notes, _ := cmd.Flags().GetString("notes")
		amount, _ := cmd.Flags().GetFloat64("amount")
		return predictSingle(cmd, p, payee, notes, amount)
	}
	return predictBatch(cmd, p)
}

func predictSingle(cmd *cobra.Command, p *predictor.Predictor, payee, notes string, amount float64) error {
	prediction, err := p.PredictOne(payee, notes, amount)
	if err != nil {
		return err
	}
	return writeJSON(cmd, prediction)
}

func predictBatch(cmd *cobra.Command, p *predictor.Predictor) error {
	var request model.BatchRequest
	if err := json.NewDecoder(cmd.InOrStdin()).Decode(&request); err != nil {
		return common.NewMalformedDataError("batch request", err)
	}

	slog.Debug("predicting batch", "transactions", len(request.Transactions))
	results, err := p.PredictBatch(request.Transactions)
	if err != nil {
		return err
	}
	return writeJSON(cmd, results)
}

func writeJSON(cmd *cobra.Command, v any) error {
	if err := json.NewEncoder(cmd.OutOrStdout()).Encode(v); err != nil {
		return fmt.Errorf("failed to write predictions: %w", err)
	}
	return nil
}
