// Package storage handles the on-disk artifacts of the classifier (training
// corpus, fitted model, category map) and the export path out of an Actual
// Budget ledger file.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/the-sorting-hat/internal/classifier"
	"github.com/Veraticus/the-sorting-hat/internal/common"
	"github.com/Veraticus/the-sorting-hat/internal/model"
)

// LoadCorpus reads a training corpus JSON file.
func LoadCorpus(path string) (*model.TrainingCorpus, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", path, common.ErrCorpusNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	var corpus model.TrainingCorpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, common.NewMalformedDataError("training corpus", err)
	}

	slog.Debug("loaded training corpus",
		"path", path,
		"transactions", len(corpus.Transactions),
		"categories", len(corpus.Categories))
	return &corpus, nil
}

// SaveCorpus writes a training corpus as indented JSON, creating parent
// directories as needed.
func SaveCorpus(path string, corpus *model.TrainingCorpus) error {
	data, err := json.MarshalIndent(corpus, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal corpus: %w", err)
	}
	return writeFile(path, data)
}

// SaveModel persists a fitted pipeline as an opaque blob.
func SaveModel(path string, pipeline *classifier.Pipeline) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("Failed to close model file", "error", closeErr)
		}
	}()

	if err := pipeline.Encode(f); err != nil {
		return fmt.Errorf("failed to write model to %s: %w", path, err)
	}
	return nil
}

// LoadModel reads a pipeline persisted by SaveModel.
func LoadModel(path string) (*classifier.Pipeline, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", path, common.ErrModelNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("Failed to close model file", "error", closeErr)
		}
	}()

	pipeline, err := classifier.Decode(f)
	if err != nil {
		return nil, common.NewMalformedDataError("model artifact", err)
	}
	return pipeline, nil
}

// SaveCategoryMap writes the id→name map as indented JSON.
func SaveCategoryMap(path string, categories model.CategoryMap) error {
	data, err := json.MarshalIndent(categories, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal category map: %w", err)
	}
	return writeFile(path, data)
}

// LoadCategoryMap reads a category map persisted by SaveCategoryMap.
func LoadCategoryMap(path string) (model.CategoryMap, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", path, common.ErrCategoryMapNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read category map: %w", err)
	}

	var categories model.CategoryMap
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, common.NewMalformedDataError("category map", err)
	}
	return categories, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
