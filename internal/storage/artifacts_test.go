package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/the-sorting-hat/internal/classifier"
	"github.com/Veraticus/the-sorting-hat/internal/common"
	"github.com/Veraticus/the-sorting-hat/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpusRoundTrip(t *testing.T) {
	corpus := &model.TrainingCorpus{
		Categories: []model.Category{{ID: "c1", Name: "Food"}},
		Transactions: []model.Transaction{
			{ID: "t1", PayeeName: "Cafe", Notes: "latte", Amount: -4.5, Category: "c1"},
			{ID: "t2", ImportedPayee: "EMPLOYER", Amount: 1000},
		},
	}

	path := filepath.Join(t.TempDir(), "nested", "training_data.json")
	require.NoError(t, SaveCorpus(path, corpus))

	loaded, err := LoadCorpus(path)
	require.NoError(t, err)
	assert.Equal(t, corpus, loaded)
}

func TestLoadCorpus_Missing(t *testing.T) {
	_, err := LoadCorpus(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, common.ErrCorpusNotFound)
}

func TestLoadCorpus_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadCorpus(path)
	require.Error(t, err)

	var malformedErr *common.MalformedDataError
	assert.ErrorAs(t, err, &malformedErr)
}

func TestModelRoundTrip(t *testing.T) {
	pipeline := classifier.NewPipeline()
	require.NoError(t, pipeline.Fit(
		[]string{"coffee shop expense", "payroll deposit income"},
		[]string{"food", "salary"},
	))

	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, SaveModel(path, pipeline))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Labels(), loaded.Labels())

	labels, err := loaded.Predict([]string{"coffee shop expense"})
	require.NoError(t, err)
	assert.Equal(t, "food", labels[0])
}

func TestLoadModel_Missing(t *testing.T) {
	_, err := LoadModel(filepath.Join(t.TempDir(), "absent.gob"))
	assert.ErrorIs(t, err, common.ErrModelNotFound)
}

func TestLoadModel_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	_, err := LoadModel(path)
	var malformedErr *common.MalformedDataError
	assert.ErrorAs(t, err, &malformedErr)
}

func TestCategoryMapRoundTrip(t *testing.T) {
	categories := model.CategoryMap{"c1": "Food", "c2": "Gas"}

	path := filepath.Join(t.TempDir(), "categories.json")
	require.NoError(t, SaveCategoryMap(path, categories))

	loaded, err := LoadCategoryMap(path)
	require.NoError(t, err)
	assert.Equal(t, categories, loaded)
}

func TestLoadCategoryMap_Missing(t *testing.T) {
	_, err := LoadCategoryMap(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, common.ErrCategoryMapNotFound)
}
