package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newBudgetFixture creates a minimal Actual Budget database with the tables
// the exporter reads.
func newBudgetFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db.sqlite")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()

	schema := `
		CREATE TABLE categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			tombstone INTEGER DEFAULT 0
		);
		CREATE TABLE payees (
			id TEXT PRIMARY KEY,
			name TEXT,
			tombstone INTEGER DEFAULT 0
		);
		CREATE TABLE accounts (
			id TEXT PRIMARY KEY,
			name TEXT,
			offbudget INTEGER DEFAULT 0,
			tombstone INTEGER DEFAULT 0
		);
		CREATE TABLE transactions (
			id TEXT PRIMARY KEY,
			acct TEXT,
			description TEXT,
			imported_description TEXT,
			notes TEXT,
			amount INTEGER,
			category TEXT,
			date INTEGER,
			is_parent INTEGER DEFAULT 0,
			tombstone INTEGER DEFAULT 0
		);`
	_, err = db.Exec(schema)
	require.NoError(t, err)

	fixtures := `
		INSERT INTO categories (id, name, tombstone) VALUES
			('cat-food', 'Food', 0),
			('cat-gas', 'Gas', 0),
			('cat-dead', 'Old Category', 1);
		INSERT INTO payees (id, name) VALUES
			('payee-tj', 'Trader Joe''s'),
			('payee-shell', 'Shell');
		INSERT INTO accounts (id, name, offbudget, tombstone) VALUES
			('acct-checking', 'Checking', 0, 0),
			('acct-401k', 'Retirement', 1, 0),
			('acct-closed', 'Closed', 0, 1);
		INSERT INTO transactions
			(id, acct, description, imported_description, notes, amount, category, date, is_parent, tombstone)
		VALUES
			('t1', 'acct-checking', 'payee-tj', 'TRADER JOES #42', 'weekly shop', -4250, 'cat-food', 20240101, 0, 0),
			('t2', 'acct-checking', 'payee-shell', NULL, NULL, -6000, 'cat-gas', 20240102, 0, 0),
			('t3', 'acct-checking', NULL, 'RAW IMPORT', NULL, -100, NULL, 20240103, 0, 0),
			('t4', 'acct-checking', 'payee-tj', NULL, 'split parent', -9999, 'cat-food', 20240104, 1, 0),
			('t5', 'acct-checking', 'payee-tj', NULL, 'deleted', -500, 'cat-food', 20240105, 0, 1),
			('t6', 'acct-401k', 'payee-tj', NULL, 'off budget', -700, 'cat-food', 20240106, 0, 0),
			('t7', 'acct-closed', 'payee-tj', NULL, 'closed account', -800, 'cat-food', 20240107, 0, 0);`
	_, err = db.Exec(fixtures)
	require.NoError(t, err)

	return path
}

func TestExportCorpus(t *testing.T) {
	corpus, err := ExportCorpus(context.Background(), newBudgetFixture(t))
	require.NoError(t, err)

	// Tombstoned categories are excluded; the rest come back ordered by name.
	require.Len(t, corpus.Categories, 2)
	assert.Equal(t, "Food", corpus.Categories[0].Name)
	assert.Equal(t, "Gas", corpus.Categories[1].Name)

	// Split parents, tombstoned rows, off-budget and tombstoned accounts are
	// all filtered out.
	require.Len(t, corpus.Transactions, 3)

	first := corpus.Transactions[0]
	assert.Equal(t, "t1", first.ID)
	assert.Equal(t, "Trader Joe's", first.PayeeName)
	assert.Equal(t, "TRADER JOES #42", first.ImportedPayee)
	assert.Equal(t, "weekly shop", first.Notes)
	assert.InDelta(t, -42.50, first.Amount, 1e-9)
	assert.Equal(t, "cat-food", first.Category)

	second := corpus.Transactions[1]
	assert.Equal(t, "t2", second.ID)
	assert.Equal(t, "Shell", second.PayeeName)
	assert.Empty(t, second.ImportedPayee)
	assert.InDelta(t, -60.00, second.Amount, 1e-9)

	// Uncategorized transactions are exported; filtering is the trainer's job.
	third := corpus.Transactions[2]
	assert.Equal(t, "t3", third.ID)
	assert.Empty(t, third.PayeeName)
	assert.Equal(t, "RAW IMPORT", third.ImportedPayee)
	assert.Empty(t, third.Category)
}

func TestExportCorpus_MissingDatabase(t *testing.T) {
	_, err := ExportCorpus(context.Background(), filepath.Join(t.TempDir(), "nope.sqlite"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
