package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/Veraticus/the-sorting-hat/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// ExportCorpus reads categories and transactions out of an Actual Budget
// SQLite file and assembles the training corpus. Tombstoned rows, off-budget
// accounts, and split parents are excluded; amounts are converted from
// integer cents to dollars. Transaction order (date, then id) is stable so
// the evaluator's positional split is reproducible across exports.
func ExportCorpus(ctx context.Context, dbPath string) (*model.TrainingCorpus, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("budget database %s does not exist", dbPath)
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open budget database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Failed to close budget database", "error", closeErr)
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping budget database: %w", err)
	}

	corpus := &model.TrainingCorpus{}
	if corpus.Categories, err = exportCategories(ctx, db); err != nil {
		return nil, err
	}
	if corpus.Transactions, err = exportTransactions(ctx, db); err != nil {
		return nil, err
	}

	slog.Info("exported training corpus",
		"categories", len(corpus.Categories),
		"transactions", len(corpus.Transactions))
	return corpus, nil
}

func exportCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	query := `
		SELECT id, name
		FROM categories
		WHERE tombstone = 0
		ORDER BY name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("exported categories", "count", len(categories))
	return categories, nil
}

func exportTransactions(ctx context.Context, db *sql.DB) ([]model.Transaction, error) {
	query := `
		SELECT t.id,
		       COALESCE(p.name, ''),
		       COALESCE(t.imported_description, ''),
		       COALESCE(t.notes, ''),
		       t.amount,
		       COALESCE(t.category, '')
		FROM transactions t
		JOIN accounts a ON a.id = t.acct
		LEFT JOIN payees p ON p.id = t.description
		WHERE t.tombstone = 0
		  AND t.is_parent = 0
		  AND a.tombstone = 0
		  AND a.offbudget = 0
		ORDER BY t.date, t.id`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var tx model.Transaction
		var cents int64
		if err := rows.Scan(&tx.ID, &tx.PayeeName, &tx.ImportedPayee, &tx.Notes, &cents, &tx.Category); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Amount = float64(cents) / 100
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	slog.Debug("exported transactions", "count", len(transactions))
	return transactions, nil
}
