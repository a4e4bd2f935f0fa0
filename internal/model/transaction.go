package model

// Transaction represents a single transaction exported from the ledger.
// Amounts are signed: negative values are outflows, non-negative are inflows.
type Transaction struct {
	ID            string  `json:"id,omitempty"`
	PayeeName     string  `json:"payee_name,omitempty"`
	ImportedPayee string  `json:"imported_payee,omitempty"` // fallback when no payee is linked
	Notes         string  `json:"notes,omitempty"`
	Category      string  `json:"category,omitempty"` // category id, empty = uncategorized
	Amount        float64 `json:"amount"`
}

// Categorized reports whether the transaction carries a category id.
func (t *Transaction) Categorized() bool {
	return t.Category != ""
}

// TrainingCorpus is the JSON dump produced by the export step: the full
// category table plus every on-budget transaction. Transaction order is
// preserved from the export; the evaluator's deterministic split depends on it.
type TrainingCorpus struct {
	Categories   []Category    `json:"categories"`
	Transactions []Transaction `json:"transactions"`
}
