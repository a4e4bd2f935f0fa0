package model

// Prediction is the outcome of classifying a single transaction.
type Prediction struct {
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Confidence   float64 `json:"confidence"`
}

// BatchRequest is the batch inference input protocol: a set of transactions,
// each tagged with a caller-assigned correlation index.
type BatchRequest struct {
	Transactions []BatchTransaction `json:"transactions"`
}

// BatchTransaction is one entry in a batch inference request.
type BatchTransaction struct {
	PayeeName     string  `json:"payee_name,omitempty"`
	ImportedPayee string  `json:"imported_payee,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	Index         int     `json:"index"`
	Amount        float64 `json:"amount"`
}

// BatchResult is one entry in a batch inference response. CategoryID and
// CategoryName are nil when the transaction could not be classified (empty
// payee and notes) or, for the name only, when the predicted id has no entry
// in the category map.
type BatchResult struct {
	CategoryID   *string `json:"category_id"`
	CategoryName *string `json:"category_name"`
	Index        int     `json:"index"`
	Confidence   float64 `json:"confidence"`
}
