// Package feature converts transactions into the canonical text form the
// classifier trains and predicts on.
package feature

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-sorting-hat/internal/model"
)

// AnnotationMarker introduces the machine-generated annotation segment that
// previous categorization runs may have appended to a transaction's notes.
// Everything from the marker onward is stripped before encoding.
const AnnotationMarker = "[AI:"

// Amount tokens appended to every encoded transaction.
const (
	TokenExpense = "expense"
	TokenIncome  = "income"
)

// ResolvePayee returns the payee text for a transaction using the ordered
// fallback chain: the linked payee name, then the imported payee, then empty.
func ResolvePayee(payeeName, importedPayee string) string {
	if payeeName != "" {
		return payeeName
	}
	if importedPayee != "" {
		return importedPayee
	}
	return ""
}

// CleanNotes strips any annotation segment from notes. If the marker is
// absent the notes are returned unchanged.
func CleanNotes(notes string) string {
	if idx := strings.Index(notes, AnnotationMarker); idx >= 0 {
		return strings.TrimSpace(notes[:idx])
	}
	return notes
}

// AmountToken categorizes an amount as an expense or income token.
func AmountToken(amount float64) string {
	if amount < 0 {
		return TokenExpense
	}
	return TokenIncome
}

// Encode maps one transaction to its feature text. The encoding is
// deterministic and never returns an empty string: a transaction with no
// payee and no notes still yields its amount token.
func Encode(tx model.Transaction) string {
	payee := ResolvePayee(tx.PayeeName, tx.ImportedPayee)
	notes := CleanNotes(tx.Notes)
	text := fmt.Sprintf("%s %s %s", payee, notes, AmountToken(tx.Amount))
	return strings.ToLower(strings.TrimSpace(text))
}
