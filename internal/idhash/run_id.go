package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"retail-sales-lab/internal/domain"
)

// RunIDLength is the number of hex characters kept from the digest.
const RunIDLength = 12

// TransactionKey is the canonical text form of a cleaned row.
// Formula: invoice|stock|description|quantity|invoice_date(UTC, RFC3339 nanos)|unit_price|customer|country
func TransactionKey(tx *domain.CleanedTransaction) string {
	return fmt.Sprintf("%s|%s|%s|%d|%s|%s|%s|%s",
		tx.InvoiceNo,
		tx.StockCode,
		tx.Description,
		tx.Quantity,
		tx.InvoiceDate.UTC().Format("2006-01-02T15:04:05.999999999Z"),
		tx.UnitPrice.String(),
		tx.CustomerID,
		tx.Country,
	)
}

// ComputeRunID computes a deterministic run id using SHA256 over the
// TransactionKey of every row, in order. Returns the first RunIDLength hex chars.
func ComputeRunID(txs []domain.CleanedTransaction) string {
	h := sha256.New()
	h.Write([]byte("TRANSACTIONS\n"))
	for i := range txs {
		h.Write([]byte(TransactionKey(&txs[i])))
		h.Write([]byte("\n"))
	}
	return hex.EncodeToString(h.Sum(nil))[:RunIDLength]
}
