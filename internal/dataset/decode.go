// Package dataset is the input boundary: it turns tabular data from a file
// or any other loader into typed transaction records, enforcing the column
// contract InvoiceNo, StockCode, Description, Quantity, InvoiceDate,
// UnitPrice, CustomerID, Country.
package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"retail-sales-lab/internal/domain"
)

// Column names required on input.
const (
	ColInvoiceNo   = "InvoiceNo"
	ColStockCode   = "StockCode"
	ColDescription = "Description"
	ColQuantity    = "Quantity"
	ColInvoiceDate = "InvoiceDate"
	ColUnitPrice   = "UnitPrice"
	ColCustomerID  = "CustomerID"
	ColCountry     = "Country"
)

// Columns lists the required columns in source order.
var Columns = []string{
	ColInvoiceNo,
	ColStockCode,
	ColDescription,
	ColQuantity,
	ColInvoiceDate,
	ColUnitPrice,
	ColCustomerID,
	ColCountry,
}

// dateLayouts are tried in order before falling back to an Excel serial date.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04",
	"1/2/06 15:04",
	"01/02/2006 15:04",
	"2006-01-02",
}

// Table is raw tabular data: a header row plus data rows of cell text.
type Table struct {
	Header []string
	Rows   [][]string
}

// Decode validates the header and converts every row to a TransactionRecord.
// Extra columns are ignored. The first missing column or mistyped cell
// aborts decoding with a *SchemaError.
func Decode(t *Table) ([]domain.TransactionRecord, error) {
	idx, err := columnIndex(t.Header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.TransactionRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		if isBlank(row) {
			continue
		}
		rec, err := decodeRow(row, idx, i+2)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// columnIndex maps each required column to its position in header.
func columnIndex(header []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, seen := pos[name]; !seen {
			pos[name] = i
		}
	}

	idx := make(map[string]int, len(Columns))
	for _, col := range Columns {
		i, ok := pos[col]
		if !ok {
			return nil, &SchemaError{Column: col, Reason: "required column missing"}
		}
		idx[col] = i
	}
	return idx, nil
}

func decodeRow(row []string, idx map[string]int, line int) (domain.TransactionRecord, error) {
	cell := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	qtyRaw := cell(ColQuantity)
	qty, err := parseInt(qtyRaw)
	if err != nil {
		return domain.TransactionRecord{}, &SchemaError{Column: ColQuantity, Row: line, Value: qtyRaw, Reason: "not an integer"}
	}

	priceRaw := cell(ColUnitPrice)
	price, err := decimal.NewFromString(priceRaw)
	if err != nil {
		return domain.TransactionRecord{}, &SchemaError{Column: ColUnitPrice, Row: line, Value: priceRaw, Reason: "not a decimal"}
	}

	dateRaw := cell(ColInvoiceDate)
	date, err := parseTimestamp(dateRaw)
	if err != nil {
		return domain.TransactionRecord{}, &SchemaError{Column: ColInvoiceDate, Row: line, Value: dateRaw, Reason: "not a timestamp"}
	}

	customerRaw := cell(ColCustomerID)
	customerID, err := parseIdentifier(customerRaw)
	if err != nil {
		return domain.TransactionRecord{}, &SchemaError{Column: ColCustomerID, Row: line, Value: customerRaw, Reason: err.Error()}
	}

	return domain.TransactionRecord{
		InvoiceNo:   cell(ColInvoiceNo),
		StockCode:   cell(ColStockCode),
		Description: cell(ColDescription),
		Quantity:    qty,
		InvoiceDate: date,
		UnitPrice:   price,
		CustomerID:  customerID,
		Country:     cell(ColCountry),
	}, nil
}

// parseInt accepts plain integers and floats with no fractional part ("6.0").
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}

// parseTimestamp tries the known text layouts, then an Excel serial date.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, err
	}
	return excelize.ExcelDateToTime(serial, false)
}

// parseIdentifier returns nil for missing values. Numeric identifiers
// exported as floats ("17850.0") are normalized to their integer text.
func parseIdentifier(s string) (*string, error) {
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return nil, nil
	}
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			if f != math.Trunc(f) {
				return nil, errNotIdentifier
			}
			s = strconv.FormatInt(int64(f), 10)
		}
	}
	return &s, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
