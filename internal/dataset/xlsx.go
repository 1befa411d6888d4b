package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"retail-sales-lab/internal/domain"
)

// DefaultSheet is the worksheet name of the canonical retail workbook.
const DefaultSheet = "Online Retail"

// ReadXLSX reads a worksheet into a Table. Cells are read raw, so dates
// arrive as Excel serial numbers and prices keep full precision.
// An empty sheet name selects the first sheet.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("workbook %s: sheet %q not found", path, sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return tableFromRows(rows), nil
}

// LoadXLSX reads and decodes a worksheet.
func LoadXLSX(path, sheet string) ([]domain.TransactionRecord, error) {
	t, err := ReadXLSX(path, sheet)
	if err != nil {
		return nil, err
	}
	return Decode(t)
}

func tableFromRows(rows [][]string) *Table {
	if len(rows) == 0 {
		return &Table{}
	}
	return &Table{Header: rows[0], Rows: rows[1:]}
}
