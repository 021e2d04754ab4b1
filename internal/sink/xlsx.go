package sink

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/stmt2csv/internal/model"
)

const sheetName = "Sheet1"

// WriteXLSX writes transactions as a single-sheet workbook with the same
// header and cell text as WriteCSV.
func WriteXLSX(w io.Writer, txns []model.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	header := strings.Split(Header, ",")
	for i, name := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, style); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for rowIdx, txn := range txns {
		for colIdx, val := range MarshalTransaction(txn) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellStr(sheetName, cell, val); err != nil {
				return fmt.Errorf("writing row %d: %w", rowIdx+2, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// ReadXLSX reads transactions written by WriteXLSX.
func ReadXLSX(r io.Reader) ([]model.Transaction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	var txns []model.Transaction
	for i, row := range rows[1:] {
		// GetRows trims trailing empty cells.
		for len(row) < numFields {
			row = append(row, "")
		}
		txn, err := UnmarshalTransaction(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}
