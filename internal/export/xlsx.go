package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/expenseledger/receipt-extract/internal/extract"
)

// Row pairs one input file with its extraction outcome. Failed files keep
// their error so the workbook shows what needs manual entry.
type Row struct {
	File   string
	Result *extract.ExtractionResult
	Err    error
}

const sheet = "Receipts"

var headers = []string{
	"File",
	"Merchant",
	"Date",
	"Category",
	"Amount",
	"Source",
	"Confidence",
	"Error",
}

// WriteResultsXLSX produces an XLSX workbook (as bytes) with one row per
// processed receipt.
func WriteResultsXLSX(rows []Row, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range rows {
		rowNum := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowNum)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.File)
		if r.Err != nil {
			write(8, r.Err.Error())
			continue
		}
		write(2, r.Result.Merchant)
		write(3, r.Result.Date)
		write(4, string(r.Result.Category))
		write(5, r.Result.Amount.String())
		write(6, string(r.Result.Source))
		if r.Result.Confidence != nil {
			write(7, fmt.Sprintf("%.1f", *r.Result.Confidence))
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
