// Package export builds downloadable expense reports.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"spenso/internal/domain"
)

const sheetName = "Expenses"

// columns defines the report header row.
var columns = []string{
	"Receipt ID",
	"Vendor",
	"Amount",
	"Date",
	"Category",
	"Status",
	"Flags",
	"OCR Confidence",
	"Line Items",
	"Submitted At",
}

// BuildWorkbook renders receipts into an XLSX workbook with one row per
// receipt. The caller owns the returned file and must Close it.
func BuildWorkbook(receipts []domain.Receipt) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for row, receipt := range receipts {
		values := []interface{}{
			receipt.ID.String(),
			receipt.Vendor,
			receipt.Amount,
			receipt.Date.Format("2006-01-02"),
			receipt.Category,
			string(receipt.Status),
			strings.Join(receipt.Flags, "; "),
			receipt.Confidence,
			formatItems(receipt.Items),
			receipt.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", row+1, err)
			}
		}
	}

	return f, nil
}

func formatItems(items domain.LineItems) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s ($%.2f)", item.Description, item.Amount))
	}
	return strings.Join(parts, "; ")
}
