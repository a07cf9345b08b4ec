// Package export renders receipt records into an XLSX workbook: an Expenses
// sheet with a totals row, plus category and monthly summary sheets when
// there is more than one data row.
package export

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/receiptly/receiptly/internal/entity"
)

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

var expenseHeaders = []string{"Vendor", "Amount", "Date", "Category", "Tax", "Uploaded"}

// BuildWorkbook returns XLSX bytes for the given records. Records are assumed
// to be tagged with their creation timestamp; ordering is preserved.
func (s *Service) BuildWorkbook(recs []*entity.Receipt) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Expenses"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for i, h := range expenseHeaders {
		write(i+1, 1, h)
	}

	var totalAmount, totalTax float64
	row := 2
	for _, r := range recs {
		write(1, row, r.Vendor)
		write(2, row, r.Amount)
		write(3, row, r.Date)
		write(4, row, string(r.Category))
		write(5, row, r.Tax)
		write(6, row, r.CreatedAt.Format("2006-01-02 15:04"))
		totalAmount += r.Amount
		totalTax += r.Tax
		row++
	}

	// Totals row sums Amount and Tax across the sheet.
	write(1, row, "TOTAL")
	write(2, row, totalAmount)
	write(5, row, totalTax)

	_ = f.SetColWidth(sheet, "A", "A", 32) // vendor
	_ = f.SetColWidth(sheet, "B", "B", 12)
	_ = f.SetColWidth(sheet, "C", "C", 12)
	_ = f.SetColWidth(sheet, "D", "D", 16)
	_ = f.SetColWidth(sheet, "E", "E", 12)
	_ = f.SetColWidth(sheet, "F", "F", 18)

	if len(recs) > 1 {
		if err := s.addCategorySummary(f, recs); err != nil {
			return nil, err
		}
		if err := s.addMonthlySummary(f, recs); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) addCategorySummary(f *excelize.File, recs []*entity.Receipt) error {
	const sheet = "Category Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	sums := make(map[string]float64)
	for _, r := range recs {
		sums[string(r.Category)] += r.Amount
	}
	type catSum struct {
		Category string
		Amount   float64
	}
	ordered := make([]catSum, 0, len(sums))
	for c, a := range sums {
		ordered = append(ordered, catSum{c, a})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Amount != ordered[j].Amount {
			return ordered[i].Amount > ordered[j].Amount
		}
		return ordered[i].Category < ordered[j].Category
	})

	_ = f.SetCellValue(sheet, "A1", "Category")
	_ = f.SetCellValue(sheet, "B1", "Amount")
	for i, cs := range ordered {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetCellValue(sheet, cell, cs.Category)
		cell, _ = excelize.CoordinatesToCellName(2, i+2)
		_ = f.SetCellValue(sheet, cell, cs.Amount)
	}
	_ = f.SetColWidth(sheet, "A", "A", 16)
	return nil
}

func (s *Service) addMonthlySummary(f *excelize.File, recs []*entity.Receipt) error {
	const sheet = "Monthly Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	sums := make(map[string]float64)
	for _, r := range recs {
		month := r.Date
		if len(month) >= 7 {
			month = month[:7] // YYYY-MM
		}
		sums[month] += r.Amount
	}
	months := make([]string, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	sort.Strings(months)

	_ = f.SetCellValue(sheet, "A1", "Month")
	_ = f.SetCellValue(sheet, "B1", "Amount")
	for i, m := range months {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetCellValue(sheet, cell, m)
		cell, _ = excelize.CoordinatesToCellName(2, i+2)
		_ = f.SetCellValue(sheet, cell, sums[m])
	}
	return nil
}
