package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/strandsoft/wcomp/internal/common"
	"github.com/strandsoft/wcomp/internal/model"
)

// Totals summarizes what was written into the workbook.
type Totals struct {
	Regular     decimal.Decimal
	Overtime    decimal.Decimal
	Doubletime  decimal.Decimal
	GrandTotal  decimal.Decimal
	RecordCount int
}

// Writer fills the workbook template with wage summary rows.
type Writer struct {
	logger *slog.Logger
	config Config
}

// NewWriter creates a template writer.
func NewWriter(config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{config: config, logger: logger}, nil
}

// Write renders summary rows into a workbook under outputDir and
// returns the output path and written totals. sourceTotal is the gross
// earnings figure from the source data; payPeriod is the period end
// date in YYYYMMDD form (empty to skip the date cells).
func (w *Writer) Write(ctx context.Context, rows []model.SummaryRow, sourceTotal decimal.Decimal, payPeriod, outputDir string) (string, Totals, error) {
	if err := ctx.Err(); err != nil {
		return "", Totals{}, err
	}

	if w.config.TemplatePath == "" {
		return w.writeStandalone(rows, sourceTotal, payPeriod, outputDir)
	}
	return w.writeTemplate(rows, sourceTotal, payPeriod, outputDir)
}

func (w *Writer) writeTemplate(rows []model.SummaryRow, sourceTotal decimal.Decimal, payPeriod, outputDir string) (string, Totals, error) {
	f, err := excelize.OpenFile(w.config.TemplatePath)
	if err != nil {
		return "", Totals{}, fmt.Errorf("failed to open template: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := w.config.SheetName
	if idx, idxErr := f.GetSheetIndex(sheet); idxErr != nil || idx < 0 {
		return "", Totals{}, fmt.Errorf("%w: %s", common.ErrTemplateSheet, sheet)
	}

	// The template ships protected; writes need it unlocked.
	_ = f.UnprotectSheet(sheet)
	_ = f.SetColWidth(sheet, "E", "E", 12)

	if err = f.SetCellValue(sheet, cellGrossWages, sourceTotal.InexactFloat64()); err != nil {
		return "", Totals{}, fmt.Errorf("failed to write gross wages: %w", err)
	}

	if payPeriod != "" {
		if err = w.writePeriodDates(f, payPeriod); err != nil {
			return "", Totals{}, err
		}
	}

	w.clearDataBlock(f)

	codeStyle, err := f.NewStyle(&excelize.Style{NumFmt: 1}) // integer display
	if err != nil {
		return "", Totals{}, fmt.Errorf("failed to create class code style: %w", err)
	}

	row := w.config.StartRow
	for _, s := range rows {
		set := func(col string, value any) {
			_ = f.SetCellValue(sheet, col+strconv.Itoa(row), value)
		}

		set("A", numberOrString(s.EmployeeNumber))
		set("B", s.FirstName)
		set("C", s.LastName)
		set("D", w.config.State)
		set("E", s.ClassCode)
		_ = f.SetCellStyle(sheet, "E"+strconv.Itoa(row), "E"+strconv.Itoa(row), codeStyle)
		set("F", s.Regular.Round(2).InexactFloat64())
		set("G", s.Overtime.Round(2).InexactFloat64())
		set("H", s.Doubletime.Round(2).InexactFloat64())
		row++
	}

	totals := sumTotals(rows)
	outputPath := filepath.Join(outputDir, outputFilename(payPeriod, ""))
	if err = saveWorkbook(f, outputPath); err != nil {
		return "", Totals{}, err
	}

	w.logger.Info("summary exported to template",
		"output", filepath.Base(outputPath),
		"rows", len(rows),
		"grand_total", totals.GrandTotal.StringFixed(2))

	return outputPath, totals, nil
}

// writeStandalone generates a plain workbook when no template is
// configured, with one header row and a Total Wages column.
func (w *Writer) writeStandalone(rows []model.SummaryRow, sourceTotal decimal.Decimal, payPeriod, outputDir string) (string, Totals, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	const sheet = "Payroll Data"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return "", Totals{}, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{
		"Employee Number", "Employee Name", "First Name", "Last Name",
		"Cost Code", "Earnings", "Exposure",
		"REGULAR", "OVERTIME", "DOUBLETIME", "OTHER", "Total Wages",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, s := range rows {
		total := s.Regular.Add(s.Overtime).Add(s.Doubletime)
		values := []any{
			numberOrString(s.EmployeeNumber), s.EmployeeName, s.FirstName, s.LastName,
			s.ClassCode,
			s.Earnings.Round(2).InexactFloat64(), s.Exposure.Round(2).InexactFloat64(),
			s.Regular.Round(2).InexactFloat64(), s.Overtime.Round(2).InexactFloat64(),
			s.Doubletime.Round(2).InexactFloat64(), s.Other.Round(2).InexactFloat64(),
			total.Round(2).InexactFloat64(),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	totals := sumTotals(rows)
	outputPath := filepath.Join(outputDir, outputFilename(payPeriod, ""))
	if err := saveWorkbook(f, outputPath); err != nil {
		return "", Totals{}, err
	}

	w.logger.Info("standalone summary workbook written",
		"output", filepath.Base(outputPath),
		"rows", len(rows),
		"source_total", sourceTotal.StringFixed(2))

	return outputPath, totals, nil
}

func (w *Writer) writePeriodDates(f *excelize.File, payPeriod string) error {
	end, err := time.Parse("20060102", payPeriod)
	if err != nil {
		return fmt.Errorf("%w: %q (want YYYYMMDD)", common.ErrInvalidPeriod, payPeriod)
	}
	start := end.AddDate(0, 0, -6)

	sheet := w.config.SheetName
	_ = f.SetCellValue(sheet, cellReportDate, end)
	_ = f.SetCellValue(sheet, cellPeriodStart, start)
	_ = f.SetCellValue(sheet, cellPeriodEnd, end)
	return nil
}

func (w *Writer) clearDataBlock(f *excelize.File) {
	sheet := w.config.SheetName
	for row := w.config.StartRow; row <= w.config.ClearThroughRow; row++ {
		for col := 1; col <= 16; col++ {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, nil)
		}
	}
}

func sumTotals(rows []model.SummaryRow) Totals {
	t := Totals{RecordCount: len(rows)}
	for _, s := range rows {
		t.Regular = t.Regular.Add(s.Regular)
		t.Overtime = t.Overtime.Add(s.Overtime)
		t.Doubletime = t.Doubletime.Add(s.Doubletime)
	}
	t.GrandTotal = t.Regular.Add(t.Overtime).Add(t.Doubletime)
	return t
}

// numberOrString prefers a numeric cell for employee numbers so the
// template's lookups keep working, falling back to the raw string.
func numberOrString(v string) any {
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return int(n)
	}
	return v
}

func outputFilename(payPeriod, suffix string) string {
	if payPeriod != "" {
		return fmt.Sprintf("Workers_Comp_%s_%s%s.xlsx", payPeriod, time.Now().Format("150405"), suffix)
	}
	return fmt.Sprintf("Workers_Comp_%s%s.xlsx", time.Now().Format("20060102_150405"), suffix)
}

func saveWorkbook(f *excelize.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
