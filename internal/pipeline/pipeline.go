// Package pipeline orchestrates the payroll report workflow: normalize
// raw exports into canonical records, run the class code correction
// rules, aggregate into wage summaries, and hand the results to the
// report writers.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/strandsoft/wcomp/internal/aggregate"
	"github.com/strandsoft/wcomp/internal/common"
	"github.com/strandsoft/wcomp/internal/export"
	"github.com/strandsoft/wcomp/internal/model"
	"github.com/strandsoft/wcomp/internal/normalize"
	"github.com/strandsoft/wcomp/internal/reclassify"
	"github.com/strandsoft/wcomp/internal/rules"
	"github.com/strandsoft/wcomp/internal/storage"
	"github.com/strandsoft/wcomp/internal/tabular"
)

// Pipeline wires the processing stages together. A single Pipeline may
// serve many runs; each run owns its own record set.
type Pipeline struct {
	logger *slog.Logger
	audit  *storage.Store
}

// New creates a pipeline. The audit store is optional.
func New(logger *slog.Logger, audit *storage.Store) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger, audit: audit}
}

// ProcessOptions control one raw-export processing run.
type ProcessOptions struct {
	OutputDir  string
	ReportName string
	Rules      *rules.Set
	Subtotals  bool
}

// ProcessResult is the outcome of processing one raw export.
type ProcessResult struct {
	Report           *reclassify.Report
	OutputPath       string
	TotalEarnings    decimal.Decimal
	Records          int
	AlreadyProcessed bool
}

// ProcessReport loads a raw payroll export, normalizes and reclassifies
// it, and writes the canonical detail report CSV. Already-processed
// inputs pass through unchanged.
func (p *Pipeline) ProcessReport(ctx context.Context, path string, opts ProcessOptions) (*ProcessResult, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrFileNotFound, path)
	}
	if opts.ReportName == "" {
		opts.ReportName = "WorkersCompReport.csv"
	}
	if opts.Rules == nil {
		opts.Rules = rules.Standard()
	}

	table, err := tabular.ReadFile(path)
	if err != nil {
		return nil, common.NewUserError("error loading file", err)
	}

	res, err := normalize.Normalize(table)
	if err != nil {
		return nil, err
	}
	if !res.AlreadyProcessed && len(res.Records) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrNoRecords, filepath.Base(path))
	}

	outputPath := filepath.Join(opts.OutputDir, timestamped(opts.ReportName))

	if res.AlreadyProcessed {
		// Idempotent re-entry: emit the input as-is.
		if err := tabular.WriteCSV(outputPath, table); err != nil {
			return nil, err
		}
		return &ProcessResult{
			OutputPath:       outputPath,
			Records:          table.Len(),
			AlreadyProcessed: true,
		}, nil
	}

	before := aggregate.TotalEarnings(res.Records)

	report := reclassify.New(opts.Rules).Apply(res.Records)
	if err := aggregate.ReconcileRecords(before, res.Records); err != nil {
		return nil, err
	}

	aggregate.SortRecords(res.Records)
	detail := aggregate.DetailRows(res.Records, opts.Subtotals)

	if err := tabular.WriteCSV(outputPath, aggregate.DetailTable(detail)); err != nil {
		return nil, err
	}

	p.saveAudit(ctx, path, len(res.Records), before, report)

	p.logger.Info("report processed",
		"source", filepath.Base(path),
		"output", filepath.Base(outputPath),
		"records", len(res.Records),
		"corrections", len(report.Corrections),
		"total_earnings", before.StringFixed(2))

	return &ProcessResult{
		Report:        report,
		OutputPath:    outputPath,
		TotalEarnings: before,
		Records:       len(res.Records),
	}, nil
}

// CombineReports concatenates two detail reports of identical schema
// into one combined CSV.
func (p *Pipeline) CombineReports(ctx context.Context, firstPath, secondPath, outputDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	first, err := tabular.ReadFile(firstPath)
	if err != nil {
		return "", common.NewUserError("error loading first report", err)
	}
	second, err := tabular.ReadFile(secondPath)
	if err != nil {
		return "", common.NewUserError("error loading second report", err)
	}

	if err := first.Concat(second); err != nil {
		return "", err
	}

	outputPath := filepath.Join(outputDir, timestamped("CombinedWorkersCompReport.csv"))
	if err := tabular.WriteCSV(outputPath, first); err != nil {
		return "", err
	}

	p.logger.Info("reports combined",
		"first", filepath.Base(firstPath),
		"second", filepath.Base(secondPath),
		"rows", first.Len(),
		"output", filepath.Base(outputPath))

	return outputPath, nil
}

// ExportOptions control the summary export run.
type ExportOptions struct {
	OutputDir string
	PayPeriod string
	Template  export.Config
	Rules     *rules.Set
}

// ExportResult is the outcome of a summary export.
type ExportResult struct {
	Report      *reclassify.Report
	OutputPath  string
	Summary     []model.SummaryRow
	Totals      export.Totals
	SourceTotal decimal.Decimal
}

// ExportSummary re-ingests a detail report, applies the selected rule
// set, aggregates per employee and class code, verifies reconciliation,
// and writes the summary workbook.
func (p *Pipeline) ExportSummary(ctx context.Context, detailPath string, opts ExportOptions) (*ExportResult, error) {
	if opts.Rules == nil {
		opts.Rules = rules.Alternate()
	}

	table, err := tabular.ReadFile(detailPath)
	if err != nil {
		return nil, common.NewUserError("error loading detail report", err)
	}

	res, err := normalize.ParseDetail(table)
	if err != nil {
		return nil, err
	}
	if len(res.Records) == 0 {
		return nil, common.ErrEmptyReport
	}

	before := aggregate.TotalEarnings(res.Records)

	report := reclassify.New(opts.Rules).Apply(res.Records)
	if err := aggregate.ReconcileRecords(before, res.Records); err != nil {
		return nil, err
	}

	summary := aggregate.Summarize(res.Records)
	if err := aggregate.ReconcileSummary(before, summary, len(res.Records)); err != nil {
		return nil, err
	}

	writer, err := export.NewWriter(opts.Template, p.logger)
	if err != nil {
		return nil, err
	}

	outputPath, totals, err := writer.Write(ctx, summary, before, opts.PayPeriod, opts.OutputDir)
	if err != nil {
		return nil, err
	}

	p.saveAudit(ctx, detailPath, len(res.Records), before, report)

	return &ExportResult{
		Report:      report,
		OutputPath:  outputPath,
		Summary:     summary,
		Totals:      totals,
		SourceTotal: before,
	}, nil
}

func (p *Pipeline) saveAudit(ctx context.Context, source string, records int, total decimal.Decimal, report *reclassify.Report) {
	if p.audit == nil {
		return
	}
	if _, err := p.audit.SaveRun(ctx, filepath.Base(source), records, total.StringFixed(2), report); err != nil {
		p.logger.Warn("failed to persist audit trail", "error", err)
	}
}

func timestamped(name string) string {
	return fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), name)
}
