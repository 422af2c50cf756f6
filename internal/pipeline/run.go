package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/strandsoft/wcomp/internal/common"
	"github.com/strandsoft/wcomp/internal/export"
	"github.com/strandsoft/wcomp/internal/rules"
)

// RunOptions configure a full end-to-end run.
type RunOptions struct {
	PrimaryPath   string
	SecondaryPath string
	OutputDir     string
	PayPeriod     string
	Template      export.Config
	ExportRules   *rules.Set
	ProcessRules  *rules.Set
	Subtotals     bool
}

// RunResult collects every artifact of an end-to-end run.
type RunResult struct {
	Primary      *ProcessResult
	Secondary    *ProcessResult
	CombinedPath string
	Export       *ExportResult
}

// Run executes the complete workflow: process the primary export,
// optionally process and combine a secondary export, then produce the
// summary workbook from the combined detail.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if opts.PrimaryPath == "" {
		return nil, common.NewUserError("primary report is required", common.ErrMissingConfig)
	}
	if opts.PayPeriod != "" {
		if _, err := time.Parse("20060102", opts.PayPeriod); err != nil {
			return nil, fmt.Errorf("%w: %q (want YYYYMMDD)", common.ErrInvalidPeriod, opts.PayPeriod)
		}
	}

	result := &RunResult{}

	primary, err := p.ProcessReport(ctx, opts.PrimaryPath, ProcessOptions{
		OutputDir:  opts.OutputDir,
		ReportName: "ASRWorkersCompReport.csv",
		Subtotals:  opts.Subtotals,
		Rules:      opts.ProcessRules,
	})
	if err != nil {
		return nil, fmt.Errorf("processing primary report: %w", err)
	}
	result.Primary = primary

	detailPath := primary.OutputPath

	if opts.SecondaryPath != "" {
		secondary, err := p.ProcessReport(ctx, opts.SecondaryPath, ProcessOptions{
			OutputDir:  opts.OutputDir,
			ReportName: "ArmorProWorkersCompReport.csv",
			Subtotals:  opts.Subtotals,
			Rules:      opts.ProcessRules,
		})
		if err != nil {
			return nil, fmt.Errorf("processing secondary report: %w", err)
		}
		result.Secondary = secondary

		combined, err := p.CombineReports(ctx, primary.OutputPath, secondary.OutputPath, opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("combining reports: %w", err)
		}
		result.CombinedPath = combined
		detailPath = combined
	}

	exported, err := p.ExportSummary(ctx, detailPath, ExportOptions{
		OutputDir: opts.OutputDir,
		PayPeriod: opts.PayPeriod,
		Template:  opts.Template,
		Rules:     opts.ExportRules,
	})
	if err != nil {
		return nil, fmt.Errorf("exporting summary: %w", err)
	}
	result.Export = exported

	return result, nil
}
