package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strandsoft/wcomp/internal/common"
	"github.com/strandsoft/wcomp/internal/export"
	"github.com/strandsoft/wcomp/internal/normalize"
	"github.com/strandsoft/wcomp/internal/rules"
	"github.com/strandsoft/wcomp/internal/storage"
	"github.com/strandsoft/wcomp/internal/tabular"
)

const rawExport = `emp_name,employee_no,job_desc,class,earn_type_no,hours,earnings,job_no
"Smith, John",100,Remodel,5403,REG,40,1800.00,24001
"Smith, John",100,Remodel,5432,DRIVE,4,180.00,24001
"Smith, John",100,Remodel,5432,OVT,5,337.50,24001
"Jones, Mary",101,Paint Crew,5482,REG,40,1200.00,24002
"Jones, Mary",101,Yard Work,5482,REG,8,240.00,CY2401
"Jones, Mary",101,Paint Crew,5482,EXP,0,55.00,24002
`

func writeRaw(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProcessReport(t *testing.T) {
	p := New(nil, nil)
	outDir := t.TempDir()

	result, err := p.ProcessReport(context.Background(), writeRaw(t, "export.csv", rawExport), ProcessOptions{
		OutputDir: outDir,
		Subtotals: true,
	})
	require.NoError(t, err)

	assert.False(t, result.AlreadyProcessed)
	assert.Equal(t, 4, result.Records, "yard job and expense rows are dropped")
	assert.True(t, result.TotalEarnings.Equal(decimal.RequireFromString("3517.50")))

	require.NotNil(t, result.Report)
	assert.Equal(t, "standard", result.Report.RuleSet)
	// The 45/hr carpenter on the low code moves up, drive time moves low.
	assert.NotEmpty(t, result.Report.Corrections)

	table, err := tabular.ReadFile(result.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, normalize.DetailColumns(), table.Columns())

	// Re-ingest drops the synthetic rows and conserves the total.
	res, err := normalize.ParseDetail(table)
	require.NoError(t, err)
	require.Len(t, res.Records, 4)

	total := decimal.Zero
	for _, rec := range res.Records {
		total = total.Add(rec.Earnings)
	}
	assert.True(t, total.Equal(result.TotalEarnings))
}

func TestProcessReport_AlreadyProcessed(t *testing.T) {
	p := New(nil, nil)
	outDir := t.TempDir()

	first, err := p.ProcessReport(context.Background(), writeRaw(t, "export.csv", rawExport), ProcessOptions{
		OutputDir: outDir,
	})
	require.NoError(t, err)

	second, err := p.ProcessReport(context.Background(), first.OutputPath, ProcessOptions{
		OutputDir: outDir,
		Subtotals: true,
	})
	require.NoError(t, err)
	assert.True(t, second.AlreadyProcessed)

	original, err := os.ReadFile(first.OutputPath)
	require.NoError(t, err)
	copied, err := os.ReadFile(second.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, string(original), string(copied), "processed inputs pass through unchanged")
}

func TestProcessReport_MissingFile(t *testing.T) {
	p := New(nil, nil)

	_, err := p.ProcessReport(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), ProcessOptions{})
	assert.ErrorIs(t, err, common.ErrFileNotFound)
}

func TestProcessReport_NoRecords(t *testing.T) {
	p := New(nil, nil)
	raw := "emp_name,employee_no,job_desc,class,earn_type_no,hours,earnings,job_no\n" +
		"\"Smith, John\",100,Remodel,5403,EXP,0,25.00,24001\n"
	path := writeRaw(t, "expenses.csv", raw)

	_, err := p.ProcessReport(context.Background(), path, ProcessOptions{OutputDir: t.TempDir()})
	assert.ErrorIs(t, err, common.ErrNoRecords)
}

func TestProcessReport_SchemaError(t *testing.T) {
	p := New(nil, nil)
	path := writeRaw(t, "bad.csv", "foo,bar\n1,2\n")

	_, err := p.ProcessReport(context.Background(), path, ProcessOptions{OutputDir: t.TempDir()})
	var schemaErr *normalize.SchemaError
	assert.ErrorAs(t, err, &schemaErr)
}

func TestCombineReports(t *testing.T) {
	p := New(nil, nil)
	outDir := t.TempDir()
	ctx := context.Background()

	first, err := p.ProcessReport(ctx, writeRaw(t, "a.csv", rawExport), ProcessOptions{OutputDir: outDir})
	require.NoError(t, err)
	second, err := p.ProcessReport(ctx, writeRaw(t, "b.csv", rawExport), ProcessOptions{OutputDir: outDir})
	require.NoError(t, err)

	combinedPath, err := p.CombineReports(ctx, first.OutputPath, second.OutputPath, outDir)
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(combinedPath), "CombinedWorkersCompReport")

	combined, err := tabular.ReadFile(combinedPath)
	require.NoError(t, err)
	assert.Equal(t, 8, combined.Len())
}

func TestCombineReports_SchemaMismatch(t *testing.T) {
	p := New(nil, nil)
	outDir := t.TempDir()
	ctx := context.Background()

	first, err := p.ProcessReport(ctx, writeRaw(t, "a.csv", rawExport), ProcessOptions{OutputDir: outDir})
	require.NoError(t, err)
	other := writeRaw(t, "other.csv", "x,y\n1,2\n")

	_, err = p.CombineReports(ctx, first.OutputPath, other, outDir)
	assert.Error(t, err)
}

func TestExportSummary(t *testing.T) {
	p := New(nil, nil)
	outDir := t.TempDir()
	ctx := context.Background()

	processed, err := p.ProcessReport(ctx, writeRaw(t, "export.csv", rawExport), ProcessOptions{OutputDir: outDir})
	require.NoError(t, err)

	result, err := p.ExportSummary(ctx, processed.OutputPath, ExportOptions{
		OutputDir: outDir,
		PayPeriod: "20260828",
		Template:  export.DefaultConfig(),
	})
	require.NoError(t, err)

	assert.Equal(t, "alternate", result.Report.RuleSet, "export defaults to the alternate rule set")
	assert.True(t, strings.HasSuffix(result.OutputPath, ".xlsx"))
	assert.True(t, result.SourceTotal.Equal(processed.TotalEarnings))
	assert.True(t, result.Totals.GrandTotal.Equal(result.SourceTotal), "every dollar lands in a bucket")
	assert.NotEmpty(t, result.Summary)

	_, err = os.Stat(result.OutputPath)
	assert.NoError(t, err)
}

func TestExportSummary_EmptyReport(t *testing.T) {
	p := New(nil, nil)
	outDir := t.TempDir()

	headerOnly := strings.Join(normalize.DetailColumns(), ",") + "\n"
	path := writeRaw(t, "empty.csv", headerOnly)

	_, err := p.ExportSummary(context.Background(), path, ExportOptions{OutputDir: outDir})
	assert.ErrorIs(t, err, common.ErrEmptyReport)
}

func TestRun_EndToEnd(t *testing.T) {
	outDir := t.TempDir()
	audit, err := storage.NewStore(filepath.Join(outDir, "audit.db"))
	require.NoError(t, err)
	defer func() {
		_ = audit.Close()
	}()

	p := New(nil, audit)
	ctx := context.Background()

	result, err := p.Run(ctx, RunOptions{
		PrimaryPath:   writeRaw(t, "asr.csv", rawExport),
		SecondaryPath: writeRaw(t, "armorpro.csv", rawExport),
		OutputDir:     outDir,
		PayPeriod:     "20260828",
		Template:      export.DefaultConfig(),
		Subtotals:     true,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Primary)
	require.NotNil(t, result.Secondary)
	assert.NotEmpty(t, result.CombinedPath)
	require.NotNil(t, result.Export)

	assert.Contains(t, filepath.Base(result.Primary.OutputPath), "ASRWorkersCompReport")
	assert.Contains(t, filepath.Base(result.Secondary.OutputPath), "ArmorProWorkersCompReport")

	// Both inputs carry the same records, so the export sees double.
	expected := result.Primary.TotalEarnings.Add(result.Secondary.TotalEarnings)
	assert.True(t, result.Export.SourceTotal.Equal(expected))

	// Three runs hit the audit store: two process passes and the export.
	runs, err := audit.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestRun_Validation(t *testing.T) {
	p := New(nil, nil)
	ctx := context.Background()

	t.Run("missing primary", func(t *testing.T) {
		_, err := p.Run(ctx, RunOptions{OutputDir: t.TempDir()})
		assert.Error(t, err)
	})

	t.Run("malformed pay period", func(t *testing.T) {
		_, err := p.Run(ctx, RunOptions{
			PrimaryPath: writeRaw(t, "asr.csv", rawExport),
			OutputDir:   t.TempDir(),
			PayPeriod:   "2026-08-28",
		})
		assert.ErrorIs(t, err, common.ErrInvalidPeriod)
	})

	t.Run("rule set selection", func(t *testing.T) {
		result, err := p.Run(ctx, RunOptions{
			PrimaryPath:  writeRaw(t, "asr.csv", rawExport),
			OutputDir:    t.TempDir(),
			ProcessRules: rules.Standard(),
			ExportRules:  rules.Standard(),
			Template:     export.DefaultConfig(),
		})
		require.NoError(t, err)
		assert.Equal(t, "standard", result.Export.Report.RuleSet)
	})
}
