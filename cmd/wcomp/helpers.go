package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/strandsoft/wcomp/internal/cli"
	"github.com/strandsoft/wcomp/internal/common"
	"github.com/strandsoft/wcomp/internal/pipeline"
	"github.com/strandsoft/wcomp/internal/reclassify"
	"github.com/strandsoft/wcomp/internal/rules"
	"github.com/strandsoft/wcomp/internal/storage"
)

// newPipeline builds a pipeline, attaching the audit store when an
// audit database path is configured.
func newPipeline() (*pipeline.Pipeline, func(), error) {
	dbPath := viper.GetString("audit.db")
	if dbPath == "" {
		return pipeline.New(slog.Default(), nil), func() {}, nil
	}

	store, err := storage.NewStore(dbPath)
	if err != nil {
		return nil, nil, common.NewUserError("failed to open audit database", err)
	}
	return pipeline.New(slog.Default(), store), func() { _ = store.Close() }, nil
}

// selectRules resolves a --rules flag value to a rule set.
func selectRules(name string) (*rules.Set, error) {
	rs, ok := rules.Named(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (want standard or alternate)", common.ErrUnknownRuleSet, name)
	}
	return rs, nil
}

// printAudit renders a reclassification audit report to the terminal.
func printAudit(report *reclassify.Report) {
	if report == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Records:        %d\n", report.Summary.Total)
	fmt.Fprintf(&b, "Validated:      %d\n", report.Summary.Validated)
	fmt.Fprintf(&b, "Corrected:      %d\n", report.Summary.Corrected)
	fmt.Fprintf(&b, "  drive time:   %d\n", report.Summary.DriveTimeCorrected)
	fmt.Fprintf(&b, "  wage based:   %d\n", report.Summary.WageCorrected)
	fmt.Fprintf(&b, "Skipped:        %d", report.Summary.Skipped)

	fmt.Println(cli.RenderBox(fmt.Sprintf("Class code validation (%s rules)", report.RuleSet), b.String()))

	if len(report.Findings) > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d suspected misclassifications with no target code:", len(report.Findings))))
		for _, f := range report.Findings {
			fmt.Println(cli.FormatSubtle(fmt.Sprintf("  %s (%s): code %d at %s/hr, threshold %s/hr",
				f.Employee, f.Trade, f.CurrentCode, cli.FormatMoney(f.Rate.StringFixed(2)), cli.FormatMoney(f.Threshold.StringFixed(2)))))
		}
	}
}

func printOutputFile(path string) {
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("wrote %s", filepath.Base(path))))
}
