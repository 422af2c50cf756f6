// Package reclassify applies the ordered class code correction rules to
// canonical payroll records: code-width normalization, identity
// overrides, and wage-threshold validation. Each pass is idempotent and
// mutates class codes only; earnings values are never touched.
package reclassify

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/strandsoft/wcomp/internal/model"
	"github.com/strandsoft/wcomp/internal/rules"
)

// driveEarnTypes are unconditionally forced to the low-wage code.
var driveEarnTypes = map[string]struct{}{
	"DRIVE": {},
	"DROVT": {},
}

// Report is the audit output of one reclassification run.
type Report struct {
	RuleSet     string
	Corrections []model.Correction
	Findings    []model.Finding
	Summary     model.ValidationSummary
}

// CorrectionsIn returns the corrections recorded under one category.
func (r *Report) CorrectionsIn(cat model.CorrectionCategory) []model.Correction {
	var out []model.Correction
	for _, c := range r.Corrections {
		if c.Category == cat {
			out = append(out, c)
		}
	}
	return out
}

// Reclassifier runs the correction rule chain over a record batch.
type Reclassifier struct {
	rules *rules.Set
}

// New creates a reclassifier bound to a rule set.
func New(rs *rules.Set) *Reclassifier {
	return &Reclassifier{rules: rs}
}

// Apply runs the three correction passes in order, mutating the records
// in place, and returns the audit report. Re-applying to its own output
// produces no further corrections.
func (r *Reclassifier) Apply(records []model.Record) *Report {
	report := &Report{RuleSet: r.rules.Name()}

	r.widenCodes(records, report)
	r.applyOverrides(records, report)
	r.validateWages(records, report)

	slog.Info("reclassification complete",
		"rule_set", r.rules.Name(),
		"records", len(records),
		"corrections", len(report.Corrections),
		"findings", len(report.Findings),
		"skipped", report.Summary.Skipped)

	return report
}

// widenCodes converts short-form trade codes to long form, independent
// of wage rate. Unmapped codes are left untouched.
func (r *Reclassifier) widenCodes(records []model.Record, report *Report) {
	for i := range records {
		rec := &records[i]
		to, ok := r.rules.Widen(rec.ClassCode)
		if !ok || to == rec.ClassCode {
			continue
		}

		report.Corrections = append(report.Corrections, model.Correction{
			Row:           i,
			Employee:      rec.EmployeeName,
			JobNo:         rec.JobNo,
			EarnType:      rec.EarnType,
			Hours:         rec.Hours,
			Earnings:      rec.Earnings,
			OriginalCode:  rec.ClassCode,
			CorrectedCode: to,
			Reason:        fmt.Sprintf("short-form code %d converted to %d", rec.ClassCode, to),
			Category:      model.CategoryCodeWidth,
		})
		rec.ClassCode = to
	}
}

// applyOverrides forces listed employees onto their fixed class code,
// matched by exact whitespace-normalized name.
func (r *Reclassifier) applyOverrides(records []model.Record, report *Report) {
	for i := range records {
		rec := &records[i]
		o, ok := r.rules.OverrideFor(rec.EmployeeName)
		if !ok || rec.ClassCode == o.Code {
			continue
		}

		report.Corrections = append(report.Corrections, model.Correction{
			Row:           i,
			Employee:      rec.EmployeeName,
			JobNo:         rec.JobNo,
			EarnType:      rec.EarnType,
			Hours:         rec.Hours,
			Earnings:      rec.Earnings,
			OriginalCode:  rec.ClassCode,
			CorrectedCode: o.Code,
			Reason:        o.Reason,
			Category:      model.CategoryIdentity,
		})
		rec.ClassCode = o.Code
	}
}

// validateWages checks every record against the trade threshold table.
// Drive time is always forced to the low-wage code; other wage-validated
// records move between the high and low codes based on the effective
// hourly rate, with ties at the threshold classifying high.
func (r *Reclassifier) validateWages(records []model.Record, report *Report) {
	report.Summary.Total = len(records)

	for i := range records {
		rec := &records[i]

		if rec.Hours.Sign() <= 0 {
			report.Summary.Skipped++
			continue
		}
		rate := rec.Earnings.Div(rec.Hours)

		if _, drive := driveEarnTypes[rec.EarnType]; drive {
			if low, ok := r.rules.DriveTimeLow(rec.ClassCode); ok {
				report.Corrections = append(report.Corrections, r.wageCorrection(i, rec, rate, low,
					"drive time must use low wage code", model.CategoryDriveTime))
				rec.ClassCode = low
				report.Summary.Corrected++
				report.Summary.DriveTimeCorrected++
			}
			report.Summary.Validated++
			continue
		}

		if !r.rules.WageValidated(rec.EarnType) {
			report.Summary.Validated++
			continue
		}

		if trade, role, ok := r.rules.Lookup(rec.ClassCode); ok {
			switch {
			case rate.Cmp(trade.Threshold) >= 0 && role == rules.RoleLow:
				reason := fmt.Sprintf("%s: $%s/hr >= $%s/hr threshold (should be HIGH wage)",
					trade.Name, rate.StringFixed(2), trade.Threshold.StringFixed(2))
				report.Corrections = append(report.Corrections,
					r.wageCorrection(i, rec, rate, trade.HighCode, reason, model.CategoryWageBasedUp))
				rec.ClassCode = trade.HighCode
				report.Summary.Corrected++
				report.Summary.WageCorrected++

			case rate.Cmp(trade.Threshold) < 0 && role == rules.RoleHigh:
				if trade.LowCode == 0 {
					// No low-wage counterpart in this table: report, don't mutate.
					report.Findings = append(report.Findings, model.Finding{
						Employee:    rec.EmployeeName,
						EarnType:    rec.EarnType,
						Trade:       trade.Name,
						CurrentCode: rec.ClassCode,
						Rate:        rate,
						Threshold:   trade.Threshold,
						Earnings:    rec.Earnings,
					})
					break
				}
				reason := fmt.Sprintf("%s: $%s/hr < $%s/hr threshold (should be LOW wage)",
					trade.Name, rate.StringFixed(2), trade.Threshold.StringFixed(2))
				report.Corrections = append(report.Corrections,
					r.wageCorrection(i, rec, rate, trade.LowCode, reason, model.CategoryWageBasedDown))
				rec.ClassCode = trade.LowCode
				report.Summary.Corrected++
				report.Summary.WageCorrected++
			}
		}

		report.Summary.Validated++
	}
}

func (r *Reclassifier) wageCorrection(row int, rec *model.Record, rate decimal.Decimal, corrected int, reason string, cat model.CorrectionCategory) model.Correction {
	return model.Correction{
		Row:           row,
		Employee:      rec.EmployeeName,
		JobNo:         rec.JobNo,
		EarnType:      rec.EarnType,
		Hours:         rec.Hours,
		Rate:          rate,
		Earnings:      rec.Earnings,
		OriginalCode:  rec.ClassCode,
		CorrectedCode: corrected,
		Reason:        reason,
		Category:      cat,
	}
}
