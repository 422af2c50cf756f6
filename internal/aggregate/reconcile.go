package aggregate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/strandsoft/wcomp/internal/model"
)

// perRecordDrift bounds how far totals may diverge per record before a
// divergence is treated as a defect rather than coercion rounding.
var perRecordDrift = decimal.RequireFromString("0.01")

// ReconciliationError reports a violated earnings-conservation
// invariant. Fatal: the run must fail rather than emit an inconsistent
// summary.
type ReconciliationError struct {
	Stage    string
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("earnings reconciliation failed at %s: expected %s, got %s",
		e.Stage, e.Expected.StringFixed(2), e.Actual.StringFixed(2))
}

// ReconcileRecords verifies that a correction stage conserved total
// earnings: class codes move, money never does.
func ReconcileRecords(before decimal.Decimal, records []model.Record) error {
	after := TotalEarnings(records)
	if drift(before, after, len(records)) {
		return &ReconciliationError{Stage: "reclassification", Expected: before, Actual: after}
	}
	return nil
}

// ReconcileSummary verifies that the wage bucket totals of the
// aggregated summary add back up to the canonical earnings total.
func ReconcileSummary(source decimal.Decimal, rows []model.SummaryRow, recordCount int) error {
	bucketTotal := TotalBuckets(rows)
	if drift(source, bucketTotal, recordCount) {
		return &ReconciliationError{Stage: "aggregation", Expected: source, Actual: bucketTotal}
	}
	return nil
}

func drift(expected, actual decimal.Decimal, records int) bool {
	tolerance := perRecordDrift.Mul(decimal.NewFromInt(int64(records)))
	return expected.Sub(actual).Abs().Cmp(tolerance) > 0
}
