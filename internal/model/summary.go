package model

import "github.com/shopspring/decimal"

// SummaryRow is one aggregated wage summary entry, keyed by employee and
// class code. Created once during aggregation and never mutated.
type SummaryRow struct {
	EmployeeNumber string
	EmployeeName   string
	FirstName      string
	LastName       string
	ClassCode      int
	Earnings       decimal.Decimal
	Exposure       decimal.Decimal
	Regular        decimal.Decimal
	Overtime       decimal.Decimal
	Doubletime     decimal.Decimal
	Other          decimal.Decimal
}

// BucketTotal returns the sum of the four wage bucket columns.
func (s SummaryRow) BucketTotal() decimal.Decimal {
	return s.Regular.Add(s.Overtime).Add(s.Doubletime).Add(s.Other)
}

// DetailKind distinguishes genuine detail rows from synthetic
// presentation rows in the detail report.
type DetailKind int

// Detail row kinds.
const (
	KindDetail DetailKind = iota
	KindSubtotal
	KindGrandTotal
)

// DetailRow is one row of the detail report: either a canonical record
// or a synthetic subtotal/grand-total row. Synthetic rows carry empty
// job and class fields, a label in the job description position, and
// must never enter aggregation arithmetic.
type DetailRow struct {
	Kind           DetailKind
	EmployeeName   string
	EmployeeNumber string
	JobNo          string
	JobDescription string
	CostCode       string
	EarnType       string
	SortKey        string
	Hours          decimal.Decimal
	Earnings       decimal.Decimal
	Exposure       decimal.Decimal
}

// IsSynthetic reports whether the row is a presentation-only total row.
func (d DetailRow) IsSynthetic() bool {
	return d.Kind != KindDetail
}
