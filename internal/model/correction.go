package model

import "github.com/shopspring/decimal"

// CorrectionCategory indicates which rule produced a class code correction.
type CorrectionCategory string

// Correction category constants.
const (
	CategoryCodeWidth     CorrectionCategory = "CODE_WIDTH"
	CategoryIdentity      CorrectionCategory = "IDENTITY"
	CategoryDriveTime     CorrectionCategory = "DRIVE_TIME"
	CategoryWageBasedUp   CorrectionCategory = "WAGE_BASED_UP"
	CategoryWageBasedDown CorrectionCategory = "WAGE_BASED_DOWN"
)

// Correction is an audit entry recorded whenever a rule mutates a
// record's class code. It is observational only and never feeds back
// into computation.
type Correction struct {
	Employee      string
	JobNo         string
	EarnType      string
	Reason        string
	Category      CorrectionCategory
	Row           int
	OriginalCode  int
	CorrectedCode int
	Hours         decimal.Decimal
	Rate          decimal.Decimal
	Earnings      decimal.Decimal
}

// Finding reports a suspected misclassification that no rule could
// resolve to a concrete target code.
type Finding struct {
	Employee    string
	EarnType    string
	Trade       string
	CurrentCode int
	Rate        decimal.Decimal
	Threshold   decimal.Decimal
	Earnings    decimal.Decimal
}

// ValidationSummary counts the outcome of a reclassification run.
type ValidationSummary struct {
	Total              int
	Validated          int
	Corrected          int
	DriveTimeCorrected int
	WageCorrected      int
	Skipped            int
}
