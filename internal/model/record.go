// Package model defines the core domain models used throughout the application.
package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Record represents a single canonical payroll wage record.
type Record struct {
	EmployeeName   string
	EmployeeNumber string
	JobNo          string
	JobDescription string
	EarnType       string
	SortKey        string
	ClassCode      int
	Hours          decimal.Decimal
	Earnings       decimal.Decimal
	Exposure       decimal.Decimal
}

// WageBucket categorizes an earn type for summary reporting.
type WageBucket string

// Wage bucket constants.
const (
	BucketRegular    WageBucket = "REGULAR"
	BucketOvertime   WageBucket = "OVERTIME"
	BucketDoubletime WageBucket = "DOUBLETIME"
	BucketOther      WageBucket = "OTHER"
)

// Earn type vocabulary. Rows outside these sets are excluded before
// records enter the pipeline.
var (
	RegularEarnTypes    = []string{"REG", "VAC", "BON", "SUPP", "SICK", "DBA", "DRIVE", "OSAL", "SAL", "PWREG"}
	OvertimeEarnTypes   = []string{"OVT", "DROVT", "PWOT"}
	DoubletimeEarnTypes = []string{"DBL"}
)

// TargetEarnTypes returns the full earn-type whitelist.
func TargetEarnTypes() []string {
	all := make([]string, 0, len(RegularEarnTypes)+len(OvertimeEarnTypes)+len(DoubletimeEarnTypes))
	all = append(all, RegularEarnTypes...)
	all = append(all, OvertimeEarnTypes...)
	all = append(all, DoubletimeEarnTypes...)
	return all
}

// NormalizeEarnType canonicalizes a raw earn type value.
func NormalizeEarnType(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// BucketFor maps an earn type to its wage bucket.
func BucketFor(earnType string) WageBucket {
	et := NormalizeEarnType(earnType)
	switch {
	case contains(RegularEarnTypes, et):
		return BucketRegular
	case contains(OvertimeEarnTypes, et):
		return BucketOvertime
	case contains(DoubletimeEarnTypes, et):
		return BucketDoubletime
	default:
		return BucketOther
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
