// Package normalize maps raw payroll export tables onto canonical wage
// records: schema validation, earn-type filtering, job exclusions, and
// numeric coercion.
package normalize

// Raw export column names.
const (
	RawEmployeeName   = "emp_name"
	RawEmployeeNumber = "employee_no"
	RawJobNo          = "job_no"
	RawJobDescription = "job_desc"
	RawClassCode      = "class"
	RawEarnType       = "earn_type_no"
	RawHours          = "hours"
	RawEarnings       = "earnings"
	RawExposure       = "exposure"
	RawSortOption     = "sort_option"
)

// Canonical report column names.
const (
	ColEmployeeName   = "Employee Name"
	ColEmployeeNumber = "Employee Number"
	ColJobNo          = "Job No"
	ColJobDescription = "Job Description"
	ColCostCode       = "Cost Code"
	ColEarnType       = "Earn Type"
	ColHours          = "Hours"
	ColEarnings       = "Earnings"
	ColExposure       = "Exposure"
	ColSortOption     = "Sort Option"
)

// RequiredRawColumns is the column set a raw payroll export must carry.
func RequiredRawColumns() []string {
	return []string{
		RawEmployeeName,
		RawEmployeeNumber,
		RawJobDescription,
		RawClassCode,
		RawEarnType,
		RawHours,
		RawEarnings,
		RawJobNo,
	}
}

// ProcessedColumns is the disjoint column set identifying an input that
// already went through the pipeline.
func ProcessedColumns() []string {
	return []string{
		ColEmployeeName,
		ColEmployeeNumber,
		ColJobNo,
		ColCostCode,
		ColEarnType,
		ColHours,
		ColEarnings,
	}
}

// DetailColumns is the full canonical column order of a detail report.
func DetailColumns() []string {
	return []string{
		ColEmployeeName,
		ColEmployeeNumber,
		ColJobNo,
		ColJobDescription,
		ColCostCode,
		ColEarnType,
		ColHours,
		ColEarnings,
		ColExposure,
		ColSortOption,
	}
}
