// Package aggregate groups corrected payroll records into wage
// summaries, builds the sorted detail report with its synthetic total
// rows, and enforces the earnings reconciliation invariant.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/strandsoft/wcomp/internal/model"
)

// Summarize groups records by (employee number, employee name, class
// code), sums earnings and exposure per group, and pivots earn types
// into the four wage bucket columns. Rows come back in stable key order.
func Summarize(records []model.Record) []model.SummaryRow {
	type key struct {
		number string
		name   string
		code   int
	}

	index := make(map[key]int)
	var out []model.SummaryRow

	for _, rec := range records {
		k := key{number: rec.EmployeeNumber, name: rec.EmployeeName, code: rec.ClassCode}
		i, ok := index[k]
		if !ok {
			first, last := model.ParseEmployeeName(rec.EmployeeName)
			out = append(out, model.SummaryRow{
				EmployeeNumber: rec.EmployeeNumber,
				EmployeeName:   rec.EmployeeName,
				FirstName:      first,
				LastName:       last,
				ClassCode:      rec.ClassCode,
			})
			i = len(out) - 1
			index[k] = i
		}

		row := &out[i]
		row.Earnings = row.Earnings.Add(rec.Earnings)
		row.Exposure = row.Exposure.Add(rec.Exposure)

		switch model.BucketFor(rec.EarnType) {
		case model.BucketRegular:
			row.Regular = row.Regular.Add(rec.Earnings)
		case model.BucketOvertime:
			row.Overtime = row.Overtime.Add(rec.Earnings)
		case model.BucketDoubletime:
			row.Doubletime = row.Doubletime.Add(rec.Earnings)
		default:
			row.Other = row.Other.Add(rec.Earnings)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.EmployeeNumber != b.EmployeeNumber {
			return a.EmployeeNumber < b.EmployeeNumber
		}
		if a.EmployeeName != b.EmployeeName {
			return a.EmployeeName < b.EmployeeName
		}
		return a.ClassCode < b.ClassCode
	})

	return out
}

// SortRecords orders records for detail reporting: employee number,
// name, sort key, job number, job description, earn type.
func SortRecords(records []model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.EmployeeNumber != b.EmployeeNumber {
			return a.EmployeeNumber < b.EmployeeNumber
		}
		if a.EmployeeName != b.EmployeeName {
			return a.EmployeeName < b.EmployeeName
		}
		if a.SortKey != b.SortKey {
			return a.SortKey < b.SortKey
		}
		if a.JobNo != b.JobNo {
			return a.JobNo < b.JobNo
		}
		if a.JobDescription != b.JobDescription {
			return a.JobDescription < b.JobDescription
		}
		return a.EarnType < b.EarnType
	})
}

// TotalEarnings sums the earnings field over a record set.
func TotalEarnings(records []model.Record) decimal.Decimal {
	total := decimal.Zero
	for _, rec := range records {
		total = total.Add(rec.Earnings)
	}
	return total
}

// TotalBuckets sums the four wage bucket columns over summary rows.
func TotalBuckets(rows []model.SummaryRow) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.BucketTotal())
	}
	return total
}
