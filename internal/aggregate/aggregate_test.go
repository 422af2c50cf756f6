package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strandsoft/wcomp/internal/model"
)

func rec(number, name, earnType string, code int, hours, earnings string) model.Record {
	e := decimal.RequireFromString(earnings)
	return model.Record{
		EmployeeNumber: number,
		EmployeeName:   name,
		EarnType:       earnType,
		ClassCode:      code,
		Hours:          decimal.RequireFromString(hours),
		Earnings:       e,
		Exposure:       e,
	}
}

func TestSummarize_GroupsAndPivots(t *testing.T) {
	records := []model.Record{
		rec("100", "Smith, John", "REG", 5432, "40", "1600"),
		rec("100", "Smith, John", "OVT", 5432, "5", "300"),
		rec("100", "Smith, John", "DBL", 5432, "2", "160"),
		rec("100", "Smith, John", "REG", 5403, "8", "280"),
		rec("101", "Jones, Mary", "REG", 5482, "40", "1200"),
	}

	rows := Summarize(records)
	require.Len(t, rows, 3, "one row per employee and class code")

	smith := rows[0]
	assert.Equal(t, "100", smith.EmployeeNumber)
	assert.Equal(t, 5403, smith.ClassCode, "rows sorted by number, name, code")
	assert.Equal(t, "John", smith.FirstName)
	assert.Equal(t, "Smith", smith.LastName)

	smithHigh := rows[1]
	assert.Equal(t, 5432, smithHigh.ClassCode)
	assert.True(t, smithHigh.Regular.Equal(decimal.RequireFromString("1600")))
	assert.True(t, smithHigh.Overtime.Equal(decimal.RequireFromString("300")))
	assert.True(t, smithHigh.Doubletime.Equal(decimal.RequireFromString("160")))
	assert.True(t, smithHigh.Other.IsZero())
	assert.True(t, smithHigh.Earnings.Equal(decimal.RequireFromString("2060")))

	jones := rows[2]
	assert.Equal(t, "101", jones.EmployeeNumber)
	assert.True(t, jones.BucketTotal().Equal(decimal.RequireFromString("1200")))
}

func TestSummarize_UnknownEarnTypeGoesToOther(t *testing.T) {
	rows := Summarize([]model.Record{rec("100", "Smith, John", "MISC", 5432, "1", "50")})

	require.Len(t, rows, 1)
	assert.True(t, rows[0].Other.Equal(decimal.RequireFromString("50")))
	assert.True(t, rows[0].Regular.IsZero())
}

func TestSummarize_Empty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}

func TestSortRecords(t *testing.T) {
	records := []model.Record{
		{EmployeeNumber: "101", EmployeeName: "Jones, Mary", SortKey: "B", JobNo: "2", EarnType: "REG"},
		{EmployeeNumber: "100", EmployeeName: "Smith, John", SortKey: "B", JobNo: "1", EarnType: "OVT"},
		{EmployeeNumber: "100", EmployeeName: "Smith, John", SortKey: "A", JobNo: "3", EarnType: "REG"},
		{EmployeeNumber: "100", EmployeeName: "Smith, John", SortKey: "B", JobNo: "1", EarnType: "DBL"},
	}

	SortRecords(records)

	assert.Equal(t, "A", records[0].SortKey)
	assert.Equal(t, "DBL", records[1].EarnType, "equal keys fall through to earn type")
	assert.Equal(t, "OVT", records[2].EarnType)
	assert.Equal(t, "101", records[3].EmployeeNumber)
}

func TestTotalEarnings(t *testing.T) {
	records := []model.Record{
		rec("100", "Smith, John", "REG", 5432, "40", "1600.25"),
		rec("100", "Smith, John", "OVT", 5432, "5", "299.75"),
	}

	assert.True(t, TotalEarnings(records).Equal(decimal.RequireFromString("1900.00")))
	assert.True(t, TotalEarnings(nil).IsZero())
}
