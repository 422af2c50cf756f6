package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strandsoft/wcomp/internal/tabular"
)

func rawTable(rows ...[]string) *tabular.Table {
	t := tabular.New(RequiredRawColumns())
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

// Column order: emp_name, employee_no, job_desc, class, earn_type_no,
// hours, earnings, job_no.
func rawRow(name, number, desc, class, earnType, hours, earnings, jobNo string) []string {
	return []string{name, number, desc, class, earnType, hours, earnings, jobNo}
}

func TestNormalize_SchemaError(t *testing.T) {
	table := tabular.New([]string{"emp_name", "class", "hours"})

	_, err := Normalize(table)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Missing, "employee_no")
	assert.Contains(t, schemaErr.Missing, "earnings")
	assert.NotContains(t, schemaErr.Missing, "class")
}

func TestNormalize_AlreadyProcessed(t *testing.T) {
	table := tabular.New(DetailColumns())
	table.Append([]string{"Smith, John", "100", "J1", "Job One", "5432", "REG", "40", "1600", "1600", "Job One"})

	res, err := Normalize(table)
	require.NoError(t, err)
	assert.True(t, res.AlreadyProcessed)
	assert.Empty(t, res.Records)
}

func TestNormalize_FiltersEarnTypes(t *testing.T) {
	table := rawTable(
		rawRow("Smith, John", "100", "Job One", "5432", "REG", "40", "1600", "J1"),
		rawRow("Smith, John", "100", "Job One", "5432", "EXP", "0", "250", "J1"),
		rawRow("Smith, John", "100", "Job One", "5432", "ovt", "5", "300", "J1"),
	)

	res, err := Normalize(table)
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, 1, res.Filtered)
	assert.Equal(t, "REG", res.Records[0].EarnType)
	assert.Equal(t, "OVT", res.Records[1].EarnType, "earn types are upcased")
}

func TestNormalize_ExcludesYardJobs(t *testing.T) {
	table := rawTable(
		rawRow("Smith, John", "100", "Yard", "5432", "REG", "8", "320", "CY24001"),
		rawRow("Smith, John", "100", "Site", "5432", "REG", "32", "1280", "24001"),
	)

	res, err := Normalize(table)
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.ExcludedJobs)
	assert.Equal(t, "24001", res.Records[0].JobNo)
}

func TestNormalize_SkipsUnparsableClassCodes(t *testing.T) {
	table := rawTable(
		rawRow("Smith, John", "100", "Job", "n/a", "REG", "40", "1600", "J1"),
		rawRow("Smith, John", "100", "Job", "5432.0", "REG", "40", "1600", "J1"),
	)

	res, err := Normalize(table)
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 5432, res.Records[0].ClassCode, "float-formatted codes parse to int")
}

func TestNormalize_AmountCoercion(t *testing.T) {
	table := rawTable(
		rawRow("Smith, John", "100", "Job", "5432", "REG", "40", "1,600.496", "J1"),
		rawRow("Jones, Mary", "101", "Job", "5432", "REG", "junk", "", "J1"),
	)

	res, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.True(t, res.Records[0].Earnings.Equal(decimal.RequireFromString("1600.50")), "got %s", res.Records[0].Earnings)
	assert.True(t, res.Records[1].Hours.IsZero())
	assert.True(t, res.Records[1].Earnings.IsZero())
}

func TestNormalize_ExposureDefaultsToEarnings(t *testing.T) {
	table := rawTable(rawRow("Smith, John", "100", "Job", "5432", "REG", "40", "1600", "J1"))

	res, err := Normalize(table)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.True(t, res.Records[0].Exposure.Equal(res.Records[0].Earnings))
	assert.Equal(t, "Job", res.Records[0].SortKey, "sort key defaults to the job description")
}

func TestParseDetail_DropsSyntheticRows(t *testing.T) {
	table := tabular.New(DetailColumns())
	table.Append([]string{"Smith, John", "100", "J1", "Job One", "5432", "REG", "40.00", "1600.00", "1600.00", "Job One"})
	table.Append([]string{"Smith, John", "100", "", "---REGULAR WAGES TOTAL---", "", "REG,VAC", "40.00", "1600.00", "1600.00", ""})
	table.Append([]string{"Smith, John", "100", "", "--GRAND TOTAL FOR EMPLOYEE--", "", "", "40.00", "1600.00", "1600.00", ""})

	res, err := ParseDetail(table)
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, 2, res.Filtered)
	assert.Equal(t, 5432, res.Records[0].ClassCode)
}

func TestParseDetail_SchemaError(t *testing.T) {
	table := tabular.New([]string{"Employee Name", "Hours"})
	_, err := ParseDetail(table)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Missing, "Cost Code")
}

func TestExcludedJob(t *testing.T) {
	tests := []struct {
		jobNo string
		want  bool
	}{
		{jobNo: "CY24001", want: true},
		{jobNo: "cy24", want: true},
		{jobNo: " CY99 ", want: true},
		{jobNo: "CYA1", want: false},
		{jobNo: "24CY01", want: false},
		{jobNo: "24001", want: false},
		{jobNo: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.jobNo, func(t *testing.T) {
			assert.Equal(t, tt.want, ExcludedJob(tt.jobNo))
		})
	}
}

func TestParseClassCode(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{raw: "5432", want: 5432, wantOK: true},
		{raw: "5432.0", want: 5432, wantOK: true},
		{raw: " 5432 ", want: 5432, wantOK: true},
		{raw: "", wantOK: false},
		{raw: "n/a", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseClassCode(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
