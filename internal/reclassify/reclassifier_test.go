package reclassify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strandsoft/wcomp/internal/model"
	"github.com/strandsoft/wcomp/internal/rules"
)

func record(name, earnType string, code int, hours, earnings string) model.Record {
	return model.Record{
		EmployeeName: name,
		EarnType:     earnType,
		ClassCode:    code,
		Hours:        decimal.RequireFromString(hours),
		Earnings:     decimal.RequireFromString(earnings),
	}
}

func TestApply_WidensShortCodes(t *testing.T) {
	records := []model.Record{
		// 45/hr carpenter on the short-form low code.
		record("Smith, John", "REG", 5403, "40", "1800"),
	}

	report := New(rules.Standard()).Apply(records)

	widened := report.CorrectionsIn(model.CategoryCodeWidth)
	require.Len(t, widened, 1)
	assert.Equal(t, 5403, widened[0].OriginalCode)
	assert.Equal(t, 540321, widened[0].CorrectedCode)

	// 1800/40 = 45/hr clears the 41 threshold, so the wage pass then
	// promotes the widened low code to the high code.
	assert.Equal(t, 543221, records[0].ClassCode)
	require.Len(t, report.CorrectionsIn(model.CategoryWageBasedUp), 1)
}

func TestApply_IdentityOverride(t *testing.T) {
	records := []model.Record{
		record("Kidwell ,  Austin", "REG", 543221, "40", "2400"),
	}

	report := New(rules.Standard()).Apply(records)

	overrides := report.CorrectionsIn(model.CategoryIdentity)
	require.Len(t, overrides, 1)
	assert.Equal(t, 881002, records[0].ClassCode)
	// Clerical codes sit outside the trade table, so the wage pass
	// leaves the override in place.
	assert.Empty(t, report.CorrectionsIn(model.CategoryWageBasedUp))
}

func TestApply_WageValidation(t *testing.T) {
	tests := []struct {
		name     string
		earnType string
		code     int
		hours    string
		earnings string
		wantCode int
		wantCat  model.CorrectionCategory
	}{
		{
			name:     "low code above threshold moves high",
			earnType: "REG",
			code:     540321, hours: "40", earnings: "1800", // 45/hr >= 41
			wantCode: 543221, wantCat: model.CategoryWageBasedUp,
		},
		{
			name:     "high code below threshold moves low",
			earnType: "REG",
			code:     543221, hours: "40", earnings: "1400", // 35/hr < 41
			wantCode: 540321, wantCat: model.CategoryWageBasedDown,
		},
		{
			name:     "rate exactly at threshold classifies high",
			earnType: "REG",
			code:     540321, hours: "40", earnings: "1640", // 41/hr
			wantCode: 543221, wantCat: model.CategoryWageBasedUp,
		},
		{
			name:     "high code above threshold stays",
			earnType: "REG",
			code:     543221, hours: "40", earnings: "1800",
			wantCode: 543221,
		},
		{
			name:     "low code below threshold stays",
			earnType: "REG",
			code:     540321, hours: "40", earnings: "1400",
			wantCode: 540321,
		},
		{
			name:     "bonus earn type not wage validated",
			earnType: "BON",
			code:     540321, hours: "40", earnings: "4000", // 100/hr, still stays
			wantCode: 540321,
		},
		{
			name:     "roofing uses its own threshold",
			earnType: "REG",
			code:     555211, hours: "40", earnings: "1260", // 31.50/hr >= 31
			wantCode: 555311, wantCat: model.CategoryWageBasedUp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := []model.Record{record("Smith, John", tt.earnType, tt.code, tt.hours, tt.earnings)}

			report := New(rules.Standard()).Apply(records)

			assert.Equal(t, tt.wantCode, records[0].ClassCode)
			if tt.wantCat != "" {
				require.Len(t, report.CorrectionsIn(tt.wantCat), 1)
				assert.Equal(t, 1, report.Summary.WageCorrected)
			} else {
				assert.Empty(t, report.Corrections)
			}
		})
	}
}

func TestApply_DriveTimeForcedLow(t *testing.T) {
	records := []model.Record{
		// Drive time at a rate far above the threshold still goes low.
		record("Smith, John", "DRIVE", 543221, "4", "400"),
		record("Smith, John", "DROVT", 543221, "2", "300"),
	}

	report := New(rules.Standard()).Apply(records)

	assert.Equal(t, 540321, records[0].ClassCode)
	assert.Equal(t, 540321, records[1].ClassCode)
	assert.Len(t, report.CorrectionsIn(model.CategoryDriveTime), 2)
	assert.Equal(t, 2, report.Summary.DriveTimeCorrected)
	assert.Empty(t, report.CorrectionsIn(model.CategoryWageBasedDown))
}

func TestApply_ZeroHoursSkipped(t *testing.T) {
	records := []model.Record{
		record("Smith, John", "REG", 540321, "0", "500"),
		record("Smith, John", "REG", 540321, "-1", "100"),
	}

	report := New(rules.Standard()).Apply(records)

	assert.Equal(t, 2, report.Summary.Skipped)
	assert.Equal(t, 0, report.Summary.Validated)
	assert.Empty(t, report.Corrections)
	assert.Equal(t, 540321, records[0].ClassCode)
}

func TestApply_FindingWhenNoLowCode(t *testing.T) {
	// Alternate painting has no low counterpart, so a painter under
	// threshold is reported but never mutated.
	records := []model.Record{
		record("Jones, Mary", "REG", 5482, "40", "1000"), // 25/hr < 31
	}

	report := New(rules.Alternate()).Apply(records)

	assert.Equal(t, 5482, records[0].ClassCode)
	assert.Empty(t, report.Corrections)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, "Painting", report.Findings[0].Trade)
	assert.Equal(t, 5482, report.Findings[0].CurrentCode)
}

func TestApply_Idempotent(t *testing.T) {
	records := []model.Record{
		record("Smith, John", "REG", 5403, "40", "1800"),
		record("Smith, John", "DRIVE", 543221, "4", "400"),
		record("Kidwell , Austin", "REG", 5432, "40", "2000"),
		record("Jones, Mary", "OVT", 555211, "10", "500"),
	}

	r := New(rules.Standard())
	first := r.Apply(records)
	require.NotEmpty(t, first.Corrections)

	second := r.Apply(records)
	assert.Empty(t, second.Corrections, "re-applying to corrected output must be a no-op")
	assert.Empty(t, second.Findings)
}

func TestApply_ConservesEarnings(t *testing.T) {
	records := []model.Record{
		record("Smith, John", "REG", 5403, "40", "1800"),
		record("Smith, John", "DRIVE", 543221, "4", "400"),
		record("Jones, Mary", "REG", 543221, "40", "1400"),
	}

	before := decimal.Zero
	for _, rec := range records {
		before = before.Add(rec.Earnings)
	}

	New(rules.Standard()).Apply(records)

	after := decimal.Zero
	for _, rec := range records {
		after = after.Add(rec.Earnings)
	}
	assert.True(t, before.Equal(after), "corrections move codes, never money")
}

func TestReport_SummaryCounts(t *testing.T) {
	records := []model.Record{
		record("Smith, John", "REG", 540321, "40", "1800"), // corrected up
		record("Smith, John", "REG", 543221, "40", "1800"), // validated, stays
		record("Smith, John", "REG", 540321, "0", "0"),     // skipped
	}

	report := New(rules.Standard()).Apply(records)

	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 2, report.Summary.Validated)
	assert.Equal(t, 1, report.Summary.Corrected)
	assert.Equal(t, 1, report.Summary.Skipped)
}
