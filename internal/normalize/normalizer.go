package normalize

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/strandsoft/wcomp/internal/model"
	"github.com/strandsoft/wcomp/internal/tabular"
)

// SchemaError reports a raw input missing required columns. Fatal for
// the run.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid file format: missing required columns: %s", strings.Join(e.Missing, ", "))
}

// cyJobPattern matches job numbers for the construction-yard category,
// which sits outside reporting scope.
var cyJobPattern = regexp.MustCompile(`^CY\d{2}`)

// Result is the outcome of normalizing one raw table.
type Result struct {
	Records          []model.Record
	AlreadyProcessed bool
	Filtered         int
	ExcludedJobs     int
	Skipped          int
}

// Normalize converts a raw payroll export table into canonical records.
// An input that already carries the canonical column set short-circuits:
// the caller must pass it through unchanged.
func Normalize(table *tabular.Table) (*Result, error) {
	if len(table.MissingColumns(ProcessedColumns())) == 0 {
		slog.Info("input appears to be an already-processed report, passing through")
		return &Result{AlreadyProcessed: true}, nil
	}

	if missing := table.MissingColumns(RequiredRawColumns()); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	hasExposure := table.HasColumn(RawExposure)
	hasSortOption := table.HasColumn(RawSortOption)
	target := targetEarnTypeSet()

	res := &Result{}
	for i := 0; i < table.Len(); i++ {
		earnType := model.NormalizeEarnType(table.Value(i, RawEarnType))
		if _, ok := target[earnType]; !ok {
			res.Filtered++
			continue
		}

		jobNo := strings.TrimSpace(table.Value(i, RawJobNo))
		if ExcludedJob(jobNo) {
			res.ExcludedJobs++
			continue
		}

		code, ok := ParseClassCode(table.Value(i, RawClassCode))
		if !ok {
			res.Skipped++
			slog.Debug("skipping row with unparsable class code",
				"row", i,
				"class", table.Value(i, RawClassCode))
			continue
		}

		earnings := parseAmount(table.Value(i, RawEarnings))
		exposure := earnings
		if hasExposure {
			exposure = parseAmount(table.Value(i, RawExposure))
		}

		jobDesc := strings.TrimSpace(table.Value(i, RawJobDescription))
		sortKey := jobDesc
		if hasSortOption {
			sortKey = strings.TrimSpace(table.Value(i, RawSortOption))
		}

		res.Records = append(res.Records, model.Record{
			EmployeeName:   strings.TrimSpace(table.Value(i, RawEmployeeName)),
			EmployeeNumber: strings.TrimSpace(table.Value(i, RawEmployeeNumber)),
			JobNo:          jobNo,
			JobDescription: jobDesc,
			ClassCode:      code,
			EarnType:       earnType,
			Hours:          parseAmount(table.Value(i, RawHours)),
			Earnings:       earnings,
			Exposure:       exposure,
			SortKey:        sortKey,
		})
	}

	slog.Info("normalized raw export",
		"records", len(res.Records),
		"filtered_earn_types", res.Filtered,
		"excluded_jobs", res.ExcludedJobs,
		"skipped", res.Skipped)

	return res, nil
}

// ParseDetail converts a canonical detail report table back into
// records, dropping synthetic subtotal and grand-total rows so they
// never re-enter arithmetic.
func ParseDetail(table *tabular.Table) (*Result, error) {
	if missing := table.MissingColumns(ProcessedColumns()); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	hasExposure := table.HasColumn(ColExposure)
	hasSortOption := table.HasColumn(ColSortOption)

	res := &Result{}
	for i := 0; i < table.Len(); i++ {
		jobNo := strings.TrimSpace(table.Value(i, ColJobNo))
		jobDesc := strings.TrimSpace(table.Value(i, ColJobDescription))
		if jobNo == "" || strings.Contains(strings.ToUpper(jobDesc), "TOTAL") {
			res.Filtered++
			continue
		}

		code, ok := ParseClassCode(table.Value(i, ColCostCode))
		if !ok {
			res.Skipped++
			continue
		}

		earnings := parseAmount(table.Value(i, ColEarnings))
		exposure := earnings
		if hasExposure {
			exposure = parseAmount(table.Value(i, ColExposure))
		}
		sortKey := jobDesc
		if hasSortOption {
			sortKey = strings.TrimSpace(table.Value(i, ColSortOption))
		}

		res.Records = append(res.Records, model.Record{
			EmployeeName:   strings.TrimSpace(table.Value(i, ColEmployeeName)),
			EmployeeNumber: strings.TrimSpace(table.Value(i, ColEmployeeNumber)),
			JobNo:          jobNo,
			JobDescription: jobDesc,
			ClassCode:      code,
			EarnType:       model.NormalizeEarnType(table.Value(i, ColEarnType)),
			Hours:          parseAmount(table.Value(i, ColHours)),
			Earnings:       earnings,
			Exposure:       exposure,
			SortKey:        sortKey,
		})
	}

	return res, nil
}

// ExcludedJob reports whether a job number belongs to the excluded
// construction-yard category ("CY" followed by two digits).
func ExcludedJob(jobNo string) bool {
	return cyJobPattern.MatchString(strings.ToUpper(strings.TrimSpace(jobNo)))
}

// ParseClassCode parses a class code that may arrive as an integer or a
// float-formatted string ("5403" or "5403.0").
func ParseClassCode(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

// parseAmount coerces a numeric field to a two-decimal value.
// Unparsable values become zero.
func parseAmount(raw string) decimal.Decimal {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Round(2)
}

func targetEarnTypeSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, et := range model.TargetEarnTypes() {
		set[et] = struct{}{}
	}
	return set
}
