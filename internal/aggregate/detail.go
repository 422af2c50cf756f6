package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/strandsoft/wcomp/internal/model"
	"github.com/strandsoft/wcomp/internal/normalize"
	"github.com/strandsoft/wcomp/internal/tabular"
)

// subtotalGroup names one wage bucket subtotal emitted per employee.
type subtotalGroup struct {
	label string
	types []string
}

func subtotalGroups() []subtotalGroup {
	return []subtotalGroup{
		{label: "---REGULAR WAGES TOTAL---", types: model.RegularEarnTypes},
		{label: "---OVERTIME WAGES TOTAL---", types: model.OvertimeEarnTypes},
		{label: "---DOUBLETIME WAGES TOTAL---", types: model.DoubletimeEarnTypes},
	}
}

// DetailRows converts sorted records into detail report rows. With
// subtotals enabled, per-employee wage bucket subtotal rows (only for
// non-empty buckets) and one grand-total row per employee are
// interleaved. Synthetic rows are tagged and excluded from aggregation.
func DetailRows(records []model.Record, subtotals bool) []model.DetailRow {
	if !subtotals {
		rows := make([]model.DetailRow, 0, len(records))
		for _, rec := range records {
			rows = append(rows, detailRow(rec))
		}
		return rows
	}

	groups := make(map[string][]model.Record)
	names := make([]string, 0)
	for _, rec := range records {
		if _, seen := groups[rec.EmployeeName]; !seen {
			names = append(names, rec.EmployeeName)
		}
		groups[rec.EmployeeName] = append(groups[rec.EmployeeName], rec)
	}
	sort.Strings(names)

	var rows []model.DetailRow
	for _, name := range names {
		group := groups[name]
		number := group[0].EmployeeNumber

		for _, rec := range group {
			rows = append(rows, detailRow(rec))
		}

		for _, sg := range subtotalGroups() {
			hours, earnings, exposure, n := sumByEarnType(group, sg.types)
			if n == 0 {
				continue
			}
			rows = append(rows, model.DetailRow{
				Kind:           model.KindSubtotal,
				EmployeeName:   name,
				EmployeeNumber: number,
				JobDescription: sg.label,
				EarnType:       strings.Join(sg.types, ","),
				Hours:          hours,
				Earnings:       earnings,
				Exposure:       exposure,
			})
		}

		hours, earnings, exposure, _ := sumByEarnType(group, nil)
		rows = append(rows, model.DetailRow{
			Kind:           model.KindGrandTotal,
			EmployeeName:   name,
			EmployeeNumber: number,
			JobDescription: "--GRAND TOTAL FOR EMPLOYEE--",
			Hours:          hours,
			Earnings:       earnings,
			Exposure:       exposure,
		})
	}

	return rows
}

// sumByEarnType totals a record group, restricted to the given earn
// types; a nil filter totals everything.
func sumByEarnType(group []model.Record, types []string) (hours, earnings, exposure decimal.Decimal, n int) {
	var filter map[string]struct{}
	if types != nil {
		filter = make(map[string]struct{}, len(types))
		for _, t := range types {
			filter[t] = struct{}{}
		}
	}

	for _, rec := range group {
		if filter != nil {
			if _, ok := filter[rec.EarnType]; !ok {
				continue
			}
		}
		hours = hours.Add(rec.Hours)
		earnings = earnings.Add(rec.Earnings)
		exposure = exposure.Add(rec.Exposure)
		n++
	}
	return hours, earnings, exposure, n
}

func detailRow(rec model.Record) model.DetailRow {
	return model.DetailRow{
		Kind:           model.KindDetail,
		EmployeeName:   rec.EmployeeName,
		EmployeeNumber: rec.EmployeeNumber,
		JobNo:          rec.JobNo,
		JobDescription: rec.JobDescription,
		CostCode:       strconv.Itoa(rec.ClassCode),
		EarnType:       rec.EarnType,
		SortKey:        rec.SortKey,
		Hours:          rec.Hours,
		Earnings:       rec.Earnings,
		Exposure:       rec.Exposure,
	}
}

// DetailTable renders detail rows as a canonical-column table ready for
// the CSV writer.
func DetailTable(rows []model.DetailRow) *tabular.Table {
	table := tabular.New(normalize.DetailColumns())
	for _, r := range rows {
		sortKey := r.SortKey
		if r.IsSynthetic() {
			sortKey = ""
		}
		table.Append([]string{
			r.EmployeeName,
			r.EmployeeNumber,
			r.JobNo,
			r.JobDescription,
			r.CostCode,
			r.EarnType,
			r.Hours.StringFixed(2),
			r.Earnings.StringFixed(2),
			r.Exposure.StringFixed(2),
			sortKey,
		})
	}
	return table
}
