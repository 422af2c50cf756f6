package rules

import "github.com/shopspring/decimal"

// Wage-validated earn types. Narrower than the regular-wage bucket:
// bonus and drive time carry regular wages but are never rate-checked.
var wageValidatedTypes = []string{"REG", "VAC", "SICK", "DBA", "SUPP", "SAL", "OSAL", "PWREG"}

func dollars(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// Standard returns the primary rule set used when processing raw
// payroll exports: California 6-digit dual-wage classifications.
func Standard() *Set {
	s, err := NewSet(Config{
		Name: "standard",
		Trades: []Trade{
			{Name: "Carpentry", HighCode: 543221, LowCode: 540321, Threshold: dollars("41.00")},
			{Name: "Wallboard", HighCode: 544715, LowCode: 544615, Threshold: dollars("41.00")},
			{Name: "Painting", HighCode: 548234, LowCode: 547434, Threshold: dollars("32.00")},
			{Name: "Plastering/Stucco", HighCode: 548515, LowCode: 548415, Threshold: dollars("38.00")},
			{Name: "Sheet Metal", HighCode: 554222, LowCode: 553823, Threshold: dollars("33.00")},
			{Name: "Roofing", HighCode: 555311, LowCode: 555211, Threshold: dollars("31.00")},
			{Name: "Excavation", HighCode: 622038, LowCode: 621837, Threshold: dollars("40.00")},
		},
		CodeWidths: map[int]int{
			5403: 540321, // Carpentry low wage
			5432: 543221, // Carpentry high wage
			5446: 544615, // Wallboard low wage
			5447: 544715, // Wallboard high wage
			5482: 548234, // Painting high wage
			5485: 548515, // Plastering high wage
			5553: 555311, // Roofing high wage
			8810: 881002, // Clerical office employees

			// Already long form.
			510704: 510704,
			553823: 553823,
			554222: 554222,
			621837: 621837,
			622038: 622038,
			822704: 822704,
			874210: 874210,
			881002: 881002,
		},
		DriveTime: map[int]int{
			543221: 540321,
			544715: 544615,
			548234: 547434,
			548515: 548415,
			554222: 553823,
			555311: 555211,
			622038: 621837,
		},
		Overrides: []Override{
			{
				Employee:    "Kidwell , Austin",
				Code:        881002,
				Reason:      "Office/clerical duties only",
				Description: "Clerical Office Employees (NOC)",
			},
		},
		WageValidated: wageValidatedTypes,
	})
	if err != nil {
		panic(err)
	}
	return s
}

// Alternate returns the narrower rule set used by the summary export
// path. It is not interchangeable with Standard: different code pairs,
// different thresholds, and several trades with no low-wage code.
func Alternate() *Set {
	s, err := NewSet(Config{
		Name: "alternate",
		Trades: []Trade{
			{Name: "Carpentry", HighCode: 5432, LowCode: 5403, Threshold: dollars("39.00")},
			{Name: "Painting", HighCode: 5482, Threshold: dollars("31.00")},
			{Name: "Plastering/Stucco", HighCode: 5485, Threshold: dollars("36.00")},
			{Name: "Roofing", HighCode: 5553, Threshold: dollars("27.00")},
		},
		DriveTime: map[int]int{
			5432:   5403,
			543221: 540321,
		},
		Overrides: []Override{
			{
				Employee:    "Kidwell , Austin",
				Code:        8810,
				Reason:      "Office/clerical duties only",
				Description: "Clerical Office Employees (NOC)",
			},
		},
		WageValidated: wageValidatedTypes,
	})
	if err != nil {
		panic(err)
	}
	return s
}

// Named resolves a rule set by configuration name.
func Named(name string) (*Set, bool) {
	switch name {
	case "standard":
		return Standard(), true
	case "alternate":
		return Alternate(), true
	default:
		return nil, false
	}
}
