// Package rules defines the immutable classification rule sets applied
// to payroll records: dual-wage trade threshold tables, class code
// widening maps, drive-time reassignment maps, and per-employee
// identity overrides.
package rules

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/strandsoft/wcomp/internal/model"
)

// Trade associates the high-wage and low-wage class codes of one trade
// with its hourly rate threshold. A zero LowCode means the table knows
// no low-wage counterpart for the trade.
type Trade struct {
	Name      string
	HighCode  int
	LowCode   int
	Threshold decimal.Decimal
}

// Role indicates which side of a dual-wage pair a class code sits on.
type Role int

// Trade code roles.
const (
	RoleHigh Role = iota
	RoleLow
)

// Override forces a specific employee onto a fixed class code
// regardless of recorded code or wage rate.
type Override struct {
	Employee    string
	Reason      string
	Description string
	Code        int
}

// Config is the raw material for a rule set.
type Config struct {
	Name          string
	Trades        []Trade
	CodeWidths    map[int]int
	DriveTime     map[int]int
	Overrides     []Override
	WageValidated []string
}

type codeEntry struct {
	trade Trade
	role  Role
}

// Set is an immutable, indexed rule set. Construct with NewSet; loaded
// once at process start and shared read-only across runs.
type Set struct {
	byCode        map[int]codeEntry
	widths        map[int]int
	driveTime     map[int]int
	wageValidated map[string]struct{}
	overrides     map[string]Override
	name          string
	trades        []Trade
}

// NewSet builds an indexed rule set from config. It fails on ambiguous
// tables where one code plays both roles.
func NewSet(cfg Config) (*Set, error) {
	s := &Set{
		name:          cfg.Name,
		trades:        append([]Trade(nil), cfg.Trades...),
		byCode:        make(map[int]codeEntry),
		widths:        make(map[int]int, len(cfg.CodeWidths)),
		driveTime:     make(map[int]int, len(cfg.DriveTime)),
		wageValidated: make(map[string]struct{}, len(cfg.WageValidated)),
		overrides:     make(map[string]Override, len(cfg.Overrides)),
	}

	for _, t := range s.trades {
		if t.HighCode != 0 {
			if _, dup := s.byCode[t.HighCode]; dup {
				return nil, fmt.Errorf("rule set %s: class code %d appears in more than one trade", cfg.Name, t.HighCode)
			}
			s.byCode[t.HighCode] = codeEntry{trade: t, role: RoleHigh}
		}
		if t.LowCode != 0 {
			if _, dup := s.byCode[t.LowCode]; dup {
				return nil, fmt.Errorf("rule set %s: class code %d appears in more than one trade", cfg.Name, t.LowCode)
			}
			s.byCode[t.LowCode] = codeEntry{trade: t, role: RoleLow}
		}
	}

	for from, to := range cfg.CodeWidths {
		s.widths[from] = to
	}
	for from, to := range cfg.DriveTime {
		s.driveTime[from] = to
	}
	for _, et := range cfg.WageValidated {
		s.wageValidated[model.NormalizeEarnType(et)] = struct{}{}
	}
	for _, o := range cfg.Overrides {
		s.overrides[model.NormalizeName(o.Employee)] = o
	}

	return s, nil
}

// Name returns the rule set's configuration name.
func (s *Set) Name() string { return s.name }

// Trades returns the trade threshold table.
func (s *Set) Trades() []Trade { return append([]Trade(nil), s.trades...) }

// Lookup resolves a class code to its trade and role within that trade.
func (s *Set) Lookup(code int) (Trade, Role, bool) {
	e, ok := s.byCode[code]
	return e.trade, e.role, ok
}

// Widen converts a short-form class code to its long-form equivalent.
// Codes already in long form map to themselves; unmapped codes report
// false and are left untouched by callers.
func (s *Set) Widen(code int) (int, bool) {
	to, ok := s.widths[code]
	return to, ok
}

// DriveTimeLow returns the low-wage code a drive-time record on the
// given code must be moved to.
func (s *Set) DriveTimeLow(code int) (int, bool) {
	to, ok := s.driveTime[code]
	return to, ok
}

// OverrideFor returns the identity override for an employee, matched on
// the exact whitespace-normalized name.
func (s *Set) OverrideFor(employee string) (Override, bool) {
	o, ok := s.overrides[model.NormalizeName(employee)]
	return o, ok
}

// WageValidated reports whether records of this earn type are subject
// to the wage threshold rule.
func (s *Set) WageValidated(earnType string) bool {
	_, ok := s.wageValidated[model.NormalizeEarnType(earnType)]
	return ok
}
