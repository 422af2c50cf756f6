// Package export writes aggregated wage summaries into the workers'
// comp spreadsheet template. It fills named cells and the per-employee
// data block; pipeline output values are written as-is, never altered.
package export

import (
	"fmt"
	"os"

	"github.com/strandsoft/wcomp/internal/common"
)

// Config holds template writer settings.
type Config struct {
	// TemplatePath points at the pre-existing workbook template. Empty
	// means no template is available and a standalone workbook is
	// generated instead.
	TemplatePath string

	// SheetName is the worksheet the template expects data on.
	SheetName string

	// StartRow is the first row of the data block.
	StartRow int

	// ClearThroughRow is the last row wiped before writing.
	ClearThroughRow int

	// State is written into the state column for every row.
	State string
}

// DefaultConfig returns the template layout used by the ASR workbook.
func DefaultConfig() Config {
	return Config{
		SheetName:       "Payroll Entry",
		StartRow:        23,
		ClearThroughRow: 400,
		State:           "CA",
	}
}

// Named cells in the template header block.
const (
	cellReportDate  = "G9"
	cellPeriodStart = "G10"
	cellPeriodEnd   = "G11"
	cellGrossWages  = "G12"
)

// Validate checks the configuration for basic sanity.
func (c Config) Validate() error {
	if c.SheetName == "" {
		return fmt.Errorf("%w: sheet name is required", common.ErrInvalidConfig)
	}
	if c.StartRow <= 0 || c.ClearThroughRow < c.StartRow {
		return fmt.Errorf("%w: data block rows %d..%d", common.ErrInvalidConfig, c.StartRow, c.ClearThroughRow)
	}
	if c.TemplatePath != "" {
		if _, err := os.Stat(c.TemplatePath); err != nil {
			return fmt.Errorf("%w: template not accessible: %w", common.ErrInvalidConfig, err)
		}
	}
	return nil
}
