package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strandsoft/wcomp/internal/cli"
	"github.com/strandsoft/wcomp/internal/pipeline"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <report-file>",
		Short: "Normalize a raw payroll export into a detail report",
		Long: `Process loads a raw payroll export (CSV or Excel), validates its
schema, applies the class code correction rules, and writes a
timestamped detail report CSV. Files that have already been processed
pass through unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cleanup, err := newPipeline()
			if err != nil {
				return err
			}
			defer cleanup()

			rs, err := selectRules(viper.GetString("process.rules"))
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Processing payroll report"))

			result, err := p.ProcessReport(cmd.Context(), args[0], pipeline.ProcessOptions{
				OutputDir:  viper.GetString("output.dir"),
				ReportName: viper.GetString("process.name"),
				Rules:      rs,
				Subtotals:  viper.GetBool("process.subtotals"),
			})
			if err != nil {
				return err
			}

			if result.AlreadyProcessed {
				fmt.Println(cli.FormatWarning("input is already a processed report, written through unchanged"))
				printOutputFile(result.OutputPath)
				return nil
			}

			printAudit(result.Report)
			fmt.Println(cli.FormatSubtle(fmt.Sprintf("%d records, total earnings %s",
				result.Records, cli.FormatMoney(result.TotalEarnings.StringFixed(2)))))
			printOutputFile(result.OutputPath)
			return nil
		},
	}

	cmd.Flags().String("name", "WorkersCompReport.csv", "base name for the output report")
	cmd.Flags().String("rules", "standard", "rule set to apply (standard or alternate)")
	cmd.Flags().Bool("subtotals", false, "insert per-employee subtotal and grand total rows")
	_ = viper.BindPFlag("process.name", cmd.Flags().Lookup("name"))
	_ = viper.BindPFlag("process.rules", cmd.Flags().Lookup("rules"))
	_ = viper.BindPFlag("process.subtotals", cmd.Flags().Lookup("subtotals"))

	return cmd
}
