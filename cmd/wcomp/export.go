package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strandsoft/wcomp/internal/cli"
	"github.com/strandsoft/wcomp/internal/export"
	"github.com/strandsoft/wcomp/internal/pipeline"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <detail-report>",
		Short: "Export a detail report as a summary workbook",
		Long: `Export re-ingests a processed detail report, aggregates earnings per
employee and class code into wage type columns, and writes the summary
workbook. When a template workbook is configured the summary is written
into its entry sheet; otherwise a standalone workbook is produced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cleanup, err := newPipeline()
			if err != nil {
				return err
			}
			defer cleanup()

			rs, err := selectRules(viper.GetString("export.rules"))
			if err != nil {
				return err
			}

			templateCfg := export.DefaultConfig()
			templateCfg.TemplatePath = viper.GetString("export.template")

			fmt.Println(cli.FormatTitle("Exporting summary workbook"))

			result, err := p.ExportSummary(cmd.Context(), args[0], pipeline.ExportOptions{
				OutputDir: viper.GetString("output.dir"),
				PayPeriod: viper.GetString("export.pay_period"),
				Template:  templateCfg,
				Rules:     rs,
			})
			if err != nil {
				return err
			}

			printAudit(result.Report)
			printTotals(result)
			printOutputFile(result.OutputPath)
			return nil
		},
	}

	cmd.Flags().String("template", "", "path to the summary workbook template")
	cmd.Flags().String("pay-period", "", "pay period end date (YYYYMMDD)")
	cmd.Flags().String("rules", "alternate", "rule set to apply (standard or alternate)")
	_ = viper.BindPFlag("export.template", cmd.Flags().Lookup("template"))
	_ = viper.BindPFlag("export.pay_period", cmd.Flags().Lookup("pay-period"))
	_ = viper.BindPFlag("export.rules", cmd.Flags().Lookup("rules"))

	return cmd
}

func printTotals(result *pipeline.ExportResult) {
	content := fmt.Sprintf("Employees/codes: %d\nRegular:         %s\nOvertime:        %s\nDoubletime:      %s\nGross:           %s",
		len(result.Summary),
		cli.FormatMoney(result.Totals.Regular.StringFixed(2)),
		cli.FormatMoney(result.Totals.Overtime.StringFixed(2)),
		cli.FormatMoney(result.Totals.Doubletime.StringFixed(2)),
		cli.FormatMoney(result.Totals.GrandTotal.StringFixed(2)))
	fmt.Println(cli.RenderBox("Summary totals", content))
}
