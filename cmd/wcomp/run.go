package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strandsoft/wcomp/internal/cli"
	"github.com/strandsoft/wcomp/internal/export"
	"github.com/strandsoft/wcomp/internal/pipeline"
	"github.com/strandsoft/wcomp/internal/rules"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <primary-report> [secondary-report]",
		Short: "Run the full workflow from raw exports to summary workbook",
		Long: `Run processes the primary payroll export, optionally processes and
combines a secondary export, then produces the summary workbook from
the resulting detail report. This is the single-shot equivalent of
process, combine, and export in sequence.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cleanup, err := newPipeline()
			if err != nil {
				return err
			}
			defer cleanup()

			processRules, err := selectRules(viper.GetString("run.rules"))
			if err != nil {
				return err
			}
			var exportRules *rules.Set
			if name := viper.GetString("run.export_rules"); name != "" {
				if exportRules, err = selectRules(name); err != nil {
					return err
				}
			}

			templateCfg := export.DefaultConfig()
			templateCfg.TemplatePath = viper.GetString("run.template")

			opts := pipeline.RunOptions{
				PrimaryPath:  args[0],
				OutputDir:    viper.GetString("output.dir"),
				PayPeriod:    viper.GetString("run.pay_period"),
				Template:     templateCfg,
				ProcessRules: processRules,
				ExportRules:  exportRules,
				Subtotals:    viper.GetBool("run.subtotals"),
			}
			if len(args) == 2 {
				opts.SecondaryPath = args[1]
			}

			fmt.Println(cli.FormatTitle("Running workers' comp workflow"))

			result, err := p.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			printAudit(result.Primary.Report)
			printOutputFile(result.Primary.OutputPath)
			if result.Secondary != nil {
				printAudit(result.Secondary.Report)
				printOutputFile(result.Secondary.OutputPath)
			}
			if result.CombinedPath != "" {
				printOutputFile(result.CombinedPath)
			}

			printAudit(result.Export.Report)
			printTotals(result.Export)
			printOutputFile(result.Export.OutputPath)

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("workflow complete, artifacts in %s",
				filepath.Dir(result.Export.OutputPath))))
			return nil
		},
	}

	cmd.Flags().String("template", "", "path to the summary workbook template")
	cmd.Flags().String("pay-period", "", "pay period end date (YYYYMMDD)")
	cmd.Flags().String("rules", "standard", "rule set for processing (standard or alternate)")
	cmd.Flags().String("export-rules", "alternate", "rule set for the export pass")
	cmd.Flags().Bool("subtotals", false, "insert per-employee subtotal and grand total rows")
	_ = viper.BindPFlag("run.template", cmd.Flags().Lookup("template"))
	_ = viper.BindPFlag("run.pay_period", cmd.Flags().Lookup("pay-period"))
	_ = viper.BindPFlag("run.rules", cmd.Flags().Lookup("rules"))
	_ = viper.BindPFlag("run.export_rules", cmd.Flags().Lookup("export-rules"))
	_ = viper.BindPFlag("run.subtotals", cmd.Flags().Lookup("subtotals"))

	return cmd
}
