package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strandsoft/wcomp/internal/cli"
)

func combineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "combine <first-report> <second-report>",
		Short: "Concatenate two detail reports into one",
		Long: `Combine appends the rows of the second detail report to the first.
Both reports must share an identical column set; the combined report is
written as a timestamped CSV in the output directory.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cleanup, err := newPipeline()
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Println(cli.FormatTitle("Combining reports"))

			outputPath, err := p.CombineReports(cmd.Context(), args[0], args[1], viper.GetString("output.dir"))
			if err != nil {
				return err
			}

			printOutputFile(outputPath)
			return nil
		},
	}
}
