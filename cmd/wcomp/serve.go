package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strandsoft/wcomp/internal/cli"
	"github.com/strandsoft/wcomp/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the report processing HTTP server",
		Long: `Serve starts an HTTP server exposing the processing workflow as a
JSON API. Uploaded files and generated reports are scoped to a
per-session working directory and removed on cleanup.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config := server.DefaultConfig(viper.GetString("output.dir"))
			if addr := viper.GetString("server.addr"); addr != "" {
				config.Addr = addr
			}
			config.TemplatePath = viper.GetString("server.template")

			fmt.Println(cli.FormatTitle("Starting wcomp server"))
			fmt.Println(cli.FormatSubtle(fmt.Sprintf("listening on %s", config.Addr)))

			return server.New(config, nil).Run(cmd.Context())
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("template", "", "path to the summary workbook template")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.template", cmd.Flags().Lookup("template"))

	return cmd
}
