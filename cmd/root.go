package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vnstock-service",
	Short: "Vietnamese stock-market company data service",
	Long:  "REST API over the company store plus the bulk sync pipeline that populates it.",
}

func Execute() error {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(migrateCmd)
	return rootCmd.Execute()
}
