package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "seating-console",
	Short: "Prom seating console: student table selection and staff assignment",
	Long: `seating-console serves the browser API for the prom seating dashboards.
Students pick a table, staff review and move assignments and upload rosters.
All seating data lives in the seating backend; the console keeps only
per-browser view state.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())
}
