package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "powerdash",
	Short: "Electricity usage and billing dashboard",
	Long: `powerdash serves the household usage dashboard: usage charts built from
meter readings, the monthly bill, and the connection-status admin panel.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, chartCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
