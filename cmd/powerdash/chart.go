package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"CapIot.energyportal/internal/chart"
	"CapIot.energyportal/internal/repository"
	"CapIot.energyportal/internal/usage"
)

var chartFlags struct {
	granularity string
	year        string
	month       string
	day         string
	hour        string
	asJSON      bool
}

var chartCmd = &cobra.Command{
	Use:   "chart <readings.json>",
	Short: "Aggregate an exported reading tree into a usage chart",
	Long: `chart reads a reading tree exported from the realtime database
(date -> hour -> minute -> watts, "-" for stdin) and prints the usage series
for the chosen granularity.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		tree, err := repository.DecodeTree(data)
		if err != nil {
			return err
		}

		g, err := usage.ParseGranularity(chartFlags.granularity)
		if err != nil {
			return err
		}
		year := chartFlags.year
		if year == "" {
			year = usage.NewSelection(time.Now(), usage.Years(tree)).Year
		}
		month := chartFlags.month
		if month == "" {
			month = fmt.Sprintf("%02d", int(time.Now().Month()))
		}
		sel := usage.SelectionFor(g, year, month, chartFlags.day, chartFlags.hour)

		series, ok := usage.Aggregate(tree, sel)
		if !ok {
			return fmt.Errorf("%s usage needs %s", g, strings.Join(sel.Missing(), ", "))
		}
		c := chart.FromSeries(series, string(g))

		out := cmd.OutOrStdout()
		if chartFlags.asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(c)
		}
		fmt.Fprintln(out, c.Options.Title)
		for i, label := range c.Labels {
			fmt.Fprintf(out, "%-8s %s\n", label, chart.FormatWatts(series.Values[i]))
		}
		fmt.Fprintf(out, "mean %s  max %s  min %s  readings %d\n",
			chart.FormatWatts(c.Summary.Mean), chart.FormatWatts(c.Summary.Max),
			chart.FormatWatts(c.Summary.Min), c.Summary.Nonzero)
		return nil
	},
}

func init() {
	f := chartCmd.Flags()
	f.StringVarP(&chartFlags.granularity, "granularity", "g", string(usage.Monthly), "yearly, monthly, daily or hourly")
	f.StringVar(&chartFlags.year, "year", "", "year (defaults to the latest year with data)")
	f.StringVar(&chartFlags.month, "month", "", "month, 1-12 (defaults to the current month)")
	f.StringVar(&chartFlags.day, "day", "", "day of month")
	f.StringVar(&chartFlags.hour, "hour", "", "hour, 0-23")
	f.BoolVar(&chartFlags.asJSON, "json", false, "print the chart-ready JSON")
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return data, nil
}
