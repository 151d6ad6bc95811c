package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CapIot.energyportal/internal/chart"
)

const exportedTree = `{
  "2025-03-06": {"9": {"15": 120, "30": 140}},
  "2025-03-07": [null, {"0": 50}]
}`

func runChart(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chartFlags.granularity, chartFlags.year, chartFlags.month = "monthly", "", ""
	chartFlags.day, chartFlags.hour, chartFlags.asJSON = "", "", false

	path := filepath.Join(t.TempDir(), "readings.json")
	require.NoError(t, os.WriteFile(path, []byte(exportedTree), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"chart", path}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestChartCommand_JSON(t *testing.T) {
	out, err := runChart(t, "--granularity", "daily", "--year", "2025", "--month", "3", "--day", "7", "--json")
	require.NoError(t, err)

	var c chart.Chart
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	require.Len(t, c.Labels, 24)
	assert.Equal(t, 50.0, c.Datasets[0].Data[1])
	assert.Equal(t, "Power Usage (daily)", c.Options.Title)
}

func TestChartCommand_Text(t *testing.T) {
	out, err := runChart(t, "--granularity", "hourly", "--year", "2025", "--month", "03", "--day", "06", "--hour", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "15       120.00 W")
	assert.Contains(t, out, "readings 2")
}

func TestChartCommand_IncompleteSelection(t *testing.T) {
	_, err := runChart(t, "--granularity", "hourly", "--year", "2025", "--month", "03")
	assert.EqualError(t, err, "hourly usage needs day, hour")
}
