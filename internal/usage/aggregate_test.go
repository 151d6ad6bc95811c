package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CapIot.energyportal/internal/models"
)

func scenarioTree() models.ReadingTree {
	return models.ReadingTree{
		"2025-03-06": {"9": {"15": 120, "30": 140}},
	}
}

func TestHourlyValues_Scenario(t *testing.T) {
	t.Parallel()

	series := HourlyValues(scenarioTree(), "2025-03-06", "9")

	require.Len(t, series.Labels, 60)
	require.Len(t, series.Values, 60)
	assert.Equal(t, "00", series.Labels[0])
	assert.Equal(t, "59", series.Labels[59])
	for i, v := range series.Values {
		switch i {
		case 15:
			assert.Equal(t, 120.0, v)
		case 30:
			assert.Equal(t, 140.0, v)
		default:
			assert.Zero(t, v, "minute %d", i)
		}
	}
}

func TestHourlyValues_PaddedHour(t *testing.T) {
	t.Parallel()

	series := HourlyValues(scenarioTree(), "2025-03-06", "09")
	assert.Equal(t, 120.0, series.Values[15])
	assert.Equal(t, 140.0, series.Values[30])
}

func TestHourlyValues_MissingDate(t *testing.T) {
	t.Parallel()

	series := HourlyValues(scenarioTree(), "2024-01-01", "9")
	require.Len(t, series.Values, 60)
	assert.Equal(t, make([]float64, 60), series.Values)
}

func TestDailyAverages_Scenario(t *testing.T) {
	t.Parallel()

	series := DailyAverages(scenarioTree(), "2025-03-06")

	require.Len(t, series.Labels, 24)
	require.Len(t, series.Values, 24)
	assert.Equal(t, "00:00", series.Labels[0])
	assert.Equal(t, "09:00", series.Labels[9])
	assert.Equal(t, "23:00", series.Labels[23])
	for i, v := range series.Values {
		if i == 9 {
			assert.Equal(t, 130.0, v)
			continue
		}
		assert.Zero(t, v, "hour %d", i)
	}
}

func TestDailyAverages_AlwaysTwentyFour(t *testing.T) {
	t.Parallel()

	tree := models.ReadingTree{
		"2025-03-06": {"0": {"0": 1}, "5": {"0": 2}, "23": {"59": 3}, "bogus": {"0": 9}},
	}
	for _, date := range []string{"2025-03-06", "2025-03-07", ""} {
		series := DailyAverages(tree, date)
		assert.Len(t, series.Values, 24, date)
		assert.Len(t, series.Labels, 24, date)
	}
}

func TestYearlyAverages(t *testing.T) {
	t.Parallel()

	tree := models.ReadingTree{
		"2025-01-10": {"1": {"0": 100, "1": 200}},
		"2025-01-20": {"2": {"0": 300}},
		"2025-12-31": {"23": {"59": 50}},
		"2024-01-10": {"1": {"0": 999}},
	}

	series := YearlyAverages(tree, "2025")

	require.Len(t, series.Labels, 12)
	require.Len(t, series.Values, 12)
	assert.Equal(t, MonthNames, series.Labels)
	assert.Equal(t, 200.0, series.Values[0])
	assert.Equal(t, 50.0, series.Values[11])
	for i := 1; i < 11; i++ {
		assert.Zero(t, series.Values[i], "month %d", i+1)
	}
}

func TestYearlyAverages_LabelsAreCopied(t *testing.T) {
	t.Parallel()

	series := YearlyAverages(models.ReadingTree{}, "2025")
	series.Labels[0] = "changed"
	assert.Equal(t, "January", MonthNames[0])
}

func TestMonthlyAverages(t *testing.T) {
	t.Parallel()

	tree := models.ReadingTree{
		"2025-02-01": {"0": {"0": 10, "1": 30}},
		"2025-02-28": {"12": {"0": 7}},
		"2025-03-01": {"0": {"0": 500}},
	}

	series := MonthlyAverages(tree, "2025", "02")

	require.Len(t, series.Labels, 28)
	require.Len(t, series.Values, 28)
	assert.Equal(t, "1", series.Labels[0])
	assert.Equal(t, "28", series.Labels[27])
	assert.Equal(t, 20.0, series.Values[0])
	assert.Equal(t, 7.0, series.Values[27])

	// Unpadded month input matches the same dates.
	assert.Equal(t, series, MonthlyAverages(tree, "2025", "2"))
}

func TestDaysIn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year, month string
		want        int
	}{
		{"2025", "01", 31},
		{"2025", "02", 28},
		{"2024", "02", 29},
		{"1900", "02", 28},
		{"2000", "02", 29},
		{"2025", "04", 30},
		{"2025", "12", 31},
		{"2025", "13", 0},
		{"abcd", "01", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysIn(tt.year, tt.month), "%s-%s", tt.year, tt.month)
		if tt.want > 0 {
			assert.Len(t, MonthlyAverages(models.ReadingTree{}, tt.year, tt.month).Labels, tt.want)
		}
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	t.Parallel()

	tree := models.ReadingTree{
		"2025-03-06": {"9": {"15": 120.1, "30": 140.7, "31": 0.3}, "10": {"0": 1.1}},
		"2025-03-07": {"0": {"0": 0.2}},
	}
	selections := []Selection{
		{Granularity: Yearly, Year: "2025"},
		{Granularity: Monthly, Year: "2025", Month: "03"},
		{Granularity: Daily, Year: "2025", Month: "03", Day: "06"},
		{Granularity: Hourly, Year: "2025", Month: "03", Day: "06", Hour: "09"},
	}
	for _, sel := range selections {
		first, ok := Aggregate(tree, sel)
		require.True(t, ok, sel.Granularity)
		second, ok := Aggregate(tree, sel)
		require.True(t, ok, sel.Granularity)
		assert.Equal(t, first, second, sel.Granularity)
		assert.Equal(t, len(first.Labels), len(first.Values), sel.Granularity)
	}
}

func TestAggregate_IncompleteSelection(t *testing.T) {
	t.Parallel()

	tests := []Selection{
		{Granularity: Monthly, Year: "2025"},
		{Granularity: Daily, Year: "2025", Month: "03"},
		{Granularity: Hourly, Year: "2025", Month: "03", Day: "06"},
		{Granularity: "weekly", Year: "2025"},
		{Granularity: Yearly},
	}
	for _, sel := range tests {
		_, ok := Aggregate(scenarioTree(), sel)
		assert.False(t, ok, "%+v", sel)
	}
}

func TestParseGranularity(t *testing.T) {
	t.Parallel()

	g, err := ParseGranularity("daily")
	require.NoError(t, err)
	assert.Equal(t, Daily, g)

	_, err = ParseGranularity("minutely")
	assert.Error(t, err)
}
