package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var march = time.Date(2025, time.March, 6, 7, 27, 32, 0, time.UTC)

func TestNewSelection(t *testing.T) {
	t.Parallel()

	sel := NewSelection(march, nil)
	assert.Equal(t, Selection{Granularity: Monthly, Year: "2025", Month: "03"}, sel)

	sel = NewSelection(march, []string{"2023", "2024"})
	assert.Equal(t, "2024", sel.Year)
	assert.Equal(t, "03", sel.Month)
}

func TestWithGranularity_YearlyClearsChildren(t *testing.T) {
	t.Parallel()

	full := Selection{Granularity: Hourly, Year: "2025", Month: "03", Day: "06", Hour: "09"}
	for _, from := range []Granularity{Yearly, Monthly, Daily, Hourly} {
		start := full
		start.Granularity = from
		got := start.WithGranularity(Yearly, march)
		assert.Equal(t, Selection{Granularity: Yearly, Year: "2025"}, got, from)
	}
	// The receiver is untouched.
	assert.Equal(t, "09", full.Hour)
}

func TestWithGranularity_DefaultsMonth(t *testing.T) {
	t.Parallel()

	got := Selection{Granularity: Yearly, Year: "2024"}.WithGranularity(Daily, march)
	assert.Equal(t, Selection{Granularity: Daily, Year: "2024", Month: "03"}, got)

	got = Selection{Granularity: Hourly, Year: "2024", Month: "11", Day: "02", Hour: "05"}.WithGranularity(Monthly, march)
	assert.Equal(t, Selection{Granularity: Monthly, Year: "2024", Month: "11"}, got)
}

func TestWithMonth_ClearsDayAndHour(t *testing.T) {
	t.Parallel()

	sel := Selection{Granularity: Hourly, Year: "2025", Month: "03", Day: "06", Hour: "09"}

	got := sel.WithMonth("4")
	assert.Equal(t, Selection{Granularity: Hourly, Year: "2025", Month: "04"}, got)

	assert.Equal(t, sel, sel.WithMonth("03"))
}

func TestWithDay_ClearsHour(t *testing.T) {
	t.Parallel()

	sel := Selection{Granularity: Hourly, Year: "2025", Month: "03", Day: "06", Hour: "09"}
	got := sel.WithDay("7")
	assert.Equal(t, Selection{Granularity: Hourly, Year: "2025", Month: "03", Day: "07"}, got)

	monthly := Selection{Granularity: Monthly, Year: "2025", Month: "03"}
	assert.Equal(t, monthly, monthly.WithDay("07"))
}

func TestWithYear_StartsOver(t *testing.T) {
	t.Parallel()

	sel := Selection{Granularity: Daily, Year: "2025", Month: "03", Day: "06"}
	assert.Equal(t, Selection{Granularity: Daily, Year: "2024"}, sel.WithYear("2024"))
	assert.Equal(t, sel, sel.WithYear("2025"))

	monthly := Selection{Granularity: Monthly, Year: "2025", Month: "03"}.WithYear("2024")
	assert.Equal(t, Selection{Granularity: Monthly, Year: "2024"}, monthly)
	assert.Equal(t, []string{"month"}, monthly.Missing())
}

func TestWithHour(t *testing.T) {
	t.Parallel()

	sel := Selection{Granularity: Hourly, Year: "2025", Month: "03", Day: "06"}
	assert.Equal(t, "09", sel.WithHour("9").Hour)

	daily := Selection{Granularity: Daily, Year: "2025", Month: "03", Day: "06"}
	assert.Empty(t, daily.WithHour("9").Hour)
}

func TestMissingAndDate(t *testing.T) {
	t.Parallel()

	sel := Selection{Granularity: Hourly, Year: "2025", Month: "03"}
	assert.Equal(t, []string{"day", "hour"}, sel.Missing())
	assert.Empty(t, Selection{Granularity: Yearly, Year: "2025"}.Missing())
	assert.Equal(t, []string{"year"}, Selection{Granularity: Yearly}.Missing())

	sel.Day = "06"
	assert.Equal(t, "2025-03-06", sel.Date())
}

func TestSelectionFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		g    Granularity
		want Selection
	}{
		{Yearly, Selection{Granularity: Yearly, Year: "2025"}},
		{Monthly, Selection{Granularity: Monthly, Year: "2025", Month: "03"}},
		{Daily, Selection{Granularity: Daily, Year: "2025", Month: "03", Day: "06"}},
		{Hourly, Selection{Granularity: Hourly, Year: "2025", Month: "03", Day: "06", Hour: "09"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.g), func(t *testing.T) {
			assert.Equal(t, tt.want, SelectionFor(tt.g, "2025", "3", "6", "9"))
		})
	}

	assert.Equal(t, []string{"day"}, SelectionFor(Daily, "2025", "03", "", "").Missing())
}
