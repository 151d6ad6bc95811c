package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"CapIot.energyportal/internal/models"
)

func availabilityTree() models.ReadingTree {
	return models.ReadingTree{
		"2025-03-06": {"2": {"0": 1}, "10": {"0": 1}, "9": {"0": 1}},
		"2025-03-01": {"0": {"0": 1}},
		"2025-01-15": {"0": {"0": 1}},
		"2024-12-31": {"0": {"0": 1}},
	}
}

func TestYears(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"2024", "2025"}, Years(availabilityTree()))
	assert.Empty(t, Years(models.ReadingTree{}))
	assert.Empty(t, Years(nil))
}

func TestMonths(t *testing.T) {
	t.Parallel()

	tree := availabilityTree()
	assert.Equal(t, []string{"01", "03"}, Months(tree, "2025"))
	assert.Equal(t, []string{"12"}, Months(tree, "2024"))
	assert.Empty(t, Months(tree, "2099"))
	assert.NotNil(t, Months(tree, "2099"))
	assert.Empty(t, Months(tree, ""))
}

func TestDays(t *testing.T) {
	t.Parallel()

	tree := availabilityTree()
	assert.Equal(t, []string{"01", "06"}, Days(tree, "2025", "03"))
	assert.Empty(t, Days(tree, "2025", "02"))
	assert.Empty(t, Days(tree, "2025", ""))
	assert.Empty(t, Days(tree, "", "03"))
}

func TestHours_StringOrder(t *testing.T) {
	t.Parallel()

	tree := availabilityTree()
	assert.Equal(t, []string{"10", "2", "9"}, Hours(tree, "2025-03-06"))
	assert.Empty(t, Hours(tree, "2025-03-07"))
	assert.Empty(t, Hours(tree, ""))
}

func TestHoursNumeric(t *testing.T) {
	t.Parallel()

	tree := availabilityTree()
	tree["2025-03-06"]["x"] = map[string]float64{"0": 1}
	assert.Equal(t, []string{"2", "9", "10", "x"}, HoursNumeric(tree, "2025-03-06"))
}

func TestAvailableOptions(t *testing.T) {
	t.Parallel()

	tree := availabilityTree()

	opts := AvailableOptions(tree, Selection{Granularity: Yearly, Year: "2025"}, false)
	assert.Equal(t, []string{"2024", "2025"}, opts.Years)
	assert.Equal(t, []string{"01", "03"}, opts.Months)
	assert.Empty(t, opts.Days)
	assert.Empty(t, opts.Hours)

	sel := Selection{Granularity: Hourly, Year: "2025", Month: "03", Day: "06"}
	opts = AvailableOptions(tree, sel, false)
	assert.Equal(t, []string{"01", "06"}, opts.Days)
	assert.Equal(t, []string{"10", "2", "9"}, opts.Hours)

	opts = AvailableOptions(tree, sel, true)
	assert.Equal(t, []string{"2", "9", "10"}, opts.Hours)
}
