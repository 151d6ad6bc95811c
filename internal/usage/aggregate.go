package usage

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"CapIot.energyportal/internal/models"
)

// Aggregate computes the series for sel. The second return value is false
// when sel does not carry the date components its granularity needs.
func Aggregate(tree models.ReadingTree, sel Selection) (models.ProcessedSeries, bool) {
	if len(sel.Missing()) > 0 {
		return models.ProcessedSeries{}, false
	}
	switch sel.Granularity {
	case Yearly:
		return YearlyAverages(tree, sel.Year), true
	case Monthly:
		return MonthlyAverages(tree, sel.Year, sel.Month), true
	case Daily:
		return DailyAverages(tree, sel.Date()), true
	case Hourly:
		return HourlyValues(tree, sel.Date(), sel.Hour), true
	}
	return models.ProcessedSeries{}, false
}

// YearlyAverages buckets every reading dated in year by month.
func YearlyAverages(tree models.ReadingTree, year string) models.ProcessedSeries {
	var b buckets
	b.init(12)
	for _, date := range sortedKeys(tree) {
		hours := tree[date]
		if year == "" || !strings.HasPrefix(date, year) {
			continue
		}
		month, ok := dateField(date, 1)
		if !ok || month < 1 || month > 12 {
			continue
		}
		b.addHours(month-1, hours)
	}

	labels := make([]string, len(MonthNames))
	copy(labels, MonthNames)
	return models.ProcessedSeries{Labels: labels, Values: b.means()}
}

// MonthlyAverages buckets the readings of year-month by day of month.
func MonthlyAverages(tree models.ReadingTree, year, month string) models.ProcessedSeries {
	n := DaysIn(year, month)
	var b buckets
	b.init(n)

	prefix := fmt.Sprintf("%s-%s", year, padTwo(month))
	for _, date := range sortedKeys(tree) {
		hours := tree[date]
		if !strings.HasPrefix(date, prefix) {
			continue
		}
		day, ok := dateField(date, 2)
		if !ok || day < 1 || day > n {
			continue
		}
		b.addHours(day-1, hours)
	}

	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return models.ProcessedSeries{Labels: labels, Values: b.means()}
}

// DailyAverages buckets the readings of date by hour.
func DailyAverages(tree models.ReadingTree, date string) models.ProcessedSeries {
	var b buckets
	b.init(24)
	hours := tree[date]
	for _, hour := range sortedKeys(hours) {
		h, err := strconv.Atoi(hour)
		if err != nil || h < 0 || h > 23 {
			continue
		}
		minutes := hours[hour]
		for _, minute := range sortedKeys(minutes) {
			b.add(h, minutes[minute])
		}
	}

	labels := make([]string, 24)
	for i := range labels {
		labels[i] = fmt.Sprintf("%02d:00", i)
	}
	return models.ProcessedSeries{Labels: labels, Values: b.means()}
}

// HourlyValues returns the raw minute readings of one hour. No averaging:
// a minute holds at most one reading.
func HourlyValues(tree models.ReadingTree, date, hour string) models.ProcessedSeries {
	values := make([]float64, 60)
	for minute, watts := range hourReadings(tree[date], hour) {
		m, err := strconv.Atoi(minute)
		if err != nil || m < 0 || m > 59 {
			continue
		}
		values[m] = watts
	}

	labels := make([]string, 60)
	for i := range labels {
		labels[i] = fmt.Sprintf("%02d", i)
	}
	return models.ProcessedSeries{Labels: labels, Values: values}
}

// DaysIn returns the number of days in the given month, accounting for leap
// years. Unparseable input yields 0.
func DaysIn(year, month string) int {
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return 0
	}
	// Day 0 of the following month is the last day of this one.
	return time.Date(y, time.Month(m)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// hourReadings looks hour up as given and in its unpadded form, so a
// selection of "09" finds the tree key "9".
func hourReadings(hours map[string]map[string]float64, hour string) map[string]float64 {
	if minutes, ok := hours[hour]; ok {
		return minutes
	}
	if h, err := strconv.Atoi(hour); err == nil {
		return hours[strconv.Itoa(h)]
	}
	return nil
}

// dateField parses the idx-th dash separated component of a YYYY-MM-DD key.
func dateField(date string, idx int) (int, bool) {
	parts := strings.Split(date, "-")
	if len(parts) <= idx {
		return 0, false
	}
	v, err := strconv.Atoi(parts[idx])
	if err != nil {
		return 0, false
	}
	return v, true
}

func padTwo(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

type buckets struct {
	sums   []float64
	counts []int
}

func (b *buckets) init(n int) {
	b.sums = make([]float64, n)
	b.counts = make([]int, n)
}

func (b *buckets) add(i int, watts float64) {
	b.sums[i] += watts
	b.counts[i]++
}

// addHours walks keys in sorted order so float sums are reproducible.
func (b *buckets) addHours(i int, hours map[string]map[string]float64) {
	for _, hour := range sortedKeys(hours) {
		minutes := hours[hour]
		for _, minute := range sortedKeys(minutes) {
			b.add(i, minutes[minute])
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// means reports 0 for empty buckets.
func (b *buckets) means() []float64 {
	out := make([]float64, len(b.sums))
	for i, sum := range b.sums {
		if b.counts[i] > 0 {
			out[i] = sum / float64(b.counts[i])
		}
	}
	return out
}
