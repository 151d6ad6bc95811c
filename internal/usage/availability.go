package usage

import (
	"sort"
	"strconv"
	"strings"

	"CapIot.energyportal/internal/models"
)

// Options lists the selectable values for every selector given sel.
type Options struct {
	Years  []string `json:"years"`
	Months []string `json:"months"`
	Days   []string `json:"days"`
	Hours  []string `json:"hours"`
}

// Years returns the distinct YYYY prefixes of the tree's date keys.
func Years(tree models.ReadingTree) []string {
	set := make(map[string]struct{})
	for date := range tree {
		set[strings.SplitN(date, "-", 2)[0]] = struct{}{}
	}
	return sortedSet(set)
}

// Months returns the distinct MM components of dates starting with year.
func Months(tree models.ReadingTree, year string) []string {
	if year == "" {
		return []string{}
	}
	return componentsWithPrefix(tree, year, 1)
}

// Days returns the distinct DD components of dates starting with year-month.
func Days(tree models.ReadingTree, year, month string) []string {
	if year == "" || month == "" {
		return []string{}
	}
	return componentsWithPrefix(tree, year+"-"+month, 2)
}

// Hours returns the hour keys present under date in plain string order, so
// an unpadded "10" sorts before "2".
func Hours(tree models.ReadingTree, date string) []string {
	hours := tree[date]
	out := make([]string, 0, len(hours))
	for h := range hours {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// HoursNumeric is Hours ordered by numeric hour value instead of string
// order. Keys that are not numbers sort last.
func HoursNumeric(tree models.ReadingTree, date string) []string {
	out := Hours(tree, date)
	sort.SliceStable(out, func(i, j int) bool {
		a, errA := strconv.Atoi(out[i])
		b, errB := strconv.Atoi(out[j])
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		}
		return a < b
	})
	return out
}

// AvailableOptions derives every selector list reachable from sel.
func AvailableOptions(tree models.ReadingTree, sel Selection, numericHours bool) Options {
	opts := Options{
		Years:  Years(tree),
		Months: Months(tree, sel.Year),
		Days:   Days(tree, sel.Year, sel.Month),
		Hours:  []string{},
	}
	if sel.Year != "" && sel.Month != "" && sel.Day != "" {
		if numericHours {
			opts.Hours = HoursNumeric(tree, sel.Date())
		} else {
			opts.Hours = Hours(tree, sel.Date())
		}
	}
	return opts
}

func componentsWithPrefix(tree models.ReadingTree, prefix string, idx int) []string {
	set := make(map[string]struct{})
	for date := range tree {
		if !strings.HasPrefix(date, prefix) {
			continue
		}
		parts := strings.Split(date, "-")
		if len(parts) > idx {
			set[parts[idx]] = struct{}{}
		}
	}
	return sortedSet(set)
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
