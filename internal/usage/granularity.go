// Package usage turns a raw reading snapshot into chart series and keeps track
// of which date components the user has picked.
package usage

import "fmt"

// Granularity is the bucket size of a usage chart.
type Granularity string

const (
	Yearly  Granularity = "yearly"
	Monthly Granularity = "monthly"
	Daily   Granularity = "daily"
	Hourly  Granularity = "hourly"
)

// ParseGranularity accepts the four granularity names.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case Yearly, Monthly, Daily, Hourly:
		return g, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// MonthNames are the yearly chart labels.
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}
