package usage

import (
	"fmt"
	"time"
)

// Selection is the chosen granularity plus the date components narrowing it.
// Month, Day and Hour are zero padded; empty means unset. Transitions return
// a new value and never modify the receiver.
type Selection struct {
	Granularity Granularity `json:"granularity"`
	Year        string      `json:"year"`
	Month       string      `json:"month,omitempty"`
	Day         string      `json:"day,omitempty"`
	Hour        string      `json:"hour,omitempty"`
}

// NewSelection starts a monthly view of the current month. When years is
// not empty the latest available year is picked instead of now's year.
func NewSelection(now time.Time, years []string) Selection {
	sel := Selection{
		Granularity: Monthly,
		Year:        fmt.Sprintf("%d", now.Year()),
		Month:       fmt.Sprintf("%02d", int(now.Month())),
	}
	if len(years) > 0 {
		sel.Year = years[len(years)-1]
	}
	return sel
}

// WithGranularity switches granularity. Yearly drops month, day and hour;
// every other granularity keeps the month, defaulting it to now's month, and
// drops day and hour.
func (s Selection) WithGranularity(g Granularity, now time.Time) Selection {
	if g == Yearly {
		return Selection{Granularity: Yearly, Year: s.Year}
	}
	month := s.Month
	if month == "" {
		month = fmt.Sprintf("%02d", int(now.Month()))
	}
	return Selection{Granularity: g, Year: s.Year, Month: month}
}

// WithYear starts over from year: month, day and hour are cleared, so a
// non-yearly chart waits until a month is picked again.
func (s Selection) WithYear(year string) Selection {
	if year == s.Year {
		return s
	}
	return Selection{Granularity: s.Granularity, Year: year}
}

// WithMonth clears day and hour when the month actually changes.
func (s Selection) WithMonth(month string) Selection {
	if s.Granularity == Yearly {
		return s
	}
	month = padTwo(month)
	if month == s.Month {
		return s
	}
	s.Month = month
	s.Day = ""
	s.Hour = ""
	return s
}

// WithDay clears hour when the day actually changes.
func (s Selection) WithDay(day string) Selection {
	if s.Granularity == Yearly || s.Granularity == Monthly {
		return s
	}
	day = padTwo(day)
	if day == s.Day {
		return s
	}
	s.Day = day
	s.Hour = ""
	return s
}

func (s Selection) WithHour(hour string) Selection {
	if s.Granularity != Hourly {
		return s
	}
	s.Hour = padTwo(hour)
	return s
}

// SelectionFor builds a selection from raw selector values in one step,
// padding them and keeping only the components g uses.
func SelectionFor(g Granularity, year, month, day, hour string) Selection {
	s := Selection{Granularity: Hourly, Year: year}.
		WithMonth(month).
		WithDay(day).
		WithHour(hour)
	switch g {
	case Yearly:
		return Selection{Granularity: g, Year: s.Year}
	case Monthly:
		return Selection{Granularity: g, Year: s.Year, Month: s.Month}
	case Daily:
		return Selection{Granularity: g, Year: s.Year, Month: s.Month, Day: s.Day}
	}
	s.Granularity = g
	return s
}

// Missing names the components the granularity requires but s lacks.
func (s Selection) Missing() []string {
	var missing []string
	need := func(name, v string) {
		if v == "" {
			missing = append(missing, name)
		}
	}
	need("year", s.Year)
	switch s.Granularity {
	case Monthly:
		need("month", s.Month)
	case Daily:
		need("month", s.Month)
		need("day", s.Day)
	case Hourly:
		need("month", s.Month)
		need("day", s.Day)
		need("hour", s.Hour)
	case Yearly:
	default:
		missing = append(missing, "granularity")
	}
	return missing
}

// Date joins year, month and day as the tree's YYYY-MM-DD key.
func (s Selection) Date() string {
	return fmt.Sprintf("%s-%s-%s", s.Year, s.Month, s.Day)
}
