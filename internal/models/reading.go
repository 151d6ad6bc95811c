package models

import "time"

// ReadingTree is the raw usage snapshot: date (YYYY-MM-DD) -> hour ("0".."23")
// -> minute ("0".."59") -> power in watts. Absent keys mean no reading.
type ReadingTree map[string]map[string]map[string]float64

// Add stores a reading at the given date, hour and minute keys.
func (t ReadingTree) Add(date, hour, minute string, watts float64) {
	hours, ok := t[date]
	if !ok {
		hours = make(map[string]map[string]float64)
		t[date] = hours
	}
	minutes, ok := hours[hour]
	if !ok {
		minutes = make(map[string]float64)
		hours[hour] = minutes
	}
	minutes[minute] = watts
}

// Len returns the number of readings in the tree.
func (t ReadingTree) Len() int {
	n := 0
	for _, hours := range t {
		for _, minutes := range hours {
			n += len(minutes)
		}
	}
	return n
}

// ProcessedSeries is an aggregated, positionally aligned chart series.
type ProcessedSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// PowerReading is a single meter reading written to the time-series store.
type PowerReading struct {
	ProductID string    `json:"product_id"`
	Watts     float64   `json:"watts"`
	Time      time.Time `json:"time"`
}
