// Package chart shapes aggregated usage series into a chart-library ready
// payload with a summary footer.
package chart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"CapIot.energyportal/internal/models"
)

const (
	datasetLabel    = "Power Usage (W)"
	backgroundColor = "rgba(75, 192, 192, 0.5)"
	borderColor     = "rgba(75, 192, 192, 1)"
)

type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

type Options struct {
	Title      string `json:"title"`
	XAxisLabel string `json:"x_axis_label,omitempty"`
	YAxisLabel string `json:"y_axis_label,omitempty"`
}

// Summary is computed over nonzero values only; zero means "no reading" for
// the footer.
type Summary struct {
	Mean    float64 `json:"mean"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
	Nonzero int     `json:"nonzero"`
}

type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
	Options  Options   `json:"options"`
	Summary  Summary   `json:"summary"`
}

// FromSeries builds a single-dataset chart for an aggregated series.
func FromSeries(series models.ProcessedSeries, granularity string) Chart {
	return build(series.Labels, series.Values, Options{
		Title:      fmt.Sprintf("Power Usage (%s)", granularity),
		XAxisLabel: xAxisLabels[granularity],
		YAxisLabel: "Power (W)",
	})
}

// FromBackend adapts the backend's pre-aggregated data points.
func FromBackend(data models.ChartData) Chart {
	labels := make([]string, len(data.DataPoints))
	values := make([]float64, len(data.DataPoints))
	for i, p := range data.DataPoints {
		labels[i] = p.Label
		values[i] = p.Value
	}
	return build(labels, values, Options{
		Title:      data.ChartTitle,
		XAxisLabel: data.XAxisLabel,
		YAxisLabel: data.YAxisLabel,
	})
}

// Summarize derives the footer statistics. An all-zero or empty series
// yields a zero Summary. Only zero buckets are skipped: negative readings
// count as nonzero and take part in Max, so an all-negative series has a
// negative Max rather than 0.
func Summarize(values []float64) Summary {
	var s Summary
	var sum float64
	for _, v := range values {
		if v == 0 {
			continue
		}
		if s.Nonzero == 0 || v > s.Max {
			s.Max = v
		}
		if s.Nonzero == 0 || v < s.Min {
			s.Min = v
		}
		sum += v
		s.Nonzero++
	}
	if s.Nonzero > 0 {
		s.Mean = sum / float64(s.Nonzero)
	}
	return s
}

// FormatWatts renders v with two decimal places, e.g. "130.00 W".
func FormatWatts(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + " W"
}

var xAxisLabels = map[string]string{
	"yearly":  "Month",
	"monthly": "Day",
	"daily":   "Hour",
	"hourly":  "Minute",
}

func build(labels []string, values []float64, opts Options) Chart {
	data := make([]float64, len(values))
	copy(data, values)
	return Chart{
		Labels: labels,
		Datasets: []Dataset{{
			Label:           datasetLabel,
			Data:            data,
			BackgroundColor: backgroundColor,
			BorderColor:     borderColor,
			BorderWidth:     1,
		}},
		Options: opts,
		Summary: Summarize(values),
	}
}
