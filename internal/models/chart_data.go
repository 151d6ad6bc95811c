package models

// DataPoint is one labelled value from the backend aggregation endpoints.
type DataPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartData is the payload of GET /electricity/{minutely|hourly|daily|monthly}/...
type ChartData struct {
	DataPoints []DataPoint `json:"data_points"`
	ChartTitle string      `json:"chart_title"`
	XAxisLabel string      `json:"x_axis_label"`
	YAxisLabel string      `json:"y_axis_label"`
}
