package aggregate

import (
	"outreach-metrics-service/internal/model"
	"outreach-metrics-service/internal/period"
)

// Fill expands sparse per-day values into exactly one point per calendar
// day in the inclusive window, ascending, with zero values for days absent
// from the input. The join is a plain YYYY-MM-DD key lookup. An inverted
// window produces an empty series.
func Fill(values map[string]float64, w period.Window) []model.TimeSeriesPoint {
	capacity := w.Days()
	if capacity < 0 {
		capacity = 0
	}
	points := make([]model.TimeSeriesPoint, 0, capacity)
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		key := d.Format(period.DayFormat)
		points = append(points, model.TimeSeriesPoint{Day: key, Value: values[key]})
	}
	return points
}
