package dataset

import (
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"fretedash/domain/freight"
)

// valueColumns are the metric candidates for the km-band line chart, in
// preference order. The first with any non-null data is charted.
var valueColumns = []string{
	freight.ColDailyCost,
	freight.ColFreightDelivery,
	freight.ColFreightQuote,
	freight.ColFreightTrip,
	freight.ColOutboundValue,
	freight.ColPctOutbound,
}

// Summary is the headline row of the dashboard.
type Summary struct {
	Rows     int `json:"rows"`
	Vehicles int `json:"vehicles"`
	KMBands  int `json:"km_bands"`
}

// SeriesPoint is one (km band, mean value) point of a vehicle line.
type SeriesPoint struct {
	KMStart float64 `json:"km_start"`
	Mean    float64 `json:"mean"`
}

// VehicleSeries is the per-vehicle line for the km-band chart.
type VehicleSeries struct {
	Vehicle string        `json:"vehicle"`
	Points  []SeriesPoint `json:"points"`
}

// VehicleComparison summarizes one vehicle over the filtered bands.
type VehicleComparison struct {
	Vehicle string  `json:"vehicle"`
	Count   int     `json:"count"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	P90     float64 `json:"p90"`
}

// ScatterPoint pairs delivery and return freight for one filtered row.
type ScatterPoint struct {
	Vehicle  string  `json:"vehicle"`
	KMTotal  float64 `json:"km_total"`
	Delivery float64 `json:"delivery"`
	Return   float64 `json:"return"`
}

// TrendLine is the least-squares fit of the charted value against km band
// start, one per vehicle.
type TrendLine struct {
	Vehicle   string  `json:"vehicle"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
}

// ChartData bundles every precomputed aggregate the presentation layer
// charts from one filtered view.
type ChartData struct {
	Summary     Summary             `json:"summary"`
	ValueColumn string              `json:"value_column"`
	Lines       []VehicleSeries     `json:"lines"`
	Comparison  []VehicleComparison `json:"comparison"`
	Scatter     []ScatterPoint      `json:"scatter"`
	Trends      []TrendLine         `json:"trends"`
}

// Aggregator derives chart aggregates from a filtered view.
type Aggregator struct{}

// NewAggregator creates an aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Charts computes all chart aggregates for the view. Pure: the view is
// only read.
func (a *Aggregator) Charts(view freight.FilteredView) ChartData {
	data := ChartData{
		Summary:     a.summarize(view),
		ValueColumn: a.chooseValueColumn(view),
	}
	if data.ValueColumn == "" {
		return data
	}

	byVehicle := a.groupByVehicle(view, data.ValueColumn)
	vehicles := make([]string, 0, len(byVehicle))
	for v := range byVehicle {
		vehicles = append(vehicles, v)
	}
	sort.Strings(vehicles)

	for _, vehicle := range vehicles {
		samples := byVehicle[vehicle]
		data.Lines = append(data.Lines, a.lineSeries(vehicle, samples))
		if cmp, ok := a.compare(vehicle, samples); ok {
			data.Comparison = append(data.Comparison, cmp)
		}
		if trend, ok := a.fitTrend(vehicle, samples); ok {
			data.Trends = append(data.Trends, trend)
		}
	}

	data.Scatter = a.scatter(view)
	return data
}

func (a *Aggregator) summarize(view freight.FilteredView) Summary {
	vehicles := make(map[string]struct{})
	bands := make(map[[2]float64]struct{})
	for _, row := range view.Rows {
		if v, ok := row[freight.ColVehicleType]; ok && v != nil {
			vehicles[freight.Display(v)] = struct{}{}
		}
		start, okStart := freight.Number(row[freight.ColKMStart])
		end, okEnd := freight.Number(row[freight.ColKMEnd])
		if okStart && okEnd {
			bands[[2]float64{start, end}] = struct{}{}
		}
	}
	return Summary{
		Rows:     len(view.Rows),
		Vehicles: len(vehicles),
		KMBands:  len(bands),
	}
}

func (a *Aggregator) chooseValueColumn(view freight.FilteredView) string {
	for _, col := range valueColumns {
		for _, row := range view.Rows {
			if v, ok := row[col]; ok && v != nil {
				return col
			}
		}
	}
	return ""
}

type sample struct {
	kmStart float64
	value   float64
}

func (a *Aggregator) groupByVehicle(view freight.FilteredView, column string) map[string][]sample {
	out := make(map[string][]sample)
	for _, row := range view.Rows {
		vehicle, ok := row[freight.ColVehicleType]
		if !ok || vehicle == nil {
			continue
		}
		kmStart, okKM := freight.Number(row[freight.ColKMStart])
		value, okVal := freight.Number(row[column])
		if !okKM || !okVal {
			continue
		}
		name := freight.Display(vehicle)
		out[name] = append(out[name], sample{kmStart: kmStart, value: value})
	}
	return out
}

// lineSeries averages the value per km band for one vehicle, points in
// ascending band order.
func (a *Aggregator) lineSeries(vehicle string, samples []sample) VehicleSeries {
	sums := make(map[float64]float64)
	counts := make(map[float64]int)
	for _, s := range samples {
		sums[s.kmStart] += s.value
		counts[s.kmStart]++
	}
	points := make([]SeriesPoint, 0, len(sums))
	for km, sum := range sums {
		points = append(points, SeriesPoint{KMStart: km, Mean: Round2(sum / float64(counts[km]))})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].KMStart < points[j].KMStart })
	return VehicleSeries{Vehicle: vehicle, Points: points}
}

func (a *Aggregator) compare(vehicle string, samples []sample) (VehicleComparison, bool) {
	if len(samples) == 0 {
		return VehicleComparison{}, false
	}
	values := make(stats.Float64Data, len(samples))
	for i, s := range samples {
		values[i] = s.value
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return VehicleComparison{}, false
	}
	median, err := stats.Median(values)
	if err != nil {
		return VehicleComparison{}, false
	}
	p90, err := stats.Percentile(values, 90)
	if err != nil {
		// Percentile needs more than one sample; fall back to the value itself.
		p90 = mean
	}
	return VehicleComparison{
		Vehicle: vehicle,
		Count:   len(samples),
		Mean:    Round2(mean),
		Median:  Round2(median),
		P90:     Round2(p90),
	}, true
}

// fitTrend fits value against km band start. Needs at least two distinct
// bands for a meaningful slope.
func (a *Aggregator) fitTrend(vehicle string, samples []sample) (TrendLine, bool) {
	if len(samples) < 2 {
		return TrendLine{}, false
	}
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	distinct := make(map[float64]struct{})
	for i, s := range samples {
		xs[i] = s.kmStart
		ys[i] = s.value
		distinct[s.kmStart] = struct{}{}
	}
	if len(distinct) < 2 {
		return TrendLine{}, false
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	return TrendLine{
		Vehicle:   vehicle,
		Slope:     beta,
		Intercept: alpha,
		R2:        r2,
	}, true
}

func (a *Aggregator) scatter(view freight.FilteredView) []ScatterPoint {
	var points []ScatterPoint
	for _, row := range view.Rows {
		vehicle, ok := row[freight.ColVehicleType]
		if !ok || vehicle == nil {
			continue
		}
		delivery, okD := freight.Number(row[freight.ColFreightDelivery])
		ret, okR := freight.Number(row[freight.ColFreightReturn])
		if !okD || !okR {
			continue
		}
		kmTotal, _ := freight.Number(row[freight.ColKMTotal])
		points = append(points, ScatterPoint{
			Vehicle:  freight.Display(vehicle),
			KMTotal:  kmTotal,
			Delivery: delivery,
			Return:   ret,
		})
	}
	return points
}
