// Package freight holds the core tabular model for the freight quotation
// dashboard: raw sheets as loaded from the workbooks, the merged metrics
// table, and the filter selection applied on top of it.
package freight

import (
	"fmt"
	"time"
)

// Value is a raw cell value: float64, string, time.Time, or nil for a
// missing/null cell.
type Value interface{}

// Row maps a column name to its raw cell value.
type Row map[string]Value

// Sheet is an ordered sequence of rows read from one source sheet.
// Immutable after load.
type Sheet struct {
	Source  string   // workbook label, e.g. "base_values"
	Name    string   // sheet name inside the workbook
	Columns []string // ordered header
	Rows    []Row
}

// HasColumn reports whether the sheet header contains the named column.
func (s *Sheet) HasColumn(name string) bool {
	for _, c := range s.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// MergedTable is the single denormalized table produced by joining all
// source sheets. Owned by the merger; read-only for downstream components.
type MergedTable struct {
	Columns []string
	Rows    []Row
}

// RowCount returns the number of merged rows.
func (t *MergedTable) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ContextSummary carries the one-row quotation context flattened from the
// base-values and quotation workbooks.
type ContextSummary struct {
	BusinessDays int    `json:"business_days"`
	QuoteNumber  string `json:"quote_number,omitempty"`
	Revision     string `json:"revision,omitempty"`
	QuoteDate    string `json:"quote_date,omitempty"`
	Client       string `json:"client,omitempty"`
	Origin       string `json:"origin,omitempty"`
	Destination  string `json:"destination,omitempty"`
	RouteKM      string `json:"route_km,omitempty"`
}

// Canonical merged-table column names. The join key across all three
// workbooks is (vehicle_type, km_start, km_end).
const (
	ColVehicleType = "vehicle_type"
	ColKMStart     = "km_start"
	ColKMEnd       = "km_end"
	ColKMTotal     = "km_total"

	// Base-values workbook
	ColPctOutbound = "pct_outbound_freight"

	// Freight-calculation workbook
	ColMonthlyCost     = "monthly_cost"
	ColPerKMCost       = "per_km_cost"
	ColDailyCost       = "daily_cost"
	ColFreightDelivery = "freight_weight_delivery"
	ColFreightReturn   = "freight_weight_return"
	ColFreightTrip     = "freight_weight_trip"

	// Quotation workbook
	ColFreightQuote = "freight_weight_quote"
	ColMaxWeight    = "max_weight_quote"
	ColDailyRate    = "daily_rate_quote"
	ColHourlyRate   = "hourly_rate_quote"
	ColAxles        = "axles_quote"

	// Derived by the merger
	ColOutboundValue = "outbound_freight_value"
)

// KeyColumns is the shared join key, in key order.
func KeyColumns() []string {
	return []string{ColVehicleType, ColKMStart, ColKMEnd}
}

// Number extracts a float64 from a raw cell value.
func Number(v Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Display renders a raw cell value for the UI. Nil cells render as an
// empty string, not "nil".
func Display(v Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", t)
	}
}
