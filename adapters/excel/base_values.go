package excel

import (
	"log"
	"strings"

	"fretedash/domain/freight"
)

// BaseValuesResult is the loader output for the base-values workbook: the
// long-form metrics sheet plus the trip context it carries.
type BaseValuesResult struct {
	Sheet        *freight.Sheet
	BusinessDays int
}

// ReadBaseValues loads BASE_VALORES: per-category cost sheets unpivoted
// into per-vehicle metric columns, crossed with the km-band × vehicle
// outbound-freight ratio sheet.
func ReadBaseValues(path string) (*BaseValuesResult, error) {
	r, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	businessDays := readBusinessDays(r)

	metricCols, vehicleMetrics := readCostSheets(r)

	ratio, err := r.ReadSheetOptional(sheetOutboundRatio)
	if err != nil {
		return nil, err
	}

	columns := append([]string{}, freight.KeyColumns()...)
	columns = append(columns, freight.ColKMTotal, freight.ColPctOutbound)
	columns = append(columns, metricCols...)

	var rows []freight.Row
	if ratio != nil {
		rows = unpivotOutboundRatio(ratio, vehicleMetrics)
	}
	if len(rows) == 0 {
		// No km bands in the workbook: emit one band-less row per vehicle so
		// the cost metrics still reach the merged table.
		for _, vehicle := range freight.CanonicalVehicles {
			metrics, ok := vehicleMetrics[vehicle]
			if !ok {
				continue
			}
			row := freight.Row{
				freight.ColVehicleType: vehicle,
				freight.ColKMStart:     float64(0),
				freight.ColKMEnd:       float64(0),
				freight.ColKMTotal:     float64(0),
			}
			for name, value := range metrics {
				row[name] = value
			}
			rows = append(rows, row)
		}
	}

	log.Printf("[ReadBaseValues] %s: %d rows, %d metric columns, %d business days",
		path, len(rows), len(metricCols), businessDays)

	return &BaseValuesResult{
		Sheet: &freight.Sheet{
			Source:  SourceBaseValues,
			Name:    sheetOutboundRatio,
			Columns: columns,
			Rows:    rows,
		},
		BusinessDays: businessDays,
	}, nil
}

// readBusinessDays scans the trip sheet for the business-days label.
func readBusinessDays(r *WorkbookReader) int {
	sheet, err := r.ReadSheetOptional(sheetTrip)
	if err != nil || sheet == nil {
		return defaultBusinessDays
	}
	for row := 0; row < sheet.RowCount(); row++ {
		if sheet.Cell(row, 0) != labelBusinessDays {
			continue
		}
		if v, ok := parseNumber(sheet.Cell(row, 1)); ok && v > 0 {
			return int(v)
		}
		break
	}
	return defaultBusinessDays
}

// readCostSheets unpivots every cost sheet into per-vehicle metric values.
// Returns the metric column names in order of appearance and a
// vehicle → metric → value map. First occurrence of a metric wins.
func readCostSheets(r *WorkbookReader) ([]string, map[string]map[string]float64) {
	var metricCols []string
	seenCols := make(map[string]struct{})
	vehicleMetrics := make(map[string]map[string]float64)

	for _, name := range costSheets {
		sheet, err := r.ReadSheetOptional(name)
		if err != nil || sheet == nil || sheet.RowCount() < 2 {
			continue
		}
		prefix := costSheetPrefix[name]

		// Row 0: category label in col 0, vehicle names across the rest.
		type vehicleCol struct {
			col     int
			vehicle string
		}
		var vehicles []vehicleCol
		for col := 1; col < len(sheet.Rows[0]); col++ {
			if v, ok := freight.NormalizeVehicle(sheet.Cell(0, col)); ok {
				vehicles = append(vehicles, vehicleCol{col: col, vehicle: v})
			}
		}
		if len(vehicles) == 0 {
			continue
		}

		for row := 1; row < sheet.RowCount(); row++ {
			label := sheet.Cell(row, 0)
			if label == "" {
				continue
			}
			metric := prefix + slug(label)
			if _, dup := seenCols[metric]; !dup {
				seenCols[metric] = struct{}{}
				metricCols = append(metricCols, metric)
			}
			for _, vc := range vehicles {
				value, ok := parseNumber(sheet.Cell(row, vc.col))
				if !ok {
					continue
				}
				if vehicleMetrics[vc.vehicle] == nil {
					vehicleMetrics[vc.vehicle] = make(map[string]float64)
				}
				if _, exists := vehicleMetrics[vc.vehicle][metric]; !exists {
					vehicleMetrics[vc.vehicle][metric] = value
				}
			}
		}
	}

	return metricCols, vehicleMetrics
}

// unpivotOutboundRatio turns the km-band × vehicle percentage grid into
// long rows, one per (vehicle, band), carrying that vehicle's cost metrics.
func unpivotOutboundRatio(sheet *SheetData, vehicleMetrics map[string]map[string]float64) []freight.Row {
	headerRow := -1
	for row := 0; row < sheet.RowCount() && row < 5; row++ {
		if strings.Contains(strings.ToUpper(sheet.Cell(row, 0)), "KM") {
			headerRow = row
			break
		}
	}
	if headerRow < 0 {
		return nil
	}

	type vehicleCol struct {
		col     int
		vehicle string
	}
	var vehicles []vehicleCol
	for col := 2; col < len(sheet.Rows[headerRow]); col++ {
		if v, ok := freight.NormalizeVehicle(sheet.Cell(headerRow, col)); ok {
			vehicles = append(vehicles, vehicleCol{col: col, vehicle: v})
		}
	}
	if len(vehicles) == 0 {
		return nil
	}

	var rows []freight.Row
	for row := headerRow + 1; row < sheet.RowCount(); row++ {
		kmStart, okStart := parseNumber(sheet.Cell(row, 0))
		kmEnd, okEnd := parseNumber(sheet.Cell(row, 1))
		if !okStart || !okEnd {
			continue
		}
		kmTotal := float64(0)
		if kmEnd >= kmStart {
			kmTotal = kmEnd - kmStart + 1
		}
		for _, vc := range vehicles {
			pct, ok := parseNumber(sheet.Cell(row, vc.col))
			if !ok {
				continue
			}
			out := freight.Row{
				freight.ColVehicleType: vc.vehicle,
				freight.ColKMStart:     kmStart,
				freight.ColKMEnd:       kmEnd,
				freight.ColKMTotal:     kmTotal,
				freight.ColPctOutbound: pct,
			}
			for name, value := range vehicleMetrics[vc.vehicle] {
				out[name] = value
			}
			rows = append(rows, out)
		}
	}
	return rows
}
