package excel

import (
	"log"
	"strings"

	"fretedash/domain/freight"
)

// QuotationResult is the loader output for the lot-quotation workbook: the
// long-form freight sheet plus the quotation header context.
type QuotationResult struct {
	Sheet   *freight.Sheet
	Context freight.ContextSummary
}

// ReadQuotation loads COTACAO_LOTACAO: the quotation header, the
// per-vehicle BASE sheet (max weight, daily/hourly rates, axles) and the
// FRETE_PESO km-band × vehicle grid.
func ReadQuotation(path string) (*QuotationResult, error) {
	r, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	ctx := readQuoteContext(r)
	vehicleBase := readQuoteBase(r)

	grid, err := r.ReadSheetOptional(sheetFreightQuote)
	if err != nil {
		return nil, err
	}

	var rows []freight.Row
	if grid != nil {
		rows = unpivotFreightQuote(grid, vehicleBase)
	}
	if len(rows) == 0 {
		// Quotation without km bands: still surface the per-vehicle base data.
		for vehicle, base := range vehicleBase {
			out := freight.Row{freight.ColVehicleType: vehicle}
			for col, v := range base {
				out[col] = v
			}
			rows = append(rows, out)
		}
	}

	log.Printf("[ReadQuotation] %s: %d rows, quote %q", path, len(rows), ctx.QuoteNumber)

	columns := append([]string{}, freight.KeyColumns()...)
	columns = append(columns,
		freight.ColKMTotal,
		freight.ColFreightQuote,
		freight.ColMaxWeight,
		freight.ColDailyRate,
		freight.ColHourlyRate,
		freight.ColAxles,
	)
	return &QuotationResult{
		Sheet: &freight.Sheet{
			Source:  SourceQuotation,
			Name:    sheetFreightQuote,
			Columns: columns,
			Rows:    rows,
		},
		Context: ctx,
	}, nil
}

// readQuoteContext scans the quotation header sheet for labelled fields.
func readQuoteContext(r *WorkbookReader) freight.ContextSummary {
	var ctx freight.ContextSummary
	sheet, err := r.ReadSheetOptional(sheetQuote)
	if err != nil || sheet == nil {
		return ctx
	}
	limit := sheet.RowCount()
	if limit > 20 {
		limit = 20
	}
	for row := 0; row < limit; row++ {
		label := sheet.Cell(row, 0)
		value := sheet.Cell(row, 1)
		switch {
		case label == "Nº":
			ctx.QuoteNumber = sheet.Cell(row, 2)
		case label == "Revisão:" && value != "":
			ctx.Revision = value
		case label == "Data:" && value != "":
			ctx.QuoteDate = value
		case label == "Cliente:" && value != "":
			ctx.Client = value
		case label == "Origem:" && value != "":
			ctx.Origin = value
		case label == "Destino:" && value != "":
			ctx.Destination = value
		case strings.Contains(label, "Km") && value != "":
			ctx.RouteKM = value
		}
	}
	return ctx
}

// readQuoteBase reads the per-vehicle BASE sheet into
// vehicle → column → value. Merchandise-category rows are skipped.
func readQuoteBase(r *WorkbookReader) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	sheet, err := r.ReadSheetOptional(sheetQuoteBase)
	if err != nil || sheet == nil || sheet.RowCount() < 2 {
		return out
	}

	// Header row 0: find the value columns by label.
	colFor := map[string]int{}
	for col := 0; col < len(sheet.Rows[0]); col++ {
		switch strings.ToUpper(sheet.Cell(0, col)) {
		case "PESO MÁXIMO":
			colFor[freight.ColMaxWeight] = col
		case "DIÁRIA":
			colFor[freight.ColDailyRate] = col
		case "VALOR / HORA":
			colFor[freight.ColHourlyRate] = col
		case "EIXOS":
			colFor[freight.ColAxles] = col
		}
	}

	for row := 1; row < sheet.RowCount(); row++ {
		name := sheet.Cell(row, 0)
		if name == "" {
			continue
		}
		if _, skip := quoteBaseSkipRows[strings.ToUpper(name)]; skip {
			continue
		}
		vehicle, ok := freight.NormalizeVehicle(name)
		if !ok {
			continue
		}
		values := make(map[string]float64)
		for column, idx := range colFor {
			if v, num := parseNumber(sheet.Cell(row, idx)); num {
				values[column] = v
			}
		}
		if len(values) > 0 {
			out[vehicle] = values
		}
	}
	return out
}

// unpivotFreightQuote turns the km-band × vehicle total-freight grid into
// long rows joined with the per-vehicle base values. Row 1 holds the
// vehicle headers; data starts at row 2.
func unpivotFreightQuote(sheet *SheetData, vehicleBase map[string]map[string]float64) []freight.Row {
	if sheet.RowCount() < 2 {
		return nil
	}
	type vehicleCol struct {
		col     int
		vehicle string
	}
	var vehicles []vehicleCol
	for col := 4; col < len(sheet.Rows[1]); col++ {
		if v, ok := freight.NormalizeVehicle(sheet.Cell(1, col)); ok {
			vehicles = append(vehicles, vehicleCol{col: col, vehicle: v})
		}
	}

	var rows []freight.Row
	for row := 2; row < sheet.RowCount(); row++ {
		kmStart, okStart := parseNumber(sheet.Cell(row, 1))
		kmEnd, okEnd := parseNumber(sheet.Cell(row, 2))
		if !okStart || !okEnd {
			continue
		}
		kmTotal, _ := parseNumber(sheet.Cell(row, 3))
		for _, vc := range vehicles {
			out := freight.Row{
				freight.ColVehicleType: vc.vehicle,
				freight.ColKMStart:     kmStart,
				freight.ColKMEnd:       kmEnd,
				freight.ColKMTotal:     kmTotal,
			}
			setNumber(out, freight.ColFreightQuote, sheet.Cell(row, vc.col))
			for column, v := range vehicleBase[vc.vehicle] {
				out[column] = v
			}
			rows = append(rows, out)
		}
	}
	return rows
}
