package excel

import (
	"log"

	"fretedash/domain/freight"
)

// ReadFreightCalc loads CALCULO FRETE PESO: one sheet per vehicle with
// fixed column positions, falling back to the consolidated
// "FRETE PESO - GERAL" sheet when no per-vehicle sheet matches.
func ReadFreightCalc(path string) (*freight.Sheet, error) {
	r, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var rows []freight.Row
	for _, name := range r.SheetNames() {
		vehicle, ok := freight.NormalizeVehicle(name)
		if !ok {
			continue
		}
		sheet, err := r.ReadSheet(name)
		if err != nil {
			return nil, err
		}
		rows = append(rows, readVehicleSheet(sheet, vehicle)...)
	}

	if len(rows) == 0 {
		general, err := r.ReadSheetOptional(sheetFreightGeneral)
		if err != nil {
			return nil, err
		}
		if general != nil {
			rows = readGeneralSheet(general)
		}
	}

	log.Printf("[ReadFreightCalc] %s: %d rows", path, len(rows))

	columns := append([]string{}, freight.KeyColumns()...)
	columns = append(columns,
		freight.ColKMTotal,
		freight.ColMonthlyCost,
		freight.ColPerKMCost,
		freight.ColDailyCost,
		freight.ColFreightDelivery,
		freight.ColFreightReturn,
		freight.ColFreightTrip,
	)
	return &freight.Sheet{
		Source:  SourceFreightCalc,
		Name:    sheetFreightGeneral,
		Columns: columns,
		Rows:    rows,
	}, nil
}

// readVehicleSheet extracts km bands and freight values from one
// per-vehicle sheet. Row 0 holds labels; data starts at row 1.
func readVehicleSheet(sheet *SheetData, vehicle string) []freight.Row {
	var rows []freight.Row
	for row := 1; row < sheet.RowCount(); row++ {
		kmStart, okStart := parseNumber(sheet.Cell(row, fcIdxKMStart))
		kmEnd, okEnd := parseNumber(sheet.Cell(row, fcIdxKMEnd))
		if !okStart || !okEnd {
			continue
		}
		out := freight.Row{
			freight.ColVehicleType: vehicle,
			freight.ColKMStart:     kmStart,
			freight.ColKMEnd:       kmEnd,
		}
		if kmTotal, ok := parseNumber(sheet.Cell(row, fcIdxKMTotal)); ok {
			out[freight.ColKMTotal] = kmTotal
		}
		setNumber(out, freight.ColMonthlyCost, sheet.Cell(row, fcIdxMonthly))
		setNumber(out, freight.ColPerKMCost, sheet.Cell(row, fcIdxPerKM))
		setNumber(out, freight.ColDailyCost, sheet.Cell(row, fcIdxDaily))
		setNumber(out, freight.ColFreightDelivery, sheet.Cell(row, fcIdxDeliveryFreight))
		setNumber(out, freight.ColFreightReturn, sheet.Cell(row, fcIdxReturnFreight))
		setNumber(out, freight.ColFreightTrip, sheet.Cell(row, fcIdxTripFreight))
		rows = append(rows, out)
	}
	return rows
}

// readGeneralSheet parses the consolidated multi-header sheet: row 2 names
// the vehicle above each delivery/return/total triplet, row 4 onward holds
// one km band per row.
func readGeneralSheet(sheet *SheetData) []freight.Row {
	var rows []freight.Row
	for row := 4; row < sheet.RowCount(); row++ {
		kmStart, okStart := parseNumber(sheet.Cell(row, 1))
		kmEnd, okEnd := parseNumber(sheet.Cell(row, 2))
		if !okStart || !okEnd {
			continue
		}
		kmTotal, _ := parseNumber(sheet.Cell(row, 3))

		for col := 4; col+2 < maxWidth(sheet); col += 3 {
			vehicle, ok := freight.NormalizeVehicle(sheet.Cell(2, col+1))
			if !ok {
				continue
			}
			out := freight.Row{
				freight.ColVehicleType: vehicle,
				freight.ColKMStart:     kmStart,
				freight.ColKMEnd:       kmEnd,
				freight.ColKMTotal:     kmTotal,
			}
			setNumber(out, freight.ColFreightDelivery, sheet.Cell(row, col))
			setNumber(out, freight.ColFreightReturn, sheet.Cell(row, col+1))
			setNumber(out, freight.ColFreightTrip, sheet.Cell(row, col+2))
			rows = append(rows, out)
		}
	}
	return rows
}

func setNumber(row freight.Row, column, cell string) {
	if v, ok := parseNumber(cell); ok {
		row[column] = v
	}
}

func maxWidth(sheet *SheetData) int {
	width := 0
	for _, r := range sheet.Rows {
		if len(r) > width {
			width = len(r)
		}
	}
	return width
}
