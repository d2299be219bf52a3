package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fretedash/domain/freight"
)

func TestReadFreightCalc_PerVehicleSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "freight_calc.xlsx")
	writeWorkbook(t, path, []fixtureSheet{
		{Name: "RESUMO", Cells: map[string]interface{}{"A1": "not a vehicle sheet"}},
		{Name: "TRUCK_CS", Cells: map[string]interface{}{
			// Row 1 is labels; data rows use the fixed column positions.
			"A1": "CUSTO FIXO",
			"E2": 5000.0, "F2": 2.5, "G2": 250.0,
			"J2": 0, "K2": 100, "L2": 101,
			"S2": 900.0, "T2": 600.0, "U2": 1500.0,
			"E3": 5000.0, // no km band, row skipped
			"J4": 101, "K4": 200, "L4": 100,
			"S4": 1100.0, "T4": 700.0, "U4": 1800.0,
		}},
		{Name: "VAN_CR", Cells: map[string]interface{}{
			"J2": 0, "K2": 100, "L2": 101,
			"S2": 400.0, "T2": 250.0, "U2": 650.0,
		}},
	})

	sheet, err := ReadFreightCalc(path)
	require.NoError(t, err)
	assert.Equal(t, SourceFreightCalc, sheet.Source)
	require.Len(t, sheet.Rows, 3)

	first := sheet.Rows[0]
	assert.Equal(t, "TRUCK - CARGA SECA", first[freight.ColVehicleType])
	assert.Equal(t, 0.0, first[freight.ColKMStart])
	assert.Equal(t, 100.0, first[freight.ColKMEnd])
	assert.Equal(t, 101.0, first[freight.ColKMTotal])
	assert.Equal(t, 5000.0, first[freight.ColMonthlyCost])
	assert.Equal(t, 2.5, first[freight.ColPerKMCost])
	assert.Equal(t, 250.0, first[freight.ColDailyCost])
	assert.Equal(t, 900.0, first[freight.ColFreightDelivery])
	assert.Equal(t, 600.0, first[freight.ColFreightReturn])
	assert.Equal(t, 1500.0, first[freight.ColFreightTrip])

	second := sheet.Rows[1]
	assert.Equal(t, 101.0, second[freight.ColKMStart])
	assert.Nil(t, second[freight.ColMonthlyCost], "costs absent for this band stay null")

	third := sheet.Rows[2]
	assert.Equal(t, "VAN - REFRIGERADA", third[freight.ColVehicleType])
	assert.Equal(t, 650.0, third[freight.ColFreightTrip])
}

func TestReadFreightCalc_GeneralSheetFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "freight_calc.xlsx")
	writeWorkbook(t, path, []fixtureSheet{
		{Name: "FRETE PESO - GERAL", Cells: map[string]interface{}{
			// Vehicle name sits above each delivery/return/total triplet.
			"F3": "TRUCK_CS",
			"I3": "VAN_CS",
			"B5": 0, "C5": 100, "D5": 101,
			"E5": 900.0, "F5": 600.0, "G5": 1500.0,
			"H5": 300.0, "I5": 200.0, "J5": 500.0,
			"B6": 101, "C6": 200, "D6": 100,
			"E6": 1100.0, "F6": 700.0, "G6": 1800.0,
			"H6": 350.0, "I6": 240.0, "J6": 590.0,
		}},
	})

	sheet, err := ReadFreightCalc(path)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 4)

	first := sheet.Rows[0]
	assert.Equal(t, "TRUCK - CARGA SECA", first[freight.ColVehicleType])
	assert.Equal(t, 900.0, first[freight.ColFreightDelivery])
	assert.Equal(t, 600.0, first[freight.ColFreightReturn])
	assert.Equal(t, 1500.0, first[freight.ColFreightTrip])

	second := sheet.Rows[1]
	assert.Equal(t, "VAN - CARGA SECA", second[freight.ColVehicleType])
	assert.Equal(t, 500.0, second[freight.ColFreightTrip])
}

func TestReadFreightCalc_EmptyWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "freight_calc.xlsx")
	writeWorkbook(t, path, []fixtureSheet{
		{Name: "RESUMO", Cells: map[string]interface{}{"A1": "nothing here"}},
	})

	sheet, err := ReadFreightCalc(path)
	require.NoError(t, err)
	assert.Empty(t, sheet.Rows)
}
