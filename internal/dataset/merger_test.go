package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fretedash/domain/freight"
	"fretedash/internal/errors"
)

func twoColumnSheets() (*freight.Sheet, *freight.Sheet) {
	prices := &freight.Sheet{
		Source:  "base_values",
		Name:    "prices",
		Columns: []string{"route", "price"},
		Rows: []freight.Row{
			{"route": "A", "price": 10.0},
			{"route": "B", "price": 20.0},
		},
	}
	factors := &freight.Sheet{
		Source:  "freight_calc",
		Name:    "factors",
		Columns: []string{"route", "factor"},
		Rows: []freight.Row{
			{"route": "A", "factor": 1.5},
			{"route": "B", "factor": 2.0},
		},
	}
	return prices, factors
}

func TestMerge_JoinsRowsSharingAKey(t *testing.T) {
	prices, factors := twoColumnSheets()
	m := NewMerger(JoinSpec{
		KeyColumns: []string{"route"},
		Derived: []DerivedColumn{
			{Name: "total", Compute: func(row freight.Row) (float64, bool) {
				price, okP := freight.Number(row["price"])
				factor, okF := freight.Number(row["factor"])
				if !okP || !okF {
					return 0, false
				}
				return Round2(price * factor), true
			}},
		},
	})

	table, err := m.Merge(prices, factors)
	require.NoError(t, err)
	require.Equal(t, 2, table.RowCount())

	assert.Equal(t, []string{"route", "price", "factor", "total"}, table.Columns)
	assert.Equal(t, 10.0, table.Rows[0]["price"])
	assert.Equal(t, 1.5, table.Rows[0]["factor"])
	assert.Equal(t, 15.0, table.Rows[0]["total"])
	assert.Equal(t, 40.0, table.Rows[1]["total"])
}

func TestMerge_UnmatchedKeyKeptWithNulls(t *testing.T) {
	prices, factors := twoColumnSheets()
	factors.Rows = append(factors.Rows, freight.Row{"route": "C", "factor": 3.0})

	m := NewMerger(JoinSpec{KeyColumns: []string{"route"}, Unmatched: KeepWithNulls})
	table, err := m.Merge(prices, factors)
	require.NoError(t, err)
	require.Equal(t, 3, table.RowCount())

	// C comes from the second sheet only: price stays null, source order kept.
	last := table.Rows[2]
	assert.Equal(t, "C", last["route"])
	assert.Equal(t, 3.0, last["factor"])
	assert.Nil(t, last["price"])
}

func TestMerge_UnmatchedKeyDropped(t *testing.T) {
	prices, factors := twoColumnSheets()
	factors.Rows = append(factors.Rows, freight.Row{"route": "C", "factor": 3.0})

	m := NewMerger(JoinSpec{KeyColumns: []string{"route"}, Unmatched: DropUnmatched})
	table, err := m.Merge(prices, factors)
	require.NoError(t, err)
	require.Equal(t, 2, table.RowCount())

	for _, row := range table.Rows {
		assert.NotEqual(t, "C", row["route"])
	}
}

func TestMerge_DuplicateKeysFirstOccurrenceWins(t *testing.T) {
	sheet := &freight.Sheet{
		Source:  "base_values",
		Name:    "prices",
		Columns: []string{"route", "price"},
		Rows: []freight.Row{
			{"route": "A", "price": 10.0},
			{"route": "A", "price": 99.0},
		},
	}

	m := NewMerger(JoinSpec{KeyColumns: []string{"route"}, Duplicates: KeepFirst})
	table, err := m.Merge(sheet)
	require.NoError(t, err)
	require.Equal(t, 1, table.RowCount())
	assert.Equal(t, 10.0, table.Rows[0]["price"])
}

func TestMerge_DuplicateKeysLastOccurrenceWins(t *testing.T) {
	sheet := &freight.Sheet{
		Source:  "base_values",
		Name:    "prices",
		Columns: []string{"route", "price"},
		Rows: []freight.Row{
			{"route": "A", "price": 10.0},
			{"route": "B", "price": 20.0},
			{"route": "A", "price": 99.0},
		},
	}

	m := NewMerger(JoinSpec{KeyColumns: []string{"route"}, Duplicates: KeepLast})
	table, err := m.Merge(sheet)
	require.NoError(t, err)
	require.Equal(t, 2, table.RowCount())

	// Last value wins but the row keeps its first position.
	assert.Equal(t, "A", table.Rows[0]["route"])
	assert.Equal(t, 99.0, table.Rows[0]["price"])
	assert.Equal(t, "B", table.Rows[1]["route"])
}

func TestMerge_ColumnCollisionFirstNonNullWins(t *testing.T) {
	first := &freight.Sheet{
		Source:  "base_values",
		Name:    "first",
		Columns: []string{"route", "cost"},
		Rows: []freight.Row{
			{"route": "A", "cost": 10.0},
			{"route": "B", "cost": nil},
		},
	}
	second := &freight.Sheet{
		Source:  "freight_calc",
		Name:    "second",
		Columns: []string{"route", "cost"},
		Rows: []freight.Row{
			{"route": "A", "cost": 77.0},
			{"route": "B", "cost": 20.0},
		},
	}

	m := NewMerger(JoinSpec{KeyColumns: []string{"route"}})
	table, err := m.Merge(first, second)
	require.NoError(t, err)

	assert.Equal(t, 10.0, table.Rows[0]["cost"], "earlier sheet value should win")
	assert.Equal(t, 20.0, table.Rows[1]["cost"], "null should be backfilled from later sheet")
}

func TestMerge_MissingKeyColumnIsConfigurationError(t *testing.T) {
	sheet := &freight.Sheet{
		Source:  "base_values",
		Name:    "prices",
		Columns: []string{"price"},
		Rows:    []freight.Row{{"price": 10.0}},
	}

	m := NewMerger(JoinSpec{KeyColumns: []string{"route"}})
	_, err := m.Merge(sheet)
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigurationError, errors.GetCode(err))
	assert.Contains(t, err.Error(), "route")
	assert.Contains(t, err.Error(), "prices")
}

func TestMerge_NullKeyCellSkipsRow(t *testing.T) {
	sheet := &freight.Sheet{
		Source:  "base_values",
		Name:    "prices",
		Columns: []string{"route", "price"},
		Rows: []freight.Row{
			{"route": nil, "price": 10.0},
			{"route": "B", "price": 20.0},
		},
	}

	m := NewMerger(JoinSpec{KeyColumns: []string{"route"}})
	table, err := m.Merge(sheet)
	require.NoError(t, err)
	require.Equal(t, 1, table.RowCount())
	assert.Equal(t, "B", table.Rows[0]["route"])
}

func TestMerge_NumericKeysMatchAcrossRepresentations(t *testing.T) {
	first := &freight.Sheet{
		Source:  "base_values",
		Name:    "first",
		Columns: []string{"km", "pct"},
		Rows:    []freight.Row{{"km": 100.0, "pct": 0.5}},
	}
	second := &freight.Sheet{
		Source:  "freight_calc",
		Name:    "second",
		Columns: []string{"km", "cost"},
		Rows:    []freight.Row{{"km": 100, "cost": 42.0}},
	}

	m := NewMerger(JoinSpec{KeyColumns: []string{"km"}})
	table, err := m.Merge(first, second)
	require.NoError(t, err)
	require.Equal(t, 1, table.RowCount())
	assert.Equal(t, 0.5, table.Rows[0]["pct"])
	assert.Equal(t, 42.0, table.Rows[0]["cost"])
}

func TestMerge_Deterministic(t *testing.T) {
	m := NewMerger(DefaultJoinSpec())
	build := func() []*freight.Sheet {
		return []*freight.Sheet{
			{
				Source:  "base_values",
				Name:    "ratio",
				Columns: []string{freight.ColVehicleType, freight.ColKMStart, freight.ColKMEnd, freight.ColPctOutbound},
				Rows: []freight.Row{
					{freight.ColVehicleType: "TRUCK - CARGA SECA", freight.ColKMStart: 0.0, freight.ColKMEnd: 100.0, freight.ColPctOutbound: 0.5},
					{freight.ColVehicleType: "TRUCK - CARGA SECA", freight.ColKMStart: 101.0, freight.ColKMEnd: 200.0, freight.ColPctOutbound: 0.6},
				},
			},
			{
				Source:  "freight_calc",
				Name:    "calc",
				Columns: []string{freight.ColVehicleType, freight.ColKMStart, freight.ColKMEnd, freight.ColFreightTrip},
				Rows: []freight.Row{
					{freight.ColVehicleType: "TRUCK - CARGA SECA", freight.ColKMStart: 0.0, freight.ColKMEnd: 100.0, freight.ColFreightTrip: 1000.0},
				},
			},
		}
	}

	a, err := m.Merge(build()...)
	require.NoError(t, err)
	b, err := m.Merge(build()...)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDefaultJoinSpec_DerivesKMTotalAndOutboundValue(t *testing.T) {
	m := NewMerger(DefaultJoinSpec())
	sheet := &freight.Sheet{
		Source:  "base_values",
		Name:    "ratio",
		Columns: []string{freight.ColVehicleType, freight.ColKMStart, freight.ColKMEnd, freight.ColPctOutbound, freight.ColFreightTrip},
		Rows: []freight.Row{
			{
				freight.ColVehicleType: "TRUCK - CARGA SECA",
				freight.ColKMStart:     101.0,
				freight.ColKMEnd:       200.0,
				freight.ColPctOutbound: 0.5,
				freight.ColFreightTrip: 1001.0,
			},
		},
	}

	table, err := m.Merge(sheet)
	require.NoError(t, err)
	require.Equal(t, 1, table.RowCount())

	row := table.Rows[0]
	assert.Equal(t, 100.0, row[freight.ColKMTotal])
	assert.Equal(t, 500.5, row[freight.ColOutboundValue])
}

func TestDefaultJoinSpec_OutboundValueFallsBackToQuote(t *testing.T) {
	m := NewMerger(DefaultJoinSpec())
	sheet := &freight.Sheet{
		Source:  "quotation",
		Name:    "quote",
		Columns: []string{freight.ColVehicleType, freight.ColKMStart, freight.ColKMEnd, freight.ColPctOutbound, freight.ColFreightQuote},
		Rows: []freight.Row{
			{
				freight.ColVehicleType:  "TRUCK - CARGA SECA",
				freight.ColKMStart:      0.0,
				freight.ColKMEnd:        100.0,
				freight.ColPctOutbound:  0.4,
				freight.ColFreightQuote: 800.0,
			},
		},
	}

	table, err := m.Merge(sheet)
	require.NoError(t, err)
	assert.Equal(t, 320.0, table.Rows[0][freight.ColOutboundValue])
}

func TestMerge_DerivedNeverOverwritesLoadedValue(t *testing.T) {
	m := NewMerger(DefaultJoinSpec())
	sheet := &freight.Sheet{
		Source:  "freight_calc",
		Name:    "calc",
		Columns: []string{freight.ColVehicleType, freight.ColKMStart, freight.ColKMEnd, freight.ColKMTotal},
		Rows: []freight.Row{
			{
				freight.ColVehicleType: "TRUCK - CARGA SECA",
				freight.ColKMStart:     0.0,
				freight.ColKMEnd:       100.0,
				freight.ColKMTotal:     95.0, // loaded from the workbook, not derived
			},
		},
	}

	table, err := m.Merge(sheet)
	require.NoError(t, err)
	assert.Equal(t, 95.0, table.Rows[0][freight.ColKMTotal])
}

func TestMerge_EmptyInputYieldsEmptyTable(t *testing.T) {
	m := NewMerger(DefaultJoinSpec())
	table, err := m.Merge()
	require.NoError(t, err)
	assert.Equal(t, 0, table.RowCount())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 15.0, Round2(15.0))
	assert.Equal(t, 2.35, Round2(2.346))
	assert.Equal(t, 2.34, Round2(2.344))
	assert.Equal(t, -2.35, Round2(-2.346))
}
