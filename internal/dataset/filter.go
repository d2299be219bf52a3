package dataset

import (
	"fretedash/domain/freight"
	"fretedash/internal/errors"
)

// errNoRowsMatch is the non-fatal empty-result signal surfaced as a
// warning on the view rather than failing the request.
var errNoRowsMatch = errors.EmptyResult("No rows match the current filter selection. Relax or clear a filter.")

// FilterEngine narrows a merged table by a filter selection. Stateless and
// side-effect free: the merged table is never mutated and views never
// share mutable state.
type FilterEngine struct{}

// NewFilterEngine creates a filter engine.
func NewFilterEngine() *FilterEngine {
	return &FilterEngine{}
}

// Apply returns the subsequence of table rows satisfying the selection:
// AND across columns, OR within a column's accepted values. An empty
// selection returns the full table unchanged (identity case).
func (e *FilterEngine) Apply(table *freight.MergedTable, sel freight.FilterSelection) freight.FilteredView {
	view := freight.FilteredView{
		Columns: table.Columns,
		Total:   len(table.Rows),
	}

	if sel.IsEmpty() {
		view.Rows = table.Rows
		return view
	}

	rows := make([]freight.Row, 0, len(table.Rows))
	for _, row := range table.Rows {
		if e.matches(row, sel) {
			rows = append(rows, row)
		}
	}
	view.Rows = rows

	if len(rows) == 0 && len(table.Rows) > 0 {
		view.Empty = true
		view.Warning = errNoRowsMatch.Message
	}
	return view
}

func (e *FilterEngine) matches(row freight.Row, sel freight.FilterSelection) bool {
	for col, accepted := range sel.Values {
		if len(accepted) == 0 {
			continue
		}
		v, ok := row[col]
		if !ok || v == nil {
			return false
		}
		display := freight.Display(v)
		found := false
		for _, want := range accepted {
			if display == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for col, r := range sel.Ranges {
		v, ok := row[col]
		if !ok || v == nil {
			return false
		}
		n, isNum := freight.Number(v)
		if !isNum || !r.Contains(n) {
			return false
		}
	}
	return true
}

// Domains recomputes the distinct-value domain of each filterable column
// from the current merged table. Never served from a stale cache: the
// store calls this on every refresh.
func (e *FilterEngine) Domains(table *freight.MergedTable, columns []string) []freight.ColumnDomain {
	return freight.DomainsFor(table, columns)
}

// FilterableColumns are the columns the dashboard exposes widgets for.
func FilterableColumns() []string {
	return []string{
		freight.ColVehicleType,
		freight.ColKMStart,
		freight.ColKMEnd,
	}
}
