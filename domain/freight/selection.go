package freight

import "sort"

// Range is an inclusive numeric bound on a filterable column.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v falls inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// FilterSelection is the current set of user-chosen constraints. Accepted
// values within one column are OR-ed; constraints across columns are AND-ed.
// Owned by the presentation layer, one instance per session.
type FilterSelection struct {
	Values map[string][]string `json:"values,omitempty"`
	Ranges map[string]Range    `json:"ranges,omitempty"`
}

// NewFilterSelection returns an empty selection.
func NewFilterSelection() FilterSelection {
	return FilterSelection{
		Values: make(map[string][]string),
		Ranges: make(map[string]Range),
	}
}

// IsEmpty reports whether the selection constrains nothing.
func (s FilterSelection) IsEmpty() bool {
	for _, vals := range s.Values {
		if len(vals) > 0 {
			return false
		}
	}
	return len(s.Ranges) == 0
}

// Clone returns a deep copy so session state never aliases handler-local maps.
func (s FilterSelection) Clone() FilterSelection {
	out := NewFilterSelection()
	for col, vals := range s.Values {
		cp := make([]string, len(vals))
		copy(cp, vals)
		out.Values[col] = cp
	}
	for col, r := range s.Ranges {
		out.Ranges[col] = r
	}
	return out
}

// FilteredView is the subsequence of the merged table satisfying a
// selection. Recomputed on every interaction and discarded after rendering.
type FilteredView struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
	// Total is the unfiltered merged-table row count.
	Total int `json:"total"`
	// Empty flags a selection that matched zero rows of a non-empty table,
	// so the UI can say so instead of rendering a silent empty grid.
	Empty   bool   `json:"empty"`
	Warning string `json:"warning,omitempty"`
}

// ColumnDomain is the distinct-value domain of one filterable column,
// recomputed from the current merged table.
type ColumnDomain struct {
	Column  string   `json:"column"`
	Values  []string `json:"values,omitempty"`
	Numeric bool     `json:"numeric"`
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
}

// DomainsFor computes distinct-value domains for the given columns from a
// merged table. String domains are sorted; nulls are excluded. Numeric
// columns expose min/max bounds for range widgets.
func DomainsFor(table *MergedTable, columns []string) []ColumnDomain {
	domains := make([]ColumnDomain, 0, len(columns))
	for _, col := range columns {
		seen := make(map[string]struct{})
		var values []string
		numeric := false
		var min, max float64
		first := true
		for _, row := range table.Rows {
			v, ok := row[col]
			if !ok || v == nil {
				continue
			}
			if n, isNum := Number(v); isNum {
				numeric = true
				if first || n < min {
					min = n
				}
				if first || n > max {
					max = n
				}
				first = false
				continue
			}
			s := Display(v)
			if s == "" {
				continue
			}
			if _, dup := seen[s]; !dup {
				seen[s] = struct{}{}
				values = append(values, s)
			}
		}
		sort.Strings(values)
		domains = append(domains, ColumnDomain{
			Column:  col,
			Values:  values,
			Numeric: numeric && len(values) == 0,
			Min:     min,
			Max:     max,
		})
	}
	return domains
}
