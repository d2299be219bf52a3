// Package dataset implements the in-memory core of the dashboard: joining
// the three workbook sheets into one merged table, narrowing it by a
// filter selection, and precomputing chart aggregates.
package dataset

import (
	"fmt"
	"math"
	"strings"

	"fretedash/domain/freight"
	"fretedash/internal/errors"
)

// DuplicatePolicy defines how duplicate keys within one source are handled.
type DuplicatePolicy string

const (
	KeepFirst DuplicatePolicy = "keep_first" // first occurrence wins
	KeepLast  DuplicatePolicy = "keep_last"  // last occurrence wins, first position kept
)

// UnmatchedPolicy defines what happens to keys that do not resolve in
// every contributing source.
type UnmatchedPolicy string

const (
	// KeepWithNulls keeps unmatched rows and leaves the missing columns nil
	// (full outer join). This is the default.
	KeepWithNulls UnmatchedPolicy = "keep_with_nulls"
	// DropUnmatched keeps only keys present in every non-empty source
	// (inner join).
	DropUnmatched UnmatchedPolicy = "drop"
)

// DerivedColumn is a computed column appended after the join. Compute
// returns false to leave the cell null. Existing non-null cells are never
// overwritten, so backfills only fill gaps.
type DerivedColumn struct {
	Name    string
	Compute func(freight.Row) (float64, bool)
}

// JoinSpec describes how sheets are joined: which columns form the key and
// which policies resolve duplicates and unmatched keys. Policies are fixed
// per merge, never inferred from input ordering.
type JoinSpec struct {
	KeyColumns []string
	Duplicates DuplicatePolicy
	Unmatched  UnmatchedPolicy
	Derived    []DerivedColumn
}

// DefaultJoinSpec joins on (vehicle_type, km_start, km_end) with
// first-occurrence-wins duplicates and keep-with-nulls unmatched keys,
// and derives km_total plus the outbound freight value.
func DefaultJoinSpec() JoinSpec {
	return JoinSpec{
		KeyColumns: freight.KeyColumns(),
		Duplicates: KeepFirst,
		Unmatched:  KeepWithNulls,
		Derived: []DerivedColumn{
			{Name: freight.ColKMTotal, Compute: computeKMTotal},
			{Name: freight.ColOutboundValue, Compute: computeOutboundValue},
		},
	}
}

// Merger joins source sheets into one merged table.
type Merger struct {
	spec JoinSpec
}

// NewMerger creates a merger for the given join spec.
func NewMerger(spec JoinSpec) *Merger {
	if len(spec.KeyColumns) == 0 {
		spec.KeyColumns = freight.KeyColumns()
	}
	if spec.Duplicates == "" {
		spec.Duplicates = KeepFirst
	}
	if spec.Unmatched == "" {
		spec.Unmatched = KeepWithNulls
	}
	return &Merger{spec: spec}
}

// Merge joins the sheets in the order given. Output ordering is
// deterministic: rows of the first sheet in source order, then unmatched
// rows of later sheets in their source order. Merging identical inputs
// twice yields identical tables.
func (m *Merger) Merge(sheets ...*freight.Sheet) (*freight.MergedTable, error) {
	active := make([]*freight.Sheet, 0, len(sheets))
	for _, sheet := range sheets {
		if sheet == nil {
			continue
		}
		if err := m.validateKeys(sheet); err != nil {
			return nil, err
		}
		if len(sheet.Rows) > 0 {
			active = append(active, sheet)
		}
	}

	columns := m.mergedColumns(active)

	type mergedEntry struct {
		row     freight.Row
		sources int
	}
	var order []string
	entries := make(map[string]*mergedEntry)

	for _, sheet := range active {
		for _, key := range m.dedupe(sheet) {
			src := key.row
			entry, exists := entries[key.key]
			if !exists {
				entry = &mergedEntry{row: make(freight.Row, len(src))}
				entries[key.key] = entry
				order = append(order, key.key)
			}
			// Column union: first non-null wins on collision.
			for col, v := range src {
				if v == nil {
					continue
				}
				if cur, ok := entry.row[col]; !ok || cur == nil {
					entry.row[col] = v
				}
			}
			entry.sources++
		}
	}

	required := len(active)
	rows := make([]freight.Row, 0, len(order))
	for _, key := range order {
		entry := entries[key]
		if m.spec.Unmatched == DropUnmatched && entry.sources < required {
			continue
		}
		m.applyDerived(entry.row)
		rows = append(rows, entry.row)
	}

	return &freight.MergedTable{Columns: columns, Rows: rows}, nil
}

// validateKeys fails with a configuration error naming the first key
// column absent from the sheet header.
func (m *Merger) validateKeys(sheet *freight.Sheet) error {
	for _, col := range m.spec.KeyColumns {
		if !sheet.HasColumn(col) {
			return errors.ConfigurationError(col, sheet.Name)
		}
	}
	return nil
}

type keyedRow struct {
	key string
	row freight.Row
}

// dedupe applies the duplicate policy within one sheet, preserving
// first-occurrence positions. Rows with a null key cell are skipped: a key
// that cannot be resolved unambiguously has no place in the join.
func (m *Merger) dedupe(sheet *freight.Sheet) []keyedRow {
	var out []keyedRow
	index := make(map[string]int)
	for _, row := range sheet.Rows {
		key, ok := m.keyOf(row)
		if !ok {
			continue
		}
		if pos, seen := index[key]; seen {
			if m.spec.Duplicates == KeepLast {
				out[pos] = keyedRow{key: key, row: row}
			}
			continue
		}
		index[key] = len(out)
		out = append(out, keyedRow{key: key, row: row})
	}
	return out
}

// keyOf builds the composite key string for a row. Numeric key cells are
// normalized so 100 and 100.0 match across sheets.
func (m *Merger) keyOf(row freight.Row) (string, bool) {
	parts := make([]string, 0, len(m.spec.KeyColumns))
	for _, col := range m.spec.KeyColumns {
		v, ok := row[col]
		if !ok || v == nil {
			return "", false
		}
		if n, isNum := freight.Number(v); isNum {
			parts = append(parts, fmt.Sprintf("%g", n))
			continue
		}
		parts = append(parts, freight.Display(v))
	}
	return strings.Join(parts, "\x1f"), true
}

// mergedColumns unions sheet columns in source order: key columns first,
// then each sheet's remaining columns, then derived columns.
func (m *Merger) mergedColumns(sheets []*freight.Sheet) []string {
	seen := make(map[string]struct{})
	var columns []string
	add := func(col string) {
		if _, dup := seen[col]; dup {
			return
		}
		seen[col] = struct{}{}
		columns = append(columns, col)
	}
	for _, col := range m.spec.KeyColumns {
		add(col)
	}
	for _, sheet := range sheets {
		for _, col := range sheet.Columns {
			add(col)
		}
	}
	for _, d := range m.spec.Derived {
		add(d.Name)
	}
	return columns
}

// applyDerived fills derived columns, never overwriting non-null cells.
func (m *Merger) applyDerived(row freight.Row) {
	for _, d := range m.spec.Derived {
		if cur, ok := row[d.Name]; ok && cur != nil {
			continue
		}
		if v, ok := d.Compute(row); ok {
			row[d.Name] = v
		}
	}
}

func computeKMTotal(row freight.Row) (float64, bool) {
	start, okStart := freight.Number(row[freight.ColKMStart])
	end, okEnd := freight.Number(row[freight.ColKMEnd])
	if !okStart || !okEnd || end < start {
		return 0, false
	}
	return end - start + 1, true
}

// computeOutboundValue prices the outbound leg: outbound percentage times
// the trip freight-by-weight value, falling back to the quoted total when
// the calculation workbook has no trip value for the band.
func computeOutboundValue(row freight.Row) (float64, bool) {
	pct, okPct := freight.Number(row[freight.ColPctOutbound])
	if !okPct {
		return 0, false
	}
	base, okBase := freight.Number(row[freight.ColFreightTrip])
	if !okBase {
		base, okBase = freight.Number(row[freight.ColFreightQuote])
	}
	if !okBase {
		return 0, false
	}
	return Round2(pct * base), true
}

// Round2 rounds to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
