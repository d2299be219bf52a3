package excel

// SheetData is the raw cell grid of one sheet, every cell as the formatted
// string excelize returns. Ragged rows are preserved as-is.
type SheetData struct {
	Name string
	Rows [][]string
}

// Cell returns the trimmed cell at (row, col), or "" when the grid is
// shorter than the requested position.
func (s *SheetData) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return trim(r[col])
}

// RowCount returns the number of rows in the grid.
func (s *SheetData) RowCount() int {
	return len(s.Rows)
}
