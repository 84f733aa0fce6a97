// Package models defines data structures for material schedule extraction.
package models

// Cell is a single spreadsheet cell value. It holds nil for an absent cell,
// a string, a number, or a time.Time. Extraction always treats it as text.
type Cell = interface{}

// Row is an ordered sequence of cells indexed by column (0-based).
// Rows within a grid may have different lengths.
type Row []Cell

// Grid is a sheet's cells in row-major order. Row 0 is the banner row.
type Grid []Row

// Cell returns the cell at row r, column c, or nil when out of range.
func (g Grid) Cell(r, c int) Cell {
	if r < 0 || r >= len(g) {
		return nil
	}
	row := g[r]
	if c < 0 || c >= len(row) {
		return nil
	}
	return row[c]
}
