// Package parser turns decoded spreadsheet grids into material records.
package parser

import (
	"encoding/base64"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
	"github.com/xuri/excelize/v2"
)

// ReadOptions configures workbook decoding.
type ReadOptions struct {
	// EmbedPictures renders pictures anchored in cells as data URIs in
	// their anchor cell.
	EmbedPictures bool
	// IncludeLinks appends http(s) hyperlink targets to their cell text.
	IncludeLinks bool
}

// OpenWorkbook decodes the spreadsheet at path.
func OpenWorkbook(path string, opts ReadOptions) (*models.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readFile(f, filepath.Base(path), opts)
}

// ReadWorkbook decodes a spreadsheet from r. bookName is recorded as is.
func ReadWorkbook(r io.Reader, bookName string, opts ReadOptions) (*models.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readFile(f, bookName, opts)
}

func readFile(f *excelize.File, bookName string, opts ReadOptions) (*models.Workbook, error) {
	wb := &models.Workbook{BookName: bookName}
	for _, name := range f.GetSheetList() {
		grid, err := ExtractGrid(f, name, opts)
		if err != nil {
			// Unreadable sheets contribute no rows.
			grid = nil
		}
		wb.Sheets = append(wb.Sheets, models.Sheet{Name: name, Grid: grid})
	}
	return wb, nil
}

// ExtractGrid reads a sheet into a grid. Empty cells become nil.
func ExtractGrid(f *excelize.File, sheetName string, opts ReadOptions) (models.Grid, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	grid := make(models.Grid, len(rows))
	for rowIdx, row := range rows {
		cells := make(models.Row, len(row))
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			cells[colIdx] = cellValue

			if opts.IncludeLinks {
				cellName, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				hasLink, target, err := f.GetCellHyperLink(sheetName, cellName)
				if err == nil && hasLink && isWebLink(target) && !strings.Contains(cellValue, target) {
					cells[colIdx] = cellValue + " " + target
				}
			}
		}
		grid[rowIdx] = cells
	}

	if opts.EmbedPictures {
		grid, err = embedCellPictures(f, sheetName, grid)
		if err != nil {
			return nil, err
		}
	}
	return grid, nil
}

// embedCellPictures writes each anchored picture into its anchor cell.
func embedCellPictures(f *excelize.File, sheetName string, grid models.Grid) (models.Grid, error) {
	cells, err := f.GetPictureCells(sheetName)
	if err != nil {
		return grid, err
	}
	for _, cellName := range cells {
		col, row, err := excelize.CellNameToCoordinates(cellName)
		if err != nil {
			continue
		}
		pics, err := f.GetPictures(sheetName, cellName)
		if err != nil {
			continue
		}
		for _, pic := range pics {
			if uri := pictureDataURI(pic.Extension, pic.File); uri != "" {
				grid = placeText(grid, row-1, col-1, uri)
				break
			}
		}
	}
	return grid, nil
}

// isWebLink reports whether a hyperlink target is an external http(s) URL.
// Jumps to cells inside the workbook are ignored.
func isWebLink(target string) bool {
	lower := strings.ToLower(strings.TrimSpace(target))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// pictureDataURI encodes picture bytes as a data URI, or "" when the
// extension is not an image type.
func pictureDataURI(ext string, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	mimeType := mime.TypeByExtension(ext)
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	if !strings.HasPrefix(mimeType, "image/") {
		switch ext {
		case ".emf":
			mimeType = "image/emf"
		case ".wmf":
			mimeType = "image/wmf"
		default:
			return ""
		}
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// placeText stores s at (r, c), growing the grid as needed. Existing text is
// kept and s is appended after a space.
func placeText(grid models.Grid, r, c int, s string) models.Grid {
	if r < 0 || c < 0 {
		return grid
	}
	for len(grid) <= r {
		grid = append(grid, nil)
	}
	row := grid[r]
	for len(row) <= c {
		row = append(row, nil)
	}
	if existing := NormalizeText(row[c]); existing != "" {
		row[c] = existing + " " + s
	} else {
		row[c] = s
	}
	grid[r] = row
	return grid
}
