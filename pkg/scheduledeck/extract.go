package scheduledeck

import (
	"io"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/parser"
)

// Result is a decoded workbook with its extracted materials.
type Result struct {
	Workbook  *models.Workbook
	Materials []models.Material
	Sheets    []models.SheetSummary
}

// Extract decodes the spreadsheet at path and extracts its material schedule.
func Extract(path string, opts Options) (*Result, error) {
	wb, err := parser.OpenWorkbook(path, opts.readOptions())
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	return extractWorkbook(wb, opts), nil
}

// ExtractReader is Extract for a spreadsheet held in r.
func ExtractReader(r io.Reader, name string, opts Options) (*Result, error) {
	wb, err := parser.ReadWorkbook(r, name, opts.readOptions())
	if err != nil {
		return nil, &DecodeError{Source: name, Err: err}
	}
	return extractWorkbook(wb, opts), nil
}

func extractWorkbook(wb *models.Workbook, opts Options) *Result {
	eo := opts.extractOptions()
	materials := parser.ExtractMaterialsWithOptions(wb.Sheets, eo)
	opts.logger().Debug("materials extracted",
		"book", wb.BookName,
		"sheets", len(wb.Sheets),
		"records", len(materials),
	)
	return &Result{
		Workbook:  wb,
		Materials: materials,
		Sheets:    parser.SummarizeSheets(wb.Sheets, eo),
	}
}
