// Package export writes an extracted material schedule back out as a clean
// single-sheet workbook.
package export

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
)

// SheetName is the name of the sheet WriteSchedule produces.
const SheetName = "Materials"

// EmbeddedMarker replaces inline image data in the Image column.
const EmbeddedMarker = "embedded"

var headers = []string{"No.", "Sheet", "Category", "Material", "Area", "Item", "Remarks", "Image"}

// pictureExtensions maps data URI media types to extensions excelize accepts.
var pictureExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/bmp":     ".bmp",
	"image/tiff":    ".tiff",
	"image/svg+xml": ".svg",
	"image/x-emf":   ".emf",
	"image/x-wmf":   ".wmf",
}

// Options tunes WriteSchedule.
type Options struct {
	// EmbedPictures places inline images into the Image column.
	EmbedPictures bool
	Logger        *slog.Logger
}

// WriteSchedule writes materials as an xlsx workbook to w. The workbook is
// built in memory and written only once complete.
func WriteSchedule(w io.Writer, materials []models.Material, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F8F9FA"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "CCCCCC", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("cell style: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(SheetName, "A1", lastHeader, headerStyle)

	row := 2
	pictures := 0
	for _, m := range materials {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}

		write(1, m.ID)
		write(2, m.SheetName)
		write(3, m.Category)
		write(4, m.DisplayMaterial())
		write(5, m.Area)
		write(6, m.Item)
		write(7, m.DisplayRemarks())
		write(8, imageColumn(m.ImageURL))

		if opts.EmbedPictures && isDataURI(m.ImageURL) {
			cell, _ := excelize.CoordinatesToCellName(8, row)
			if err := embedPicture(f, cell, m.ImageURL); err != nil {
				logger.Debug("export.picture.skip", "id", m.ID, "err", err)
			} else {
				pictures++
			}
		}
		row++
	}
	if row > 2 {
		last, _ := excelize.CoordinatesToCellName(len(headers), row-1)
		_ = f.SetCellStyle(SheetName, "A2", last, wrapStyle)
	}

	_ = f.SetColWidth(SheetName, "A", "A", 6)  // no.
	_ = f.SetColWidth(SheetName, "B", "C", 16) // sheet, category
	_ = f.SetColWidth(SheetName, "D", "E", 22) // material, area
	_ = f.SetColWidth(SheetName, "F", "F", 36) // item
	_ = f.SetColWidth(SheetName, "G", "G", 40) // remarks
	_ = f.SetColWidth(SheetName, "H", "H", 24) // image
	_ = f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return err
	}

	logger.Info("export.xlsx.ok", "rows", len(materials), "pictures", pictures)
	return nil
}

// imageColumn keeps URLs readable and replaces inline data with a marker.
func imageColumn(ref string) string {
	if isDataURI(ref) {
		return EmbeddedMarker
	}
	return ref
}

func isDataURI(ref string) bool {
	return strings.HasPrefix(strings.ToLower(ref), "data:")
}

func embedPicture(f *excelize.File, cell, uri string) error {
	ext, data, err := decodeDataURI(uri)
	if err != nil {
		return err
	}
	return f.AddPictureFromBytes(SheetName, cell, &excelize.Picture{
		Extension: ext,
		File:      data,
		Format:    &excelize.GraphicOptions{AutoFit: true, Positioning: "oneCell"},
	})
}

// decodeDataURI splits a base64 data URI into a picture extension and bytes.
func decodeDataURI(uri string) (string, []byte, error) {
	if !isDataURI(uri) {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	mediaType, params, _ := strings.Cut(meta, ";")
	if !strings.Contains(params, "base64") {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	ext, ok := pictureExtensions[strings.ToLower(mediaType)]
	if !ok {
		return "", nil, fmt.Errorf("unsupported media type %q", mediaType)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI: %w", err)
	}
	return ext, data, nil
}
