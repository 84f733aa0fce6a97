package parser

import (
	"strings"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
)

// Keyword labels recognized in schedule sheets.
const (
	LabelArea     = "AREA"
	LabelMaterial = "MATERIAL"
	LabelItem     = "ITEM"
	LabelRemarks  = "REMARKS"
	LabelRemark   = "REMARK"
	LabelImage    = "IMAGE"
)

var (
	// RecordLabels is the label set searched on every data row.
	// Order matters: the first label contained in a cell wins.
	RecordLabels = []string{LabelArea, LabelMaterial, LabelItem, LabelRemarks, LabelRemark, LabelImage}

	remarksLabels = []string{LabelRemarks, LabelRemark}
	imageLabels   = []string{LabelImage}
	brandLabels   = []string{"MANUFAC", "BRAND"}
)

const (
	// DefaultHeaderBandRows is how many leading rows are scanned for a header row.
	DefaultHeaderBandRows = 40

	// valueWindow is how far right of a label a value is searched for.
	valueWindow = 6
)

// fallbackValueColumns are the conventional value columns checked when no
// value sits within the window right of a label.
var fallbackValueColumns = []int{2, 3, 4}

// LabelText returns the upper-cased text of a cell with data URIs and http(s)
// URLs removed. Picture payloads and link targets never match a label.
func LabelText(cell models.Cell) string {
	v := NormalizeText(cell)
	if v == "" {
		return ""
	}
	v = dataURIPattern.ReplaceAllString(v, "")
	v = httpURLPattern.ReplaceAllString(v, "")
	return strings.ToUpper(strings.TrimSpace(v))
}

// LabelHit is the position of a label found in a row.
type LabelHit struct {
	Column int
	Label  string
}

// FindLabelInRow scans a row left to right and returns the first column whose
// label text contains any of labels, with the first label that matched.
func FindLabelInRow(row models.Row, labels []string) (LabelHit, bool) {
	for c, cell := range row {
		v := LabelText(cell)
		if v == "" {
			continue
		}
		for _, label := range labels {
			if strings.Contains(v, label) {
				return LabelHit{Column: c, Label: label}, true
			}
		}
	}
	return LabelHit{}, false
}

// ValueRightOf returns the first non-empty cell within valueWindow columns
// right of col. Failing that, it returns the first non-empty cell among
// columns 2, 3 and 4.
func ValueRightOf(row models.Row, col int) string {
	for c := col + 1; c <= col+valueWindow && c < len(row); c++ {
		if v := NormalizeText(row[c]); v != "" {
			return v
		}
	}
	for _, c := range fallbackValueColumns {
		if c < len(row) {
			if v := NormalizeText(row[c]); v != "" {
				return v
			}
		}
	}
	return ""
}

// labelValue finds one of labels in row and returns the value right of it.
func labelValue(row models.Row, labels []string) (string, bool) {
	hit, ok := FindLabelInRow(row, labels)
	if !ok {
		return "", false
	}
	return ValueRightOf(row, hit.Column), true
}

// DetectHeaderColumns locates the header row in the default header band.
func DetectHeaderColumns(grid models.Grid) models.HeaderColumns {
	return DetectHeaderColumnsInBand(grid, DefaultHeaderBandRows)
}

// DetectHeaderColumnsInBand scores each of the first bandRows rows by how many
// of AREA, ITEM, REMARKS and IMAGE it contains and adopts the best row;
// ties go to the row whose rightmost label sits furthest right. When no row
// holds at least two labels, it falls back to the rightmost REMARKS and IMAGE
// columns seen anywhere in the band.
func DetectHeaderColumnsInBand(grid models.Grid, bandRows int) models.HeaderColumns {
	if bandRows <= 0 {
		bandRows = DefaultHeaderBandRows
	}
	limit := min(bandRows, len(grid))

	best := models.NoHeaderColumns
	bestScore, bestRight := 0, -1
	for r := 0; r < limit; r++ {
		row := grid[r]
		hc := models.HeaderColumns{
			AreaCol:    firstColumnContaining(row, LabelArea),
			ItemCol:    firstColumnContaining(row, LabelItem),
			RemarksCol: firstColumnContaining(row, LabelRemarks, LabelRemark),
			ImageCol:   firstColumnContaining(row, LabelImage),
		}
		score, right := 0, -1
		for _, c := range []int{hc.AreaCol, hc.ItemCol, hc.RemarksCol, hc.ImageCol} {
			if c >= 0 {
				score++
				right = max(right, c)
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && right > bestRight) {
			best, bestScore, bestRight = hc, score, right
		}
	}
	if bestScore >= 2 {
		return best
	}

	fallback := models.NoHeaderColumns
	for r := 0; r < limit; r++ {
		row := grid[r]
		if c := lastColumnContaining(row, LabelRemarks, LabelRemark); c > fallback.RemarksCol {
			fallback.RemarksCol = c
		}
		if c := lastColumnContaining(row, LabelImage); c > fallback.ImageCol {
			fallback.ImageCol = c
		}
	}
	return fallback
}

func firstColumnContaining(row models.Row, labels ...string) int {
	for c, cell := range row {
		if containsAny(LabelText(cell), labels) {
			return c
		}
	}
	return -1
}

func lastColumnContaining(row models.Row, labels ...string) int {
	for c := len(row) - 1; c >= 0; c-- {
		if containsAny(LabelText(row[c]), labels) {
			return c
		}
	}
	return -1
}

func containsAny(v string, labels []string) bool {
	if v == "" {
		return false
	}
	for _, label := range labels {
		if strings.Contains(v, label) {
			return true
		}
	}
	return false
}
