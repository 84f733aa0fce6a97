package parser

import (
	"regexp"
	"strings"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
)

// CoverSheetPrefix marks cover and legend sheets, which never carry materials.
const CoverSheetPrefix = "A."

// categoryLabels mark a big-category row when found in column 0.
var categoryLabels = []string{"MATERIAL", "SWITCH", "LIGHT"}

// noiseTokens are header words that must never be captured as data.
var noiseTokens = map[string]bool{
	"REMARKS":     true,
	"REMARK":      true,
	"MANUFAC":     true,
	"ORIGIN":      true,
	"IMAGE":       true,
	"EA":          true,
	"QTY":         true,
	"UNIT":        true,
	"DESCRIPTION": true,
}

// noisePhrases are instructional fillers dropped from remarks.
var noisePhrases = map[string]bool{
	"-":              true,
	"N/A":            true,
	"SEE IMAGE":      true,
	"REFER TO IMAGE": true,
}

var remarksEchoPattern = regexp.MustCompile(`(?i)^REMARKS?\s*[:：\-–]\s*`)

// ExtractOptions tunes material extraction.
type ExtractOptions struct {
	// IncludeCoverSheets disables the cover sheet skip rule.
	IncludeCoverSheets bool
	// HeaderBandRows is the number of leading rows scanned for a header row.
	HeaderBandRows int
}

// DefaultExtractOptions returns the options used by ExtractMaterials.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{HeaderBandRows: DefaultHeaderBandRows}
}

// ExtractMaterials walks every sheet in order and returns the material
// records found, with ids assigned sequentially across all sheets.
func ExtractMaterials(sheets []models.Sheet) []models.Material {
	return ExtractMaterialsWithOptions(sheets, DefaultExtractOptions())
}

// ExtractMaterialsWithOptions is ExtractMaterials with explicit options.
func ExtractMaterialsWithOptions(sheets []models.Sheet, opts ExtractOptions) []models.Material {
	var out []models.Material
	nextID := 1
	for _, sheet := range sheets {
		if !opts.IncludeCoverSheets && IsCoverSheet(sheet.Name) {
			continue
		}
		records := newSheetScan(sheet, opts, nextID).run()
		nextID += len(records)
		out = append(out, records...)
	}
	return out
}

// SummarizeSheets reports how each sheet is interpreted by the extractor.
func SummarizeSheets(sheets []models.Sheet, opts ExtractOptions) []models.SheetSummary {
	summaries := make([]models.SheetSummary, 0, len(sheets))
	for _, sheet := range sheets {
		s := models.SheetSummary{
			Name:   sheet.Name,
			Rows:   len(sheet.Grid),
			Cover:  IsCoverSheet(sheet.Name),
			Header: DetectHeaderColumnsInBand(sheet.Grid, opts.HeaderBandRows),
		}
		if !s.Cover || opts.IncludeCoverSheets {
			s.Records = len(newSheetScan(sheet, opts, 1).run())
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// IsCoverSheet reports whether a sheet name follows the cover sheet convention.
func IsCoverSheet(name string) bool {
	return strings.HasPrefix(name, CoverSheetPrefix)
}

type scanState int

const (
	awaitingArea scanState = iota
	recordInProgress
)

// sheetScan holds the running context while one sheet is walked.
type sheetScan struct {
	name    string
	grid    models.Grid
	header  models.HeaderColumns
	nextID  int
	state   scanState
	current models.Material

	category string
	group    string

	out []models.Material
}

func newSheetScan(sheet models.Sheet, opts ExtractOptions, firstID int) *sheetScan {
	return &sheetScan{
		name:   sheet.Name,
		grid:   sheet.Grid,
		header: DetectHeaderColumnsInBand(sheet.Grid, opts.HeaderBandRows),
		nextID: firstID,
	}
}

func (s *sheetScan) run() []models.Material {
	for r := 1; r < len(s.grid); r++ {
		s.scanRow(r)
	}
	s.finish()
	return s.out
}

func (s *sheetScan) scanRow(r int) {
	row := s.grid[r]
	if len(row) < 2 {
		return
	}

	left := NormalizeText(row[0])
	leftUpper := LabelText(row[0])
	if containsAny(leftUpper, categoryLabels) {
		s.category = left
	}
	if leftUpper != "" && leftUpper != "MATERIAL" && leftUpper != "DESCRIPTION" {
		s.group = left
	}

	hit, ok := FindLabelInRow(row, RecordLabels)
	if !ok {
		return
	}
	if hit.Label == LabelArea {
		s.startRecord(ValueRightOf(row, hit.Column))
		return
	}
	if s.state != recordInProgress {
		return
	}

	switch hit.Label {
	case LabelMaterial:
		if v := ValueRightOf(row, hit.Column); v != "" && !isNoise(v) {
			s.current.Material = v
		}
		s.applySameRowRemarks(row)
		if v, ok := labelValue(row, imageLabels); ok {
			s.applyImage(v)
		}
	case LabelItem:
		s.current.Item = ValueRightOf(row, hit.Column)
		if !s.applySameRowRemarks(row) && s.header.RemarksCol >= 0 {
			if v := cleanRemarks(NormalizeText(s.grid.Cell(r, s.header.RemarksCol+1))); v != "" {
				s.current.Remarks = v
			}
		}
		if v, ok := labelValue(row, brandLabels); ok && v != "" && !isNoise(v) {
			s.current.Brand = v
		}
		if ref := s.pickImage(r); ref != "" {
			s.current.ImageURL = ref
		}
	case LabelRemarks, LabelRemark:
		if v := cleanRemarks(ValueRightOf(row, hit.Column)); v != "" {
			s.current.Remarks = v
		}
	case LabelImage:
		s.applyImage(ValueRightOf(row, hit.Column))
	}
}

// startRecord finalizes any record in progress and opens a new one.
func (s *sheetScan) startRecord(area string) {
	s.finish()
	category := s.category
	if category == "" {
		category = models.DefaultCategory
	}
	s.current = models.Material{
		ID:         s.nextID,
		SheetName:  s.name,
		Category:   category,
		GroupLabel: s.group,
		Area:       area,
		Material:   s.defaultMaterial(),
	}
	s.nextID++
	s.state = recordInProgress
}

// finish appends the record in progress, if any.
func (s *sheetScan) finish() {
	if s.state != recordInProgress {
		return
	}
	if s.current.Material == "" {
		s.current.Material = s.defaultMaterial()
	}
	s.out = append(s.out, s.current)
	s.current = models.Material{}
	s.state = awaitingArea
}

func (s *sheetScan) defaultMaterial() string {
	switch {
	case s.group != "":
		return s.group
	case s.category != "":
		return s.category
	default:
		return s.name
	}
}

// applySameRowRemarks copies a usable REMARKS value from row into the record.
func (s *sheetScan) applySameRowRemarks(row models.Row) bool {
	v, ok := labelValue(row, remarksLabels)
	if !ok {
		return false
	}
	if v = cleanRemarks(v); v == "" {
		return false
	}
	s.current.Remarks = v
	return true
}

func (s *sheetScan) applyImage(v string) {
	if ref := ExtractImageReference(v); isImageLocator(ref) {
		s.current.ImageURL = ref
	}
}

// pickImage looks for an image on row r and the two rows below it, since
// merged or wrapped cells often push the image under its label.
func (s *sheetScan) pickImage(r int) string {
	for rr := r; rr <= r+2 && rr < len(s.grid); rr++ {
		row := s.grid[rr]
		if v, ok := labelValue(row, imageLabels); ok {
			if ref := ExtractImageReference(v); isImageLocator(ref) {
				return ref
			}
		}
		if s.header.ImageCol >= 0 {
			if ref := ExtractImageReference(s.grid.Cell(rr, s.header.ImageCol+1)); isImageLocator(ref) {
				return ref
			}
		}
	}
	return ""
}

func isNoise(v string) bool {
	return noiseTokens[strings.ToUpper(strings.TrimSpace(v))]
}

// cleanRemarks strips a leading label echo and drops header words and
// instructional fillers. It returns "" when nothing usable is left.
func cleanRemarks(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || isNoise(v) {
		return ""
	}
	v = strings.TrimSpace(remarksEchoPattern.ReplaceAllString(v, ""))
	if v == "" || isNoise(v) || noisePhrases[strings.ToUpper(v)] {
		return ""
	}
	return v
}
