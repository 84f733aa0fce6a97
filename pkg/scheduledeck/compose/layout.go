// Package compose turns scenes and their selected materials into slide
// descriptions and serializes them as a presentation.
package compose

import "math"

// Layout holds slide geometry in inches and text sizes in points.
type Layout struct {
	SlideWidth  float64
	SlideHeight float64

	TitleX        float64
	TitleY        float64
	TitleFontSize float64

	// TopY is where the scene image and minimap label start.
	TopY float64

	SceneWidth         float64
	SceneHeight        float64
	SceneHeightCompact float64
	// CompactThreshold is the material count above which the compact scene
	// height is used to leave room for table rows.
	CompactThreshold int

	MinimapX          float64
	MinimapYOffset    float64
	MinimapWidth      float64
	MinimapHeight     float64
	MinimapRightLimit float64
	MinimapMinWidth   float64
	MinimapLabel      string
	LabelFontSize     float64

	TableGap       float64
	TableBottom    float64
	TableX         float64
	TableWidth     float64
	RowHeightMin   float64
	RowHeightMax   float64
	ColumnWidths   []float64
	MinColumnWidth float64
	TableFontSize  float64
	TableHeader    []string
	ImageMarker    string
}

// DefaultLayout is a 16:9 slide with the scene photo on the left, the minimap
// on the right and the material table below.
func DefaultLayout() Layout {
	return Layout{
		SlideWidth:  10,
		SlideHeight: 5.625,

		TitleX:        0.5,
		TitleY:        0.3,
		TitleFontSize: 20,

		TopY: 0.8,

		SceneWidth:         6.1,
		SceneHeight:        3.4,
		SceneHeightCompact: 3.0,
		CompactThreshold:   6,

		MinimapX:          6.7,
		MinimapYOffset:    0.2,
		MinimapWidth:      3.0,
		MinimapHeight:     2.2,
		MinimapRightLimit: 9.7,
		MinimapMinWidth:   2.2,
		MinimapLabel:      "MINIMAP",
		LabelFontSize:     12,

		TableGap:       0.3,
		TableBottom:    5.2,
		TableX:         0.5,
		TableWidth:     9.0,
		RowHeightMin:   0.18,
		RowHeightMax:   0.30,
		ColumnWidths:   []float64{0.6, 1.4, 1.4, 1.3, 3.0, 1.5, 0.8},
		MinColumnWidth: 0.4,
		TableFontSize:  10,
		TableHeader:    []string{"No.", "SHEET", "MATERIAL", "AREA", "ITEM", "REMARKS", "IMAGE"},
		ImageMarker:    "Y",
	}
}

// Box is a placement rectangle in slide inches.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// Geometry is the computed placement of every element of one slide.
type Geometry struct {
	Title        Box
	Scene        Box
	MinimapLabel Box
	Minimap      Box
	Table        Box
	RowHeight    float64
	ColumnWidths []float64
}

// PlanGeometry lays out a slide carrying materialCount table rows.
func (l Layout) PlanGeometry(materialCount int) Geometry {
	sceneH := l.SceneHeight
	if materialCount > l.CompactThreshold {
		sceneH = l.SceneHeightCompact
	}

	mini := Box{X: l.MinimapX, Y: l.TopY + l.MinimapYOffset, W: l.MinimapWidth, H: l.MinimapHeight}
	if mini.X+mini.W > l.MinimapRightLimit {
		mini.W = math.Max(l.MinimapRightLimit-mini.X, l.MinimapMinWidth)
	}

	tableY := l.TopY + sceneH + l.TableGap
	rowH := RowHeight(l.TableBottom-tableY, materialCount, l.RowHeightMin, l.RowHeightMax)
	widths := FitColumns(l.ColumnWidths, l.TableWidth, l.MinColumnWidth)

	return Geometry{
		Title:        Box{X: l.TitleX, Y: l.TitleY, W: l.SlideWidth - 2*l.TitleX, H: l.TopY - l.TitleY},
		Scene:        Box{X: l.TitleX, Y: l.TopY, W: l.SceneWidth, H: sceneH},
		MinimapLabel: Box{X: mini.X, Y: l.TopY, W: mini.W, H: l.MinimapYOffset},
		Minimap:      mini,
		Table:        Box{X: l.TableX, Y: tableY, W: sum(widths), H: rowH * float64(materialCount+1)},
		RowHeight:    rowH,
		ColumnWidths: widths,
	}
}

// RowHeight divides the available height among materialCount rows plus a
// header row, clamped to [minH, maxH].
func RowHeight(available float64, materialCount int, minH, maxH float64) float64 {
	rows := max(materialCount+1, 1)
	return math.Max(minH, math.Min(maxH, available/float64(rows)))
}

// FitColumns scales widths proportionally so they fit in available, never
// shrinking a column below floor. Columns pinned at the floor are excluded
// from further scaling. Widths that already fit are returned unchanged.
func FitColumns(widths []float64, available, floor float64) []float64 {
	out := append([]float64(nil), widths...)
	total := sum(out)
	if total <= available || total == 0 {
		return out
	}

	pinned := make([]bool, len(out))
	for {
		var free, fixed float64
		for i, w := range widths {
			if pinned[i] {
				fixed += floor
			} else {
				free += w
			}
		}
		if free == 0 {
			break
		}
		scale := math.Max(available-fixed, 0) / free
		changed := false
		for i, w := range widths {
			if pinned[i] {
				out[i] = floor
				continue
			}
			out[i] = w * scale
			if out[i] < floor {
				out[i] = floor
				pinned[i] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return out
}

// FitContain scales a srcW x srcH image to fit inside frame while keeping its
// aspect ratio, centered in the frame.
func FitContain(srcW, srcH float64, frame Box) Box {
	if srcW <= 0 || srcH <= 0 || frame.W <= 0 || frame.H <= 0 {
		return Box{X: frame.X, Y: frame.Y}
	}
	scale := math.Min(frame.W/srcW, frame.H/srcH)
	w, h := srcW*scale, srcH*scale
	return Box{
		X: frame.X + (frame.W-w)/2,
		Y: frame.Y + (frame.H-h)/2,
		W: w,
		H: h,
	}
}

func sum(vs []float64) float64 {
	var total float64
	for _, v := range vs {
		total += v
	}
	return total
}
