package compose

import (
	"fmt"
	"image"
	"log/slog"
	"strconv"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
)

// Selection resolves what a scene's slide shows.
type Selection interface {
	MaterialsFor(scene int) []models.Material
	CropRectangle(scene int) (models.CropRect, bool)
}

// Picture is an encoded image placed on a slide.
type Picture struct {
	Box    Box
	Data   []byte
	Format string
}

// Table is the material table of a slide.
type Table struct {
	Box          Box
	ColumnWidths []float64
	RowHeight    float64
	FontSize     float64
	Header       []string
	Rows         [][]string
}

// Slide is the structured description of one scene slide.
type Slide struct {
	// Scene is the scene ordinal index.
	Scene         int
	Title         string
	TitleBox      Box
	TitleFontSize float64
	MinimapLabel  string
	LabelBox      Box
	LabelFontSize float64
	Photo         Picture
	Minimap       Picture
	Table         Table
}

// SceneError reports the scene whose slide could not be built.
type SceneError struct {
	Scene int
	Name  string
	Err   error
}

func (e *SceneError) Error() string {
	return fmt.Sprintf("scene %d (%s): %v", e.Scene, e.Name, e.Err)
}

func (e *SceneError) Unwrap() error {
	return e.Err
}

// Composer builds slide descriptions with a fixed layout.
type Composer struct {
	layout Layout
	logger *slog.Logger
}

// NewComposer returns a Composer. A nil logger falls back to slog.Default().
func NewComposer(layout Layout, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{layout: layout, logger: logger}
}

// Layout returns the layout the composer was built with.
func (c *Composer) Layout() Layout {
	return c.layout
}

// Compose builds one slide per scene in upload order.
func (c *Composer) Compose(scenes []models.SceneImage, minimap image.Image, sel Selection) ([]Slide, error) {
	slides := make([]Slide, 0, len(scenes))
	for i, scene := range scenes {
		slide, err := c.composeScene(i, scene, minimap, sel)
		if err != nil {
			return nil, &SceneError{Scene: i, Name: scene.Name, Err: err}
		}
		slides = append(slides, slide)
	}
	return slides, nil
}

func (c *Composer) composeScene(idx int, scene models.SceneImage, minimap image.Image, sel Selection) (Slide, error) {
	mats := sel.MaterialsFor(idx)
	geo := c.layout.PlanGeometry(len(mats))

	photo, format, err := sceneBytes(scene)
	if err != nil {
		return Slide{}, fmt.Errorf("encode scene image: %w", err)
	}

	var crop *models.CropRect
	if r, ok := sel.CropRectangle(idx); ok {
		crop = &r
	}
	mini := RenderMinimap(minimap, crop, InchesToPixels(geo.Minimap.W), InchesToPixels(geo.Minimap.H))
	miniPNG, err := EncodePNG(mini)
	if err != nil {
		return Slide{}, fmt.Errorf("encode minimap: %w", err)
	}

	c.logger.Debug("composed slide", "scene", idx, "materials", len(mats), "row_height", geo.RowHeight, "crop", crop != nil)

	return Slide{
		Scene:         idx,
		Title:         scene.Title(),
		TitleBox:      geo.Title,
		TitleFontSize: c.layout.TitleFontSize,
		MinimapLabel:  c.layout.MinimapLabel,
		LabelBox:      geo.MinimapLabel,
		LabelFontSize: c.layout.LabelFontSize,
		Photo:         Picture{Box: geo.Scene, Data: photo, Format: format},
		Minimap:       Picture{Box: geo.Minimap, Data: miniPNG, Format: "png"},
		Table: Table{
			Box:          geo.Table,
			ColumnWidths: geo.ColumnWidths,
			RowHeight:    geo.RowHeight,
			FontSize:     c.layout.TableFontSize,
			Header:       append([]string(nil), c.layout.TableHeader...),
			Rows:         TableRows(mats, c.layout.ImageMarker),
		},
	}, nil
}

// TableRows renders materials as [ordinal, sheet, material, area, item,
// remarks, image marker] rows.
func TableRows(mats []models.Material, imageMarker string) [][]string {
	rows := make([][]string, 0, len(mats))
	for i, m := range mats {
		marker := ""
		if m.HasImage() {
			marker = imageMarker
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			m.SheetName,
			m.DisplayMaterial(),
			m.Area,
			m.Item,
			m.DisplayRemarks(),
			marker,
		})
	}
	return rows
}

// sceneBytes returns scene bytes in a format presentations embed directly,
// re-encoding other formats as PNG.
func sceneBytes(scene models.SceneImage) ([]byte, string, error) {
	switch scene.Format {
	case "png", "jpeg", "gif":
		if len(scene.Data) > 0 {
			return scene.Data, scene.Format, nil
		}
	}
	if scene.Image == nil {
		return nil, "", fmt.Errorf("scene %q has no decoded image", scene.Name)
	}
	data, err := EncodePNG(scene.Image)
	if err != nil {
		return nil, "", err
	}
	return data, "png", nil
}
