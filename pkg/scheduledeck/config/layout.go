// Package config loads slide layout tuning and scene plans from JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/compose"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// LayoutConfig overrides parts of compose.DefaultLayout. Fields left out of
// the JSON file keep their default values, so partial files are safe.
type LayoutConfig struct {
	// Slide
	SlideWidth    *float64 `json:"slide_width,omitempty"`
	SlideHeight   *float64 `json:"slide_height,omitempty"`
	TitleFontSize *float64 `json:"title_font_size,omitempty"`

	// Scene photo
	SceneWidth         *float64 `json:"scene_width,omitempty"`
	SceneHeight        *float64 `json:"scene_height,omitempty"`
	SceneHeightCompact *float64 `json:"scene_height_compact,omitempty"`
	CompactThreshold   *int     `json:"compact_threshold,omitempty"`

	// Minimap
	MinimapX      *float64 `json:"minimap_x,omitempty"`
	MinimapWidth  *float64 `json:"minimap_width,omitempty"`
	MinimapHeight *float64 `json:"minimap_height,omitempty"`
	MinimapLabel  *string  `json:"minimap_label,omitempty"`

	// Table
	RowHeightMin   *float64  `json:"row_height_min,omitempty"`
	RowHeightMax   *float64  `json:"row_height_max,omitempty"`
	ColumnWidths   []float64 `json:"column_widths,omitempty"`
	MinColumnWidth *float64  `json:"min_column_width,omitempty"`
	TableFontSize  *float64  `json:"table_font_size,omitempty"`
	TableHeader    []string  `json:"table_header,omitempty"`
	ImageMarker    *string   `json:"image_marker,omitempty"`
}

// LoadLayoutConfig reads a LayoutConfig from a .json file of at most 1MB.
func LoadLayoutConfig(path string) (*LayoutConfig, error) {
	data, err := readJSONFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &LayoutConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse layout JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are set.
func (c *LayoutConfig) Validate() error {
	positive := []struct {
		name string
		v    *float64
	}{
		{"slide_width", c.SlideWidth},
		{"slide_height", c.SlideHeight},
		{"title_font_size", c.TitleFontSize},
		{"scene_width", c.SceneWidth},
		{"scene_height", c.SceneHeight},
		{"scene_height_compact", c.SceneHeightCompact},
		{"minimap_width", c.MinimapWidth},
		{"minimap_height", c.MinimapHeight},
		{"row_height_min", c.RowHeightMin},
		{"row_height_max", c.RowHeightMax},
		{"table_font_size", c.TableFontSize},
	}
	for _, p := range positive {
		if p.v != nil && *p.v <= 0 {
			return fmt.Errorf("%s must be positive, got %g", p.name, *p.v)
		}
	}
	if c.MinColumnWidth != nil && *c.MinColumnWidth < 0 {
		return fmt.Errorf("min_column_width must be non-negative, got %g", *c.MinColumnWidth)
	}
	if c.CompactThreshold != nil && *c.CompactThreshold < 0 {
		return fmt.Errorf("compact_threshold must be non-negative, got %d", *c.CompactThreshold)
	}
	if c.RowHeightMin != nil && c.RowHeightMax != nil && *c.RowHeightMin > *c.RowHeightMax {
		return fmt.Errorf("row_height_min %g exceeds row_height_max %g", *c.RowHeightMin, *c.RowHeightMax)
	}
	if c.ColumnWidths != nil && len(c.ColumnWidths) != 7 {
		return fmt.Errorf("column_widths needs 7 entries, got %d", len(c.ColumnWidths))
	}
	for i, w := range c.ColumnWidths {
		if w <= 0 {
			return fmt.Errorf("column_widths[%d] must be positive, got %g", i, w)
		}
	}
	if c.TableHeader != nil && len(c.TableHeader) != 7 {
		return fmt.Errorf("table_header needs 7 entries, got %d", len(c.TableHeader))
	}
	return nil
}

// Layout returns compose.DefaultLayout with the configured overrides applied.
func (c *LayoutConfig) Layout() compose.Layout {
	l := compose.DefaultLayout()
	c.ApplyTo(&l)
	return l
}

// ApplyTo overwrites the fields of l that are set in c.
func (c *LayoutConfig) ApplyTo(l *compose.Layout) {
	if c == nil {
		return
	}
	setFloat(&l.SlideWidth, c.SlideWidth)
	setFloat(&l.SlideHeight, c.SlideHeight)
	setFloat(&l.TitleFontSize, c.TitleFontSize)
	setFloat(&l.SceneWidth, c.SceneWidth)
	setFloat(&l.SceneHeight, c.SceneHeight)
	setFloat(&l.SceneHeightCompact, c.SceneHeightCompact)
	if c.CompactThreshold != nil {
		l.CompactThreshold = *c.CompactThreshold
	}
	setFloat(&l.MinimapX, c.MinimapX)
	setFloat(&l.MinimapWidth, c.MinimapWidth)
	setFloat(&l.MinimapHeight, c.MinimapHeight)
	if c.MinimapLabel != nil {
		l.MinimapLabel = *c.MinimapLabel
	}
	setFloat(&l.RowHeightMin, c.RowHeightMin)
	setFloat(&l.RowHeightMax, c.RowHeightMax)
	if c.ColumnWidths != nil {
		l.ColumnWidths = append([]float64(nil), c.ColumnWidths...)
	}
	setFloat(&l.MinColumnWidth, c.MinColumnWidth)
	setFloat(&l.TableFontSize, c.TableFontSize)
	if c.TableHeader != nil {
		l.TableHeader = append([]string(nil), c.TableHeader...)
	}
	if c.ImageMarker != nil {
		l.ImageMarker = *c.ImageMarker
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// readJSONFile reads path after checking its extension and size.
func readJSONFile(path string) ([]byte, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return data, nil
}
