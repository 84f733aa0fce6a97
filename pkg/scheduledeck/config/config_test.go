package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/compose"
	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLayoutConfigPartial(t *testing.T) {
	path := writeFile(t, "layout.json", `{"title_font_size": 24, "minimap_label": "KEY PLAN", "compact_threshold": 3}`)

	cfg, err := LoadLayoutConfig(path)
	require.NoError(t, err)

	l := cfg.Layout()
	def := compose.DefaultLayout()
	assert.Equal(t, 24.0, l.TitleFontSize)
	assert.Equal(t, "KEY PLAN", l.MinimapLabel)
	assert.Equal(t, 3, l.CompactThreshold)
	assert.Equal(t, def.SlideWidth, l.SlideWidth)
	assert.Equal(t, def.ColumnWidths, l.ColumnWidths)
	assert.Equal(t, def.TableHeader, l.TableHeader)
}

func TestLoadLayoutConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"wrong extension", "layout.yaml", `{}`, ".json extension"},
		{"bad json", "layout.json", `{`, "parse layout JSON"},
		{"negative size", "layout.json", `{"scene_width": -1}`, "scene_width must be positive"},
		{"row heights inverted", "layout.json", `{"row_height_min": 0.5, "row_height_max": 0.2}`, "exceeds"},
		{"column count", "layout.json", `{"column_widths": [1, 2]}`, "7 entries"},
		{"header count", "layout.json", `{"table_header": ["a"]}`, "7 entries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadLayoutConfig(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadLayoutConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadLayoutConfigTooLarge(t *testing.T) {
	big := `{"minimap_label": "` + strings.Repeat("x", maxFileSize) + `"}`
	_, err := LoadLayoutConfig(writeFile(t, "layout.json", big))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestApplyToNil(t *testing.T) {
	var cfg *LayoutConfig
	l := compose.DefaultLayout()
	cfg.ApplyTo(&l)
	assert.Equal(t, compose.DefaultLayout(), l)
}

func TestParsePlan(t *testing.T) {
	plan, err := ParsePlan([]byte(`{
		"scenes": [
			{"scene": 0, "materials": [3, 1], "crop": {"x": 0.6, "y": 0.2, "w": -0.4, "h": 0.3}},
			{"scene": 2, "materials": []}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, plan.Scenes, 2)

	assert.Equal(t, []int{3, 1}, plan.Scenes[0].Materials)
	require.NotNil(t, plan.Scenes[0].Crop)
	assert.InDelta(t, 0.2, plan.Scenes[0].Crop.X, 1e-9)
	assert.InDelta(t, 0.4, plan.Scenes[0].Crop.W, 1e-9)
	assert.Nil(t, plan.Scenes[1].Crop)
}

func TestParsePlanRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `scenes`},
		{"missing scenes", `{}`},
		{"negative scene", `{"scenes": [{"scene": -1}]}`},
		{"zero material id", `{"scenes": [{"scene": 0, "materials": [0]}]}`},
		{"fractional id", `{"scenes": [{"scene": 0, "materials": [1.5]}]}`},
		{"incomplete crop", `{"scenes": [{"scene": 0, "crop": {"x": 0}}]}`},
		{"unknown field", `{"scenes": [], "extra": true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadPlanRoundTrip(t *testing.T) {
	crop := models.CropRect{X: 0.1, Y: 0.2, W: 0.3, H: 0.4}
	want := models.Plan{Scenes: []models.ScenePlan{
		{Scene: 1, Materials: []int{5}, Crop: &crop},
	}}
	data, err := MarshalPlan(want)
	require.NoError(t, err)

	got, err := LoadPlan(writeFile(t, "plan.json", string(data)))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err = MarshalPlan(models.Plan{})
	require.NoError(t, err)
	_, err = ParsePlan(data)
	assert.NoError(t, err, "an empty plan is valid")
}
