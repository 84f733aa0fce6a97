package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
)

func finishSheet() models.Sheet {
	return models.Sheet{Name: "1.FINISH", Grid: models.Grid{
		{"FINISH SCHEDULE"},
		{"MATERIAL", "", "", ""},
		{"PAINT", "AREA", "Living Room"},
		{"", "MATERIAL", "Benjamin Moore"},
		{"", "ITEM", "Regal Select", "REMARKS", "Matte finish", "MANUFAC", "BM Korea"},
		{"", "IMAGE", "https://cdn.test/paint.png"},
		{"LIGHT FIXTURE", "AREA", "Hall"},
		{"", "MATERIAL", "DESCRIPTION"},
		{"", "ITEM", "Downlight", "REMARKS", "REMARKS"},
	}}
}

func switchSheet() models.Sheet {
	return models.Sheet{Name: "2.SWITCH", Grid: models.Grid{
		{"SWITCH PLATES"},
		{"SWITCH", "AREA", "Bedroom"},
		{"", "REMARKS", "remarks: white plate"},
		{"", "IMAGE", "data:image/png;base64,AAAA"},
	}}
}

func coverSheet() models.Sheet {
	return models.Sheet{Name: "A.COVER", Grid: models.Grid{
		{"PROJECT"},
		{"LEGEND", "AREA", "Everywhere"},
		{"", "ITEM", "Nothing"},
	}}
}

func TestExtractMaterials(t *testing.T) {
	got := ExtractMaterials([]models.Sheet{coverSheet(), finishSheet(), switchSheet()})

	want := []models.Material{
		{
			ID: 1, SheetName: "1.FINISH", Category: "MATERIAL", GroupLabel: "PAINT",
			Area: "Living Room", Material: "Benjamin Moore", Item: "Regal Select",
			Remarks: "Matte finish", Brand: "BM Korea", ImageURL: "https://cdn.test/paint.png",
		},
		{
			ID: 2, SheetName: "1.FINISH", Category: "LIGHT FIXTURE", GroupLabel: "LIGHT FIXTURE",
			Area: "Hall", Material: "LIGHT FIXTURE", Item: "Downlight",
		},
		{
			ID: 3, SheetName: "2.SWITCH", Category: "SWITCH", GroupLabel: "SWITCH",
			Area: "Bedroom", Material: "SWITCH", Remarks: "white plate",
			ImageURL: "data:image/png;base64,AAAA",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractMaterials mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractMaterialsConsecutiveAreas(t *testing.T) {
	sheet := models.Sheet{Name: "1.WALL", Grid: models.Grid{
		{"banner"},
		{"WALL COVERING", "AREA", "Living Room"},
		{"", "AREA", "Bedroom"},
	}}

	got := ExtractMaterials([]models.Sheet{sheet})
	want := []models.Material{
		{ID: 1, SheetName: "1.WALL", Category: "MATERIAL", GroupLabel: "WALL COVERING", Area: "Living Room", Material: "WALL COVERING"},
		{ID: 2, SheetName: "1.WALL", Category: "MATERIAL", GroupLabel: "WALL COVERING", Area: "Bedroom", Material: "WALL COVERING"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractMaterialsHeaderBandColumns(t *testing.T) {
	sheet := models.Sheet{Name: "1.TILE", Grid: models.Grid{
		{"", "AREA", "", "ITEM", "", "REMARKS", "", "IMAGE"},
		{"TILE", "AREA", "Bath"},
		{"", "", "", "ITEM", "Porcelain 600x600", "", "Glossy", "", ""},
		{"", "", "", "", "", "", "", "", "'https://cdn.test/tile.jpg'"},
	}}

	got := ExtractMaterials([]models.Sheet{sheet})
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	m := got[0]
	if m.Item != "Porcelain 600x600" {
		t.Errorf("Item = %q", m.Item)
	}
	if m.Remarks != "Glossy" {
		t.Errorf("Remarks = %q, expected value right of the header REMARKS column", m.Remarks)
	}
	if m.ImageURL != "https://cdn.test/tile.jpg" {
		t.Errorf("ImageURL = %q, expected image from two rows below", m.ImageURL)
	}
}

func TestExtractMaterialsOrphanRowsIgnored(t *testing.T) {
	sheet := models.Sheet{Name: "1.FLOOR", Grid: models.Grid{
		{"banner"},
		{"", "ITEM", "orphan item"},
		{"", "REMARKS", "orphan remark"},
		{"", "IMAGE", "https://x.test/orphan.png"},
		{"", "AREA", "Lobby"},
	}}

	got := ExtractMaterials([]models.Sheet{sheet})
	want := []models.Material{
		{ID: 1, SheetName: "1.FLOOR", Category: "MATERIAL", Area: "Lobby", Material: "1.FLOOR"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractMaterialsUnlabeledRowsDoNotMutate(t *testing.T) {
	base := models.Sheet{Name: "1.X", Grid: models.Grid{
		{"banner"},
		{"", "AREA", "Lobby"},
		{"", "ITEM", "Stone"},
	}}
	noisy := models.Sheet{Name: "1.X", Grid: models.Grid{
		{"banner"},
		{"", "AREA", "Lobby"},
		{"", "random", "text", "here"},
		{"", "ITEM", "Stone"},
		{"", "more", "unlabeled"},
		{"short"},
	}}

	if diff := cmp.Diff(ExtractMaterials([]models.Sheet{base}), ExtractMaterials([]models.Sheet{noisy})); diff != "" {
		t.Errorf("unlabeled rows changed the output (-base +noisy):\n%s", diff)
	}
}

func TestExtractMaterialsNoiseTokens(t *testing.T) {
	tests := []string{"DESCRIPTION", "description", "Remarks", "QTY", "ea", "Unit", "ORIGIN", "MANUFAC", "IMAGE"}
	for _, token := range tests {
		sheet := models.Sheet{Name: "1.X", Grid: models.Grid{
			{"banner"},
			{"STONE", "AREA", "Lobby"},
			{"", "MATERIAL", token},
		}}
		got := ExtractMaterials([]models.Sheet{sheet})
		if len(got) != 1 || got[0].Material != "STONE" {
			t.Errorf("token %q overwrote material: %+v", token, got)
		}
	}
}

func TestExtractMaterialsCoverSheetOnly(t *testing.T) {
	if got := ExtractMaterials([]models.Sheet{coverSheet()}); len(got) != 0 {
		t.Errorf("cover sheet produced %d records", len(got))
	}

	opts := DefaultExtractOptions()
	opts.IncludeCoverSheets = true
	if got := ExtractMaterialsWithOptions([]models.Sheet{coverSheet()}, opts); len(got) != 1 {
		t.Errorf("IncludeCoverSheets: expected 1 record, got %d", len(got))
	}
}

func TestExtractMaterialsEmptyInputs(t *testing.T) {
	sheets := []models.Sheet{
		{Name: "1.EMPTY"},
		{Name: "2.NOAREA", Grid: models.Grid{{"banner"}, {"", "ITEM", "x"}}},
		{Name: "3.RAGGED", Grid: models.Grid{nil, {}, {nil}, {nil, nil}}},
	}
	if got := ExtractMaterials(sheets); len(got) != 0 {
		t.Errorf("expected no records, got %+v", got)
	}
}

func TestExtractMaterialsIdempotent(t *testing.T) {
	sheets := []models.Sheet{coverSheet(), finishSheet(), switchSheet()}
	first := ExtractMaterials(sheets)
	second := ExtractMaterials(sheets)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestExtractMaterialsMaterialRowExtras(t *testing.T) {
	sheet := models.Sheet{Name: "1.WOOD", Grid: models.Grid{
		{"banner"},
		{"FLOORING", "AREA", "Study"},
		{"", "MATERIAL", "Oak", "REMARKS", "oiled", "IMAGE", "https://x.test/oak.png"},
	}}

	got := ExtractMaterials([]models.Sheet{sheet})
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].Material != "Oak" || got[0].Remarks != "oiled" || got[0].ImageURL != "https://x.test/oak.png" {
		t.Errorf("unexpected record %+v", got[0])
	}
}

func TestExtractMaterialsEmbeddedPictureBelowItem(t *testing.T) {
	uri := "data:image/png;base64,iVBORw0KGgoAREAqz9"
	sheet := models.Sheet{Name: "1.FINISH", Grid: models.Grid{
		{"PAINT", "AREA", "Living Room"},
		{"", "ITEM", "Regal Select"},
		{"", "", "", uri},
	}}
	header := models.HeaderColumns{AreaCol: -1, ItemCol: -1, RemarksCol: -1, ImageCol: 2}

	got := ExtractMaterials([]models.Sheet{sheet})
	if len(got) != 1 {
		t.Fatalf("Expected 1 material, got %d: %+v", len(got), got)
	}
	if got[0].Area != "Living Room" || got[0].Item != "Regal Select" {
		t.Errorf("Unexpected material %+v", got[0])
	}

	sheet.Grid = append(models.Grid{{"", "", "IMAGE"}}, sheet.Grid...)
	if h := DetectHeaderColumns(sheet.Grid); h != header {
		t.Fatalf("DetectHeaderColumns = %+v, expected %+v", h, header)
	}
	got = ExtractMaterials([]models.Sheet{sheet})
	if len(got) != 1 || got[0].ImageURL != uri {
		t.Errorf("Expected one material carrying the picture, got %+v", got)
	}
}

func TestCleanRemarks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Matte", "Matte"},
		{"REMARKS", ""},
		{"remark", ""},
		{"REMARKS: low sheen", "low sheen"},
		{"Remark - see sample", "see sample"},
		{"N/A", ""},
		{"-", ""},
		{"see image", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		if got := cleanRemarks(tt.input); got != tt.expected {
			t.Errorf("cleanRemarks(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestSummarizeSheets(t *testing.T) {
	got := SummarizeSheets([]models.Sheet{coverSheet(), finishSheet(), switchSheet()}, DefaultExtractOptions())
	if len(got) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(got))
	}
	if !got[0].Cover || got[0].Records != 0 {
		t.Errorf("cover summary = %+v", got[0])
	}
	if got[1].Records != 2 || got[1].Rows != 9 {
		t.Errorf("finish summary = %+v", got[1])
	}
	if got[1].Header.ItemCol != 1 || got[1].Header.RemarksCol != 3 {
		t.Errorf("finish header = %+v", got[1].Header)
	}
	if got[2].Records != 1 {
		t.Errorf("switch summary = %+v", got[2])
	}
}
