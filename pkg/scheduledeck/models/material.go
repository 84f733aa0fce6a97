package models

import "strings"

// DefaultCategory is used when no big-category row precedes a record.
const DefaultCategory = "MATERIAL"

// Material is one record of the material schedule.
type Material struct {
	// ID is unique and sequential in emission order, starting at 1.
	ID int `json:"id"`
	// SheetName is the sheet the record was read from.
	SheetName string `json:"sheet_name"`
	// Category is the most recent big-category label on the sheet.
	Category string `json:"category"`
	// GroupLabel is the most recent left-column section label on the sheet.
	GroupLabel string `json:"group_label,omitempty"`
	// Area is the location or zone the material is used in.
	Area string `json:"area"`
	// Material is the material name.
	Material string `json:"material"`
	// Item is the item or product description.
	Item string `json:"item,omitempty"`
	// Remarks is a free-text note with label echoes removed.
	Remarks string `json:"remarks,omitempty"`
	// Brand is a fallback note used when Remarks is empty.
	Brand string `json:"brand,omitempty"`
	// ImageURL is a data URI or http(s) URL of the material image.
	ImageURL string `json:"image_url,omitempty"`
}

// DisplayMaterial returns the material name, falling back to the category.
func (m Material) DisplayMaterial() string {
	if m.Material != "" {
		return m.Material
	}
	return m.Category
}

// DisplayRemarks returns the remarks, or the brand when the remarks are empty
// or merely repeat the REMARKS label.
func (m Material) DisplayRemarks() string {
	r := strings.TrimSpace(m.Remarks)
	if r != "" && strings.ToUpper(r) != "REMARKS" {
		return r
	}
	return strings.TrimSpace(m.Brand)
}

// HasImage reports whether the record carries an image reference.
func (m Material) HasImage() bool {
	return m.ImageURL != ""
}

// FilterBySheet returns the materials read from sheet, or all of them when
// sheet is empty.
func FilterBySheet(materials []Material, sheet string) []Material {
	if sheet == "" {
		return materials
	}
	var out []Material
	for _, m := range materials {
		if m.SheetName == sheet {
			out = append(out, m)
		}
	}
	return out
}

// SheetsOf returns the distinct sheet names of materials in first-seen order.
func SheetsOf(materials []Material) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range materials {
		if m.SheetName == "" || seen[m.SheetName] {
			continue
		}
		seen[m.SheetName] = true
		names = append(names, m.SheetName)
	}
	return names
}
