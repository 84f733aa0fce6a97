// Package output serializes extraction results as JSON.
package output

import (
	"encoding/json"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
)

// Schedule is the JSON document produced for an extracted material list.
type Schedule struct {
	BookName string `json:"book_name"`
	// Sheet is set when the list was filtered to one sheet.
	Sheet     string            `json:"sheet,omitempty"`
	Sheets    []string          `json:"sheets"`
	Materials []models.Material `json:"materials"`
}

// SheetIndex is the JSON document listing how each sheet was read.
type SheetIndex struct {
	BookName string                `json:"book_name"`
	Sheets   []models.SheetSummary `json:"sheets"`
}

// ToJSON serializes a schedule. Nil slices are written as empty arrays.
func ToJSON(s *Schedule, pretty bool) ([]byte, error) {
	doc := *s
	if doc.Sheets == nil {
		doc.Sheets = []string{}
	}
	if doc.Materials == nil {
		doc.Materials = []models.Material{}
	}
	return marshal(doc, pretty)
}

// SheetsToJSON serializes a sheet index.
func SheetsToJSON(idx *SheetIndex, pretty bool) ([]byte, error) {
	doc := *idx
	if doc.Sheets == nil {
		doc.Sheets = []models.SheetSummary{}
	}
	return marshal(doc, pretty)
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
