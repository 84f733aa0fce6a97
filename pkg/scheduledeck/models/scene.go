package models

import (
	"image"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SceneImage is one uploaded scene photograph.
type SceneImage struct {
	// Name is the original file name.
	Name string `json:"name"`
	// Index is the upload ordinal, starting at 0.
	Index int `json:"index"`
	// Format is the decoded image format (png, jpeg, ...).
	Format string `json:"format"`
	// Data holds the encoded bytes as read.
	Data []byte `json:"-"`
	// Image is the decoded bitmap.
	Image image.Image `json:"-"`
}

// Title is the file name without its last extension.
func (s SceneImage) Title() string {
	return TitleFromName(s.Name)
}

// TitleFromName strips directories and the last extension from a file name.
func TitleFromName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return norm.NFC.String(base)
}

// Size returns the bitmap dimensions, or zero when not decoded.
func (s SceneImage) Size() image.Point {
	if s.Image == nil {
		return image.Point{}
	}
	return s.Image.Bounds().Size()
}
