// Package scheduledeck extracts material schedules from spreadsheets and
// composes scene slide decks from them.
package scheduledeck

import (
	"log/slog"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/parser"
)

// Mode represents the extraction mode.
type Mode string

const (
	// ModeLight reads cell values only.
	ModeLight Mode = "light"
	// ModeStandard also renders pictures anchored in cells as image references.
	ModeStandard Mode = "standard"
)

// Options configures extraction behavior.
type Options struct {
	// Mode specifies the extraction mode (light, standard).
	Mode Mode
	// IncludeCoverSheets keeps sheets named with the cover prefix.
	// Intended for debugging workbooks; cover sheets normally carry no materials.
	IncludeCoverSheets bool
	// IncludeLinks specifies whether http(s) cell hyperlinks are read as
	// image references. If nil, defaults to false for light mode, true otherwise.
	IncludeLinks *bool
	// HeaderBandRows is the number of leading rows searched for a header row.
	// Zero uses parser.DefaultHeaderBandRows.
	HeaderBandRows int
	// Logger receives session and extraction events. Nil uses slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		Mode:           ModeStandard,
		HeaderBandRows: parser.DefaultHeaderBandRows,
	}
}

// ShouldEmbedPictures returns whether cell pictures are harvested.
func (o Options) ShouldEmbedPictures() bool {
	return o.Mode != ModeLight
}

// ParseMode converts a flag value to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeLight, ModeStandard:
		return Mode(s), true
	}
	return "", false
}

// ShouldIncludeLinks returns whether cell hyperlinks are read.
func (o Options) ShouldIncludeLinks() bool {
	if o.IncludeLinks != nil {
		return *o.IncludeLinks
	}
	return o.Mode != ModeLight
}

func (o Options) readOptions() parser.ReadOptions {
	return parser.ReadOptions{
		EmbedPictures: o.ShouldEmbedPictures(),
		IncludeLinks:  o.ShouldIncludeLinks(),
	}
}

func (o Options) extractOptions() parser.ExtractOptions {
	opts := parser.DefaultExtractOptions()
	opts.IncludeCoverSheets = o.IncludeCoverSheets
	if o.HeaderBandRows > 0 {
		opts.HeaderBandRows = o.HeaderBandRows
	}
	return opts
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
