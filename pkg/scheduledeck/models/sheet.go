package models

// Sheet is one decoded worksheet.
type Sheet struct {
	// Name is the sheet (tab) name.
	Name string `json:"name"`
	// Grid holds the raw rows of the sheet.
	Grid Grid `json:"-"`
}

// HeaderColumns records which columns of a sheet's header band hold which labels.
// A value of -1 means the label was not located.
type HeaderColumns struct {
	AreaCol    int `json:"area_col"`
	ItemCol    int `json:"item_col"`
	RemarksCol int `json:"remarks_col"`
	ImageCol   int `json:"image_col"`
}

// NoHeaderColumns is the zero detection result.
var NoHeaderColumns = HeaderColumns{AreaCol: -1, ItemCol: -1, RemarksCol: -1, ImageCol: -1}

// SheetSummary describes how a sheet was interpreted during extraction.
type SheetSummary struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Rows is the number of rows in the grid, banner included.
	Rows int `json:"rows"`
	// Cover is true for presentation/legend sheets that never carry materials.
	Cover bool `json:"cover"`
	// Header is the detected header-band column layout.
	Header HeaderColumns `json:"header"`
	// Records is the number of material records the sheet produced.
	Records int `json:"records"`
}
