package models

// Plan is a saved scene selection: which materials go on which scene's slide
// and where each scene sits on the minimap.
type Plan struct {
	Scenes []ScenePlan `json:"scenes"`
}

// ScenePlan is the selection for a single scene.
type ScenePlan struct {
	// Scene is the scene ordinal index (0-based, upload order).
	Scene int `json:"scene"`
	// Materials lists material ids in display order.
	Materials []int `json:"materials"`
	// Crop is the minimap location of the scene, if marked.
	Crop *CropRect `json:"crop,omitempty"`
}
