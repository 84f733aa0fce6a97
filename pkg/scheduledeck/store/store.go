// Package store keeps the scene to material associations and the per-scene
// minimap crop rectangles of a session.
package store

import (
	"slices"
	"sort"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
)

// Store maps scene indexes to selected material ids and crop rectangles.
// It is not safe for concurrent use; the owning session serializes access.
type Store struct {
	materials []models.Material
	byID      map[int]int // material id -> index in materials

	selections map[int][]int
	crops      map[int]models.CropRect
}

// New returns an empty store resolving ids against materials.
func New(materials []models.Material) *Store {
	s := &Store{crops: make(map[int]models.CropRect)}
	s.Reset(materials)
	return s
}

// Reset replaces the material list and drops every association. Call it
// whenever the spreadsheet is parsed again, since ids are reassigned.
// Crop rectangles belong to scenes and are kept.
func (s *Store) Reset(materials []models.Material) {
	s.materials = materials
	s.byID = make(map[int]int, len(materials))
	for i, m := range materials {
		s.byID[m.ID] = i
	}
	s.selections = make(map[int][]int)
}

// Select adds materialID to the scene. It reports whether the set changed.
func (s *Store) Select(scene, materialID int) bool {
	ids := s.selections[scene]
	if slices.Contains(ids, materialID) {
		return false
	}
	s.selections[scene] = append(ids, materialID)
	return true
}

// Deselect removes materialID from the scene. It reports whether the set changed.
func (s *Store) Deselect(scene, materialID int) bool {
	ids := s.selections[scene]
	i := slices.Index(ids, materialID)
	if i < 0 {
		return false
	}
	ids = slices.Delete(ids, i, i+1)
	if len(ids) == 0 {
		delete(s.selections, scene)
	} else {
		s.selections[scene] = ids
	}
	return true
}

// Toggle selects or deselects materialID to match checked.
func (s *Store) Toggle(scene, materialID int, checked bool) bool {
	if checked {
		return s.Select(scene, materialID)
	}
	return s.Deselect(scene, materialID)
}

// IsSelected reports whether materialID is selected for the scene.
func (s *Store) IsSelected(scene, materialID int) bool {
	return slices.Contains(s.selections[scene], materialID)
}

// Selected returns the ids selected for the scene in the order they were added.
func (s *Store) Selected(scene int) []int {
	return slices.Clone(s.selections[scene])
}

// Count returns the number of ids selected for the scene.
func (s *Store) Count(scene int) int {
	return len(s.selections[scene])
}

// HasAssociations reports whether any scene has a selected material.
func (s *Store) HasAssociations() bool {
	for _, ids := range s.selections {
		if len(ids) > 0 {
			return true
		}
	}
	return false
}

// Scenes returns the scene indexes having selections, ascending.
func (s *Store) Scenes() []int {
	scenes := make([]int, 0, len(s.selections))
	for scene, ids := range s.selections {
		if len(ids) > 0 {
			scenes = append(scenes, scene)
		}
	}
	sort.Ints(scenes)
	return scenes
}

// MaterialsFor resolves the scene's ids against the material list in
// selection order. Ids with no matching material are skipped.
func (s *Store) MaterialsFor(scene int) []models.Material {
	ids := s.selections[scene]
	out := make([]models.Material, 0, len(ids))
	for _, id := range ids {
		if i, ok := s.byID[id]; ok {
			out = append(out, s.materials[i])
		}
	}
	return out
}

// SetCropRectangle stores the scene's crop rectangle, normalized to a
// top-left origin with non-negative size and clamped to [0,1].
func (s *Store) SetCropRectangle(scene int, r models.CropRect) models.CropRect {
	r = r.Normalized()
	s.crops[scene] = r
	return r
}

// ClearCropRectangle removes the scene's crop rectangle.
func (s *Store) ClearCropRectangle(scene int) {
	delete(s.crops, scene)
}

// CropRectangle returns the scene's crop rectangle, if one is set.
func (s *Store) CropRectangle(scene int) (models.CropRect, bool) {
	r, ok := s.crops[scene]
	return r, ok
}

// ApplyPlan records every selection and crop of plan. Existing entries are
// kept; selections already present are not duplicated.
func (s *Store) ApplyPlan(plan models.Plan) {
	for _, sp := range plan.Scenes {
		for _, id := range sp.Materials {
			s.Select(sp.Scene, id)
		}
		if sp.Crop != nil {
			s.SetCropRectangle(sp.Scene, *sp.Crop)
		}
	}
}

// Plan exports the current selections and crops.
func (s *Store) Plan() models.Plan {
	seen := make(map[int]bool)
	var scenes []int
	for scene := range s.selections {
		seen[scene] = true
		scenes = append(scenes, scene)
	}
	for scene := range s.crops {
		if !seen[scene] {
			scenes = append(scenes, scene)
		}
	}
	sort.Ints(scenes)

	plan := models.Plan{Scenes: make([]models.ScenePlan, 0, len(scenes))}
	for _, scene := range scenes {
		sp := models.ScenePlan{Scene: scene, Materials: s.Selected(scene)}
		if r, ok := s.crops[scene]; ok {
			sp.Crop = &r
		}
		plan.Scenes = append(plan.Scenes, sp)
	}
	return plan
}
