package scheduledeck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/compose"
	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/imageio"
	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/store"
)

type loadKind int

const (
	loadWorkbook loadKind = iota
	loadMinimap
	loadScenes
	loadKinds
)

func (k loadKind) String() string {
	switch k {
	case loadWorkbook:
		return "workbook"
	case loadMinimap:
		return "minimap"
	case loadScenes:
		return "scenes"
	}
	return "unknown"
}

// Session holds the inputs of one deck: the extracted materials, the minimap,
// the scene photos and the scene to material associations.
//
// Loads decode outside the session lock. Each load takes a generation ticket
// when it starts; a load finishing after a newer load of the same kind has
// started returns ErrSuperseded and changes nothing.
type Session struct {
	id     string
	opts   Options
	logger *slog.Logger

	mu       sync.Mutex
	gens     [loadKinds]uint64
	composer *compose.Composer
	result   *Result
	store    *store.Store
	minimap  *models.SceneImage
	scenes   []models.SceneImage
}

// NewSession returns an empty session using the default slide layout.
func NewSession(opts Options) *Session {
	id := uuid.NewString()
	logger := opts.logger().With("session", id)
	return &Session{
		id:       id,
		opts:     opts,
		logger:   logger,
		composer: compose.NewComposer(compose.DefaultLayout(), logger),
		store:    store.New(nil),
	}
}

// ID returns the session id used in log records.
func (s *Session) ID() string {
	return s.id
}

// SetLayout replaces the slide layout used by later generations.
func (s *Session) SetLayout(l compose.Layout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.composer = compose.NewComposer(l, s.logger)
}

// Layout returns the slide layout in use.
func (s *Session) Layout() compose.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composer.Layout()
}

func (s *Session) begin(kind loadKind) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[kind]++
	return s.gens[kind]
}

// current reports whether ticket is still the latest of its kind.
// The caller holds s.mu.
func (s *Session) current(kind loadKind, ticket uint64) bool {
	if s.gens[kind] == ticket {
		return true
	}
	s.logger.Info("load discarded", "kind", kind.String(), "generation", ticket, "latest", s.gens[kind])
	return false
}

// LoadWorkbook parses a spreadsheet and replaces the material list. All
// associations are cleared since material ids are reassigned. A spreadsheet
// that cannot be decoded leaves the previous state untouched.
func (s *Session) LoadWorkbook(r io.Reader, name string) (*Result, error) {
	ticket := s.begin(loadWorkbook)
	res, err := ExtractReader(r, name, s.opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(loadWorkbook, ticket) {
		return nil, ErrSuperseded
	}
	if err != nil {
		s.logger.Warn("workbook rejected", "book", name, "err", err)
		return nil, err
	}
	s.result = res
	s.store.Reset(res.Materials)
	s.logger.Info("workbook loaded",
		"book", name,
		"generation", ticket,
		"sheets", len(res.Workbook.Sheets),
		"materials", len(res.Materials),
	)
	return res, nil
}

// LoadWorkbookFile is LoadWorkbook for a file on disk.
func (s *Session) LoadWorkbookFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Source: path, Err: err}
	}
	defer f.Close()
	return s.LoadWorkbook(f, filepath.Base(path))
}

// LoadMinimap decodes the floor plan image. On failure the session is left
// without a minimap.
func (s *Session) LoadMinimap(src imageio.Source) error {
	ticket := s.begin(loadMinimap)
	img, err := imageio.Load(src)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(loadMinimap, ticket) {
		return ErrSuperseded
	}
	if err != nil {
		s.minimap = nil
		s.logger.Warn("minimap rejected", "name", src.Name, "err", err)
		return &DecodeError{Source: src.Name, Err: err}
	}
	s.minimap = &img
	s.logger.Info("minimap loaded", "name", src.Name, "generation", ticket, "size", img.Size().String())
	return nil
}

// LoadScenes decodes every scene photo concurrently and replaces the scene
// list once all are ready, in the order given. On failure the session is left
// with no scenes. An empty source list leaves the scenes as they are.
func (s *Session) LoadScenes(ctx context.Context, sources []imageio.Source) error {
	if len(sources) == 0 {
		return nil
	}
	ticket := s.begin(loadScenes)
	scenes, err := imageio.LoadAll(ctx, sources, runtime.GOMAXPROCS(0))

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(loadScenes, ticket) {
		return ErrSuperseded
	}
	if err != nil {
		s.scenes = nil
		s.logger.Warn("scenes rejected", "count", len(sources), "err", err)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return err
		}
		return &DecodeError{Source: "scene images", Err: err}
	}
	s.scenes = scenes
	s.logger.Info("scenes loaded", "count", len(scenes), "generation", ticket)
	return nil
}

// Materials returns the extracted material list.
func (s *Session) Materials() []models.Material {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	return s.result.Materials
}

// MaterialsInSheet returns the materials of one sheet, or all when sheet is empty.
func (s *Session) MaterialsInSheet(sheet string) []models.Material {
	return models.FilterBySheet(s.Materials(), sheet)
}

// Sheets returns how each sheet of the loaded workbook was interpreted.
func (s *Session) Sheets() []models.SheetSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil
	}
	return s.result.Sheets
}

// Scenes returns the loaded scene photos in upload order.
func (s *Session) Scenes() []models.SceneImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SceneImage(nil), s.scenes...)
}

// Select associates a material with a scene.
func (s *Session) Select(scene, materialID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store.Select(scene, materialID) {
		s.logger.Debug("material selected", "scene", scene, "material", materialID)
	}
}

// Deselect removes a material from a scene. Unknown pairs are ignored.
func (s *Session) Deselect(scene, materialID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store.Deselect(scene, materialID) {
		s.logger.Debug("material deselected", "scene", scene, "material", materialID)
	}
}

// Toggle selects or deselects a material to match checked.
func (s *Session) Toggle(scene, materialID int, checked bool) {
	if checked {
		s.Select(scene, materialID)
	} else {
		s.Deselect(scene, materialID)
	}
}

// Selected returns the material ids selected for a scene.
func (s *Session) Selected(scene int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Selected(scene)
}

// SetCropRectangle marks the scene's location on the minimap.
func (s *Session) SetCropRectangle(scene int, r models.CropRect) models.CropRect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SetCropRectangle(scene, r)
}

// ClearCropRectangle removes the scene's minimap mark.
func (s *Session) ClearCropRectangle(scene int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearCropRectangle(scene)
}

// ApplyPlan records a saved set of selections and crops.
func (s *Session) ApplyPlan(plan models.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ApplyPlan(plan)
	s.logger.Debug("plan applied", "scenes", len(plan.Scenes))
}

// Plan exports the current selections and crops.
func (s *Session) Plan() models.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Plan()
}

// Missing lists the inputs generation still needs, in reporting order.
func (s *Session) Missing() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.missing()
}

func (s *Session) missing() []string {
	var missing []string
	if s.result == nil {
		missing = append(missing, PrereqSpreadsheet)
	}
	if s.minimap == nil {
		missing = append(missing, PrereqMinimap)
	}
	if len(s.scenes) == 0 {
		missing = append(missing, PrereqScenes)
	}
	if !s.store.HasAssociations() {
		missing = append(missing, PrereqAssociations)
	}
	return missing
}

// Slides builds one slide description per scene.
func (s *Session) Slides() ([]compose.Slide, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slides()
}

func (s *Session) slides() ([]compose.Slide, error) {
	if missing := s.missing(); len(missing) > 0 {
		return nil, &PrerequisiteError{Missing: missing}
	}
	slides, err := s.composer.Compose(s.scenes, s.minimap.Image, s.store)
	if err != nil {
		var se *compose.SceneError
		if errors.As(err, &se) {
			return nil, &ComposeError{Scene: se.Scene, Err: se.Err}
		}
		return nil, &ComposeError{Scene: -1, Err: err}
	}
	s.logger.Info("slides composed", "slides", len(slides))
	return slides, nil
}

// Generate writes the presentation to w. Nothing is written unless the whole
// deck was built.
func (s *Session) Generate(ctx context.Context, w io.Writer) error {
	s.mu.Lock()
	slides, err := s.slides()
	layout := s.composer.Layout()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := compose.WritePPTX(&buf, layout, slides); err != nil {
		return &ComposeError{Scene: -1, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := buf.WriteTo(w)
	if err != nil {
		return fmt.Errorf("write deck: %w", err)
	}
	s.logger.Info("deck generated", "slides", len(slides), "bytes", n)
	return nil
}

// Preview returns one HTML fragment per slide.
func (s *Session) Preview() ([]string, error) {
	slides, err := s.Slides()
	if err != nil {
		return nil, err
	}
	return compose.RenderPreview(slides), nil
}

// PreviewDocument returns a standalone HTML page showing every slide.
func (s *Session) PreviewDocument(title string) (string, error) {
	slides, err := s.Slides()
	if err != nil {
		return "", err
	}
	return compose.RenderPreviewDocument(title, slides), nil
}
