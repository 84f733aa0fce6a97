package scheduledeck

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/imageio"
	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
)

func scheduleBytes(t *testing.T, areas ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "1.FINISH"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	require.NoError(t, f.SetCellValue(sheet, "A1", "FINISH SCHEDULE"))
	row := 2
	for _, area := range areas {
		cell := func(col string) string { return col + strconv.Itoa(row) }
		require.NoError(t, f.SetCellValue(sheet, cell("A"), "AREA"))
		require.NoError(t, f.SetCellValue(sheet, cell("B"), area))
		row++
		require.NoError(t, f.SetCellValue(sheet, cell("A"), "ITEM"))
		require.NoError(t, f.SetCellValue(sheet, cell("B"), area+" floor"))
		row++
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xC0
	}
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// blockingSource signals when it is opened and serves data once released.
func blockingSource(name string, data []byte, opened chan<- struct{}, release <-chan struct{}) imageio.Source {
	return imageio.Source{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			opened <- struct{}{}
			<-release
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func readySession(t *testing.T) *Session {
	t.Helper()
	s := NewSession(DefaultOptions())

	res, err := s.LoadWorkbook(bytes.NewReader(scheduleBytes(t, "Living", "Hall")), "schedule.xlsx")
	require.NoError(t, err)
	require.Len(t, res.Materials, 2)

	require.NoError(t, s.LoadMinimap(imageio.BytesSource("plan.png", pngBytes(t, 40, 20))))
	require.NoError(t, s.LoadScenes(context.Background(), []imageio.Source{
		imageio.BytesSource("living.png", pngBytes(t, 16, 9)),
		imageio.BytesSource("hall.png", pngBytes(t, 16, 9)),
	}))
	return s
}

func TestSessionPrerequisites(t *testing.T) {
	s := NewSession(DefaultOptions())
	assert.Equal(t, []string{PrereqSpreadsheet, PrereqMinimap, PrereqScenes, PrereqAssociations}, s.Missing())

	var buf bytes.Buffer
	err := s.Generate(context.Background(), &buf)
	require.ErrorIs(t, err, ErrMissingPrerequisite)
	var pe *PrerequisiteError
	require.ErrorAs(t, err, &pe)
	assert.Len(t, pe.Missing, 4)
	assert.Zero(t, buf.Len())

	s = readySession(t)
	assert.Equal(t, []string{PrereqAssociations}, s.Missing())
	_, err = s.Preview()
	assert.ErrorIs(t, err, ErrMissingPrerequisite)
	assert.Contains(t, err.Error(), "associations")
}

func TestSessionGenerate(t *testing.T) {
	s := readySession(t)
	mats := s.Materials()
	s.Select(0, mats[0].ID)
	s.Select(0, mats[0].ID)
	s.Toggle(1, mats[1].ID, true)
	s.SetCropRectangle(0, models.CropRect{X: 0.2, Y: 0.2, W: 0.3, H: 0.3})
	require.Empty(t, s.Missing())

	slides, err := s.Slides()
	require.NoError(t, err)
	require.Len(t, slides, 2)
	assert.Equal(t, "living", slides[0].Title)
	require.Len(t, slides[0].Table.Rows, 1)
	assert.Equal(t, "Living", slides[0].Table.Rows[0][3])

	var buf bytes.Buffer
	require.NoError(t, s.Generate(context.Background(), &buf))
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "ppt/slides/slide1.xml")
	assert.Contains(t, names, "ppt/slides/slide2.xml")

	frags, err := s.Preview()
	require.NoError(t, err)
	assert.Len(t, frags, 2)

	doc, err := s.PreviewDocument("schedule")
	require.NoError(t, err)
	assert.Contains(t, doc, "<title>schedule</title>")
}

func TestSessionGenerateCanceled(t *testing.T) {
	s := readySession(t)
	s.Select(0, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	assert.ErrorIs(t, s.Generate(ctx, &buf), context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestSessionReparseClearsAssociations(t *testing.T) {
	s := readySession(t)
	s.Select(0, 1)
	s.SetCropRectangle(0, models.CropRect{W: 0.5, H: 0.5})

	_, err := s.LoadWorkbook(bytes.NewReader(scheduleBytes(t, "Kitchen")), "v2.xlsx")
	require.NoError(t, err)

	assert.Empty(t, s.Selected(0))
	assert.Equal(t, []string{PrereqAssociations}, s.Missing())
	plan := s.Plan()
	require.Len(t, plan.Scenes, 1)
	assert.NotNil(t, plan.Scenes[0].Crop, "crops survive a re-parse")
}

func TestSessionBadWorkbookKeepsState(t *testing.T) {
	s := readySession(t)
	s.Select(1, 2)

	_, err := s.LoadWorkbook(bytes.NewReader([]byte("not a spreadsheet")), "broken.xlsx")
	require.ErrorIs(t, err, ErrDecode)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "broken.xlsx", de.Source)

	assert.Len(t, s.Materials(), 2)
	assert.Equal(t, []int{2}, s.Selected(1))

	_, err = s.LoadWorkbookFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorIs(t, err, ErrDecode)
	assert.Len(t, s.Materials(), 2)
}

func TestSessionBadImagesLeaveEmpty(t *testing.T) {
	s := readySession(t)

	err := s.LoadScenes(context.Background(), []imageio.Source{
		imageio.BytesSource("ok.png", pngBytes(t, 2, 2)),
		imageio.BytesSource("bad.png", []byte("nope")),
	})
	require.ErrorIs(t, err, ErrDecode)
	assert.Empty(t, s.Scenes())

	err = s.LoadMinimap(imageio.BytesSource("plan.txt", []byte("nope")))
	require.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, []string{PrereqMinimap, PrereqScenes, PrereqAssociations}, s.Missing())

	require.NoError(t, s.LoadScenes(context.Background(), nil))
	assert.Empty(t, s.Scenes())
}

func TestSessionSupersededSceneLoad(t *testing.T) {
	s := NewSession(DefaultOptions())
	opened := make(chan struct{}, 1)
	release := make(chan struct{})

	old := blockingSource("old.png", pngBytes(t, 3, 3), opened, release)
	done := make(chan error, 1)
	go func() {
		done <- s.LoadScenes(context.Background(), []imageio.Source{old})
	}()
	<-opened

	require.NoError(t, s.LoadScenes(context.Background(), []imageio.Source{
		imageio.BytesSource("new-a.png", pngBytes(t, 5, 5)),
		imageio.BytesSource("new-b.png", pngBytes(t, 5, 5)),
	}))
	close(release)

	err := <-done
	assert.True(t, errors.Is(err, ErrSuperseded), "stale load must be discarded, got %v", err)

	scenes := s.Scenes()
	require.Len(t, scenes, 2)
	assert.Equal(t, "new-a.png", scenes[0].Name)
}

func TestSessionSupersededMinimapLoad(t *testing.T) {
	s := NewSession(DefaultOptions())
	opened := make(chan struct{}, 1)
	release := make(chan struct{})

	old := blockingSource("old.png", pngBytes(t, 3, 3), opened, release)
	done := make(chan error, 1)
	go func() {
		done <- s.LoadMinimap(old)
	}()
	<-opened

	require.NoError(t, s.LoadMinimap(imageio.BytesSource("new.png", pngBytes(t, 7, 7))))
	close(release)
	assert.ErrorIs(t, <-done, ErrSuperseded)

	assert.NotContains(t, s.Missing(), PrereqMinimap)
}

func TestSessionApplyPlan(t *testing.T) {
	s := readySession(t)
	crop := models.CropRect{X: 0.9, Y: 0.9, W: -0.4, H: -0.4}
	s.ApplyPlan(models.Plan{Scenes: []models.ScenePlan{
		{Scene: 0, Materials: []int{2, 1}, Crop: &crop},
	}})

	assert.Equal(t, []int{2, 1}, s.Selected(0))
	slides, err := s.Slides()
	require.NoError(t, err)
	assert.Equal(t, "Hall", slides[0].Table.Rows[0][3])
	assert.Equal(t, "2", slides[0].Table.Rows[1][0])
	assert.Empty(t, slides[1].Table.Rows)
}

func TestSessionMaterialsInSheet(t *testing.T) {
	s := readySession(t)
	assert.Len(t, s.MaterialsInSheet("1.FINISH"), 2)
	assert.Empty(t, s.MaterialsInSheet("9.NONE"))
	assert.Len(t, s.MaterialsInSheet(""), 2)
	require.Len(t, s.Sheets(), 1)
	assert.Equal(t, 2, s.Sheets()[0].Records)
}
