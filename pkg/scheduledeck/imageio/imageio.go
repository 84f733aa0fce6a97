// Package imageio decodes scene photographs and the minimap from files or
// in-memory uploads.
package imageio

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/scheduledeck/pkg/scheduledeck/models"
)

// Source is a named image input.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileSource reads path from disk. The source name is its base name.
func FileSource(path string) Source {
	return Source{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// BytesSource serves data already held in memory.
func BytesSource(name string, data []byte) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Load reads and decodes src. The returned scene keeps the encoded bytes.
func Load(src Source) (models.SceneImage, error) {
	if src.Open == nil {
		return models.SceneImage{}, fmt.Errorf("%s: no reader", src.Name)
	}
	rc, err := src.Open()
	if err != nil {
		return models.SceneImage{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return models.SceneImage{}, fmt.Errorf("%s: %w", src.Name, err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return models.SceneImage{}, fmt.Errorf("%s: %w", src.Name, err)
	}
	return models.SceneImage{Name: src.Name, Format: format, Data: data, Image: img}, nil
}

// LoadAll decodes sources concurrently, at most limit at a time (no limit
// when limit <= 0). Results keep the order of sources and carry their index.
// The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, sources []Source, limit int) ([]models.SceneImage, error) {
	out := make([]models.SceneImage, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			scene, err := Load(src)
			if err != nil {
				return err
			}
			scene.Index = i
			out[i] = scene
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
