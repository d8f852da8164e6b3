package imaging

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"lightcull/internal/domain"
)

// PreviewSource yields the preview JPEG embedded in a photo's EXIF block.
type PreviewSource interface {
	EmbeddedThumbnail(ctx context.Context, path string) ([]byte, error)
}

// Renderer writes small JPEG previews. It prefers the embedded preview and falls back to
// decoding the full image.
type Renderer struct {
	Previews PreviewSource
	MaxEdge  int
	Quality  int
}

func NewRenderer(previews PreviewSource) Renderer {
	return Renderer{
		Previews: previews,
		MaxEdge:  domain.ThumbnailSize,
		Quality:  domain.ThumbnailQuality,
	}
}

func (r Renderer) Render(ctx context.Context, src, dst string) error {
	img, err := r.load(ctx, src)
	if err != nil {
		return err
	}
	thumb := Fit(img, r.maxEdge())
	return writeJPEG(dst, thumb, r.quality())
}

func (r Renderer) load(ctx context.Context, src string) (image.Image, error) {
	if r.Previews != nil {
		if data, err := r.Previews.EmbeddedThumbnail(ctx, src); err == nil && len(data) > 0 {
			if img, err := jpeg.Decode(bytes.NewReader(data)); err == nil {
				return img, nil
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(src), err)
	}
	return img, nil
}

func (r Renderer) maxEdge() int {
	if r.MaxEdge <= 0 {
		return domain.ThumbnailSize
	}
	return r.MaxEdge
}

func (r Renderer) quality() int {
	if r.Quality <= 0 || r.Quality > 100 {
		return domain.ThumbnailQuality
	}
	return r.Quality
}

// Fit scales src down so its long edge is at most maxEdge. Smaller images are returned as is.
func Fit(src image.Image, maxEdge int) image.Image {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxEdge && height <= maxEdge {
		return src
	}

	var scale float64
	if width > height {
		scale = float64(maxEdge) / float64(width)
	} else {
		scale = float64(maxEdge) / float64(height)
	}

	newWidth := max(1, int(float64(width)*scale))
	newHeight := max(1, int(float64(height)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// writeJPEG encodes into a hidden temp file first so a half-written thumbnail never
// appears under its final name.
func writeJPEG(dst string, img image.Image, quality int) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".thumb-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := jpeg.Encode(tmp, img, &jpeg.Options{Quality: quality}); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
