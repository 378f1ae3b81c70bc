package texture

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // gallery assets are JPEG
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/Garsondee/Drift-Gallery/internal/catalog"
)

// SourceLoader decodes images/img{N}.jpg from a catalog source and shrinks
// anything larger than MaxSize on its longest edge.
type SourceLoader struct {
	Source  catalog.Source
	MaxSize int // 0 keeps the source size
}

func (l SourceLoader) Load(ctx context.Context, index int) (image.Image, error) {
	name := catalog.ImagePath(index)
	rc, err := l.Source.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return Fit(img, l.MaxSize), nil
}

// Fit scales img down so neither edge exceeds limit, preserving aspect ratio.
func Fit(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if limit <= 0 || (w <= limit && h <= limit) {
		return img
	}
	nw, nh := limit, limit
	if w > h {
		nh = h * limit / w
	} else {
		nw = w * limit / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
