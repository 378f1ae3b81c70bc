package game

import (
	"image"
	"image/color"
	"log/slog"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Drift-Gallery/internal/grid"
	"github.com/Garsondee/Drift-Gallery/internal/scene"
	"github.com/Garsondee/Drift-Gallery/internal/texture"
)

var placeholderColor = color.RGBA{R: 34, G: 36, B: 44, A: 255}

type quad struct {
	tile   grid.Tile
	worldX float64
	worldY float64
}

// tileLayer is the grid's TileRenderer: one textured quad per live tile.
type tileLayer struct {
	textures *texture.Cache[*ebiten.Image]
	quads    map[grid.Handle]quad
	next     grid.Handle
	size     float64
	opacity  float32
}

func newTileLayer(loader texture.Loader, workers int, size, opacity float64, logger *slog.Logger) *tileLayer {
	upload := func(img image.Image) *ebiten.Image {
		return ebiten.NewImageFromImage(img)
	}
	return &tileLayer{
		textures: texture.NewCache(loader, upload, workers, logger),
		quads:    make(map[grid.Handle]quad),
		size:     size,
		opacity:  float32(opacity),
	}
}

func (l *tileLayer) Attach(t grid.Tile, worldX, worldY float64) grid.Handle {
	l.next++
	t.Handle = l.next
	l.quads[l.next] = quad{tile: t, worldX: worldX, worldY: worldY}
	if t.ImageIndex != grid.NoImage {
		l.textures.Request(t.ImageIndex)
	}
	return l.next
}

func (l *tileLayer) Detach(h grid.Handle) {
	delete(l.quads, h)
}

// draw projects every quad through view. Quads are drawn in handle order so
// overlapping edges are stable between frames.
func (l *tileLayer) draw(dst *ebiten.Image, view scene.View) {
	handles := make([]grid.Handle, 0, len(l.quads))
	for h := range l.quads {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	w, h := view.Width, view.Height
	for _, hd := range handles {
		q := l.quads[hd]
		sx, sy, scale, ok := view.Project(q.worldX, q.worldY, 0)
		if !ok {
			continue
		}
		px := l.size * scale
		x0, y0 := sx-px/2, sy-px/2
		if x0 > w || y0 > h || x0+px < 0 || y0+px < 0 {
			continue
		}

		e, ok := l.textures.Get(q.tile.ImageIndex)
		if !ok || !e.Ready {
			vector.FillRect(dst, float32(x0), float32(y0), float32(px), float32(px), placeholderColor, false)
			continue
		}
		tb := e.Value.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(px/float64(tb.Dx()), px/float64(tb.Dy()))
		op.GeoM.Translate(x0, y0)
		op.ColorScale.ScaleAlpha(l.opacity)
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(e.Value, op)
	}
}

func (l *tileLayer) close() {
	l.textures.Close()
}

var starColor = color.RGBA{R: 220, G: 225, B: 255, A: 200}

// drawStars projects the backdrop through view.
func drawStars(dst *ebiten.Image, b *scene.Backdrop, view scene.View) {
	if b == nil {
		return
	}
	w, h := float32(view.Width), float32(view.Height)
	for _, s := range b.Stars {
		x, y, z := b.World(s)
		sx, sy, scale, ok := view.Project(x, y, z)
		if !ok {
			continue
		}
		r := float32(s.Size * scale * 0.15)
		if r < 0.5 {
			r = 0.5
		}
		fx, fy := float32(sx), float32(sy)
		if fx < -r || fy < -r || fx > w+r || fy > h+r {
			continue
		}
		vector.FillRect(dst, fx-r, fy-r, 2*r, 2*r, starColor, false)
	}
}
