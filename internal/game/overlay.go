package game

import (
	"fmt"
	"image"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Drift-Gallery/internal/catalog"
	"github.com/Garsondee/Drift-Gallery/internal/texture"
)

const (
	overlayFill     = 0.9 // fraction of the window the image may cover
	closeButtonSize = 36
	closeButtonPad  = 16
)

// overlay shows one image at full resolution above the gallery.
type overlay struct {
	store *texture.Store

	open   bool
	index  int
	path   string
	failed bool

	src    image.Image // decoded image for srcIdx
	srcIdx int
	img    *ebiten.Image // GPU copy of src, uploaded on first draw
	imgIdx int
}

func newOverlay(store *texture.Store) *overlay {
	return &overlay{store: store, srcIdx: -1, imgIdx: -1}
}

// show opens the overlay on image index.
func (o *overlay) show(index int) {
	o.open = true
	o.index = index
	o.path = catalog.ImagePath(index)
	o.failed = false
}

func (o *overlay) hide() {
	o.open = false
}

// update drains finished loads and keeps the one the overlay is waiting for.
// Loads are taken straight from Poll, so images the cache refuses to admit
// still show; the cache only serves re-opens. Runs on the frame thread.
func (o *overlay) update() {
	for _, l := range o.store.Poll() {
		if l.Index != o.index || !o.open {
			continue
		}
		if l.Err != nil {
			o.failed = true
			continue
		}
		o.src, o.srcIdx = l.Image, l.Index
	}
	if !o.open || o.failed || o.srcIdx == o.index {
		return
	}
	if src, ok := o.store.Fetch(o.index); ok {
		o.src, o.srcIdx = src, o.index
	}
}

// ready reports whether the decoded image for the open index is at hand.
func (o *overlay) ready() bool {
	return o.src != nil && o.srcIdx == o.index
}

// current returns the uploaded image for the open index, uploading it on
// first use.
func (o *overlay) current() *ebiten.Image {
	if !o.ready() {
		return nil
	}
	if o.imgIdx != o.srcIdx {
		if o.img != nil {
			o.img.Deallocate()
		}
		o.img = ebiten.NewImageFromImage(o.src)
		o.imgIdx = o.srcIdx
	}
	return o.img
}

// handleClick closes the overlay for clicks on the close button or outside
// the image.
func (o *overlay) handleClick(x, y, screenW, screenH int) {
	pt := image.Pt(x, y)
	if pt.In(closeButtonRect(screenW)) {
		o.hide()
		return
	}
	if !o.ready() {
		o.hide()
		return
	}
	b := o.src.Bounds()
	if !pt.In(fitRect(b.Dx(), b.Dy(), screenW, screenH)) {
		o.hide()
	}
}

// copyPath puts the open image's asset path on the clipboard.
func (o *overlay) copyPath() error {
	if !o.open {
		return nil
	}
	return clipboard.WriteAll(o.path)
}

func (o *overlay) draw(screen *ebiten.Image) {
	if !o.open {
		return
	}
	b := screen.Bounds()
	sw, sh := b.Dx(), b.Dy()
	vector.FillRect(screen, 0, 0, float32(sw), float32(sh), color.RGBA{A: 217}, false)

	caption := o.path + "   [C] copy path  [Esc] close"
	switch img := o.current(); {
	case img != nil:
		ib := img.Bounds()
		r := fitRect(ib.Dx(), ib.Dy(), sw, sh)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(r.Dx())/float64(ib.Dx()), float64(r.Dy())/float64(ib.Dy()))
		op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
		ebitenutil.DebugPrintAt(screen, caption, r.Min.X, r.Max.Y+6)
	case o.failed:
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("could not load %s", o.path), sw/2-90, sh/2)
	default:
		ebitenutil.DebugPrintAt(screen, "loading...", sw/2-30, sh/2)
	}

	cb := closeButtonRect(sw)
	cx := float32(cb.Min.X + closeButtonSize/2)
	cy := float32(cb.Min.Y + closeButtonSize/2)
	vector.FillCircle(screen, cx, cy, closeButtonSize/2, color.RGBA{R: 40, G: 40, B: 48, A: 220}, true)
	const arm = closeButtonSize / 4
	white := color.RGBA{R: 235, G: 235, B: 240, A: 255}
	vector.StrokeLine(screen, cx-arm, cy-arm, cx+arm, cy+arm, 2, white, true)
	vector.StrokeLine(screen, cx-arm, cy+arm, cx+arm, cy-arm, 2, white, true)
}

// fitRect centres an imgW x imgH image in the screen, scaled to cover at most
// overlayFill of either dimension. Small images are not enlarged.
func fitRect(imgW, imgH, screenW, screenH int) image.Rectangle {
	if imgW <= 0 || imgH <= 0 {
		return image.Rectangle{}
	}
	maxW := float64(screenW) * overlayFill
	maxH := float64(screenH) * overlayFill
	scale := min(maxW/float64(imgW), maxH/float64(imgH), 1)
	w := int(float64(imgW) * scale)
	h := int(float64(imgH) * scale)
	x := (screenW - w) / 2
	y := (screenH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

func closeButtonRect(screenW int) image.Rectangle {
	x := screenW - closeButtonPad - closeButtonSize
	return image.Rect(x, closeButtonPad, x+closeButtonSize, closeButtonPad+closeButtonSize)
}
