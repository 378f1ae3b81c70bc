package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// hudScale is the integer upscale applied to HUD text.
const hudScale = 2

func (g *Game) hudLines() []string {
	fs := g.frame
	cam := fs.Camera
	cell := g.grid.Center()
	return []string{
		fmt.Sprintf("images: %d  pairs: %d  seed: %d", g.images, len(g.pairs), g.cfg.Seed),
		fmt.Sprintf("pos: %.1f,%.1f  cell: %s", cam.X, cam.Y, cell),
		fmt.Sprintf("speed: %.3f  warp: %.3f", cam.Speed(), fs.Distortion),
		fmt.Sprintf("rate: %.2fx  audio: %s", fs.Rate, onOff(g.player.Started())),
		fmt.Sprintf("tiles: %d  textures: %d (%d loading)", g.grid.Len(), g.tiles.textures.Len(), g.tiles.textures.Pending()),
		fmt.Sprintf("fps: %.0f  tps: %.0f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		"drag=pan  tap=open  WASD/arrows=nudge",
		"[H] HUD  [L] log  [C] copy path  [Esc] close",
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// drawHUD renders into hudBuf at 1x and blits it at hudScale.
func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := g.hudLines()

	const lineH = 12
	const charW = 6
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)

	bufH := float32(g.height / hudScale)
	bx := float32(4)
	by := bufH - boxH - 4

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 8, B: 14, A: 200}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 80, B: 120, A: 180}, false)
	vector.StrokeLine(g.hudBuf, bx+1, by+1, bx+boxW-1, by+1, 1.0, color.RGBA{R: 90, G: 120, B: 170, A: 80}, false)

	for i, line := range lines {
		ebitenutil.DebugPrintAt(g.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(hudScale, hudScale)
	screen.DrawImage(g.hudBuf, opts)
}
