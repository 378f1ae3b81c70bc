package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// handleInput processes keys (edge-triggered) and the pointer.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	justPressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	if justPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if justPressed(ebiten.KeyL) {
		g.showLog = !g.showLog
	}
	if justPressed(ebiten.KeyEscape) && g.overlay.open {
		g.overlay.hide()
		g.logger.Info("image closed", "index", g.overlay.index)
	}
	if justPressed(ebiten.KeyC) && g.overlay.open {
		if err := g.overlay.copyPath(); err != nil {
			g.logger.Warn("clipboard unavailable", "error", err)
		} else {
			g.logger.Info("path copied", "asset", g.overlay.path)
		}
	}
	g.prevKeys = currentKeys

	if !g.overlay.open {
		g.nudge()
	}
	g.pollPointer()
}

// nudge adds velocity while a direction key is held. World y grows upward.
func (g *Game) nudge() {
	n := g.cfg.Input.NudgeSpeed
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.ctl.Nudge(0, n)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.ctl.Nudge(0, -n)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.ctl.Nudge(-n, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.ctl.Nudge(n, 0)
	}
}

// pollPointer follows the first touch when there is one and the left mouse
// button otherwise.
func (g *Game) pollPointer() {
	g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
	if !g.touching && len(g.touchIDs) > 0 {
		g.touchID = g.touchIDs[0]
		g.touching = true
		g.pointerDown(ebiten.TouchPosition(g.touchID))
		return
	}
	if g.touching {
		if inpututil.IsTouchJustReleased(g.touchID) {
			g.touching = false
			g.pointerUp(inpututil.TouchPositionInPreviousTick(g.touchID))
		} else {
			g.pointerMove(ebiten.TouchPosition(g.touchID))
		}
		return
	}

	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	x, y := ebiten.CursorPosition()
	switch {
	case pressed && !g.prevMouseLeft:
		g.pointerDown(x, y)
	case pressed:
		g.pointerMove(x, y)
	case g.prevMouseLeft:
		g.pointerUp(x, y)
	}
	g.prevMouseLeft = pressed
}

// pointerDown routes a press to the overlay when it is open, otherwise to the
// camera controller.
func (g *Game) pointerDown(x, y int) {
	if g.overlay.open {
		g.overlayPress = true
		g.overlay.handleClick(x, y, g.width, g.height)
		if !g.overlay.open {
			g.logger.Info("image closed", "index", g.overlay.index)
		}
		return
	}
	g.ctl.PointerDown(float64(x), float64(y))
}

func (g *Game) pointerMove(x, y int) {
	if g.overlayPress {
		return
	}
	g.ctl.PointerMove(float64(x), float64(y))
}

func (g *Game) pointerUp(x, y int) {
	if g.overlayPress {
		g.overlayPress = false
		return
	}
	rel := g.ctl.PointerUp(float64(x), float64(y))
	if !rel.Tap {
		return
	}
	if t, ok := g.loop.Pick(rel.X, rel.Y); ok {
		g.openTile(t)
	}
}
