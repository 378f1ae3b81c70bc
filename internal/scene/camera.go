package scene

import "math"

// View is a perspective camera looking straight down -z at (X, Y, 0).
type View struct {
	X, Y, Z float64
	Width   float64 // viewport in pixels
	Height  float64
	FOV     float64 // vertical field of view in degrees
}

// focal returns the pixel distance from the eye to the image plane.
func (v View) focal() float64 {
	return (v.Height / 2) / math.Tan(v.FOV*math.Pi/360)
}

// Project maps a world point to screen pixels and returns the pixels per world
// unit at that depth. ok is false for points at or behind the eye.
func (v View) Project(wx, wy, wz float64) (sx, sy, scale float64, ok bool) {
	depth := v.Z - wz
	if depth <= 1e-6 {
		return 0, 0, 0, false
	}
	scale = v.focal() / depth
	sx = v.Width/2 + (wx-v.X)*scale
	sy = v.Height/2 - (wy-v.Y)*scale
	return sx, sy, scale, true
}

// NDC converts screen pixels to normalized device coordinates in [-1, 1],
// y up.
func (v View) NDC(sx, sy float64) (nx, ny float64) {
	return sx/v.Width*2 - 1, -(sy/v.Height)*2 + 1
}

// Unproject casts a ray from the eye through screen point (sx, sy) and returns
// where it meets the z=0 plane.
func (v View) Unproject(sx, sy float64) (wx, wy float64) {
	nx, ny := v.NDC(sx, sy)
	halfW, halfH := v.VisibleHalfExtent()
	return v.X + nx*halfW, v.Y + ny*halfH
}

// VisibleHalfExtent returns half the world-space width and height seen on the
// z=0 plane.
func (v View) VisibleHalfExtent() (hw, hh float64) {
	hh = math.Tan(v.FOV*math.Pi/360) * v.Z
	return hh * v.Width / v.Height, hh
}
