package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// lensShaderSrc bulges the centre of the frame in proportion to Distortion
// and splits red and blue horizontally.
const lensShaderSrc = `//kage:unit pixels
package main

var Distortion float

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	origin := imageSrc0Origin()
	size := imageSrc0Size()
	uv := (srcPos-origin)/size - 0.5
	d := length(uv)
	uv = uv * (1.0 + Distortion*(1.0-d*d))

	shift := vec2(Distortion*0.01, 0.0)
	r := imageSrc0At(origin + (uv+0.5+shift)*size).r
	g := imageSrc0At(origin + (uv+0.5)*size).g
	b := imageSrc0At(origin + (uv+0.5-shift)*size).b
	return vec4(r, g, b, 1.0)
}
`

// lens applies the speed-driven fisheye pass. A nil shader draws the scene
// unwarped.
type lens struct {
	shader *ebiten.Shader
}

func newLens() (*lens, error) {
	s, err := ebiten.NewShader([]byte(lensShaderSrc))
	if err != nil {
		return &lens{}, err
	}
	return &lens{shader: s}, nil
}

// draw copies src onto dst through the lens.
func (l *lens) draw(dst, src *ebiten.Image, distortion float64) {
	if l.shader == nil || distortion <= 0 {
		dst.DrawImage(src, nil)
		return
	}
	b := src.Bounds()
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = src
	op.Uniforms = map[string]any{
		"Distortion": float32(distortion),
	}
	dst.DrawRectShader(b.Dx(), b.Dy(), l.shader, op)
}
