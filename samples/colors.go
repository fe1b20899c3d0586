package samples

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sampleviewer/lattice"
	"github.com/plus3/sampleviewer/random"
)

const colorProperty = "baseColor.color"

var colorOptions = []mgl32.Vec4{
	{1, 0, 0, 1},
	{0, 1, 0, 1},
	{0, 0, 1, 1},
	{1, 1, 0, 1},
	{0, 1, 1, 1},
	{1, 0, 1, 1},
}

// blendedColor picks two distinct colors with rng and mixes them, t of the
// first.
func blendedColor(rng *random.Lcg, t float32) mgl32.Vec4 {
	n := uint32(len(colorOptions))
	a := rng.Uint32() % n
	b := a
	for b == a {
		b = rng.Uint32() % n
	}
	return colorOptions[a].Mul(t).Add(colorOptions[b].Mul(1 - t))
}

// wave maps x to [0, 1] along a sine.
func wave(x float64) float32 {
	return float32(math.Sin(x)*0.5 + 0.5)
}

// spin is the per-frame rotation applied when transforms update every frame:
// the same angle about each axis, wrapping every full turn.
func spin(seconds float64) lattice.Transform {
	r := float32(math.Mod(seconds, 2*math.Pi))
	t := lattice.Identity()
	t.Rotation = mgl32.AnglesToQuat(r, r, r, mgl32.XYZ)
	return t
}
