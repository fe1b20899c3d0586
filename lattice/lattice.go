// Package lattice lays out instances on a regular 3D grid and hands each cell
// to a pluggable set of hooks.
package lattice

import (
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultSpacing = 5.0
	DefaultScale   = 1.0
	minScale       = 0.01
)

// Dimensions counts cells along each axis. Width runs along X, Depth along Y
// and Height along Z.
type Dimensions struct {
	Width, Height, Depth int
}

func (d Dimensions) Count() int {
	return d.Width * d.Height * d.Depth
}

// Limits are the per-platform upper bounds for lattice parameters.
type Limits struct {
	MaxSize    int
	MaxSpacing float32
	MaxScale   float32
}

func (l Limits) ClampDimensions(d Dimensions) Dimensions {
	return Dimensions{
		Width:  clampInt(d.Width, 1, l.MaxSize),
		Height: clampInt(d.Height, 1, l.MaxSize),
		Depth:  clampInt(d.Depth, 1, l.MaxSize),
	}
}

func (l Limits) ClampSpacing(s mgl32.Vec3) mgl32.Vec3 {
	for i := range 3 {
		s[i] = mgl32.Clamp(s[i], 0, l.MaxSpacing)
	}
	return s
}

func (l Limits) ClampScale(s float32) float32 {
	return mgl32.Clamp(s, minScale, l.MaxScale)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Hooks receive the lattice while it is built. PrepareInstances is called
// once with the cell count, CreateInstance once per cell in build order and
// FinalizeInstances once at the end. DestroyInstances tears down what the
// previous build created.
type Hooks interface {
	PrepareInstances(count int)
	CreateInstance(t Transform)
	FinalizeInstances()
	DestroyInstances()
}

// Lattice holds the grid parameters and the bounds of the last build.
type Lattice struct {
	limits  Limits
	dims    Dimensions
	spacing mgl32.Vec3
	scale   float32
	bounds  Bounds
}

func New(limits Limits, dims Dimensions) *Lattice {
	l := &Lattice{limits: limits}
	l.SetDimensions(dims)
	l.SetSpacing(mgl32.Vec3{DefaultSpacing, DefaultSpacing, DefaultSpacing})
	l.SetScale(DefaultScale)
	return l
}

func (l *Lattice) Limits() Limits         { return l.limits }
func (l *Lattice) Dimensions() Dimensions { return l.dims }
func (l *Lattice) Spacing() mgl32.Vec3    { return l.spacing }
func (l *Lattice) Scale() float32         { return l.scale }
func (l *Lattice) InstanceCount() int     { return l.dims.Count() }

// Bounds returns the translation bounds of the last Build.
func (l *Lattice) Bounds() Bounds { return l.bounds }

func (l *Lattice) SetDimensions(d Dimensions) {
	l.dims = l.limits.ClampDimensions(d)
}

func (l *Lattice) SetSpacing(s mgl32.Vec3) {
	l.spacing = l.limits.ClampSpacing(s)
}

func (l *Lattice) SetScale(s float32) {
	l.scale = l.limits.ClampScale(s)
}

// Cells yields the cell index and transform of every cell: X outermost, then
// Y, then Z. Each cell faces back along Y, rotated half a turn about Z.
func (l *Lattice) Cells() iter.Seq2[int, Transform] {
	base := Transform{
		Rotation: mgl32.QuatRotate(math.Pi, mgl32.Vec3{0, 0, 1}),
		Scale:    l.scale,
	}
	return func(yield func(int, Transform) bool) {
		i := 0
		for x := 0; x < l.dims.Width; x++ {
			for y := 0; y < l.dims.Depth; y++ {
				for z := 0; z < l.dims.Height; z++ {
					t := base
					t.Translation = mgl32.Vec3{
						float32(x) * l.spacing[0],
						float32(y) * l.spacing[1],
						float32(z) * l.spacing[2],
					}
					if !yield(i, t) {
						return
					}
					i++
				}
			}
		}
	}
}

// Build runs hooks over every cell and returns the accumulated bounds.
func (l *Lattice) Build(hooks Hooks) Bounds {
	l.bounds = Bounds{}
	hooks.PrepareInstances(l.InstanceCount())
	for _, t := range l.Cells() {
		l.bounds.Add(t.Translation)
		hooks.CreateInstance(t)
	}
	hooks.FinalizeInstances()
	return l.bounds
}

func (l *Lattice) Rebuild(hooks Hooks) Bounds {
	hooks.DestroyInstances()
	return l.Build(hooks)
}
