package ui

import (
	"github.com/plus3/sampleviewer/lattice"
)

const (
	LabelWidth    = "Lattice Width"
	LabelHeight   = "Lattice Height"
	LabelDepth    = "Lattice Depth"
	LabelSpacingX = "Lattice Spacing X"
	LabelSpacingY = "Lattice Spacing Y"
	LabelSpacingZ = "Lattice Spacing Z"
	LabelScale    = "Entity Scale"
)

// LatticeControls edits a lattice's parameters. Draw reports a change so the
// caller can rebuild.
type LatticeControls struct {
	Lattice     *lattice.Lattice
	ShowSpacing bool
	ShowScale   bool
}

func (c *LatticeControls) Draw(w Widgets) bool {
	l := c.Lattice
	limits := l.Limits()
	dims := l.Dimensions()

	width, height, depth := int32(dims.Width), int32(dims.Height), int32(dims.Depth)
	maxSize := int32(limits.MaxSize)

	changed := false
	changed = w.SliderInt(LabelWidth, &width, 1, maxSize) || changed
	changed = w.SliderInt(LabelHeight, &height, 1, maxSize) || changed
	changed = w.SliderInt(LabelDepth, &depth, 1, maxSize) || changed
	if changed {
		l.SetDimensions(lattice.Dimensions{Width: int(width), Height: int(height), Depth: int(depth)})
	}

	if c.ShowSpacing {
		spacing := l.Spacing()
		moved := false
		moved = w.SliderFloat(LabelSpacingX, &spacing[0], 0, limits.MaxSpacing) || moved
		moved = w.SliderFloat(LabelSpacingY, &spacing[1], 0, limits.MaxSpacing) || moved
		moved = w.SliderFloat(LabelSpacingZ, &spacing[2], 0, limits.MaxSpacing) || moved
		if moved {
			l.SetSpacing(spacing)
			changed = true
		}
	}

	if c.ShowScale {
		scale := l.Scale()
		if w.SliderFloat(LabelScale, &scale, 0.01, limits.MaxScale) {
			l.SetScale(scale)
			changed = true
		}
	}
	return changed
}
