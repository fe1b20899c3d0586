package main

import (
	"image/color"

	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/lattice"
)

const viewMargin = 40

type projected struct {
	t lattice.Transform
	c color.RGBA
}

// topDown maps lattice X/Y onto the screen, looking down the Z axis.
type topDown struct {
	originX, originY float32
	minX, maxY       float32
	scale            float32
}

// fitTopDown centers the meshes' footprint on a w x h screen.
func fitTopDown(meshes []projected, w, h float32) topDown {
	if len(meshes) == 0 {
		return topDown{originX: w / 2, originY: h / 2, scale: 1}
	}
	first := meshes[0].t.Translation
	minX, maxX, minY, maxY := first.X(), first.X(), first.Y(), first.Y()
	for _, m := range meshes[1:] {
		p := m.t.Translation
		minX, maxX = min(minX, p.X()), max(maxX, p.X())
		minY, maxY = min(minY, p.Y()), max(maxY, p.Y())
	}
	spanX, spanY := maxX-minX, maxY-minY
	availW, availH := max(w-2*viewMargin, 1), max(h-2*viewMargin, 1)
	scale := float32(1)
	if spanX > 0 || spanY > 0 {
		scale = min(availW/max(spanX, 1e-6), availH/max(spanY, 1e-6))
	}
	return topDown{
		originX: (w - spanX*scale) / 2,
		originY: (h - spanY*scale) / 2,
		minX:    minX,
		maxY:    maxY,
		scale:   scale,
	}
}

// project returns the screen center and edge length of a mesh's marker.
// Screen Y grows downwards, so lattice Y is flipped.
func (v topDown) project(t lattice.Transform) (x, y, size float32) {
	p := t.Translation
	x = v.originX + (p.X()-v.minX)*v.scale
	y = v.originY + (v.maxY-p.Y())*v.scale
	size = max(2, min(v.scale*t.Scale*0.5, 48))
	return x, y, size
}

func modelColor(id asset.Id) color.RGBA {
	return color.RGBA{R: 96 + id.Guid[0]%160, G: 96 + id.Guid[1]%160, B: 96 + id.Guid[2]%160, A: 255}
}
