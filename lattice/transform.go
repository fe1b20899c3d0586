package lattice

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a uniform-scale rigid transform, the shape every lattice cell
// and mesh instance uses.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       float32
}

func Identity() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: 1}
}

// Apply transforms point p.
func (t Transform) Apply(p mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Rotate(p.Mul(t.Scale)).Add(t.Translation)
}

// Mul returns t∘o: o is applied first, then t.
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		Translation: t.Apply(o.Translation),
		Rotation:    t.Rotation.Mul(o.Rotation).Normalize(),
		Scale:       t.Scale * o.Scale,
	}
}

func (t Transform) Mat4() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2]).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale, t.Scale, t.Scale))
}

// ApproxTolerance is the absolute per-component tolerance of ApproxEqual.
const ApproxTolerance = 1e-5

// ApproxEqual compares component-wise within ApproxTolerance. q and -q are
// the same rotation.
func (t Transform) ApproxEqual(o Transform) bool {
	near := func(a, b float32) bool { return mgl32.Abs(a-b) <= ApproxTolerance }
	for i := range 3 {
		if !near(t.Translation[i], o.Translation[i]) {
			return false
		}
	}
	if !near(t.Scale, o.Scale) {
		return false
	}
	q, r := t.Rotation, o.Rotation
	if q.Dot(r) < 0 {
		r = r.Scale(-1)
	}
	return near(q.W, r.W) && near(q.V[0], r.V[0]) && near(q.V[1], r.V[1]) && near(q.V[2], r.V[2])
}
