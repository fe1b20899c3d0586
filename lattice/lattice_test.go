package lattice_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sampleviewer/lattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLimits = lattice.Limits{MaxSize: 20, MaxSpacing: 100, MaxScale: 10}

type recordingHooks struct {
	events     []string
	prepared   int
	transforms []lattice.Transform
}

func (h *recordingHooks) PrepareInstances(count int) {
	h.events = append(h.events, "prepare")
	h.prepared = count
}

func (h *recordingHooks) CreateInstance(t lattice.Transform) {
	h.events = append(h.events, "create")
	h.transforms = append(h.transforms, t)
}

func (h *recordingHooks) FinalizeInstances() {
	h.events = append(h.events, "finalize")
}

func (h *recordingHooks) DestroyInstances() {
	h.events = append(h.events, "destroy")
	h.transforms = nil
}

func TestBuildVisitsCellsXYZ(t *testing.T) {
	l := lattice.New(testLimits, lattice.Dimensions{Width: 2, Height: 3, Depth: 2})
	l.SetSpacing(mgl32.Vec3{1, 10, 100})

	hooks := &recordingHooks{}
	l.Build(hooks)

	require.Equal(t, 12, hooks.prepared)
	require.Len(t, hooks.transforms, 12)
	assert.Equal(t, "prepare", hooks.events[0])
	assert.Equal(t, "finalize", hooks.events[len(hooks.events)-1])

	var got []mgl32.Vec3
	for _, tr := range hooks.transforms {
		got = append(got, tr.Translation)
	}
	var want []mgl32.Vec3
	for x := range 2 {
		for y := range 2 {
			for z := range 3 {
				want = append(want, mgl32.Vec3{float32(x), float32(y) * 10, float32(z) * 100})
			}
		}
	}
	assert.Equal(t, want, got)
}

func TestBuildBoundsAndRebuild(t *testing.T) {
	l := lattice.New(testLimits, lattice.Dimensions{Width: 3, Height: 2, Depth: 4})

	hooks := &recordingHooks{}
	first := l.Build(hooks)
	require.True(t, first.IsValid())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, first.Min)
	assert.Equal(t, mgl32.Vec3{10, 15, 5}, first.Max)
	assert.Equal(t, mgl32.Vec3{5, 7.5, 2.5}, first.Center())

	hooks.events = nil
	second := l.Rebuild(hooks)
	assert.Equal(t, first, second)
	assert.Equal(t, "destroy", hooks.events[0])
	assert.Len(t, hooks.transforms, 24)
}

func TestCellsFaceBackAndScale(t *testing.T) {
	l := lattice.New(testLimits, lattice.Dimensions{Width: 1, Height: 1, Depth: 1})
	l.SetScale(2)

	for _, tr := range l.Cells() {
		assert.Equal(t, float32(2), tr.Scale)
		forward := tr.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
		assertVec3(t, mgl32.Vec3{0, -1, 0}, forward, 1e-5)
	}
}

func TestLimitsClamp(t *testing.T) {
	tests := []struct {
		name string
		in   lattice.Dimensions
		want lattice.Dimensions
	}{
		{"in range", lattice.Dimensions{5, 5, 5}, lattice.Dimensions{5, 5, 5}},
		{"zero", lattice.Dimensions{0, 0, 0}, lattice.Dimensions{1, 1, 1}},
		{"negative", lattice.Dimensions{-4, 2, 3}, lattice.Dimensions{1, 2, 3}},
		{"too big", lattice.Dimensions{21, 100, 20}, lattice.Dimensions{20, 20, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := lattice.New(testLimits, tt.in)
			assert.Equal(t, tt.want, l.Dimensions())
			assert.Equal(t, tt.want.Count(), l.InstanceCount())
		})
	}

	assert.Equal(t, mgl32.Vec3{0, 100, 50}, testLimits.ClampSpacing(mgl32.Vec3{-1, 1000, 50}))
	assert.Equal(t, float32(10), testLimits.ClampScale(11))
	assert.Greater(t, testLimits.ClampScale(0), float32(0))
}

func TestTransformMul(t *testing.T) {
	parent := lattice.Transform{
		Translation: mgl32.Vec3{1, 0, 0},
		Rotation:    mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1}),
		Scale:       2,
	}
	child := lattice.Identity()
	child.Translation = mgl32.Vec3{1, 0, 0}

	got := parent.Mul(child)
	assertVec3(t, mgl32.Vec3{1, 2, 0}, got.Translation, 1e-5)
	assert.Equal(t, float32(2), got.Scale)

	p := mgl32.Vec3{0.5, -1, 3}
	viaMat := got.Mat4().Mul4x1(p.Vec4(1)).Vec3()
	assertVec3(t, got.Apply(p), viaMat, 1e-4)
	assert.True(t, parent.Mul(lattice.Identity()).ApproxEqual(parent))
}

func TestTransformApproxEqualNearZero(t *testing.T) {
	a := lattice.Identity()
	b := lattice.Identity()
	b.Translation = mgl32.Vec3{8.7e-08, 0, -3e-7}
	assert.True(t, a.ApproxEqual(b))

	// same rotation, opposite sign
	b.Rotation = mgl32.Quat{W: -1}
	assert.True(t, a.ApproxEqual(b))

	b.Translation = mgl32.Vec3{1e-3, 0, 0}
	assert.False(t, a.ApproxEqual(b))
	assert.False(t, a.ApproxEqual(lattice.Transform{Rotation: mgl32.QuatIdent(), Scale: 2}))
}

func assertVec3(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestEmptyBounds(t *testing.T) {
	var b lattice.Bounds
	assert.False(t, b.IsValid())
	b.Add(mgl32.Vec3{1, 2, 3})
	assert.True(t, b.IsValid())
	assert.Equal(t, mgl32.Vec3{}, b.Extents())
}
