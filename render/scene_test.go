package render_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/lattice"
	"github.com/plus3/sampleviewer/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeshLifecycle(t *testing.T) {
	scene := render.NewScene()
	model := asset.IdForPath("objects/bunny.azmodel")
	mat := scene.CreateMaterial(asset.IdForPath("materials/defaultpbr.azmaterial"))

	h := scene.AcquireMesh(render.MeshDescriptor{Model: model, Material: mat})
	require.True(t, h.IsValid())

	tr := lattice.Identity()
	tr.Translation = mgl32.Vec3{1, 2, 3}
	require.NoError(t, scene.SetTransform(h, tr))
	got, err := scene.Transform(h)
	require.NoError(t, err)
	assert.Equal(t, tr, got)

	gotModel, err := scene.Model(h)
	require.NoError(t, err)
	assert.Equal(t, model, gotModel)

	gotMat, err := scene.Material(h)
	require.NoError(t, err)
	assert.Same(t, mat, gotMat)

	stale := h
	assert.True(t, scene.ReleaseMesh(&h))
	assert.False(t, h.IsValid())
	assert.False(t, scene.ReleaseMesh(&stale))
	assert.ErrorIs(t, scene.SetTransform(stale, tr), render.ErrInvalidHandle)

	next := scene.AcquireMesh(render.MeshDescriptor{Model: model})
	assert.NotEqual(t, stale, next, "handles are not reused")
	assert.Equal(t, 1, scene.Live())
}

func TestMaterialsSharedAndUnique(t *testing.T) {
	scene := render.NewScene()
	src := asset.IdForPath("materials/defaultpbr.azmaterial")

	a := scene.FindOrCreateMaterial(src)
	b := scene.FindOrCreateMaterial(src)
	c := scene.CreateMaterial(src)
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.True(t, a.Shared())
	assert.False(t, c.Shared())
	assert.Equal(t, 2, scene.Stats().Materials)

	c.SetProperty("baseColor.color", mgl32.Vec3{1, 0, 0})
	_, ok := c.Property("baseColor.color")
	assert.False(t, ok, "not visible before compile")
	assert.True(t, c.Compile())
	assert.False(t, c.Compile())
	v, ok := c.Property("baseColor.color")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, v)
	assert.Equal(t, 1, c.CompileCount())
	assert.Equal(t, []string{"baseColor.color"}, c.PropertyNames())
}

func TestDiskLightClamping(t *testing.T) {
	scene := render.NewScene()
	h := scene.AcquireDiskLight()

	require.NoError(t, scene.UpdateDiskLight(h, func(l *render.DiskLight) {
		l.OuterConeAngle = math.Pi
		l.InnerConeAngle = 2
		l.Direction = mgl32.Vec3{0, 3, 0}
		l.AttenuationRadius = -1
	}))

	l, err := scene.DiskLight(h)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, l.OuterConeAngle, 1e-6)
	assert.LessOrEqual(t, l.InnerConeAngle, l.OuterConeAngle)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, l.Direction)
	assert.Zero(t, l.AttenuationRadius)

	assert.True(t, scene.ReleaseDiskLight(&h))
	_, err = scene.DiskLight(h)
	assert.ErrorIs(t, err, render.ErrInvalidHandle)
}

func TestDirectionalLightCascades(t *testing.T) {
	scene := render.NewScene()
	h := scene.AcquireDirectionalLight()
	require.NoError(t, scene.UpdateDirectionalLight(h, func(l *render.DirectionalLight) {
		l.CascadeCount = 9
	}))
	l, err := scene.DirectionalLight(h)
	require.NoError(t, err)
	assert.Equal(t, render.MaxCascades, l.CascadeCount)

	assert.Equal(t, render.SceneStats{DirectionalLights: 1}, scene.Stats())
	scene.Reset()
	assert.Zero(t, scene.Live())
}

func TestSceneMeshesInHandleOrder(t *testing.T) {
	scene := render.NewScene()
	for i := range 5 {
		h := scene.AcquireMesh(render.MeshDescriptor{Model: asset.IdForPath("m.azmodel")})
		tr := lattice.Identity()
		tr.Translation = mgl32.Vec3{float32(i), 0, 0}
		require.NoError(t, scene.SetTransform(h, tr))
	}

	var xs []float32
	scene.Meshes(func(h render.MeshHandle, model asset.Id, tr lattice.Transform) {
		xs = append(xs, tr.Translation.X())
	})
	assert.Equal(t, []float32{0, 1, 2, 3, 4}, xs)
}
