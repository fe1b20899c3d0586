package samples

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/ecs"
	"github.com/plus3/sampleviewer/lattice"
	"github.com/plus3/sampleviewer/random"
	"github.com/plus3/sampleviewer/render"
	"github.com/plus3/sampleviewer/ui"
)

var (
	// Diffuse white, so light colors are easy to tell apart.
	HighInstanceMaterials = []string{
		"materials/presets/macbeth/19_white_9-5_0-05d.azmaterial",
	}
	HighInstanceSimpleModels = []string{
		"objects/cube.fbx.azmodel",
	}
	HighInstanceExpandedModels = []string{
		"materialeditor/viewportmodels/cone.fbx.azmodel",
		"materialeditor/viewportmodels/cube.fbx.azmodel",
		"materialeditor/viewportmodels/cylinder.fbx.azmodel",
		"materialeditor/viewportmodels/platonicsphere.fbx.azmodel",
		"materialeditor/viewportmodels/polarsphere.fbx.azmodel",
		"materialeditor/viewportmodels/quadsphere.fbx.azmodel",
		"materialeditor/viewportmodels/torus.fbx.azmodel",
		"objects/cube.fbx.azmodel",
		"objects/cylinder.fbx.azmodel",
	}
	highInstanceFallbackModel = "testdata/objects/cube/cube.fbx.azmodel"
)

// light colors, used in turn
var lightColors = []mgl32.Vec3{
	{1, 0, 0},        // red
	{0, 0.5, 0},      // green
	{0, 0, 1},        // blue
	{0, 1, 1},        // cyan
	{1, 0, 1},        // fuchsia
	{1, 1, 0},        // yellow
	{0, 1, 0.498039}, // spring green
}

// HighInstanceParams configures a HighInstanceTest variant.
type HighInstanceParams struct {
	Name string
	// Zero uses the profile's high instance size on every axis.
	Dimensions lattice.Dimensions
	Spacing    float32
	Scale      float32

	SpotLights      int
	SpotInnerDeg    float32
	SpotOuterDeg    float32
	SpotMaxDistance float32
	SpotIntensity   float32 // candela

	DirectionalLight     bool
	DirectionalCascades  int
	DirectionalIntensity float32 // lux

	ShadowmapSize int
	ShadowFilter  render.ShadowFilter
}

func DefaultHighInstanceParams() HighInstanceParams {
	return HighInstanceParams{
		Name:                 "HighInstanceTest",
		Spacing:              lattice.DefaultSpacing,
		Scale:                lattice.DefaultScale,
		SpotInnerDeg:         10,
		SpotOuterDeg:         30,
		SpotMaxDistance:      200,
		SpotIntensity:        500,
		DirectionalCascades:  render.MaxCascades,
		DirectionalIntensity: 5,
		ShadowmapSize:        256,
		ShadowFilter:         render.ShadowFilterNone,
	}
}

// ShadowedHighInstanceParams adds seven shadow casting spot lights and a
// directional light.
func ShadowedHighInstanceParams() HighInstanceParams {
	p := DefaultHighInstanceParams()
	p.Name = "HighInstanceTest_Shadows"
	p.SpotLights = 7
	p.SpotOuterDeg = 90
	p.SpotMaxDistance = 120
	p.DirectionalLight = true
	return p
}

type spotLight struct {
	color     mgl32.Vec3
	direction mgl32.Vec3
	handle    render.LightHandle
}

// HighInstanceTest builds a large lattice of random allow-listed models lit
// by optional shadow casting lights.
type HighInstanceTest struct {
	params    HighInstanceParams
	env       *Env
	harness   *LatticeHarness
	instances *InstanceStore
	sidebar   *ui.Sidebar
	models    *ui.AllowList
	materials *ui.AllowList
	rng       *random.Lcg

	modelIds    []asset.Id
	materialIds []asset.Id
	fallback    struct{ model, material asset.Id }

	spots       []spotLight
	directional render.LightHandle

	Rotate             bool
	SimpleModels       bool
	SpotLightsOn       bool
	DirectionalLightOn bool
	loading            bool
}

func NewHighInstanceTest(params HighInstanceParams) func() Sample {
	return func() Sample {
		return &HighInstanceTest{
			params:             params,
			rng:                random.NewTimeSeeded(),
			SimpleModels:       true,
			SpotLightsOn:       true,
			DirectionalLightOn: true,
		}
	}
}

func (h *HighInstanceTest) Name() string { return h.params.Name }

func (h *HighInstanceTest) Activate(env *Env) error {
	h.env = env
	h.instances = NewInstanceStore(env.Storage)
	h.sidebar = ui.NewSidebar(h.Name(), "@user@/HighInstanceTest/sidebar.toml", env.Prefs, env.Log)
	h.materials = ui.NewAllowList("Materials", asset.TypeMaterial, HighInstanceMaterials, env.Catalog, env.Prefs,
		"@user@/HighInstanceTest/material_browser.toml", env.Log)
	h.models = ui.NewAllowList("Models", asset.TypeModel, HighInstanceSimpleModels, env.Catalog, env.Prefs,
		"@user@/HighInstanceTest/model_browser.toml", env.Log)
	h.materials.Reset()
	h.models.Reset()
	h.fallback.model = resolve(env, highInstanceFallbackModel, asset.TypeModel)
	h.fallback.material = resolve(env, DefaultPbrMaterial, asset.TypeMaterial)
	h.buildLightParameters()

	dims := h.params.Dimensions
	if dims == (lattice.Dimensions{}) {
		n := env.Profile.HighInstance
		dims = lattice.Dimensions{Width: n, Height: n, Depth: n}
	}
	h.harness = NewLatticeHarness(env.Profile, dims, h, env.Log)
	h.harness.Lattice.SetSpacing(mgl32.Vec3{h.params.Spacing, h.params.Spacing, h.params.Spacing})
	h.harness.Lattice.SetScale(h.params.Scale)
	h.harness.Controls.ShowSpacing = true
	h.harness.Controls.ShowScale = true
	h.harness.Build()

	env.AddSystem(&highInstanceSystem{test: h})
	return nil
}

func (h *HighInstanceTest) Deactivate() {
	h.harness.Destroy()
	h.destroyLights()
}

// buildLightParameters assigns each spot light its color and a random
// direction from a generator seeded with zero, so runs are repeatable.
func (h *HighInstanceTest) buildLightParameters() {
	rng := random.NewLcg(0)
	h.spots = make([]spotLight, h.params.SpotLights)
	for i := range h.spots {
		dir := mgl32.Vec3{rng.Float32() - 0.5, rng.Float32() - 0.5, rng.Float32() - 0.5}
		if dir.Len() > 0 {
			dir = dir.Normalize()
		}
		h.spots[i] = spotLight{color: lightColors[i%len(lightColors)], direction: dir}
	}
}

func (h *HighInstanceTest) PrepareInstances(count int) {
	h.modelIds = h.models.Ids()
	h.materialIds = h.materials.Ids()
	h.destroyLights()
}

func (h *HighInstanceTest) CreateInstance(t lattice.Transform) {
	h.instances.Add(Instance{
		Transform: t,
		Model:     random.Pick(h.rng, h.modelIds, h.fallback.model),
		Material:  random.Pick(h.rng, h.materialIds, h.fallback.material),
	})
}

func (h *HighInstanceTest) FinalizeInstances() {
	h.loading = true
	preload(h.env, referencedIds(h.instances), func(res asset.BatchResult) {
		h.loading = false
		acquireMeshes(h.env, h.instances, failedIds(res), sharedMaterial(h.env))
	})
	h.createLights()
}

func (h *HighInstanceTest) DestroyInstances() {
	if h.loading {
		h.env.Assets.Cancel()
		h.env.Script.Resume()
		h.loading = false
	}
	h.instances.releaseMeshes(h.env.Arena)
	h.instances.Clear()
}

func (h *HighInstanceTest) createLights() {
	if h.params.SpotLights > 0 && h.SpotLightsOn {
		for i := range h.spots {
			h.createSpotLight(i)
		}
	}
	if h.params.DirectionalLight && h.DirectionalLightOn {
		h.createDirectionalLight()
	}
}

// createSpotLight places light i half its range out from the lattice center,
// facing back toward it.
func (h *HighInstanceTest) createSpotLight(i int) {
	p := h.params
	s := &h.spots[i]
	bounds := h.harness.Lattice.Bounds()
	offset := s.direction.Mul(0.5 * p.SpotMaxDistance)

	s.handle = h.env.Arena.AcquireDiskLight()
	err := h.env.Scene.UpdateDiskLight(s.handle, func(l *render.DiskLight) {
		l.Color = s.color
		l.Intensity = p.SpotIntensity
		l.AttenuationRadius = p.SpotMaxDistance
		l.InnerConeAngle = mgl32.DegToRad(p.SpotInnerDeg)
		l.OuterConeAngle = mgl32.DegToRad(p.SpotOuterDeg)
		l.Shadows = true
		l.ShadowmapSize = p.ShadowmapSize
		l.ShadowFilter = p.ShadowFilter
		l.Position = bounds.Center().Add(offset)
		l.Direction = s.direction.Mul(-1)
	})
	if err != nil {
		h.env.Log.Error("cannot configure spot light", "index", i, "err", err)
	}
}

// createDirectionalLight aims a light from the far negative corner of the
// lattice toward the origin.
func (h *HighInstanceTest) createDirectionalLight() {
	p := h.params
	dir := h.harness.Lattice.Bounds().Max
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	h.directional = h.env.Arena.AcquireDirectionalLight()
	err := h.env.Scene.UpdateDirectionalLight(h.directional, func(l *render.DirectionalLight) {
		l.Color = mgl32.Vec3{1, 1, 1}
		l.Intensity = p.DirectionalIntensity
		l.Direction = dir
		l.CascadeCount = p.DirectionalCascades
		l.ShadowmapSize = p.ShadowmapSize
		l.ShadowFilter = p.ShadowFilter
	})
	if err != nil {
		h.env.Log.Error("cannot configure directional light", "err", err)
	}
}

func (h *HighInstanceTest) destroyLights() {
	if h.directional.IsValid() {
		h.env.Arena.ReleaseLight(&h.directional)
	}
	for i := range h.spots {
		if h.spots[i].handle.IsValid() {
			h.env.Arena.ReleaseLight(&h.spots[i].handle)
		}
	}
}

// SpotLights returns the live spot light handles.
func (h *HighInstanceTest) SpotLights() []render.LightHandle {
	var out []render.LightHandle
	for _, s := range h.spots {
		if s.handle.IsValid() {
			out = append(out, s.handle)
		}
	}
	return out
}

func (h *HighInstanceTest) DirectionalLight() render.LightHandle { return h.directional }

func (h *HighInstanceTest) tick(now float64) {
	if h.Rotate {
		rot := spin(now)
		for _, inst := range h.instances.All() {
			if inst.Mesh.IsValid() {
				_ = h.env.Scene.SetTransform(inst.Mesh, inst.Transform.Mul(rot))
			}
		}
	}

	simple, spots, directional := h.SimpleModels, h.SpotLightsOn, h.DirectionalLightOn
	w := h.env.UI
	h.sidebar.Draw(w, func() {
		w.Checkbox("Update Transforms Every Frame", &h.Rotate)
		w.Separator()
		h.harness.RenderControls(w)
		w.Separator()
		w.Checkbox("Use simple models", &h.SimpleModels)
		w.Separator()
		if h.params.SpotLights > 0 {
			w.Checkbox("Enable SpotLights", &h.SpotLightsOn)
		}
		if h.params.DirectionalLight {
			w.Checkbox("Enable Directional Light", &h.DirectionalLightOn)
		}
		w.Text(fmt.Sprintf("%d instances, %d spot lights", h.instances.Len(), len(h.SpotLights())))
	})

	if spots != h.SpotLightsOn || directional != h.DirectionalLightOn {
		h.destroyLights()
		h.createLights()
	}

	if simple != h.SimpleModels {
		list := HighInstanceExpandedModels
		if h.SimpleModels {
			list = HighInstanceSimpleModels
		}
		h.models.Set(list)
		h.harness.Rebuild()
	}
}

type highInstanceSystem struct {
	Clock ecs.Singleton[Clock]
	test  *HighInstanceTest
}

func (s *highInstanceSystem) Execute(*ecs.UpdateFrame) {
	s.test.tick(s.Clock.Get().Elapsed)
}
