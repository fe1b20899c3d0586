package samples

import (
	"fmt"

	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/ecs"
	"github.com/plus3/sampleviewer/lattice"
	"github.com/plus3/sampleviewer/random"
	"github.com/plus3/sampleviewer/ui"
)

const (
	DefaultPbrMaterial = "materials/defaultpbr.azmaterial"
	FallbackModel      = "testdata/objects/cube/cube.azmodel"
)

var (
	AssetLoadModels = []string{
		"Objects/bunny.azmodel",
		"Objects/Shaderball_simple.azmodel",
		"Objects/suzanne.azmodel",
	}
	AssetLoadMaterials = []string{
		"materials/defaultpbr.azmaterial",
		"materials/presets/pbr/metal_aluminum_polished.azmaterial",
		"shaders/staticmesh_colorr.azmaterial",
		"shaders/staticmesh_colorg.azmaterial",
		"shaders/staticmesh_colorb.azmaterial",
	}
)

// AssetLoadTest fills the lattice with random models and materials from two
// allow-lists and keeps swapping them to stress asset loading.
type AssetLoadTest struct {
	env       *Env
	harness   *LatticeHarness
	instances *InstanceStore
	sidebar   *ui.Sidebar
	models    *ui.AllowList
	materials *ui.AllowList
	progress  *ui.ProgressList
	rng       *random.Lcg

	modelIds    []asset.Id
	materialIds []asset.Id
	fallback    struct{ model, material asset.Id }

	MaterialSwitch        bool
	ModelSwitch           bool
	Rotate                bool
	MaterialSwitchSeconds float32
	ModelSwitchSeconds    float32

	started            bool
	lastMaterialSwitch float64
	lastModelSwitch    float64
	loading            bool
	lastFailed         int
}

func NewAssetLoadTest() Sample {
	return &AssetLoadTest{
		rng:                   random.NewTimeSeeded(),
		MaterialSwitch:        true,
		ModelSwitch:           true,
		MaterialSwitchSeconds: 5,
		ModelSwitchSeconds:    3,
	}
}

func (a *AssetLoadTest) Name() string { return "AssetLoadTest" }

func (a *AssetLoadTest) Activate(env *Env) error {
	a.env = env
	a.instances = NewInstanceStore(env.Storage)
	a.sidebar = ui.NewSidebar(a.Name(), "@user@/AssetLoadTest/sidebar.toml", env.Prefs, env.Log)
	a.materials = ui.NewAllowList("Materials", asset.TypeMaterial, AssetLoadMaterials, env.Catalog, env.Prefs,
		"@user@/AssetLoadTest/material_browser.toml", env.Log)
	a.models = ui.NewAllowList("Models", asset.TypeModel, AssetLoadModels, env.Catalog, env.Prefs,
		"@user@/AssetLoadTest/model_browser.toml", env.Log)
	a.progress = &ui.ProgressList{
		Title:   "Loading Assets",
		Pending: env.Assets.Pending,
		Cancel:  a.cancelLoad,
	}
	a.fallback.model = resolve(env, FallbackModel, asset.TypeModel)
	a.fallback.material = resolve(env, DefaultPbrMaterial, asset.TypeMaterial)

	a.harness = NewLatticeHarness(env.Profile, env.Profile.Defaults, a, env.Log)
	a.harness.Controls.ShowSpacing = true
	a.harness.Controls.ShowScale = true
	a.harness.Build()

	env.AddSystem(&assetLoadSystem{test: a})
	return nil
}

func (a *AssetLoadTest) Deactivate() {
	a.harness.Destroy()
}

func (a *AssetLoadTest) PrepareInstances(count int) {
	a.modelIds = a.models.Ids()
	a.materialIds = a.materials.Ids()
	a.env.Log.Debug("preparing instances", "count", count, "models", len(a.modelIds), "materials", len(a.materialIds))
}

func (a *AssetLoadTest) CreateInstance(t lattice.Transform) {
	a.instances.Add(Instance{
		Transform: t,
		Model:     random.Pick(a.rng, a.modelIds, a.fallback.model),
		Material:  random.Pick(a.rng, a.materialIds, a.fallback.material),
	})
}

func (a *AssetLoadTest) FinalizeInstances() {
	a.load()
}

func (a *AssetLoadTest) DestroyInstances() {
	a.cancelLoad()
	a.instances.releaseMeshes(a.env.Arena)
	a.instances.Clear()
}

func (a *AssetLoadTest) load() {
	a.loading = true
	preload(a.env, referencedIds(a.instances), func(res asset.BatchResult) {
		a.loading = false
		a.lastFailed = len(res.Failed)
		acquireMeshes(a.env, a.instances, failedIds(res), sharedMaterial(a.env))
		// switch periods count from the first frame with meshes
		a.started = false
	})
}

func (a *AssetLoadTest) cancelLoad() {
	if !a.loading {
		return
	}
	a.env.Assets.Cancel()
	a.loading = false
	a.env.Script.Resume()
}

// Loading reports whether a preload batch is outstanding.
func (a *AssetLoadTest) Loading() bool { return a.loading }

// tick is suspended while a batch is loading, apart from the progress
// list. Switching then would cancel the batch before it could complete.
func (a *AssetLoadTest) tick(now float64) {
	if a.loading {
		a.progress.Draw(a.env.UI)
		return
	}
	if !a.started {
		a.lastMaterialSwitch, a.lastModelSwitch = now, now
		a.started = true
		return
	}
	materialDue := a.MaterialSwitch && now-a.lastMaterialSwitch >= float64(a.MaterialSwitchSeconds)
	modelDue := a.ModelSwitch && now-a.lastModelSwitch >= float64(a.ModelSwitchSeconds)

	if a.Rotate {
		rot := spin(now)
		for _, inst := range a.instances.All() {
			if inst.Mesh.IsValid() {
				_ = a.env.Scene.SetTransform(inst.Mesh, inst.Transform.Mul(rot))
			}
		}
	}

	var materialsChanged, modelsChanged bool
	w := a.env.UI
	a.sidebar.Draw(w, func() {
		w.Checkbox("Switch Materials Every N Seconds", &a.MaterialSwitch)
		w.SliderFloat("##MaterialSwitchTime", &a.MaterialSwitchSeconds, 0.1, 10)
		w.Spacing()
		w.Checkbox("Switch Models Every N Seconds", &a.ModelSwitch)
		w.SliderFloat("##ModelSwitchTime", &a.ModelSwitchSeconds, 0.1, 10)
		w.Spacing()
		w.Checkbox("Update Transforms Every Frame", &a.Rotate)
		w.Separator()

		a.harness.RenderControls(w)
		w.Separator()

		materialsChanged = a.materials.Draw(w)
		modelsChanged = a.models.Draw(w)
		if a.lastFailed > 0 {
			w.Text(fmt.Sprintf("%d assets failed to load", a.lastFailed))
		}
	})
	a.progress.Draw(w)

	if materialDue || materialsChanged {
		a.materialIds = a.materials.Ids()
		for _, inst := range a.instances.All() {
			inst.Material = random.Pick(a.rng, a.materialIds, a.fallback.material)
		}
		a.lastMaterialSwitch = now
	}
	if modelDue || modelsChanged {
		a.modelIds = a.models.Ids()
		for _, inst := range a.instances.All() {
			inst.Model = random.Pick(a.rng, a.modelIds, a.fallback.model)
		}
		a.lastModelSwitch = now
	}
	if materialDue || materialsChanged || modelDue || modelsChanged {
		a.instances.releaseMeshes(a.env.Arena)
		a.load()
	}
}

type assetLoadSystem struct {
	Clock ecs.Singleton[Clock]
	test  *AssetLoadTest
}

func (s *assetLoadSystem) Execute(*ecs.UpdateFrame) {
	s.test.tick(s.Clock.Get().Elapsed)
}
