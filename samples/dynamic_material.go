package samples

import (
	"fmt"
	"math"
	"time"

	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/ecs"
	"github.com/plus3/sampleviewer/lattice"
	"github.com/plus3/sampleviewer/metrics"
	"github.com/plus3/sampleviewer/random"
	"github.com/plus3/sampleviewer/render"
	"github.com/plus3/sampleviewer/ui"
)

const (
	DynamicMaterialModel = "objects/shaderball_simple.azmodel"
	emissiveProperty     = "emissive.intensity"
	compileHistory       = 100
)

// MaterialConfig is one material the test can animate and how it animates.
type MaterialConfig struct {
	Name     string
	Material string
	update   func(d *DynamicMaterialTest)
}

var DynamicMaterialConfigs = []MaterialConfig{
	{Name: "Default StandardPBR Material", Material: DefaultPbrMaterial, update: (*DynamicMaterialTest).updateColors},
	{Name: "C++ Functor Test Material", Material: "materials/dynamicmaterialtest/emissivewithcppfunctors.azmaterial", update: (*DynamicMaterialTest).updateEmissive},
	{Name: "Lua Functor Test Material", Material: "materials/dynamicmaterialtest/emissivewithluafunctors.azmaterial", update: (*DynamicMaterialTest).updateEmissive},
}

// DynamicMaterialTest gives every cell its own material instance and changes
// a property on all of them each frame, measuring how long recompiling takes.
type DynamicMaterialTest struct {
	env       *Env
	harness   *LatticeHarness
	instances *InstanceStore
	sidebar   *ui.Sidebar
	histogram ui.HistogramPanel

	model    asset.Id
	material asset.Id

	Config int
	Paused bool
	// seconds of animation, advanced only while the meshes are ready
	Time float64

	ready   bool
	loading bool
	now     func() time.Time
}

func NewDynamicMaterialTest() Sample {
	return &DynamicMaterialTest{now: time.Now}
}

func (d *DynamicMaterialTest) Name() string { return "DynamicMaterialTest" }

func (d *DynamicMaterialTest) Activate(env *Env) error {
	d.env = env
	d.instances = NewInstanceStore(env.Storage)
	d.sidebar = ui.NewSidebar(d.Name(), "@user@/DynamicMaterialTest/sidebar.toml", env.Prefs, env.Log)
	d.histogram = ui.HistogramPanel{
		Label:  "Material Update Time",
		Unit:   "us",
		Values: metrics.NewHistogramQueue(compileHistory),
	}
	d.model = resolve(env, DynamicMaterialModel, asset.TypeModel)
	d.selectConfig(d.Config)

	d.harness = NewLatticeHarness(env.Profile, env.Profile.Defaults, d, env.Log)
	d.harness.Build()

	env.AddSystem(&dynamicMaterialSystem{test: d})
	return nil
}

func (d *DynamicMaterialTest) Deactivate() {
	d.harness.Destroy()
}

func (d *DynamicMaterialTest) selectConfig(i int) {
	d.Config = min(max(i, 0), len(DynamicMaterialConfigs)-1)
	d.material = resolve(d.env, DynamicMaterialConfigs[d.Config].Material, asset.TypeMaterial)
}

func (d *DynamicMaterialTest) PrepareInstances(int) {}

func (d *DynamicMaterialTest) CreateInstance(t lattice.Transform) {
	d.instances.Add(Instance{Transform: t, Model: d.model, Material: d.material})
}

func (d *DynamicMaterialTest) FinalizeInstances() {
	d.ready = false
	d.loading = true
	preload(d.env, referencedIds(d.instances), func(res asset.BatchResult) {
		d.loading = false
		acquireMeshes(d.env, d.instances, failedIds(res), func(inst *Instance) *render.Material {
			return d.env.Scene.CreateMaterial(inst.Material)
		})
		d.ready = true
		d.Time = 0
	})
}

func (d *DynamicMaterialTest) DestroyInstances() {
	if d.loading {
		d.env.Assets.Cancel()
		d.env.Script.Resume()
		d.loading = false
	}
	d.ready = false
	d.instances.releaseMeshes(d.env.Arena)
	d.instances.Clear()
}

// Ready reports whether every mesh has its material instance.
func (d *DynamicMaterialTest) Ready() bool { return d.ready }

// UniqueMaterials counts the live material instances.
func (d *DynamicMaterialTest) UniqueMaterials() int {
	n := 0
	for _, inst := range d.instances.All() {
		if inst.MaterialInstance != nil {
			n++
		}
	}
	return n
}

// updateColors blends two colors per material. The generator restarts each
// frame so each material keeps its pair of colors.
func (d *DynamicMaterialTest) updateColors() {
	rng := random.NewLcg(random.DefaultSeed)
	t := wave(d.Time * 0.5 * 2 * math.Pi)
	for _, inst := range d.instances.All() {
		if inst.MaterialInstance != nil {
			inst.MaterialInstance.SetProperty(colorProperty, blendedColor(rng, t))
		}
	}
}

// updateEmissive pulses emissive intensity outward from the origin.
func (d *DynamicMaterialTest) updateEmissive() {
	for _, inst := range d.instances.All() {
		if inst.MaterialInstance == nil {
			continue
		}
		dist := float64(inst.Transform.Translation.Len())
		t := wave((0.02*dist + d.Time*0.5) * 2 * math.Pi)
		inst.MaterialInstance.SetProperty(emissiveProperty, 1+3*t)
	}
}

// compile recompiles dirty materials and records the time taken.
func (d *DynamicMaterialTest) compile() int {
	start := d.now()
	n := 0
	for _, inst := range d.instances.All() {
		if m := inst.MaterialInstance; m != nil && m.NeedsCompile() && m.Compile() {
			n++
		}
	}
	d.histogram.Values.Push(float32(d.now().Sub(start).Microseconds()))
	return n
}

func (d *DynamicMaterialTest) tick(dt float64) {
	if d.ready && !d.Paused {
		d.Time += dt
		DynamicMaterialConfigs[d.Config].update(d)
		d.compile()
	}

	config := d.Config
	w := d.env.UI
	d.sidebar.Draw(w, func() {
		for i, c := range DynamicMaterialConfigs {
			if w.Selectable(c.Name, i == d.Config) {
				config = i
			}
		}
		w.Separator()
		d.harness.RenderControls(w)
		w.Separator()
		w.Checkbox("Pause", &d.Paused)
		if w.Button("Reset Clock") {
			d.Time = 0
		}
		w.Separator()
		unique := d.UniqueMaterials()
		w.Text(fmt.Sprintf("%d unique objects", unique))
		d.histogram.Draw(w)
		if unique > 0 {
			w.Text(fmt.Sprintf("Average per Material: %4.2f", d.histogram.Values.Average()/float32(unique)))
		}
	})

	if config != d.Config {
		d.selectConfig(config)
		d.harness.Rebuild()
	}
}

type dynamicMaterialSystem struct {
	test *DynamicMaterialTest
}

func (s *dynamicMaterialSystem) Execute(frame *ecs.UpdateFrame) {
	s.test.tick(frame.DeltaTime)
}
