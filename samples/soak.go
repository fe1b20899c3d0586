package samples

import (
	"fmt"

	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/ecs"
	"github.com/plus3/sampleviewer/lattice"
	"github.com/plus3/sampleviewer/random"
	"github.com/plus3/sampleviewer/render"
)

const SoakModel = "objects/shaderball_simple.azmodel"

// SoakInterval is one phase of the reload schedule: rebuild every Seconds,
// Count times.
type SoakInterval struct {
	Seconds float64
	Count   int
}

var SoakSchedule = []SoakInterval{
	{Seconds: 2.0, Count: 1},
	{Seconds: 0.2, Count: 50},
	{Seconds: 0.5, Count: 10},
	{Seconds: 1.0, Count: 5},
}

// SceneReloadSoakTest tears down and rebuilds a small lattice on a cycling
// schedule, animating material colors in between.
type SceneReloadSoakTest struct {
	env       *Env
	harness   *LatticeHarness
	instances *InstanceStore

	model    asset.Id
	material asset.Id

	Total     float64
	Countdown float64
	Resets    int

	phase     int
	phaseLeft int
}

func NewSceneReloadSoakTest() Sample {
	return &SceneReloadSoakTest{}
}

func (s *SceneReloadSoakTest) Name() string { return "SceneReloadSoakTest" }

func (s *SceneReloadSoakTest) Activate(env *Env) error {
	s.env = env
	s.instances = NewInstanceStore(env.Storage)
	s.model = resolve(env, SoakModel, asset.TypeModel)
	s.material = resolve(env, DefaultPbrMaterial, asset.TypeMaterial)
	s.Total, s.Resets = 0, 0
	s.phase, s.phaseLeft = 0, SoakSchedule[0].Count
	s.Countdown = SoakSchedule[0].Seconds

	n := env.Profile.SoakSize
	s.harness = NewLatticeHarness(env.Profile, lattice.Dimensions{Width: n, Height: n, Depth: n}, s, env.Log)
	s.harness.Build()

	env.AddSystem(&soakSystem{test: s})
	return nil
}

func (s *SceneReloadSoakTest) Deactivate() {
	s.harness.Destroy()
}

func (s *SceneReloadSoakTest) PrepareInstances(int) {}

func (s *SceneReloadSoakTest) CreateInstance(t lattice.Transform) {
	s.instances.Add(Instance{Transform: t, Model: s.model, Material: s.material})
}

// FinalizeInstances acquires meshes straight away. Even cells get a unique
// material, odd cells share one.
func (s *SceneReloadSoakTest) FinalizeInstances() {
	acquireMeshes(s.env, s.instances, nil, func(inst *Instance) *render.Material {
		if inst.Cell%2 == 0 {
			return s.env.Scene.CreateMaterial(inst.Material)
		}
		return s.env.Scene.FindOrCreateMaterial(inst.Material)
	})
}

func (s *SceneReloadSoakTest) DestroyInstances() {
	s.instances.releaseMeshes(s.env.Arena)
	s.instances.Clear()
}

// updateColors animates every unique material and the first shared one.
func (s *SceneReloadSoakTest) updateColors() {
	rng := random.NewLcg(random.DefaultSeed)
	t := wave(s.Total * 4)
	sharedDone := false
	for _, inst := range s.instances.All() {
		m := inst.MaterialInstance
		if m == nil {
			continue
		}
		if m.Shared() {
			if sharedDone {
				continue
			}
			sharedDone = true
		}
		m.SetProperty(colorProperty, blendedColor(rng, t))
		m.Compile()
	}
}

// Interval returns the current schedule phase.
func (s *SceneReloadSoakTest) Interval() SoakInterval { return SoakSchedule[s.phase] }

func (s *SceneReloadSoakTest) advance(dt float64) {
	s.Total += dt
	s.Countdown -= dt
	if s.Countdown > 0 {
		return
	}
	s.phaseLeft--
	if s.phaseLeft <= 0 {
		s.phase = (s.phase + 1) % len(SoakSchedule)
		s.phaseLeft = SoakSchedule[s.phase].Count
	}
	s.Countdown = SoakSchedule[s.phase].Seconds
	s.Resets++
	s.env.Log.Info("scene reload", "resets", s.Resets, "interval", s.Countdown)
	s.harness.Rebuild()
}

func (s *SceneReloadSoakTest) tick(dt float64) {
	s.advance(dt)
	s.updateColors()

	w := s.env.UI
	if w.Begin(s.Name(), nil) {
		w.Text(fmt.Sprintf("Reset in: %.2fs", max(s.Countdown, 0)))
		w.Text(fmt.Sprintf("Reset count: %d", s.Resets))
	}
	w.End()
}

type soakSystem struct {
	test *SceneReloadSoakTest
}

func (s *soakSystem) Execute(frame *ecs.UpdateFrame) {
	s.test.tick(frame.DeltaTime)
}
