package samples

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/config"
	"github.com/plus3/sampleviewer/ecs"
	"github.com/plus3/sampleviewer/internal/logx"
	"github.com/plus3/sampleviewer/metrics"
	"github.com/plus3/sampleviewer/prefs"
	"github.com/plus3/sampleviewer/render"
	"github.com/plus3/sampleviewer/ui"
)

var ErrUnknownSample = errors.New("unknown sample")

// Sample is one selectable test. Activate receives a fresh Env; Deactivate
// must release everything the sample acquired through it.
type Sample interface {
	Name() string
	Activate(env *Env) error
	Deactivate()
}

type Factory func() Sample

// Options are the collaborators shared by every sample activation.
type Options struct {
	Scene       render.FeatureProcessors
	Catalog     *asset.Catalog
	Loader      asset.Loader
	Concurrency int
	Prefs       *prefs.Store
	UI          ui.Widgets
	Script      ScriptControl
	Profile     config.Profile
	Log         *slog.Logger
	// Metrics is optional.
	Metrics *metrics.Recorder
}

// Manager owns the active sample and switches between registered ones.
type Manager struct {
	opts      Options
	factories map[string]Factory
	names     []string
	current   Sample
	env       *Env
}

func NewManager(opts Options) *Manager {
	if opts.UI == nil {
		opts.UI = ui.Nop{}
	}
	if opts.Script == nil {
		opts.Script = noScript{}
	}
	if opts.Log == nil {
		opts.Log = logx.Discard()
	}
	opts.Concurrency = max(opts.Concurrency, 1)
	return &Manager{opts: opts, factories: make(map[string]Factory)}
}

// RegisterDefaults registers the lattice samples.
func (m *Manager) RegisterDefaults() {
	m.Register("AssetLoadTest", NewAssetLoadTest)
	m.Register("DynamicMaterialTest", NewDynamicMaterialTest)
	m.Register("HighInstanceTest", NewHighInstanceTest(DefaultHighInstanceParams()))
	m.Register("HighInstanceTest_Shadows", NewHighInstanceTest(ShadowedHighInstanceParams()))
	m.Register("SceneReloadSoakTest", NewSceneReloadSoakTest)
}

func (m *Manager) Register(name string, f Factory) {
	if _, ok := m.factories[name]; !ok {
		m.names = append(m.names, name)
	}
	m.factories[name] = f
}

// Names returns the registered sample names in registration order.
func (m *Manager) Names() []string {
	return slices.Clone(m.names)
}

func (m *Manager) Current() Sample { return m.current }

// Env returns the active sample's environment, or nil.
func (m *Manager) Env() *Env { return m.env }

// Select deactivates the current sample and activates name on a fresh
// storage and scheduler.
func (m *Manager) Select(name string) error {
	f, ok := m.factories[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownSample)
	}
	m.deactivate()

	registry := ecs.NewComponentRegistry()
	registerComponents(registry)
	storage := ecs.NewStorage(registry)
	storage.AddSingleton(Clock{})

	log := m.opts.Log.With("sample", name)
	env := &Env{
		Storage:   storage,
		Scheduler: ecs.NewScheduler(storage),
		Scene:     m.opts.Scene,
		Arena:     render.NewArena(m.opts.Scene),
		Catalog:   m.opts.Catalog,
		Assets:    asset.NewBatchLoader(m.opts.Catalog, m.opts.Loader, m.opts.Concurrency, log),
		Prefs:     m.opts.Prefs,
		UI:        m.opts.UI,
		Script:    m.opts.Script,
		Profile:   m.opts.Profile,
		Log:       log,
	}

	s := f()
	if err := s.Activate(env); err != nil {
		env.Assets.Close()
		env.Arena.ReleaseAll()
		return fmt.Errorf("activate %s: %w", name, err)
	}
	m.current, m.env = s, env
	if m.opts.Metrics != nil {
		m.opts.Metrics.BeginSample(name)
	}
	log.Info("sample activated", "instances", storage.EntityCount())
	return nil
}

// Reset reactivates the current sample.
func (m *Manager) Reset() error {
	if m.current == nil {
		return nil
	}
	return m.Select(m.current.Name())
}

func (m *Manager) deactivate() {
	if m.current == nil {
		return
	}
	m.current.Deactivate()
	m.env.Assets.Close()
	if n := m.env.Arena.ReleaseAll(); n > 0 {
		m.env.Log.Warn("sample leaked render handles", "count", n)
	}
	m.env.Scheduler.Reset()
	m.env.Log.Info("sample deactivated")
	m.current, m.env = nil, nil
}

// Tick delivers finished asset loads, advances the clock and runs the active
// sample's systems.
func (m *Manager) Tick(dt time.Duration) {
	if m.env == nil {
		return
	}
	m.env.Assets.Poll()
	if clock, ok := ecs.ReadSingleton[Clock](m.env.Storage); ok {
		clock.Elapsed += dt.Seconds()
		clock.Frame++
	}
	m.env.Scheduler.Once(dt.Seconds())
	if m.opts.Metrics != nil {
		m.opts.Metrics.RecordFrame(dt)
	}
}

// Close deactivates the current sample.
func (m *Manager) Close() {
	m.deactivate()
}

// DefaultAssetPaths lists every product the registered samples reference by
// default, for catalogs built without an asset tree.
func DefaultAssetPaths() []string {
	lists := [][]string{
		AssetLoadModels, AssetLoadMaterials,
		HighInstanceMaterials, HighInstanceSimpleModels, HighInstanceExpandedModels,
		{FallbackModel, DefaultPbrMaterial, highInstanceFallbackModel, DynamicMaterialModel, SoakModel},
	}
	for _, c := range DynamicMaterialConfigs {
		lists = append(lists, []string{c.Material})
	}
	var out []string
	for _, l := range lists {
		for _, p := range l {
			if n := asset.Normalize(p); !slices.Contains(out, n) {
				out = append(out, n)
			}
		}
	}
	return out
}
