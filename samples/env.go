// Package samples holds the entity lattice test samples and the manager that
// switches between them.
package samples

import (
	"log/slog"
	"time"

	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/config"
	"github.com/plus3/sampleviewer/ecs"
	"github.com/plus3/sampleviewer/prefs"
	"github.com/plus3/sampleviewer/render"
	"github.com/plus3/sampleviewer/ui"
)

// ScriptControl lets a sample hold the script runner while it waits for
// assets.
type ScriptControl interface {
	Pause()
	PauseWithTimeout(d time.Duration)
	Resume()
}

type noScript struct{}

func (noScript) Pause()                         {}
func (noScript) PauseWithTimeout(time.Duration) {}
func (noScript) Resume()                        {}

// Clock is a singleton advanced by the Manager before systems run.
type Clock struct {
	Elapsed float64
	Frame   uint64
}

// Env is everything an active sample may use. A fresh storage, scheduler,
// arena and batch loader are created for every activation.
type Env struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler
	Scene     render.FeatureProcessors
	Arena     *render.Arena
	Catalog   *asset.Catalog
	Assets    *asset.BatchLoader
	Prefs     *prefs.Store
	UI        ui.Widgets
	Script    ScriptControl
	Profile   config.Profile
	Log       *slog.Logger
}

// AddSystem registers a system with the sample's scheduler.
func (e *Env) AddSystem(s ecs.System) {
	e.Scheduler.Register(s)
}
