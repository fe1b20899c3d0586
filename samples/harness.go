package samples

import (
	"log/slog"

	"github.com/plus3/sampleviewer/config"
	"github.com/plus3/sampleviewer/lattice"
	"github.com/plus3/sampleviewer/ui"
)

// LatticeHarness drives a lattice build through a sample's hooks and owns
// the lattice controls.
type LatticeHarness struct {
	Lattice  *lattice.Lattice
	Controls ui.LatticeControls
	hooks    lattice.Hooks
	log      *slog.Logger
	builds   int
}

func NewLatticeHarness(profile config.Profile, dims lattice.Dimensions, hooks lattice.Hooks, log *slog.Logger) *LatticeHarness {
	l := lattice.New(profile.Limits, dims)
	return &LatticeHarness{
		Lattice:  l,
		Controls: ui.LatticeControls{Lattice: l},
		hooks:    hooks,
		log:      log,
	}
}

func (h *LatticeHarness) Build() lattice.Bounds {
	b := h.Lattice.Build(h.hooks)
	h.builds++
	h.log.Debug("lattice built", "instances", h.Lattice.InstanceCount(), "build", h.builds)
	return b
}

func (h *LatticeHarness) Rebuild() lattice.Bounds {
	b := h.Lattice.Rebuild(h.hooks)
	h.builds++
	h.log.Debug("lattice rebuilt", "instances", h.Lattice.InstanceCount(), "build", h.builds)
	return b
}

// Destroy tears the last build down.
func (h *LatticeHarness) Destroy() {
	h.hooks.DestroyInstances()
}

// Builds counts Build and Rebuild calls.
func (h *LatticeHarness) Builds() int { return h.builds }

// RenderControls draws the lattice controls and rebuilds on change.
func (h *LatticeHarness) RenderControls(w ui.Widgets) bool {
	if !h.Controls.Draw(w) {
		return false
	}
	h.Rebuild()
	return true
}
