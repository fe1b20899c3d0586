package main

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/ecs"
	"github.com/plus3/sampleviewer/lattice"
	"github.com/plus3/sampleviewer/metrics"
	"github.com/plus3/sampleviewer/render"
	"github.com/plus3/sampleviewer/samples"
	"github.com/plus3/sampleviewer/screenshot"
	"github.com/plus3/sampleviewer/script"
	"github.com/plus3/sampleviewer/ui"
	"github.com/plus3/sampleviewer/ui/debugui"
	debugui_ebiten "github.com/plus3/sampleviewer/ui/debugui/ebiten"
)

var errCapturePending = errors.New("a capture is already pending")

var background = color.RGBA{R: 24, G: 26, B: 32, A: 255}

// viewer implements ebiten.Game. Sample state lives in the manager's
// per-sample storage; the UI windows live in a storage of their own.
type viewer struct {
	log      *slog.Logger
	manager  *samples.Manager
	widgets  *ui.Scriptable
	scene    *render.Scene
	recorder *metrics.Recorder

	reporter *script.Reporter
	runner   *script.Runner
	capture  string

	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	backend   *ecs.Singleton[debugui_ebiten.ImguiBackend]
	input     *ecs.Singleton[debugui.InputCapture]

	last time.Time
}

func (v *viewer) setupUI(backend debugui_ebiten.ImguiBackend, catalog *asset.Catalog) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[debugui_ebiten.ImguiBackend](registry)
	debugui.RegisterComponents(registry)

	v.storage = ecs.NewStorage(registry)
	ecs.NewSingleton[debugui_ebiten.ImguiBackend](v.storage, backend)

	items := []interface{ Render() }{
		&debugui.SampleMenu{Manager: v.manager, Log: v.log},
		&debugui.ProgressPopup{Manager: v.manager},
		&debugui.PerformanceStats{Recorder: v.recorder, Storage: v.sampleStorage, Scene: v.scene},
		debugui.NewInstanceBrowser(v.manager, catalog, 20),
		&debugui.ScriptReport{Reporter: v.reporter, Runner: v.runner, Log: v.log},
	}
	for _, item := range items {
		v.storage.Spawn(debugui.Window{Render: item.Render})
	}

	v.scheduler = ecs.NewScheduler(v.storage)
	v.scheduler.Register(&debugui.WindowSystem{})
	v.backend = ecs.NewSingleton[debugui_ebiten.ImguiBackend](v.storage)
	v.input = ecs.NewSingleton[debugui.InputCapture](v.storage)
}

func (v *viewer) sampleStorage() *ecs.Storage {
	if env := v.manager.Env(); env != nil {
		return env.Storage
	}
	return nil
}

func (v *viewer) Update() error {
	// capture state is from the previous frame's windows
	if v.input.Get().HotkeysEnabled() {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
			return ebiten.Termination
		case inpututil.IsKeyJustPressed(ebiten.KeyR):
			if err := v.manager.Reset(); err != nil {
				v.log.Error("cannot reset sample", "err", err)
			}
		}
	}
	now := time.Now()
	dt := time.Second / time.Duration(ebiten.TPS())
	if !v.last.IsZero() {
		dt = now.Sub(v.last)
	}
	v.last = now

	v.backend.Get().BeginFrame()
	if v.runner != nil {
		v.runner.Tick(dt)
	}
	v.manager.Tick(dt)
	v.scheduler.Once(dt.Seconds())
	v.backend.Get().EndFrame()

	if v.runner != nil && v.runner.Done() && v.capture == "" {
		v.log.Info("script suite finished")
		return ebiten.Termination
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	v.drawScene(screen)
	if v.capture != "" {
		// Captures exclude the ImGui overlay.
		v.finishCapture(screen)
	}
	v.backend.Get().Draw(screen)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.backend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func (v *viewer) drawScene(screen *ebiten.Image) {
	var meshes []projected
	v.scene.Meshes(func(_ render.MeshHandle, model asset.Id, t lattice.Transform) {
		meshes = append(meshes, projected{t: t, c: modelColor(model)})
	})
	b := screen.Bounds()
	view := fitTopDown(meshes, float32(b.Dx()), float32(b.Dy()))
	for _, m := range meshes {
		x, y, size := view.project(m.t)
		vector.DrawFilledRect(screen, x-size/2, y-size/2, size, size, m.c, false)
	}
}

func (v *viewer) finishCapture(screen *ebiten.Image) {
	path := v.capture
	v.capture = ""
	defer v.runner.Resume()

	b := screen.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	screen.ReadPixels(img.Pix)
	if err := screenshot.SavePNG(path, img); err != nil {
		v.reporter.ReportError("capture " + path + ": " + err.Error())
		return
	}
	v.log.Info("screenshot captured", "path", path)
}

// scriptHost is the viewer as seen by the script runner.
type scriptHost viewer

func (h *scriptHost) SelectSample(name string) error {
	return h.manager.Select(name)
}

func (h *scriptHost) SetWidget(label, value string) {
	h.widgets.Set(label, value)
}

// Capture defers the pixel read to the next Draw and holds the runner until
// it happens.
func (h *scriptHost) Capture(path string) error {
	if h.capture != "" {
		return errCapturePending
	}
	h.capture = path
	h.runner.Pause()
	return nil
}

// scriptControl forwards sample pause requests to the runner, if any.
type scriptControl viewer

func (c *scriptControl) Pause() {
	if c.runner != nil {
		c.runner.Pause()
	}
}

func (c *scriptControl) PauseWithTimeout(d time.Duration) {
	if c.runner != nil {
		c.runner.PauseWithTimeout(d)
	}
}

func (c *scriptControl) Resume() {
	if c.runner != nil {
		c.runner.Resume()
	}
}
