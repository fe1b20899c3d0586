package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sampleviewer/ecs"
	"github.com/plus3/sampleviewer/metrics"
	"github.com/plus3/sampleviewer/render"
)

// PerformanceStats shows frame times from the metrics recorder alongside the
// active sample's storage and scene counts.
type PerformanceStats struct {
	Recorder *metrics.Recorder
	// Storage returns the active sample's storage, or nil between samples.
	Storage func() *ecs.Storage
	Scene   *render.Scene
}

func (ps *PerformanceStats) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(360, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 300), imgui.CondOnce)
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	history := ps.Recorder.History
	avg := history.Average()
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	} else {
		imgui.Text("Avg Frame Time: -")
	}
	imgui.Text(fmt.Sprintf("Min %.2f ms  Max %.2f ms", history.Min(), history.Max()))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	if values := history.Values(); len(values) > 0 {
		imgui.PlotLinesFloatPtr("##frametime", &values[0], int32(len(values)))
	}

	if ps.Scene != nil {
		st := ps.Scene.Stats()
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Meshes: %d", st.Meshes))
		imgui.Text(fmt.Sprintf("Disk Lights: %d", st.DiskLights))
		imgui.Text(fmt.Sprintf("Directional Lights: %d", st.DirectionalLights))
		imgui.Text(fmt.Sprintf("Materials: %d", st.Materials))
	}

	var storage *ecs.Storage
	if ps.Storage != nil {
		storage = ps.Storage()
	}
	if storage != nil {
		stats := storage.CollectStats()
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Total Entities: %d", stats.TotalEntityCount))
		imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))

		if imgui.TreeNodeStr("Archetype Details") {
			const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
			if imgui.BeginTableV("ArchStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
				imgui.TableSetupColumn("Archetype ID")
				imgui.TableSetupColumn("Components")
				imgui.TableSetupColumn("Entity Count")
				imgui.TableHeadersRow()

				for _, arch := range stats.ArchetypeBreakdown {
					imgui.TableNextRow()
					imgui.TableNextColumn()
					imgui.Text(fmt.Sprintf("0x%X", arch.ID))
					imgui.TableNextColumn()
					imgui.Text(fmt.Sprintf("%d", len(arch.ComponentTypes)))
					imgui.TableNextColumn()
					imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
				}

				imgui.EndTable()
			}
			imgui.TreePop()
		}
	}

	if samples := ps.Recorder.Samples(); len(samples) > 0 && imgui.TreeNodeStr("Samples") {
		for _, s := range samples {
			imgui.BulletText(fmt.Sprintf("%s: %d frames, avg %.2f ms", s.Name, s.Frames, float64(s.Average().Microseconds())/1000))
		}
		imgui.TreePop()
	}

	imgui.End()
}
