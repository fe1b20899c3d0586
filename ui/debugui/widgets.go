package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sampleviewer/ui"
)

// Widgets draws sample controls with Dear ImGui. Calls must happen between
// the backend's BeginFrame and EndFrame.
type Widgets struct{}

var _ ui.Widgets = Widgets{}

func (Widgets) Begin(title string, open *bool) bool {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 520), imgui.CondOnce)
	return imgui.BeginV(title, open, imgui.WindowFlagsNone)
}

func (Widgets) End()          { imgui.End() }
func (Widgets) Text(s string) { imgui.Text(s) }
func (Widgets) Separator()    { imgui.Separator() }
func (Widgets) Spacing()      { imgui.Spacing() }
func (Widgets) SameLine()     { imgui.SameLine() }

func (Widgets) Button(label string) bool {
	return imgui.Button(label)
}

func (Widgets) CollapsingHeader(label string) bool {
	return imgui.CollapsingHeaderTreeNodeFlagsV(label, imgui.TreeNodeFlagsDefaultOpen)
}

func (Widgets) Checkbox(label string, v *bool) bool {
	return imgui.Checkbox(label, v)
}

func (Widgets) SliderInt(label string, v *int32, lo, hi int32) bool {
	return imgui.SliderInt(label, v, lo, hi)
}

func (Widgets) SliderFloat(label string, v *float32, lo, hi float32) bool {
	return imgui.SliderFloat(label, v, lo, hi)
}

func (Widgets) Selectable(label string, selected bool) bool {
	return imgui.SelectableBoolV(label, selected, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0))
}

func (Widgets) PlotLines(label string, values []float32) {
	if len(values) == 0 {
		return
	}
	imgui.PlotLinesFloatPtr("##"+label, &values[0], int32(len(values)))
}
