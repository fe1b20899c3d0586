// Package debugui draws the sample viewer's windows with Dear ImGui. Each
// window is an entity holding a Window component; WindowSystem queues their
// draw calls once per frame. Sample controls go through Widgets, the cimgui
// implementation of ui.Widgets.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sampleviewer/ecs"
)

// Window draws one viewer window.
type Window struct {
	Render func()
}

// InputCapture records whether ImGui wants this frame's input. The viewer's
// hotkeys are ignored while a text field or window has the keyboard.
type InputCapture struct {
	Mouse    bool
	Keyboard bool
}

// HotkeysEnabled reports whether viewer hotkeys may act this frame.
func (c *InputCapture) HotkeysEnabled() bool {
	return c != nil && !c.Keyboard
}

type WindowSystem struct {
	Windows ecs.Query[struct{ *Window }]
	Input   ecs.Singleton[InputCapture]
}

func (s *WindowSystem) Execute(frame *ecs.UpdateFrame) {
	io := imgui.CurrentIO()
	capture := s.Input.Get()
	capture.Mouse, capture.Keyboard = io.WantCaptureMouse(), io.WantCaptureKeyboard()

	// ImGui calls must run after the sample systems, on the flush.
	for w := range s.Windows.Values() {
		frame.Commands.Defer(w.Render)
	}
}

func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Window](registry)
	ecs.RegisterComponent[InputCapture](registry)
}
