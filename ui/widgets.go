// Package ui holds the immediate-mode controls shared by the samples. Controls
// draw through the Widgets interface so they run unchanged under Dear ImGui,
// under script control, and headless.
package ui

// Widgets is the subset of an immediate-mode GUI the samples use. Every
// method that edits a value reports whether it changed this frame.
type Widgets interface {
	Begin(title string, open *bool) bool
	End()
	Text(s string)
	Separator()
	Spacing()
	SameLine()
	CollapsingHeader(label string) bool
	Checkbox(label string, v *bool) bool
	SliderInt(label string, v *int32, lo, hi int32) bool
	SliderFloat(label string, v *float32, lo, hi float32) bool
	Button(label string) bool
	Selectable(label string, selected bool) bool
	PlotLines(label string, values []float32)
}

// Nop draws nothing and never reports a change. Windows and headers are
// treated as open so their contents still run.
type Nop struct{}

var _ Widgets = Nop{}

func (Nop) Begin(string, *bool) bool                            { return true }
func (Nop) End()                                                {}
func (Nop) Text(string)                                         {}
func (Nop) Separator()                                          {}
func (Nop) Spacing()                                            {}
func (Nop) SameLine()                                           {}
func (Nop) CollapsingHeader(string) bool                        { return true }
func (Nop) Checkbox(string, *bool) bool                         { return false }
func (Nop) SliderInt(string, *int32, int32, int32) bool         { return false }
func (Nop) SliderFloat(string, *float32, float32, float32) bool { return false }
func (Nop) Button(string) bool                                  { return false }
func (Nop) Selectable(string, bool) bool                        { return false }
func (Nop) PlotLines(string, []float32)                         {}
