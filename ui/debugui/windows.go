package debugui

import (
	"fmt"
	"log/slog"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sampleviewer/samples"
	"github.com/plus3/sampleviewer/script"
)

var (
	colorError   = imgui.NewVec4(1.0, 0.3, 0.3, 1.0)
	colorWarning = imgui.NewVec4(1.0, 0.8, 0.0, 1.0)
	colorPass    = imgui.NewVec4(0.0, 1.0, 0.0, 1.0)
)

// SampleMenu lists the registered samples and switches on click.
type SampleMenu struct {
	Manager *samples.Manager
	Log     *slog.Logger
}

func (sm *SampleMenu) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 540), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 170), imgui.CondOnce)
	if !imgui.BeginV("Samples", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	current := ""
	if s := sm.Manager.Current(); s != nil {
		current = s.Name()
	}
	for _, name := range sm.Manager.Names() {
		if imgui.SelectableBoolV(name, name == current, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) && name != current {
			if err := sm.Manager.Select(name); err != nil {
				sm.Log.Error("cannot select sample", "sample", name, "err", err)
			}
		}
	}
	imgui.Separator()
	if imgui.Button("Reset Sample") {
		if err := sm.Manager.Reset(); err != nil {
			sm.Log.Error("cannot reset sample", "err", err)
		}
	}
	imgui.End()
}

// ProgressPopup shows a bar while the active sample waits on a batch.
type ProgressPopup struct {
	Manager *samples.Manager

	// largest pending count seen for the current batch
	total int
}

func (pp *ProgressPopup) Render() {
	env := pp.Manager.Env()
	if env == nil || !env.Assets.Busy() {
		pp.total = 0
		return
	}
	pending := len(env.Assets.Pending())
	pp.total = max(pp.total, pending)

	imgui.SetNextWindowPosV(imgui.NewVec2(360, 640), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 70), imgui.CondOnce)
	if imgui.BeginV("Asset Loading", nil, imgui.WindowFlagsNoCollapse) {
		fraction := float32(1)
		if pp.total > 0 {
			fraction = float32(pp.total-pending) / float32(pp.total)
		}
		imgui.ProgressBarV(fraction, imgui.NewVec2(-1, 0), fmt.Sprintf("%d/%d", pp.total-pending, pp.total))
	}
	imgui.End()
}

// ScriptReport shows issues and screenshot comparisons for each script run.
type ScriptReport struct {
	Reporter *script.Reporter
	Runner   *script.Runner
	Log      *slog.Logger
}

func (sr *ScriptReport) Render() {
	if sr.Reporter == nil || len(sr.Reporter.Reports()) == 0 {
		return
	}
	imgui.SetNextWindowPosV(imgui.NewVec2(930, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(340, 500), imgui.CondOnce)
	if !imgui.BeginV("Script Results", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if sr.Runner != nil {
		switch {
		case sr.Runner.Done():
			imgui.Text("Finished")
		case sr.Runner.Paused():
			imgui.TextColored(colorWarning, "PAUSED")
		default:
			imgui.TextColored(colorPass, "RUNNING")
		}
	}

	for _, rep := range sr.Reporter.Reports() {
		label := fmt.Sprintf("%s (%d errors, %d warnings)", rep.Name, rep.ErrorCount(), rep.WarningCount())
		if !imgui.TreeNodeStr(label) {
			continue
		}
		for _, issue := range rep.Issues {
			c := colorWarning
			if issue.Severity == script.SeverityError {
				c = colorError
			}
			imgui.TextColored(c, issue.Message)
		}
		for _, st := range rep.Screenshots {
			imgui.BulletText(st.Path)
			imgui.Indent()
			c := colorPass
			if !st.Official.Passed() {
				c = colorError
			}
			level := "no level"
			if st.Level != nil {
				level = st.Level.String()
			}
			imgui.TextColored(c, fmt.Sprintf("official %s: %s", level, st.Official.Summary()))
			c = colorPass
			if !st.Local.Passed() {
				c = colorWarning
			}
			imgui.TextColored(c, fmt.Sprintf("local: %s", st.Local.Summary()))
			imgui.Unindent()
		}
		imgui.TreePop()
	}

	if imgui.Button("Update Local Baselines") {
		n, err := sr.Reporter.UpdateLocalBaselines()
		if err != nil {
			sr.Log.Error("cannot update local baselines", "err", err)
		} else {
			sr.Log.Info("local baselines updated", "count", n)
		}
	}
	imgui.End()
}
