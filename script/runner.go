package script

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

// Host is what a Runner drives.
type Host interface {
	SelectSample(name string) error
	SetWidget(label, value string)
	Capture(path string) error
}

// Runner steps through scripts one tick at a time. Idle commands and pauses
// suspend it; everything else runs to completion within the tick.
type Runner struct {
	host          Host
	reporter      *Reporter
	screenshotDir string
	log           *slog.Logger

	scripts []Script
	script  int
	pc      int
	started bool

	idle       time.Duration
	idleFrames int

	paused    bool
	timed     bool
	pauseLeft time.Duration
}

func NewRunner(host Host, reporter *Reporter, screenshotDir string, log *slog.Logger) *Runner {
	return &Runner{host: host, reporter: reporter, screenshotDir: screenshotDir, log: log}
}

// Load replaces the queued scripts and starts from the first.
func (r *Runner) Load(scripts []Script) {
	r.scripts = scripts
	r.script, r.pc, r.started = 0, 0, false
	r.idle, r.idleFrames = 0, 0
	r.paused, r.timed = false, false
}

func (r *Runner) Running() bool { return r.script < len(r.scripts) }
func (r *Runner) Done() bool    { return !r.Running() }
func (r *Runner) Paused() bool  { return r.paused }

// Pause suspends the runner until Resume.
func (r *Runner) Pause() {
	r.paused, r.timed = true, false
}

// PauseWithTimeout suspends the runner until Resume or until d has elapsed,
// in which case an error is reported and the runner carries on.
func (r *Runner) PauseWithTimeout(d time.Duration) {
	r.paused, r.timed, r.pauseLeft = true, true, d
}

func (r *Runner) Resume() {
	r.paused, r.timed = false, false
}

func (r *Runner) Tick(dt time.Duration) {
	if r.Done() {
		return
	}
	if r.paused {
		if !r.timed {
			return
		}
		r.pauseLeft -= dt
		if r.pauseLeft > 0 {
			return
		}
		r.reporter.ReportError("script pause timed out")
		r.Resume()
		return
	}
	if r.idleFrames > 0 {
		r.idleFrames--
		return
	}
	if r.idle > 0 {
		r.idle -= dt
		if r.idle > 0 {
			return
		}
		r.idle = 0
	}

	for r.Running() {
		s := &r.scripts[r.script]
		if !r.started {
			r.reporter.PushScript(s.Name)
			r.started, r.pc = true, 0
		}
		if r.pc >= len(s.Commands) {
			r.reporter.PopScript()
			r.script++
			r.started = false
			continue
		}
		cmd := s.Commands[r.pc]
		r.pc++
		if r.exec(cmd) || r.paused {
			return
		}
	}
}

// exec runs one command and reports whether it suspends the runner.
func (r *Runner) exec(cmd Command) bool {
	r.log.Debug("script command", "pos", cmd.Pos, "cmd", cmd)
	switch cmd.Verb {
	case "sample":
		if err := r.host.SelectSample(cmd.Args[0]); err != nil {
			r.reporter.ReportError(fmt.Sprintf("%s: %v", cmd.Pos, err))
		}
	case "idle":
		r.idle = cmd.Duration
		return r.idle > 0
	case "idleframes":
		r.idleFrames = cmd.Frames
		return r.idleFrames > 0
	case "set":
		r.host.SetWidget(cmd.Args[0], cmd.Args[1])
	case "capture":
		path := filepath.Join(r.screenshotDir, filepath.FromSlash(cmd.Args[0]))
		if err := r.host.Capture(path); err != nil {
			r.reporter.ReportError(fmt.Sprintf("%s: capture failed: %v", cmd.Pos, err))
			return false
		}
		r.reporter.AddScreenshotTest(path)
	case "compare":
		r.reporter.CheckLatestScreenshot(cmd.Args[0])
	default:
		r.reporter.ReportError(fmt.Sprintf("%s: %v %q", cmd.Pos, ErrUnknownCommand, cmd.Verb))
	}
	return false
}
