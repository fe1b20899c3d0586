package script_test

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/plus3/sampleviewer/internal/logx"
	"github.com/plus3/sampleviewer/screenshot"
	"github.com/plus3/sampleviewer/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gray(v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
	}
	return img
}

type fakeHost struct {
	samples  []string
	widgets  map[string]string
	captures []string
	frame    *image.RGBA
	onSelect func(name string)
}

func newFakeHost() *fakeHost {
	return &fakeHost{widgets: make(map[string]string), frame: gray(128)}
}

func (h *fakeHost) SelectSample(name string) error {
	h.samples = append(h.samples, name)
	if h.onSelect != nil {
		h.onSelect(name)
	}
	if name == "Missing" {
		return fmt.Errorf("no sample named %q", name)
	}
	return nil
}

func (h *fakeHost) SetWidget(label, value string) { h.widgets[label] = value }

func (h *fakeHost) Capture(path string) error {
	h.captures = append(h.captures, path)
	return screenshot.SavePNG(path, h.frame)
}

const suite = `Smoke suite.
-- basic.script --
# select and shoot
sample AssetLoadTest
idleframes 2
set "Lattice Width" 7
capture basic/one.png
compare "Level D"
idle 0.5
-- second.script --
sample Missing
`

func TestParseSuite(t *testing.T) {
	scripts, err := script.ParseSuite([]byte(suite))
	require.NoError(t, err)
	require.Len(t, scripts, 2)

	basic := scripts[0]
	assert.Equal(t, "basic.script", basic.Name)
	require.Len(t, basic.Commands, 6)
	assert.Equal(t, []string{"Lattice Width", "7"}, basic.Commands[2].Args)
	assert.Equal(t, script.Pos{File: "basic.script", Line: 4}, basic.Commands[2].Pos)
	assert.Equal(t, 2, basic.Commands[1].Frames)
	assert.Equal(t, 500*time.Millisecond, basic.Commands[5].Duration)
	assert.Equal(t, "Level D", basic.Commands[4].Args[0])
}

func TestParseErrorsCarryPosition(t *testing.T) {
	_, err := script.ParseScript("bad.script", []byte("sample A\nresize 10 10\nidle soon\nset \"open\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, script.ErrUnknownCommand)
	assert.ErrorIs(t, err, script.ErrBadArguments)
	assert.Contains(t, err.Error(), "bad.script:2")
	assert.Contains(t, err.Error(), "bad.script:3")
	assert.Contains(t, err.Error(), "bad.script:4: unterminated quote")

	var pe *script.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Pos.Line)
}

func newRunner(t *testing.T, host script.Host) (*script.Runner, *script.Reporter, screenshot.Paths) {
	t.Helper()
	root := t.TempDir()
	paths := screenshot.Paths{
		ScreenshotDir: filepath.Join(root, "screenshots"),
		OfficialDir:   filepath.Join(root, "expected"),
		LocalDir:      filepath.Join(root, "local"),
	}
	reporter := script.NewReporter(paths, screenshot.DefaultToleranceLevels(), logx.Discard())
	return script.NewRunner(host, reporter, paths.ScreenshotDir, logx.Discard()), reporter, paths
}

func TestRunnerExecutesSuite(t *testing.T) {
	host := newFakeHost()
	runner, reporter, paths := newRunner(t, host)
	require.NoError(t, screenshot.SavePNG(filepath.Join(paths.OfficialDir, "basic", "one.png"), gray(128)))

	scripts, err := script.ParseSuite([]byte(suite))
	require.NoError(t, err)
	runner.Load(scripts)

	frame := 16 * time.Millisecond
	runner.Tick(frame)
	assert.Equal(t, []string{"AssetLoadTest"}, host.samples)
	assert.Empty(t, host.widgets, "idleframes blocks the rest of the script")

	runner.Tick(frame)
	runner.Tick(frame)
	assert.Empty(t, host.widgets)

	runner.Tick(frame)
	assert.Equal(t, map[string]string{"Lattice Width": "7"}, host.widgets)
	assert.Equal(t, []string{filepath.Join(paths.ScreenshotDir, "basic", "one.png")}, host.captures)

	runner.Tick(250 * time.Millisecond)
	assert.Len(t, host.samples, 1, "still idling")
	runner.Tick(250 * time.Millisecond)
	assert.Equal(t, []string{"AssetLoadTest", "Missing"}, host.samples)
	assert.True(t, runner.Done())

	reports := reporter.Reports()
	require.Len(t, reports, 2)

	basic := reports[0]
	assert.False(t, basic.Failed())
	require.Len(t, basic.Screenshots, 1)
	shot := basic.Screenshots[0]
	assert.Equal(t, screenshot.Pass, shot.Official.Code)
	assert.Equal(t, screenshot.FileNotFound, shot.Local.Code, "no local baseline yet")
	assert.Equal(t, 1, basic.WarningCount())

	second := reports[1]
	assert.True(t, second.Failed())
	assert.Contains(t, second.Issues[0].Message, "second.script:1")
	assert.True(t, reporter.HasFailures())

	var buf bytes.Buffer
	require.NoError(t, reporter.Summary(&buf))
	out := buf.String()
	assert.Contains(t, out, "## PASS basic.script (0 errors, 1 warnings)")
	assert.Contains(t, out, "## FAIL second.script (1 errors, 0 warnings)")
	assert.Contains(t, out, "official 'Level D' (threshold 0.010000): Diff Score: 0.000000")
	assert.Contains(t, out, "local: File not found")
}

func TestReporterLocalBaselines(t *testing.T) {
	host := newFakeHost()
	runner, reporter, paths := newRunner(t, host)
	require.NoError(t, screenshot.SavePNG(filepath.Join(paths.OfficialDir, "a.png"), gray(0)))

	s, err := script.ParseScript("shots.script", []byte("capture a.png\ncompare \"Level E\"\ncompare \"Level Z\"\n"))
	require.NoError(t, err)
	runner.Load([]script.Script{s})
	runner.Tick(time.Millisecond)
	require.True(t, runner.Done())

	rep := reporter.Reports()[0]
	// mid gray against black is far outside Level E, and the unknown level
	// overrides the result of the same capture
	assert.Equal(t, 2, rep.ErrorCount())
	assert.Equal(t, screenshot.NullToleranceLevel, rep.Screenshots[0].Official.Code)

	n, err := reporter.UpdateLocalBaselines()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, filepath.Join(paths.LocalDir, "a.png"))

	// the same capture now matches its local baseline exactly
	runner.Load([]script.Script{s})
	runner.Tick(time.Millisecond)
	rerun := reporter.Reports()[1]
	assert.Equal(t, screenshot.Pass, rerun.Screenshots[0].Local.Code)
	assert.Zero(t, rerun.WarningCount())
}

func TestCompareWithoutCapture(t *testing.T) {
	runner, reporter, _ := newRunner(t, newFakeHost())
	s, err := script.ParseScript("empty.script", []byte("compare Zero\n"))
	require.NoError(t, err)
	runner.Load([]script.Script{s})
	runner.Tick(time.Millisecond)

	rep := reporter.Reports()[0]
	require.Len(t, rep.Issues, 1)
	assert.Equal(t, script.SeverityError, rep.Issues[0].Severity)
	assert.Contains(t, rep.Issues[0].Message, "no screenshots to check")
}

func TestRunnerPause(t *testing.T) {
	host := newFakeHost()
	runner, reporter, _ := newRunner(t, host)
	host.onSelect = func(name string) {
		switch name {
		case "Slow":
			runner.PauseWithTimeout(time.Second)
		case "Held":
			runner.Pause()
		}
	}

	s, err := script.ParseScript("pause.script", []byte("sample Slow\nsample Held\nsample Done\n"))
	require.NoError(t, err)
	runner.Load([]script.Script{s})

	runner.Tick(time.Millisecond)
	assert.True(t, runner.Paused())
	assert.Equal(t, []string{"Slow"}, host.samples)

	runner.Tick(600 * time.Millisecond)
	assert.True(t, runner.Paused())
	runner.Tick(600 * time.Millisecond)
	assert.False(t, runner.Paused(), "timed out pause resumes")
	assert.Equal(t, 1, reporter.Reports()[0].ErrorCount())

	runner.Tick(time.Millisecond)
	assert.Equal(t, []string{"Slow", "Held"}, host.samples)
	assert.True(t, runner.Paused())

	runner.Tick(time.Hour)
	assert.True(t, runner.Paused(), "untimed pause waits for Resume")

	runner.Resume()
	runner.Tick(time.Millisecond)
	assert.Equal(t, []string{"Slow", "Held", "Done"}, host.samples)
	assert.True(t, runner.Done())
}
