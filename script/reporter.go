package script

import (
	"fmt"
	"io"
	"log/slog"
	"text/template"

	"github.com/plus3/sampleviewer/screenshot"
)

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

type Issue struct {
	Severity Severity
	Message  string
}

// ScreenshotTest tracks one capture and its two comparisons: against the
// official baseline under a tolerance level, and against the local baseline,
// which must match exactly.
type ScreenshotTest struct {
	Path             string
	Level            *screenshot.ToleranceLevel
	OfficialBaseline string
	LocalBaseline    string
	Official         screenshot.Result
	Local            screenshot.Result
}

type ScriptReport struct {
	Name        string
	Issues      []Issue
	Screenshots []ScreenshotTest
}

func (r *ScriptReport) count(s Severity) int {
	n := 0
	for _, is := range r.Issues {
		if is.Severity == s {
			n++
		}
	}
	return n
}

func (r *ScriptReport) ErrorCount() int   { return r.count(SeverityError) }
func (r *ScriptReport) WarningCount() int { return r.count(SeverityWarning) }
func (r *ScriptReport) Failed() bool      { return r.ErrorCount() > 0 }

// Reporter collects issues per script. Scripts nest; issues go to the
// innermost running script.
type Reporter struct {
	paths   screenshot.Paths
	levels  []screenshot.ToleranceLevel
	log     *slog.Logger
	reports []*ScriptReport
	stack   []*ScriptReport
}

func NewReporter(paths screenshot.Paths, levels []screenshot.ToleranceLevel, log *slog.Logger) *Reporter {
	return &Reporter{paths: paths, levels: levels, log: log}
}

func (r *Reporter) PushScript(name string) {
	rep := &ScriptReport{Name: name}
	r.reports = append(r.reports, rep)
	r.stack = append(r.stack, rep)
	r.log.Info("script started", "script", name)
}

func (r *Reporter) PopScript() {
	if len(r.stack) == 0 {
		return
	}
	rep := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.log.Info("script finished", "script", rep.Name, "errors", rep.ErrorCount(), "warnings", rep.WarningCount())
}

func (r *Reporter) current() *ScriptReport {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *Reporter) report(s Severity, msg string) {
	rep := r.current()
	if rep == nil {
		r.log.Warn("issue reported outside of a script", "severity", s, "msg", msg)
		return
	}
	if s == SeverityError {
		r.log.Error(msg, "script", rep.Name)
	} else {
		r.log.Warn(msg, "script", rep.Name)
	}
	rep.Issues = append(rep.Issues, Issue{Severity: s, Message: msg})
}

func (r *Reporter) ReportError(msg string)   { r.report(SeverityError, msg) }
func (r *Reporter) ReportWarning(msg string) { r.report(SeverityWarning, msg) }

// AddScreenshotTest registers a capture so a following CheckLatestScreenshot
// can compare it.
func (r *Reporter) AddScreenshotTest(path string) {
	if rep := r.current(); rep != nil {
		rep.Screenshots = append(rep.Screenshots, ScreenshotTest{Path: path})
	}
}

// CheckLatestScreenshot compares the last capture of the running script to
// its official baseline under the named tolerance level, reporting an error
// on failure, and to its local baseline, reporting a warning on mismatch.
func (r *Reporter) CheckLatestScreenshot(levelName string) {
	rep := r.current()
	if rep == nil || len(rep.Screenshots) == 0 {
		r.ReportError("screenshot check failed: no screenshots to check")
		return
	}
	st := &rep.Screenshots[len(rep.Screenshots)-1]

	level := screenshot.FindToleranceLevel(r.levels, levelName)
	if level == nil {
		st.Official.Code = screenshot.NullToleranceLevel
		r.ReportError(fmt.Sprintf("screenshot check failed: no tolerance level named %q", levelName))
		return
	}
	st.Level = level

	official, err := r.paths.OfficialBaseline(st.Path)
	if err != nil {
		st.Official.Code = screenshot.FileNotFound
		r.ReportError(fmt.Sprintf("screenshot check failed: no official baseline: %v", err))
	} else {
		st.OfficialBaseline = official
		st.Official, err = screenshot.Compare(official, st.Path, level)
		if err != nil {
			r.ReportError(fmt.Sprintf("%v (expected %s, actual %s)", err, official, st.Path))
		}
	}

	local, err := r.paths.LocalBaseline(st.Path)
	if err != nil {
		st.Local.Code = screenshot.FileNotFound
		r.ReportWarning(fmt.Sprintf("screenshot check failed: no local baseline: %v", err))
		return
	}
	st.LocalBaseline = local
	st.Local, err = screenshot.CompareLocal(local, st.Path)
	if err != nil {
		r.ReportWarning(fmt.Sprintf("%v (expected %s, actual %s)", err, local, st.Path))
	}
}

// UpdateLocalBaselines copies every capture over its local baseline and
// returns how many were updated.
func (r *Reporter) UpdateLocalBaselines() (int, error) {
	n := 0
	for _, rep := range r.reports {
		for i := range rep.Screenshots {
			st := &rep.Screenshots[i]
			if err := r.paths.UpdateLocalBaseline(st.Path); err != nil {
				return n, fmt.Errorf("update local baseline for %s: %w", st.Path, err)
			}
			st.Local = screenshot.Result{}
			n++
		}
	}
	return n, nil
}

func (r *Reporter) Reports() []*ScriptReport {
	return r.reports
}

func (r *Reporter) HasFailures() bool {
	for _, rep := range r.reports {
		if rep.Failed() {
			return true
		}
	}
	return false
}

const summaryTemplate = `# Script Results
{{range .}}
## {{if .Failed}}FAIL{{else}}PASS{{end}} {{.Name}} ({{.ErrorCount}} errors, {{.WarningCount}} warnings)
{{- range .Issues}}
- {{.Severity}}: {{.Message}}
{{- end}}
{{- range .Screenshots}}
- screenshot {{.Path}}
  - official{{with .Level}} {{.}}{{end}}: {{.Official.Summary}}
  - local: {{.Local.Summary}}
{{- end}}
{{end}}`

var summary = template.Must(template.New("summary").Parse(summaryTemplate))

// Summary writes a markdown report of every script run so far.
func (r *Reporter) Summary(w io.Writer) error {
	return summary.Execute(w, r.reports)
}
