package screenshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func codeOf(err error) ResultCode {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	var se *SizeMismatchError
	if errors.As(err, &se) {
		return WrongSize
	}
	return FileNotLoaded
}

// Scores loads both images and computes their standard and filtered scores.
// The returned Result has Code None on success.
func Scores(expectedPath, actualPath string) (Result, error) {
	expected, err := LoadImage(expectedPath)
	if err != nil {
		return Result{Code: codeOf(err)}, err
	}
	actual, err := LoadImage(actualPath)
	if err != nil {
		return Result{Code: codeOf(err)}, err
	}
	if expected.Format != actual.Format {
		return Result{Code: WrongFormat}, fmt.Errorf("formats don't match: expected %s but was %s", expected.Format, actual.Format)
	}

	var r Result
	if r.StandardDiffScore, err = DiffRMS(expected.RGBA, actual.RGBA, 0); err != nil {
		return Result{Code: WrongSize}, err
	}
	r.FilteredDiffScore, _ = DiffRMS(expected.RGBA, actual.RGBA, ImperceptibleDiffFilter)
	return r, nil
}

// Compare checks actualPath against expectedPath under level.
func Compare(expectedPath, actualPath string, level *ToleranceLevel) (Result, error) {
	if level == nil {
		return Result{Code: NullToleranceLevel}, errors.New("screenshot check failed: no tolerance level")
	}
	r, err := Scores(expectedPath, actualPath)
	if err != nil {
		return r, err
	}
	r.FinalDiffScore = r.StandardDiffScore
	if level.FilterImperceptibleDiffs {
		r.FinalDiffScore = r.FilteredDiffScore
	}
	if r.FinalDiffScore <= level.Threshold {
		r.Code = Pass
		return r, nil
	}
	r.Code = ThresholdExceeded
	return r, fmt.Errorf("screenshot check failed: diff score %f exceeds threshold of %f ('%s')",
		r.FinalDiffScore, level.Threshold, level.Name)
}

// CompareLocal checks against a baseline captured on this machine, which must
// match exactly.
func CompareLocal(expectedPath, actualPath string) (Result, error) {
	r, err := Scores(expectedPath, actualPath)
	if err != nil {
		return r, err
	}
	r.FinalDiffScore = r.StandardDiffScore
	if r.StandardDiffScore == 0 {
		r.Code = Pass
		return r, nil
	}
	r.Code = ThresholdExceeded
	return r, fmt.Errorf("screenshot does not match the local baseline: diff score %f", r.StandardDiffScore)
}

// Paths locates baselines for a capture from its path relative to
// ScreenshotDir.
type Paths struct {
	ScreenshotDir string
	OfficialDir   string
	LocalDir      string
}

func (p Paths) relative(shot string) (string, error) {
	rel, err := filepath.Rel(p.ScreenshotDir, shot)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is not under %s", shot, p.ScreenshotDir)
	}
	return rel, nil
}

func (p Paths) OfficialBaseline(shot string) (string, error) {
	rel, err := p.relative(shot)
	if err != nil {
		return "", err
	}
	return filepath.Join(p.OfficialDir, rel), nil
}

func (p Paths) LocalBaseline(shot string) (string, error) {
	rel, err := p.relative(shot)
	if err != nil {
		return "", err
	}
	return filepath.Join(p.LocalDir, rel), nil
}

// UpdateLocalBaseline copies shot over its local baseline.
func (p Paths) UpdateLocalBaseline(shot string) error {
	dst, err := p.LocalBaseline(shot)
	if err != nil {
		return err
	}
	src, err := os.Open(shot)
	if err != nil {
		return err
	}
	defer src.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
