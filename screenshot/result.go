// Package screenshot compares captured frames against baseline images.
package screenshot

import "fmt"

type ResultCode int

const (
	None ResultCode = iota
	Pass
	FileNotFound
	FileNotLoaded
	WrongSize
	WrongFormat
	NullToleranceLevel
	ThresholdExceeded
)

func (c ResultCode) String() string {
	switch c {
	case None:
		return "None"
	case Pass:
		return "Pass"
	case FileNotFound:
		return "FileNotFound"
	case FileNotLoaded:
		return "FileNotLoaded"
	case WrongSize:
		return "WrongSize"
	case WrongFormat:
		return "WrongFormat"
	case NullToleranceLevel:
		return "NullToleranceLevel"
	case ThresholdExceeded:
		return "ThresholdExceeded"
	}
	return fmt.Sprintf("ResultCode(%d)", int(c))
}

// Result is the outcome of one comparison. Scores are RMS differences in
// [0, 1]; FinalDiffScore is whichever of the two the tolerance level selects.
type Result struct {
	Code              ResultCode
	StandardDiffScore float32
	FilteredDiffScore float32
	FinalDiffScore    float32
}

func (r Result) Passed() bool { return r.Code == Pass }

// Summary is the one-line description shown in reports.
func (r Result) Summary() string {
	switch r.Code {
	case Pass, ThresholdExceeded:
		return fmt.Sprintf("Diff Score: %f", r.FinalDiffScore)
	case WrongSize:
		return "Wrong size"
	case FileNotFound:
		return "File not found"
	case FileNotLoaded:
		return "File load failed"
	case WrongFormat:
		return "Format is not supported"
	case NullToleranceLevel:
		return "ImageComparisonToleranceLevel not provided"
	}
	return "No results"
}

// LoadError carries the result code a failed image load maps to.
type LoadError struct {
	Code ResultCode
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Code)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Code, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
