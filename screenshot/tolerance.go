package screenshot

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrToleranceOrder = errors.New("tolerance levels out of order")

// ImperceptibleDiffFilter is the per-pixel difference below which a pixel is
// ignored by the filtered score.
const ImperceptibleDiffFilter = 0.01

type ToleranceLevel struct {
	Name                     string  `yaml:"name"`
	Threshold                float32 `yaml:"threshold"`
	FilterImperceptibleDiffs bool    `yaml:"filterImperceptibleDiffs"`
}

func (l ToleranceLevel) String() string {
	filtered := ""
	if l.FilterImperceptibleDiffs {
		filtered = ", filtered"
	}
	return fmt.Sprintf("'%s' (threshold %f%s)", l.Name, l.Threshold, filtered)
}

func DefaultToleranceLevels() []ToleranceLevel {
	return []ToleranceLevel{
		{Name: "Zero", Threshold: 0},
		{Name: "Level A", Threshold: 0.0005},
		{Name: "Level B", Threshold: 0.001},
		{Name: "Level C", Threshold: 0.005},
		{Name: "Level D", Threshold: 0.01},
		{Name: "Level E", Threshold: 0.05},
		{Name: "Level F", Threshold: 0.001, FilterImperceptibleDiffs: true},
		{Name: "Level G", Threshold: 0.005, FilterImperceptibleDiffs: true},
		{Name: "Level H", Threshold: 0.01, FilterImperceptibleDiffs: true},
		{Name: "Level I", Threshold: 0.05, FilterImperceptibleDiffs: true},
		{Name: "Level J", Threshold: 0.1, FilterImperceptibleDiffs: true},
	}
}

type toleranceFile struct {
	ToleranceLevels []ToleranceLevel `yaml:"toleranceLevels"`
}

// LoadToleranceLevels reads and validates a YAML tolerance file.
func LoadToleranceLevels(path string) ([]ToleranceLevel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tolerance levels: %w", err)
	}
	var f toleranceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse tolerance levels %s: %w", path, err)
	}
	if err := ValidateToleranceLevels(f.ToleranceLevels); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.ToleranceLevels, nil
}

// ValidateToleranceLevels checks that names are unique, every unfiltered level
// precedes every filtered one and thresholds grow within each group.
func ValidateToleranceLevels(levels []ToleranceLevel) error {
	seen := make(map[string]bool, len(levels))
	for i, l := range levels {
		if l.Name == "" || seen[l.Name] {
			return fmt.Errorf("level %d: missing or duplicate name %q", i, l.Name)
		}
		seen[l.Name] = true
		if i == 0 {
			continue
		}
		prev := levels[i-1]
		if prev.FilterImperceptibleDiffs && !l.FilterImperceptibleDiffs {
			return fmt.Errorf("%q after filtered %q: %w", l.Name, prev.Name, ErrToleranceOrder)
		}
		if prev.FilterImperceptibleDiffs == l.FilterImperceptibleDiffs && l.Threshold < prev.Threshold {
			return fmt.Errorf("%q threshold below %q: %w", l.Name, prev.Name, ErrToleranceOrder)
		}
	}
	return nil
}

// FindToleranceLevel looks a level up by name.
func FindToleranceLevel(levels []ToleranceLevel, name string) *ToleranceLevel {
	for i := range levels {
		if levels[i].Name == name {
			return &levels[i]
		}
	}
	return nil
}

// FindBestToleranceLevel returns the strictest level that score passes. A
// filtered score can only be matched by filtered levels.
func FindBestToleranceLevel(levels []ToleranceLevel, score float32, filtered bool) *ToleranceLevel {
	for i := range levels {
		l := &levels[i]
		if filtered && !l.FilterImperceptibleDiffs {
			continue
		}
		if score <= l.Threshold {
			return l
		}
	}
	return nil
}
