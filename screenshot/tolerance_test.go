package screenshot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/sampleviewer/screenshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLevelsAreValid(t *testing.T) {
	assert.NoError(t, screenshot.ValidateToleranceLevels(screenshot.DefaultToleranceLevels()))
}

func TestToleranceLevelString(t *testing.T) {
	assert.Equal(t, "'Level A' (threshold 0.000500)", screenshot.ToleranceLevel{Name: "Level A", Threshold: 0.0005}.String())
	assert.Equal(t, "'Level F' (threshold 0.001000, filtered)",
		screenshot.ToleranceLevel{Name: "Level F", Threshold: 0.001, FilterImperceptibleDiffs: true}.String())
}

func TestFindBestToleranceLevel(t *testing.T) {
	levels := screenshot.DefaultToleranceLevels()

	tests := []struct {
		score    float32
		filtered bool
		want     string
	}{
		{0, false, "Zero"},
		{0.0004, false, "Level A"},
		{0.02, false, "Level E"},
		{0.07, false, "Level J"},
		{0.0004, true, "Level F"},
		{0.2, true, ""},
	}
	for _, tt := range tests {
		got := screenshot.FindBestToleranceLevel(levels, tt.score, tt.filtered)
		if tt.want == "" {
			assert.Nil(t, got)
			continue
		}
		require.NotNil(t, got, "score %f", tt.score)
		assert.Equal(t, tt.want, got.Name)
	}
}

func TestLoadToleranceLevels(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
toleranceLevels:
  - name: Zero
    threshold: 0
  - name: Loose
    threshold: 0.01
  - name: Loose filtered
    threshold: 0.005
    filterImperceptibleDiffs: true
`), 0o644))

	levels, err := screenshot.LoadToleranceLevels(good)
	require.NoError(t, err)
	require.Len(t, levels, 3)
	assert.True(t, levels[2].FilterImperceptibleDiffs)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`
toleranceLevels:
  - name: Filtered
    threshold: 0.01
    filterImperceptibleDiffs: true
  - name: Plain
    threshold: 0.02
`), 0o644))
	_, err = screenshot.LoadToleranceLevels(bad)
	assert.ErrorIs(t, err, screenshot.ErrToleranceOrder)

	_, err = screenshot.LoadToleranceLevels(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
