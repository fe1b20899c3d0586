package screenshot_test

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/plus3/sampleviewer/screenshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func save(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, screenshot.SavePNG(p, img))
	return p
}

func TestDiffRMS(t *testing.T) {
	a := solid(4, 4, color.RGBA{10, 20, 30, 255})

	score, err := screenshot.DiffRMS(a, solid(4, 4, color.RGBA{10, 20, 30, 255}), 0)
	require.NoError(t, err)
	assert.Zero(t, score)

	// one of 16 pixels differs by 245 in one channel: sqrt((245/255)²/16)
	b := solid(4, 4, color.RGBA{10, 20, 30, 255})
	b.Pix[0] = 255
	score, err = screenshot.DiffRMS(a, b, 0)
	require.NoError(t, err)
	assert.InDelta(t, 245.0/255/4, score, 1e-6)

	// a full-range difference in one of 16 pixels: sqrt(1/16)
	black := solid(4, 4, color.RGBA{0, 0, 0, 255})
	white := solid(4, 4, color.RGBA{0, 0, 0, 255})
	white.Pix[0] = 255
	score, err = screenshot.DiffRMS(black, white, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, score, 1e-6)

	// a 1/255 change everywhere is removed by the imperceptible filter
	c := solid(4, 4, color.RGBA{11, 20, 30, 255})
	score, _ = screenshot.DiffRMS(a, c, 0)
	assert.InDelta(t, 1.0/255, score, 1e-6)
	score, _ = screenshot.DiffRMS(a, c, screenshot.ImperceptibleDiffFilter)
	assert.Zero(t, score)

	_, err = screenshot.DiffRMS(a, solid(4, 5, color.RGBA{}), 0)
	var sizeErr *screenshot.SizeMismatchError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, "sizes don't match: expected 4 x 4 but was 4 x 5", err.Error())
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	level := screenshot.FindToleranceLevel(screenshot.DefaultToleranceLevels(), "Level B")
	require.NotNil(t, level)

	base := solid(8, 8, color.RGBA{0, 0, 0, 255})
	expected := save(t, dir, "expected.png", base)
	same := save(t, dir, "same.png", base)

	// a quarter of the pixels fully red: sqrt(16/64)
	far := solid(8, 8, color.RGBA{0, 0, 0, 255})
	for i := 0; i < 16*4; i += 4 {
		far.Pix[i] = 255
	}
	different := save(t, dir, "different.png", far)
	wrongSize := save(t, dir, "small.png", solid(4, 4, color.RGBA{}))

	textFile := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(textFile, []byte("definitely not an image"), 0o644))

	truncated := filepath.Join(dir, "truncated.png")
	data, err := os.ReadFile(expected)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(truncated, data[:40], 0o644))

	tests := []struct {
		name    string
		actual  string
		level   *screenshot.ToleranceLevel
		want    screenshot.ResultCode
		summary string
	}{
		{"identical", same, level, screenshot.Pass, "Diff Score: 0.000000"},
		{"exceeds threshold", different, level, screenshot.ThresholdExceeded, ""},
		{"missing", filepath.Join(dir, "nope.png"), level, screenshot.FileNotFound, "File not found"},
		{"wrong size", wrongSize, level, screenshot.WrongSize, "Wrong size"},
		{"not an image", textFile, level, screenshot.WrongFormat, "Format is not supported"},
		{"corrupt", truncated, level, screenshot.FileNotLoaded, "File load failed"},
		{"no level", same, nil, screenshot.NullToleranceLevel, "ImageComparisonToleranceLevel not provided"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := screenshot.Compare(expected, tt.actual, tt.level)
			assert.Equal(t, tt.want, r.Code)
			assert.Equal(t, tt.want == screenshot.Pass, err == nil)
			if tt.summary != "" {
				assert.Equal(t, tt.summary, r.Summary())
			}
		})
	}

	r, err := screenshot.Compare(expected, different, level)
	require.Error(t, err)
	assert.InDelta(t, 0.5, r.FinalDiffScore, 1e-6)
	assert.Contains(t, err.Error(), "'Level B'")
}

func TestCompareFilteredLevel(t *testing.T) {
	dir := t.TempDir()
	expected := save(t, dir, "a.png", solid(4, 4, color.RGBA{50, 50, 50, 255}))
	actual := save(t, dir, "b.png", solid(4, 4, color.RGBA{51, 50, 50, 255}))

	levels := screenshot.DefaultToleranceLevels()
	r, err := screenshot.Compare(expected, actual, screenshot.FindToleranceLevel(levels, "Level B"))
	assert.Error(t, err)
	assert.Equal(t, screenshot.ThresholdExceeded, r.Code)

	r, err = screenshot.Compare(expected, actual, screenshot.FindToleranceLevel(levels, "Level F"))
	assert.NoError(t, err)
	assert.Equal(t, screenshot.Pass, r.Code)
	assert.Zero(t, r.FinalDiffScore)
	assert.Greater(t, r.StandardDiffScore, float32(0))

	r, err = screenshot.CompareLocal(expected, actual)
	assert.Error(t, err)
	assert.Equal(t, screenshot.ThresholdExceeded, r.Code)
}

func TestFormatMismatch(t *testing.T) {
	dir := t.TempDir()
	expected := save(t, dir, "a.png", solid(2, 2, color.RGBA{1, 2, 3, 255}))

	deep := image.NewRGBA64(image.Rect(0, 0, 2, 2))
	actual := filepath.Join(dir, "b.png")
	require.NoError(t, imgio.Save(actual, deep, imgio.PNGEncoder()))

	r, err := screenshot.Scores(expected, actual)
	assert.Error(t, err)
	assert.Equal(t, screenshot.WrongFormat, r.Code)
}

func TestWriteDiffImage(t *testing.T) {
	dir := t.TempDir()
	a := solid(2, 2, color.RGBA{0, 0, 0, 255})
	b := solid(2, 2, color.RGBA{200, 0, 0, 255})
	out := filepath.Join(dir, "diff", "d.png")

	require.NoError(t, screenshot.WriteDiffImage(a, b, out))
	img, err := screenshot.LoadImage(out)
	require.NoError(t, err)
	assert.InDelta(t, 200, int(img.Pix[0]), 1)
	assert.Equal(t, uint8(255), img.Pix[3])
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	p := screenshot.Paths{
		ScreenshotDir: filepath.Join(dir, "screenshots"),
		OfficialDir:   filepath.Join(dir, "expected"),
		LocalDir:      filepath.Join(dir, "local", "vulkan"),
	}
	shot := save(t, p.ScreenshotDir, filepath.Join("assetload", "frame.png"), solid(1, 1, color.RGBA{}))

	official, err := p.OfficialBaseline(shot)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "expected", "assetload", "frame.png"), official)

	require.NoError(t, p.UpdateLocalBaseline(shot))
	local, _ := p.LocalBaseline(shot)
	r, err := screenshot.CompareLocal(local, shot)
	require.NoError(t, err)
	assert.Equal(t, screenshot.Pass, r.Code)

	_, err = p.OfficialBaseline(filepath.Join(dir, "elsewhere.png"))
	assert.Error(t, err)
}
