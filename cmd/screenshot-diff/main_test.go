package main

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/plus3/sampleviewer/screenshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gray(t *testing.T, dir, name string, v uint8) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	p := filepath.Join(dir, name)
	require.NoError(t, screenshot.SavePNG(p, img))
	return p
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	a := gray(t, dir, "a.png", 100)
	same := gray(t, dir, "same.png", 100)
	far := gray(t, dir, "far.png", 200)

	tests := []struct {
		name   string
		args   []string
		code   int
		stdout string
	}{
		{"identical", []string{"-expected", a, "-actual", same}, 0, "Pass: Diff Score: 0.000000"},
		{"exceeded", []string{"-expected", a, "-actual", far, "-level", "Zero"}, 1, "ThresholdExceeded"},
		{"missing", []string{"-expected", a, "-actual", filepath.Join(dir, "nope.png")}, 1, "FileNotFound: File not found"},
		{"unknown level", []string{"-expected", a, "-actual", same, "-level", "Level Z"}, 1, "NullToleranceLevel"},
		{"no args", nil, 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.code, run(tt.args, &stdout, &stderr))
			assert.Contains(t, stdout.String(), tt.stdout)
		})
	}
}

func TestRunWritesDiffImage(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "diff", "out.png")
	var stdout, stderr bytes.Buffer
	code := run([]string{
		"-expected", gray(t, dir, "a.png", 10),
		"-actual", gray(t, dir, "b.png", 20),
		"-level", "Level J",
		"-diff-out", out,
	}, &stdout, &stderr)
	assert.Equal(t, 0, code, stderr.String())

	img, err := screenshot.LoadImage(out)
	require.NoError(t, err)
	assert.Equal(t, 8, img.RGBA.Bounds().Dx())
}
