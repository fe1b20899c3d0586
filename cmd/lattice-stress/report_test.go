package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/plus3/sampleviewer/lattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)
	assert.Equal(t, 3*time.Millisecond, s.P95)
	assert.Equal(t, []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}, s.Samples, "samples keep their order")

	many := Stats{}
	for i := 1; i <= 100; i++ {
		many.Samples = append(many.Samples, time.Duration(i)*time.Microsecond)
	}
	many.Finalize()
	assert.Equal(t, 95*time.Microsecond, many.P95)

	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportGenerate(t *testing.T) {
	r := &Report{
		Sample:     "HighInstanceTest",
		Duration:   time.Second,
		Dimensions: lattice.Dimensions{Width: 2, Height: 3, Depth: 4},
		Instances:  24,
	}
	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))
	assert.Contains(t, buf.String(), "**Sample:** HighInstanceTest")
	assert.Contains(t, buf.String(), "2 x 3 x 4 (24 instances)")
	assert.NotContains(t, buf.String(), "GC Pause")
}
