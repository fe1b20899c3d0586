package main

import (
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/sampleviewer/lattice"
	"github.com/plus3/sampleviewer/render"
)

type Report struct {
	// Configuration
	Sample     string
	Duration   time.Duration
	Dimensions lattice.Dimensions
	Instances  int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Scene          render.SceneStats
	Busy           bool
	Leaked         int
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	P95     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	sorted := slices.Sorted(slices.Values(s.Samples))
	var total time.Duration
	for _, sample := range sorted {
		total += sample
	}
	s.Min, s.Max = sorted[0], sorted[len(sorted)-1]
	s.Avg = total / time.Duration(len(sorted))
	// nearest rank
	s.P95 = sorted[(len(sorted)*95+99)/100-1]
}

const reportTemplate = `
# Lattice Stress Report

## Configuration
- **Sample:** {{.Sample}}
- **Run Duration:** {{.Duration}}
- **Lattice:** {{.Dimensions.Width}} x {{.Dimensions.Height}} x {{.Dimensions.Depth}} ({{.Instances}} instances)

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
  - **P95:** {{.UpdateTime.P95}}

## Scene at Exit
- Meshes: {{.Scene.Meshes}}
- Disk Lights: {{.Scene.DiskLights}}
- Directional Lights: {{.Scene.DirectionalLights}}
- Materials Created: {{.Scene.Materials}}
- Still Loading: {{.Busy}}
- Leaked After Deactivate: {{.Leaked}}

## Memory Usage (MiB)
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} (start) -> {{mb .MemStatsEnd.HeapAlloc}} (end)
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} (start) -> {{mb .MemStatsEnd.TotalAlloc}} (end)
- Sys Memory:     {{mb .MemStatsStart.Sys}} (start) -> {{mb .MemStatsEnd.Sys}} (end)
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"mb": func(v uint64) float64 {
			return float64(v) / 1024 / 1024
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
