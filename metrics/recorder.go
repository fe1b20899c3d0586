package metrics

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// SampleMetrics aggregates frame times for one sample activation.
type SampleMetrics struct {
	Name    string
	Frames  int
	Total   time.Duration
	Min     time.Duration
	Max     time.Duration
	started time.Time
}

func (s SampleMetrics) Average() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Frames)
}

// Recorder collects per-sample frame timings over a viewer session.
type Recorder struct {
	now     func() time.Time
	started time.Time
	samples []*SampleMetrics
	History *HistogramQueue
}

func NewRecorder(historyFrames int) *Recorder {
	return &Recorder{now: time.Now, started: time.Now(), History: NewHistogramQueue(historyFrames)}
}

// BeginSample starts a new aggregation bucket; frames recorded before the
// first BeginSample are kept only in History.
func (r *Recorder) BeginSample(name string) {
	r.samples = append(r.samples, &SampleMetrics{Name: name, started: r.now()})
}

func (r *Recorder) RecordFrame(dt time.Duration) {
	r.History.Push(float32(dt.Seconds() * 1000))
	if len(r.samples) == 0 {
		return
	}
	s := r.samples[len(r.samples)-1]
	if s.Frames == 0 {
		s.Min, s.Max = dt, dt
	}
	s.Frames++
	s.Total += dt
	s.Min = min(s.Min, dt)
	s.Max = max(s.Max, dt)
}

func (r *Recorder) Samples() []SampleMetrics {
	out := make([]SampleMetrics, len(r.samples))
	for i, s := range r.samples {
		out[i] = *s
	}
	return out
}

type xmlSample struct {
	Name       string  `xml:"name,attr"`
	Frames     int     `xml:"frames,attr"`
	Seconds    float64 `xml:"seconds,attr"`
	AvgFrameMs float64 `xml:"avgFrameMs,attr"`
	MinFrameMs float64 `xml:"minFrameMs,attr"`
	MaxFrameMs float64 `xml:"maxFrameMs,attr"`
	AvgFps     float64 `xml:"avgFps,attr"`
}

type xmlMetrics struct {
	XMLName   xml.Name    `xml:"PerformanceMetrics"`
	Started   string      `xml:"started,attr"`
	Generated string      `xml:"generated,attr"`
	Samples   []xmlSample `xml:"Sample"`
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (r *Recorder) WriteXML(w io.Writer) error {
	doc := xmlMetrics{
		Started:   r.started.Format(time.RFC3339),
		Generated: r.now().Format(time.RFC3339),
	}
	for _, s := range r.samples {
		x := xmlSample{
			Name:       s.Name,
			Frames:     s.Frames,
			Seconds:    s.Total.Seconds(),
			AvgFrameMs: ms(s.Average()),
			MinFrameMs: ms(s.Min),
			MaxFrameMs: ms(s.Max),
		}
		if avg := s.Average(); avg > 0 {
			x.AvgFps = float64(time.Second) / float64(avg)
		}
		doc.Samples = append(doc.Samples, x)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile writes the metrics document to path, creating parent
// directories.
func (r *Recorder) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteXML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
