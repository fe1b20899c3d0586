package ui

import (
	"fmt"

	"github.com/plus3/sampleviewer/metrics"
)

// HistogramPanel plots a HistogramQueue with its average and extremes.
type HistogramPanel struct {
	Label  string
	Unit   string
	Values *metrics.HistogramQueue
}

func (h *HistogramPanel) Draw(w Widgets) {
	q := h.Values
	if q == nil || q.Len() == 0 {
		w.Text(h.Label + ": no samples")
		return
	}
	w.PlotLines(h.Label, q.Values())
	w.Text(fmt.Sprintf("avg %.3f%s  min %.3f%s  max %.3f%s", q.Average(), h.Unit, q.Min(), h.Unit, q.Max(), h.Unit))
}
