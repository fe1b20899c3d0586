package ui

import "fmt"

// ProgressList shows what a batch load is still waiting for.
type ProgressList struct {
	Title string
	// Pending returns the outstanding product paths.
	Pending func() []string
	// Cancel is invoked when the user presses Cancel.
	Cancel func()
}

// Draw renders the list while anything is pending. It reports whether the
// batch was cancelled.
func (p *ProgressList) Draw(w Widgets) bool {
	pending := p.Pending()
	if len(pending) == 0 {
		return false
	}
	cancelled := false
	if w.Begin(p.Title, nil) {
		w.Text(fmt.Sprintf("Waiting on %d assets", len(pending)))
		w.Separator()
		for _, path := range pending {
			w.Text(path)
		}
		w.Spacing()
		if w.Button("Cancel") {
			if p.Cancel != nil {
				p.Cancel()
			}
			cancelled = true
		}
	}
	w.End()
	return cancelled
}
