package ui

import (
	"log/slog"

	"github.com/plus3/sampleviewer/prefs"
)

// Sidebar is a sample's main window. Its open state survives restarts.
type Sidebar struct {
	Title     string
	store     *prefs.Store
	prefsPath string
	log       *slog.Logger
	open      bool
}

func NewSidebar(title, prefsPath string, store *prefs.Store, log *slog.Logger) *Sidebar {
	s := &Sidebar{Title: title, store: store, prefsPath: prefsPath, log: log, open: true}
	p := prefs.SidebarPrefs{Open: true}
	if _, err := store.Load(prefsPath, &p); err != nil {
		log.Warn("sidebar prefs unreadable, using defaults", "path", prefsPath, "err", err)
	}
	s.open = p.Open
	return s
}

func (s *Sidebar) IsOpen() bool { return s.open }

func (s *Sidebar) SetOpen(open bool) {
	if open == s.open {
		return
	}
	s.open = open
	if err := s.store.Save(s.prefsPath, prefs.SidebarPrefs{Open: open}); err != nil {
		s.log.Warn("cannot save sidebar prefs", "path", s.prefsPath, "err", err)
	}
}

// Draw runs body inside the window while it is open.
func (s *Sidebar) Draw(w Widgets, body func()) {
	if !s.open {
		return
	}
	open := true
	if w.Begin(s.Title, &open) {
		body()
	}
	w.End()
	if !open {
		s.SetOpen(false)
	}
}
