package ui

import (
	"log/slog"
	"slices"

	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/prefs"
)

// AllowList is an asset browser restricted to one asset type. Samples pick
// from the allowed paths; users move paths between the catalog and the list.
// The list is persisted so customisations survive restarts.
type AllowList struct {
	Title     string
	Type      asset.Type
	catalog   *asset.Catalog
	store     *prefs.Store
	prefsPath string
	log       *slog.Logger

	defaults []string
	allowed  []string

	selectedAllowed   string
	selectedAvailable string
}

func NewAllowList(title string, t asset.Type, defaults []string, catalog *asset.Catalog, store *prefs.Store, prefsPath string, log *slog.Logger) *AllowList {
	a := &AllowList{
		Title:     title,
		Type:      t,
		catalog:   catalog,
		store:     store,
		prefsPath: prefsPath,
		log:       log,
		defaults:  normalizeAll(defaults),
	}
	a.allowed = slices.Clone(a.defaults)

	var p prefs.AllowListPrefs
	found, err := store.Load(prefsPath, &p)
	switch {
	case err != nil:
		log.Warn("allow-list prefs unreadable, using defaults", "path", prefsPath, "err", err)
	case found:
		a.allowed = normalizeAll(p.Pinned)
	}
	return a
}

func normalizeAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if n := asset.Normalize(p); !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// Paths returns the allowed product paths in list order.
func (a *AllowList) Paths() []string {
	return slices.Clone(a.allowed)
}

// Ids resolves the allowed paths through the catalog. Paths that are not
// registered are skipped.
func (a *AllowList) Ids() []asset.Id {
	ids := make([]asset.Id, 0, len(a.allowed))
	for _, p := range a.allowed {
		id, err := a.catalog.GetAssetIdByPath(p, a.Type)
		if err != nil {
			a.log.Debug("allow-list entry not in catalog", "list", a.Title, "path", p)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Add appends p to the list. It reports false if p is already allowed.
func (a *AllowList) Add(p string) bool {
	p = asset.Normalize(p)
	if slices.Contains(a.allowed, p) {
		return false
	}
	a.allowed = append(a.allowed, p)
	a.save()
	return true
}

func (a *AllowList) Remove(p string) bool {
	p = asset.Normalize(p)
	i := slices.Index(a.allowed, p)
	if i < 0 {
		return false
	}
	a.allowed = slices.Delete(a.allowed, i, i+1)
	a.save()
	return true
}

// Reset restores the default list.
func (a *AllowList) Reset() {
	a.allowed = slices.Clone(a.defaults)
	a.save()
}

// Set replaces the allowed paths.
func (a *AllowList) Set(paths []string) {
	a.allowed = normalizeAll(paths)
	a.save()
}

func (a *AllowList) save() {
	if err := a.store.Save(a.prefsPath, prefs.AllowListPrefs{Pinned: a.allowed}); err != nil {
		a.log.Warn("cannot save allow-list prefs", "path", a.prefsPath, "err", err)
	}
}

// Available lists catalog products of the list's type that are not allowed.
func (a *AllowList) Available() []string {
	var out []string
	for _, info := range a.catalog.Filter(asset.OfType(a.Type)) {
		if !slices.Contains(a.allowed, info.RelativePath) {
			out = append(out, info.RelativePath)
		}
	}
	return out
}

// Draw renders the browser and reports whether the allowed list changed.
func (a *AllowList) Draw(w Widgets) bool {
	if !w.CollapsingHeader(a.Title) {
		return false
	}
	changed := false

	w.Text("Allowed")
	for _, p := range a.allowed {
		if w.Selectable(p+"##allowed", p == a.selectedAllowed) {
			a.selectedAllowed = p
		}
	}
	if w.Button("Remove##"+a.Title) && a.Remove(a.selectedAllowed) {
		a.selectedAllowed = ""
		changed = true
	}
	w.SameLine()
	if w.Button("Reset##" + a.Title) {
		a.Reset()
		changed = true
	}

	w.Separator()
	w.Text("Available")
	for _, p := range a.Available() {
		if w.Selectable(p+"##available", p == a.selectedAvailable) {
			a.selectedAvailable = p
		}
	}
	if w.Button("Add##"+a.Title) && a.selectedAvailable != "" && a.Add(a.selectedAvailable) {
		a.selectedAvailable = ""
		changed = true
	}
	return changed
}
