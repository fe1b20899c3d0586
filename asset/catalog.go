package asset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

var ErrNotFound = errors.New("asset not found")

// Catalog maps product paths to ids. It is safe for concurrent use so a
// watcher goroutine can keep it current while the main thread reads it.
type Catalog struct {
	log    *slog.Logger
	mu     sync.RWMutex
	byPath map[string]Info
	byId   map[Id]Info
}

func NewCatalog(log *slog.Logger) *Catalog {
	return &Catalog{
		log:    log,
		byPath: make(map[string]Info),
		byId:   make(map[Id]Info),
	}
}

// Register adds p to the catalog, inferring its type from the extension.
func (c *Catalog) Register(p string) Info {
	info := Info{Id: IdForPath(p), Type: TypeOf(p), RelativePath: Normalize(p)}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byPath[info.RelativePath] = info
	c.byId[info.Id] = info
	return info
}

func (c *Catalog) Unregister(p string) bool {
	p = Normalize(p)
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.byPath[p]
	if ok {
		delete(c.byPath, p)
		delete(c.byId, info.Id)
	}
	return ok
}

// GetAssetIdByPath resolves p. A registered product of a different type is
// treated as missing.
func (c *Catalog) GetAssetIdByPath(p string, t Type) (Id, error) {
	c.mu.RLock()
	info, ok := c.byPath[Normalize(p)]
	c.mu.RUnlock()
	if !ok || (t != TypeUnknown && info.Type != t) {
		return Id{}, fmt.Errorf("%s %q: %w", t, p, ErrNotFound)
	}
	return info.Id, nil
}

func (c *Catalog) GetAssetInfoById(id Id) (Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.byId[id]
	return info, ok
}

// Filter returns matching products sorted by path.
func (c *Catalog) Filter(match func(Info) bool) []Info {
	c.mu.RLock()
	var out []Info
	for _, info := range c.byPath {
		if match == nil || match(info) {
			out = append(out, info)
		}
	}
	c.mu.RUnlock()
	slices.SortFunc(out, func(a, b Info) int { return strings.Compare(a.RelativePath, b.RelativePath) })
	return out
}

// OfType is a Filter for one asset type.
func OfType(t Type) func(Info) bool {
	return func(info Info) bool { return info.Type == t }
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byPath)
}

func relative(root, p string) (string, bool) {
	rel, err := filepath.Rel(root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Scan registers every product file below root and returns how many were
// added.
func (c *Catalog) Scan(root string) (int, error) {
	n := 0
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || TypeOf(p) == TypeUnknown {
			return nil
		}
		if rel, ok := relative(root, p); ok {
			c.Register(rel)
			n++
		}
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("scan %s: %w", root, err)
	}
	return n, nil
}

// Watch keeps the catalog in sync with root until ctx is done. Directories
// created after the call are watched as they appear.
func (c *Catalog) Watch(ctx context.Context, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	addTree := func(dir string) error {
		return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return watcher.Add(p)
			}
			return nil
		})
	}
	if err := addTree(root); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", root, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				c.handleEvent(root, event, addTree)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.log.Warn("asset watcher error", "root", root, "err", err)
			}
		}
	}()
	return nil
}

func (c *Catalog) handleEvent(root string, event fsnotify.Event, addTree func(string) error) {
	rel, ok := relative(root, event.Name)
	if !ok {
		return
	}
	switch {
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
			if err := addTree(event.Name); err != nil {
				c.log.Warn("cannot watch directory", "dir", event.Name, "err", err)
			}
			_, _ = c.Scan(root)
			return
		}
		if TypeOf(rel) != TypeUnknown {
			info := c.Register(rel)
			c.log.Debug("asset registered", "path", info.RelativePath, "type", info.Type)
		}
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if c.Unregister(rel) {
			c.log.Debug("asset removed", "path", rel)
		}
	}
}
