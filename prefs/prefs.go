// Package prefs persists small per-sample UI preference files under the
// user cache directory.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// UserAlias at the start of a path stands for the store's directory.
const UserAlias = "@user@"

type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// ResolvePath expands UserAlias and converts slashes for the host OS.
func (s *Store) ResolvePath(p string) string {
	if rest, ok := strings.CutPrefix(p, UserAlias); ok {
		return filepath.Join(s.Dir, filepath.FromSlash(strings.TrimPrefix(rest, "/")))
	}
	return filepath.FromSlash(p)
}

// Load decodes the file at p into v. It reports false, with v untouched, when
// the file does not exist yet.
func (s *Store) Load(p string, v any) (bool, error) {
	path := s.ResolvePath(p)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read prefs: %w", err)
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse prefs %s: %w", path, err)
	}
	return true, nil
}

// Save encodes v to p, creating parent directories. The file is replaced
// atomically.
func (s *Store) Save(p string, v any) error {
	path := s.ResolvePath(p)
	data, err := toml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return os.Rename(tmp, path)
}

// SidebarPrefs remembers whether a sample's sidebar window is open.
type SidebarPrefs struct {
	Open bool `toml:"open"`
}

// AllowListPrefs remembers the assets pinned in an asset browser.
type AllowListPrefs struct {
	Pinned []string `toml:"pinned"`
}
