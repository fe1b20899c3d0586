package ui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Scriptable lets a script drive widgets by label. A value queued with Set is
// applied the next time a widget with that label is drawn, and the widget
// then reports a change exactly as if the user had edited it.
type Scriptable struct {
	Widgets
	queued map[string]string
	scope  []string
}

func NewScriptable(w Widgets) *Scriptable {
	return &Scriptable{Widgets: w, queued: make(map[string]string)}
}

// Set queues value for the widget labelled label. Labels inside a window are
// addressed as "Window/Label".
func (s *Scriptable) Set(label, value string) {
	s.queued[label] = value
}

// Unconsumed lists labels that were queued but never drawn.
func (s *Scriptable) Unconsumed() []string {
	out := make([]string, 0, len(s.queued))
	for l := range s.queued {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// Clear drops all queued values.
func (s *Scriptable) Clear() {
	clear(s.queued)
}

// take returns and consumes the queued value for label, matching either the
// bare label or its window-qualified path.
func (s *Scriptable) take(label string) (string, bool) {
	keys := []string{label}
	if name, _, _ := strings.Cut(label, "##"); name != "" && name != label {
		keys = append(keys, name)
	}
	if len(s.scope) > 0 {
		prefix := strings.Join(s.scope, "/") + "/"
		scoped := make([]string, 0, 2*len(keys))
		for _, k := range keys {
			scoped = append(scoped, prefix+k)
		}
		keys = append(scoped, keys...)
	}
	for _, k := range keys {
		if v, ok := s.queued[k]; ok {
			delete(s.queued, k)
			return v, true
		}
	}
	return "", false
}

func (s *Scriptable) Begin(title string, open *bool) bool {
	s.scope = append(s.scope, title)
	return s.Widgets.Begin(title, open)
}

func (s *Scriptable) End() {
	if len(s.scope) > 0 {
		s.scope = s.scope[:len(s.scope)-1]
	}
	s.Widgets.End()
}

func (s *Scriptable) Checkbox(label string, v *bool) bool {
	changed := s.Widgets.Checkbox(label, v)
	if raw, ok := s.take(label); ok {
		if b, err := strconv.ParseBool(raw); err == nil && b != *v {
			*v = b
			changed = true
		}
	}
	return changed
}

func (s *Scriptable) SliderInt(label string, v *int32, lo, hi int32) bool {
	changed := s.Widgets.SliderInt(label, v, lo, hi)
	if raw, ok := s.take(label); ok {
		if n, err := strconv.ParseInt(raw, 10, 32); err == nil {
			n := max(lo, min(int32(n), hi))
			if n != *v {
				*v = n
				changed = true
			}
		}
	}
	return changed
}

func (s *Scriptable) SliderFloat(label string, v *float32, lo, hi float32) bool {
	changed := s.Widgets.SliderFloat(label, v, lo, hi)
	if raw, ok := s.take(label); ok {
		if f, err := strconv.ParseFloat(raw, 32); err == nil {
			f := max(lo, min(float32(f), hi))
			if f != *v {
				*v = f
				changed = true
			}
		}
	}
	return changed
}

func (s *Scriptable) Button(label string) bool {
	pressed := s.Widgets.Button(label)
	if _, ok := s.take(label); ok {
		pressed = true
	}
	return pressed
}

func (s *Scriptable) Selectable(label string, selected bool) bool {
	clicked := s.Widgets.Selectable(label, selected)
	if raw, ok := s.take(label); ok {
		if b, err := strconv.ParseBool(raw); err != nil || b {
			clicked = true
		}
	}
	return clicked
}

func (s *Scriptable) String() string {
	return fmt.Sprintf("Scriptable(%d queued)", len(s.queued))
}
