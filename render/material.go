package render

import (
	"maps"
	"slices"

	"github.com/plus3/sampleviewer/asset"
)

// Material is an instance of a material asset with overridable properties.
// Property changes take effect after Compile.
type Material struct {
	id       uint32
	source   asset.Id
	shared   bool
	props    map[string]any
	compiled map[string]any
	dirty    bool
	compiles int
}

func (m *Material) Source() asset.Id { return m.source }
func (m *Material) Shared() bool     { return m.shared }

func (m *Material) SetProperty(name string, value any) {
	if m.props == nil {
		m.props = make(map[string]any)
	}
	m.props[name] = value
	m.dirty = true
}

// Property returns the last compiled value of name.
func (m *Material) Property(name string) (any, bool) {
	v, ok := m.compiled[name]
	return v, ok
}

func (m *Material) NeedsCompile() bool { return m.dirty }

// Compile applies pending property changes and reports whether anything was
// compiled.
func (m *Material) Compile() bool {
	if !m.dirty {
		return false
	}
	m.compiled = maps.Clone(m.props)
	m.dirty = false
	m.compiles++
	return true
}

func (m *Material) CompileCount() int { return m.compiles }

// PropertyNames lists set properties in order.
func (m *Material) PropertyNames() []string {
	return slices.Sorted(maps.Keys(m.props))
}
