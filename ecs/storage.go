package ecs

import (
	"hash/fnv"
	"maps"
	"reflect"
	"slices"
	"unsafe"
	"weak"
)

type singletonEntry struct {
	typ     reflect.Type
	dataPtr unsafe.Pointer
	value   reflect.Value
}

// Storage owns all archetypes and singletons of one world.
type Storage struct {
	archetypes map[uint32]*Archetype
	singletons map[reflect.Type]*singletonEntry
	registry   *ComponentRegistry
}

func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		singletons: make(map[reflect.Type]*singletonEntry),
		registry:   registry,
	}
}

func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func typesOf(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		t := componentType(comp)
		switch t.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
			panic("ecs: components cannot be pointers, maps, channels, or functions")
		}
		types = append(types, t)
	}
	sortTypes(types)
	return types
}

// archetypeHash is FNV-1a over the sorted, package-qualified type names so the
// same component set always hashes to the same archetype id.
func archetypeHash(types []reflect.Type) uint32 {
	h := fnv.New32a()
	for _, t := range types {
		h.Write([]byte(t.PkgPath()))
		h.Write([]byte{'.'})
		h.Write([]byte(t.String()))
		h.Write([]byte{0})
	}
	return h.Sum32()
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := archetypeHash(types)
	a, ok := s.archetypes[id]
	if !ok {
		a = newArchetype(id, types, s.registry)
		s.archetypes[id] = a
	}
	return a
}

// Spawn creates an entity holding the given components. Components may be
// passed by value or by pointer; the stored copy is always a value.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("ecs: cannot spawn entity without components")
	}
	a := s.archetypeFor(typesOf(components))
	return NewEntityId(a.id, a.spawn(components))
}

func (s *Storage) Delete(id EntityId) {
	if a, ok := s.archetypes[id.ArchetypeId()]; ok {
		a.delete(id.Index())
	}
}

// Alive reports whether id still refers to a live entity.
func (s *Storage) Alive(id EntityId) bool {
	a, ok := s.archetypes[id.ArchetypeId()]
	return ok && a.alive(id.Index())
}

// migrate moves an entity into the archetype described by types, taking
// components from the old slot unless overridden by extra.
func (s *Storage) migrate(id EntityId, types []reflect.Type, extra any) EntityId {
	from := s.archetypes[id.ArchetypeId()]
	if len(types) == 0 {
		from.delete(id.Index())
		return 0
	}

	to := s.archetypeFor(types)
	var extraType reflect.Type
	if extra != nil {
		extraType = componentType(extra)
	}

	components := make([]any, 0, len(types))
	for _, t := range types {
		if t == extraType {
			components = append(components, extra)
			continue
		}
		components = append(components, from.component(id.Index(), t))
	}

	newId := NewEntityId(to.id, to.spawn(components))
	from.moveRef(id, to, newId)
	from.delete(id.Index())
	return newId
}

// AddComponent attaches component to id and returns the entity's new id. If
// the entity already has a component of that type it is overwritten in place.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	from, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !from.alive(id.Index()) {
		return 0
	}
	t := componentType(component)
	if from.HasComponent(t) {
		dst := reflect.ValueOf(from.component(id.Index(), t)).Elem()
		src := reflect.ValueOf(component)
		if src.Kind() == reflect.Pointer {
			src = src.Elem()
		}
		dst.Set(src)
		return id
	}

	types := append(slices.Clone(from.types), t)
	sortTypes(types)
	return s.migrate(id, types, component)
}

// RemoveComponent detaches the component of type t. Removing the last
// component deletes the entity and returns 0.
func (s *Storage) RemoveComponent(id EntityId, t reflect.Type) EntityId {
	from, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !from.alive(id.Index()) {
		return 0
	}
	if !from.HasComponent(t) {
		return id
	}
	types := slices.DeleteFunc(slices.Clone(from.types), func(x reflect.Type) bool { return x == t })
	return s.migrate(id, types, nil)
}

func (s *Storage) GetComponent(id EntityId, t reflect.Type) any {
	a, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	return a.component(id.Index(), t)
}

func (s *Storage) HasComponent(id EntityId, t reflect.Type) bool {
	a, ok := s.archetypes[id.ArchetypeId()]
	return ok && a.alive(id.Index()) && a.HasComponent(t)
}

// ReadComponent returns a pointer to the entity's T, or nil.
func ReadComponent[T any](s *Storage, id EntityId) *T {
	c, _ := s.GetComponent(id, reflect.TypeFor[T]()).(*T)
	return c
}

// CreateEntityRef returns the shared ref for id, creating it on first use.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	a := s.archetypes[id.ArchetypeId()]
	if a == nil || !a.alive(id.Index()) {
		return nil
	}
	if ptr, ok := a.refs.Get(id); ok {
		if ref := ptr.Value(); ref != nil {
			return ref
		}
	}
	ref := &EntityRef{Id: id, Archetype: a}
	a.refs.Put(id, weak.Make(ref))
	return ref
}

func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if ref == nil || ref.Id == 0 {
		return 0, false
	}
	return ref.Id, true
}

// GetArchetypes returns archetypes ordered by id.
func (s *Storage) GetArchetypes() []*Archetype {
	ids := slices.Sorted(maps.Keys(s.archetypes))
	out := make([]*Archetype, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.archetypes[id])
	}
	return out
}

// Compact compacts every archetype. Entity ids change; refs follow.
func (s *Storage) Compact() {
	for _, a := range s.archetypes {
		a.Compact()
	}
}

func (s *Storage) EntityCount() int {
	n := 0
	for _, a := range s.archetypes {
		n += a.Len()
	}
	return n
}

// AddSingleton stores value as the world-wide instance of its type, replacing
// any previous one.
func (s *Storage) AddSingleton(value any) {
	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		value = reflect.ValueOf(value).Elem().Interface()
	}
	if entry, ok := s.singletons[t]; ok {
		entry.value.Set(reflect.ValueOf(value))
		return
	}
	v := reflect.New(t).Elem()
	v.Set(reflect.ValueOf(value))
	s.singletons[t] = &singletonEntry{
		typ:     t,
		dataPtr: v.Addr().UnsafePointer(),
		value:   v,
	}
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// ReadSingleton returns the stored T, if any.
func ReadSingleton[T any](s *Storage) (*T, bool) {
	entry := s.getSingletonEntry(reflect.TypeFor[T]())
	if entry == nil {
		return nil, false
	}
	return (*T)(entry.dataPtr), true
}

// ArchetypeStats describes one archetype in a StorageStats snapshot.
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// StorageStats is a point-in-time snapshot used by the stats window and the
// stress report.
type StorageStats struct {
	TotalEntityCount   int
	ArchetypeCount     int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		ArchetypeCount: len(s.archetypes),
		SingletonCount: len(s.singletons),
	}
	for _, a := range s.GetArchetypes() {
		names := make([]string, len(a.types))
		for i, t := range a.types {
			names[i] = t.String()
		}
		n := a.Len()
		stats.TotalEntityCount += n
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             a.id,
			ComponentTypes: names,
			EntityCount:    n,
		})
	}
	for t := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	slices.Sort(stats.SingletonTypes)
	return stats
}
