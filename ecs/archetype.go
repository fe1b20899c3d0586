package ecs

import (
	"iter"
	"reflect"
	"slices"
	"weak"

	"github.com/kamstrup/intmap"
)

func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		switch as, bs := a.String(), b.String(); {
		case as < bs:
			return -1
		case as > bs:
			return 1
		}
		return 0
	})
}

// Archetype stores every entity sharing one exact set of component types.
// Columns are kept in sorted type order and always have identical occupancy.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []columnStorage
	refs    *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]columnStorage, len(types)),
		refs:    intmap.New[EntityId, weak.Pointer[EntityRef]](64),
	}
	for i, typ := range types {
		factory := registry.factory(typ)
		if factory == nil {
			panic("ecs: component type " + typ.String() + " not registered")
		}
		a.columns[i] = factory()
	}
	return a
}

func (a *Archetype) column(t reflect.Type) int {
	return slices.Index(a.types, t)
}

func (a *Archetype) spawn(components []any) uint32 {
	index := -1
	for _, comp := range components {
		if i := a.column(componentType(comp)); i >= 0 {
			index = a.columns[i].Append(comp)
		}
	}
	return uint32(index)
}

func (a *Archetype) component(index uint32, t reflect.Type) any {
	i := a.column(t)
	if i < 0 {
		return nil
	}
	return a.columns[i].Get(int(index))
}

func (a *Archetype) alive(index uint32) bool {
	return len(a.columns) > 0 && a.columns[0].Has(int(index))
}

func (a *Archetype) delete(index uint32) {
	id := NewEntityId(a.id, index)
	if ptr, ok := a.refs.Get(id); ok {
		if ref := ptr.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(id)
	}
	for _, col := range a.columns {
		col.Delete(int(index))
	}
}

// moveRef re-points an outstanding EntityRef when an entity changes archetype.
func (a *Archetype) moveRef(from EntityId, to *Archetype, toId EntityId) {
	ptr, ok := a.refs.Get(from)
	if !ok {
		return
	}
	a.refs.Del(from)
	if ref := ptr.Value(); ref != nil {
		ref.Id = toId
		ref.Archetype = to
		to.refs.Put(toId, ptr)
	}
}

func (a *Archetype) HasComponent(t reflect.Type) bool {
	return a.column(t) >= 0
}

func (a *Archetype) ID() uint32 {
	return a.id
}

func (a *Archetype) Types() []reflect.Type {
	return a.types
}

func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].Len()
}

// Compact removes holes left by deletions. Live entities keep their relative
// order; outstanding EntityRefs are updated to the new ids.
func (a *Archetype) Compact() {
	if len(a.columns) == 0 {
		return
	}
	moved := a.columns[0].Compact()
	for _, col := range a.columns[1:] {
		col.Compact()
	}

	refs := intmap.New[EntityId, weak.Pointer[EntityRef]](a.refs.Len())
	for oldIdx, newIdx := range moved {
		ptr, ok := a.refs.Get(NewEntityId(a.id, uint32(oldIdx)))
		if !ok {
			continue
		}
		if ref := ptr.Value(); ref != nil {
			ref.Id = NewEntityId(a.id, uint32(newIdx))
			refs.Put(ref.Id, ptr)
		}
	}
	a.refs = refs
}

// Iter yields the ids of live entities in slot order.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for index := range a.columns[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}
