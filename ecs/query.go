package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// layout describes how a query struct maps onto component columns. Each field
// must be a pointer to a component type, except for an optional EntityId field
// which receives the id of the current entity.
type layout struct {
	types    []reflect.Type
	optional []bool
	offsets  []uintptr
	idOffset uintptr
	hasId    bool
}

func newLayout(structType reflect.Type) layout {
	if structType.Kind() != reflect.Struct {
		panic("ecs: query type parameter must be a struct")
	}

	var l layout
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type == entityIdType {
			l.idOffset, l.hasId = field.Offset, true
			continue
		}
		if field.Type.Kind() != reflect.Pointer {
			panic("ecs: query field " + field.Name + " must be a pointer")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("ecs: invalid tag \"" + tag + "\" on " + field.Name)
			}
			optional = true
		}

		l.types = append(l.types, field.Type.Elem())
		l.optional = append(l.optional, optional)
		l.offsets = append(l.offsets, field.Offset)
	}
	return l
}

func (l *layout) matches(a *Archetype) bool {
	for i, t := range l.types {
		if !l.optional[i] && !a.HasComponent(t) {
			return false
		}
	}
	return true
}

func (l *layout) columnsFor(a *Archetype) []int {
	cols := make([]int, len(l.types))
	for i, t := range l.types {
		cols[i] = a.column(t)
	}
	return cols
}

// fill writes component pointers for one entity into the struct at dst.
func (l *layout) fill(dst unsafe.Pointer, a *Archetype, index int, cols []int) bool {
	for i, col := range cols {
		field := unsafe.Add(dst, l.offsets[i])
		var comp any
		if col >= 0 {
			comp = a.columns[col].Get(index)
		}
		if comp == nil {
			if !l.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(field) = nil
			continue
		}
		*(*unsafe.Pointer)(field) = reflect.ValueOf(comp).UnsafePointer()
	}
	if l.hasId {
		*(*EntityId)(unsafe.Add(dst, l.idOffset)) = NewEntityId(a.id, uint32(index))
	}
	return true
}

// Query iterates all entities that carry the required components of T. The
// result set is captured by Execute, which the Scheduler calls before every
// system run, so structural changes made mid-system are not observed.
type Query[T any] struct {
	storage  *Storage
	layout   layout
	matched  []*Archetype
	seen     int
	entities []EntityId
	values   []T
	executed bool
}

func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage. Called by the Scheduler on Register.
func (q *Query[T]) Init(storage *Storage) {
	q.storage = storage
	q.layout = newLayout(reflect.TypeFor[T]())
	q.matched = nil
	q.seen = -1
	q.executed = false
}

func (q *Query[T]) refreshArchetypes() {
	if len(q.storage.archetypes) == q.seen && q.matched != nil {
		return
	}
	q.seen = len(q.storage.archetypes)
	q.matched = q.matched[:0]
	for _, a := range q.storage.GetArchetypes() {
		if q.layout.matches(a) {
			q.matched = append(q.matched, a)
		}
	}
}

// Execute snapshots the current matching entities.
func (q *Query[T]) Execute() {
	q.refreshArchetypes()
	q.entities = q.entities[:0]
	q.values = q.values[:0]

	var item T
	dst := unsafe.Pointer(&item)
	for _, a := range q.matched {
		if len(a.columns) == 0 {
			continue
		}
		cols := q.layout.columnsFor(a)
		for index := range a.columns[0].Iter() {
			if !q.layout.fill(dst, a, index, cols) {
				continue
			}
			q.entities = append(q.entities, NewEntityId(a.id, uint32(index)))
			q.values = append(q.values, item)
		}
	}
	q.executed = true
}

// Iter yields the snapshot taken by the last Execute.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.executed {
		panic("ecs: Query.Iter called before Query.Execute")
	}
	return func(yield func(EntityId, T) bool) {
		for i := range q.entities {
			if !yield(q.entities[i], q.values[i]) {
				return
			}
		}
	}
}

func (q *Query[T]) Values() iter.Seq[T] {
	if !q.executed {
		panic("ecs: Query.Values called before Query.Execute")
	}
	return func(yield func(T) bool) {
		for i := range q.values {
			if !yield(q.values[i]) {
				return
			}
		}
	}
}

func (q *Query[T]) Count() int {
	return len(q.values)
}

// Get fills a T for a single entity, or returns false if it lacks a required
// component.
func (q *Query[T]) Get(id EntityId) (T, bool) {
	var item T
	a, ok := q.storage.archetypes[id.ArchetypeId()]
	if !ok || !q.layout.matches(a) || !a.alive(id.Index()) {
		return item, false
	}
	ok = q.layout.fill(unsafe.Pointer(&item), a, int(id.Index()), q.layout.columnsFor(a))
	return item, ok
}

// executor is implemented by every Query instantiation so the Scheduler can
// refresh them without knowing T.
type executor interface {
	Execute()
}
