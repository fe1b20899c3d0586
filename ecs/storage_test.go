package ecs_test

import (
	"fmt"
	"reflect"
	"runtime"
	"testing"

	"github.com/plus3/sampleviewer/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			id := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, id.ArchetypeId())
			assert.Equal(t, tt.index, id.Index())
		})
	}
}

func TestSpawnAndRead(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Cell{X: 1, Y: 2, Z: 3}, &Tint{R: 1}, Label("a"))
	require.True(t, storage.Alive(id))

	cell := ecs.ReadComponent[Cell](storage, id)
	require.NotNil(t, cell)
	assert.Equal(t, Cell{X: 1, Y: 2, Z: 3}, *cell)
	assert.Equal(t, Label("a"), *ecs.ReadComponent[Label](storage, id))
	assert.Nil(t, ecs.ReadComponent[Spin](storage, id))

	cell.X = 10
	assert.Equal(t, 10, ecs.ReadComponent[Cell](storage, id).X, "component pointers alias storage")
}

func TestSameComponentSetSharesArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Cell{}, Tint{})
	b := storage.Spawn(Tint{}, Cell{})
	c := storage.Spawn(Cell{})

	assert.Equal(t, a.ArchetypeId(), b.ArchetypeId())
	assert.NotEqual(t, a.ArchetypeId(), c.ArchetypeId())
	assert.Len(t, storage.GetArchetypes(), 2)
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { storage.Spawn() })
	assert.Panics(t, func() { storage.Spawn(struct{ Unregistered int }{}) })
	assert.Panics(t, func() { storage.Spawn(map[string]int{}) })
}

func TestDeleteReusesSlot(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Cell{X: 1})
	storage.Spawn(Cell{X: 2})
	storage.Delete(a)

	assert.False(t, storage.Alive(a))
	assert.Equal(t, 1, storage.EntityCount())

	c := storage.Spawn(Cell{X: 3})
	assert.Equal(t, a, c)
	assert.Equal(t, 3, ecs.ReadComponent[Cell](storage, c).X)
}

func TestAddRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Cell{X: 4})
	moved := storage.AddComponent(id, Tint{G: 1})
	require.NotEqual(t, id.ArchetypeId(), moved.ArchetypeId())
	assert.False(t, storage.Alive(id))
	assert.Equal(t, 4, ecs.ReadComponent[Cell](storage, moved).X)
	assert.Equal(t, float32(1), ecs.ReadComponent[Tint](storage, moved).G)

	same := storage.AddComponent(moved, Tint{G: 2})
	assert.Equal(t, moved, same, "overwrite keeps the entity in place")
	assert.Equal(t, float32(2), ecs.ReadComponent[Tint](storage, same).G)

	back := storage.RemoveComponent(same, reflect.TypeFor[Tint]())
	assert.False(t, storage.HasComponent(back, reflect.TypeFor[Tint]()))
	assert.Equal(t, 4, ecs.ReadComponent[Cell](storage, back).X)

	gone := storage.RemoveComponent(back, reflect.TypeFor[Cell]())
	assert.Zero(t, gone)
	assert.Equal(t, 0, storage.EntityCount())
}

func TestEntityRefFollowsMoves(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Cell{X: 0})
	id := storage.Spawn(Cell{X: 1})
	ref := storage.CreateEntityRef(id)
	require.NotNil(t, ref)
	assert.Same(t, ref, storage.CreateEntityRef(id))

	moved := storage.AddComponent(id, Label("x"))
	resolved, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.Equal(t, moved, resolved)

	storage.Delete(moved)
	_, ok = storage.ResolveEntityRef(ref)
	assert.False(t, ok)
	runtime.KeepAlive(ref)
}

func TestCompactKeepsOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var ids []ecs.EntityId
	for i := range 100 {
		ids = append(ids, storage.Spawn(Cell{X: i}))
	}
	for i := 0; i < 100; i += 2 {
		storage.Delete(ids[i])
	}
	ref := storage.CreateEntityRef(ids[99])

	arch := storage.GetArchetypes()[0]
	arch.Compact()

	var xs []int
	for id := range arch.Iter() {
		xs = append(xs, ecs.ReadComponent[Cell](storage, id).X)
	}
	require.Len(t, xs, 50)
	for i, x := range xs {
		assert.Equal(t, 2*i+1, x)
	}

	resolved, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.Equal(t, uint32(49), resolved.Index())
	assert.Equal(t, 99, ecs.ReadComponent[Cell](storage, resolved).X)
}

func TestSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	_, ok := ecs.ReadSingleton[Tint](storage)
	assert.False(t, ok)

	s := ecs.NewSingleton(storage, Tint{R: 0.5})
	require.True(t, s.Exists())
	s.Get().R = 0.75

	tint, ok := ecs.ReadSingleton[Tint](storage)
	require.True(t, ok)
	assert.Equal(t, float32(0.75), tint.R)

	again := ecs.NewSingleton(storage, Tint{R: 9})
	assert.Equal(t, float32(0.75), again.Get().R, "initializer ignored when present")

	storage.AddSingleton(Tint{B: 1})
	assert.Equal(t, float32(1), s.Get().B, "replacement is visible through existing accessors")
}
