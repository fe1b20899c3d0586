package ecs_test

import (
	"testing"

	"github.com/plus3/sampleviewer/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryRequiredAndOptional(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Cell{X: 1}, Tint{R: 1})
	storage.Spawn(Cell{X: 2})
	storage.Spawn(Tint{R: 3})

	q := ecs.NewQuery[struct {
		Id ecs.EntityId
		*Cell
		Tint *Tint `ecs:"optional"`
	}](storage)
	q.Execute()

	require.Equal(t, 2, q.Count())
	seen := map[int]bool{}
	for id, item := range q.Iter() {
		assert.Equal(t, id, item.Id)
		seen[item.X] = item.Tint != nil
	}
	assert.Equal(t, map[int]bool{1: true, 2: false}, seen)
}

func TestQuerySnapshotsUntilExecute(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	q := ecs.NewQuery[struct{ *Cell }](storage)

	assert.Panics(t, func() { q.Iter() })

	storage.Spawn(Cell{})
	q.Execute()
	storage.Spawn(Cell{})
	assert.Equal(t, 1, q.Count())

	q.Execute()
	assert.Equal(t, 2, q.Count())
}

func TestQueryWritesThrough(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Cell{X: 1})

	q := ecs.NewQuery[struct{ *Cell }](storage)
	q.Execute()
	for item := range q.Values() {
		item.X *= 7
	}
	assert.Equal(t, 7, ecs.ReadComponent[Cell](storage, id).X)

	item, ok := q.Get(id)
	require.True(t, ok)
	assert.Equal(t, 7, item.X)

	other := storage.Spawn(Label("no cell"))
	_, ok = q.Get(other)
	assert.False(t, ok)
}

func TestQueryRejectsBadLayouts(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewQuery[int](storage) })
	assert.Panics(t, func() { ecs.NewQuery[struct{ C Cell }](storage) })
	assert.Panics(t, func() {
		ecs.NewQuery[struct {
			C *Cell `ecs:"sometimes"`
		}](storage)
	})
}
