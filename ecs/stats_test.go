package ecs_test

import (
	"testing"

	"github.com/plus3/sampleviewer/ecs"
	"github.com/stretchr/testify/assert"
)

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	stats := storage.CollectStats()
	assert.Zero(t, stats.ArchetypeCount)
	assert.Zero(t, stats.TotalEntityCount)
	assert.Zero(t, stats.SingletonCount)

	storage.Spawn(Cell{}, Tint{})
	storage.Spawn(Cell{}, Tint{})
	storage.Spawn(Label("x"))
	ecs.NewSingleton(storage, Spin(1))

	stats = storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 1, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Spin"}, stats.SingletonTypes)

	counts := map[int][]string{}
	for _, a := range stats.ArchetypeBreakdown {
		counts[a.EntityCount] = a.ComponentTypes
	}
	assert.Equal(t, []string{"ecs_test.Cell", "ecs_test.Tint"}, counts[2])
	assert.Equal(t, []string{"ecs_test.Label"}, counts[1])
}
