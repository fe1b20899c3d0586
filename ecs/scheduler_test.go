package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/sampleviewer/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spinSystem struct {
	Cells ecs.Query[struct {
		*Cell
		*Spin
	}]
	Runs int
}

func (s *spinSystem) Execute(frame *ecs.UpdateFrame) {
	s.Runs++
	for item := range s.Cells.Values() {
		*item.Spin += Spin(frame.DeltaTime)
	}
}

type tintCounter struct {
	Tints   ecs.Query[struct{ *Tint }]
	Setting ecs.Singleton[Label]
	Seen    int
}

func (s *tintCounter) Execute(frame *ecs.UpdateFrame) {
	s.Seen = s.Tints.Count()
	if l := s.Setting.Get(); l != nil {
		*l = "counted"
	}
}

func TestSchedulerRunsSystemsInOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	var order []string
	scheduler.Register(ecs.SystemFunc(func(*ecs.UpdateFrame) { order = append(order, "first") }))
	scheduler.Register(ecs.SystemFunc(func(*ecs.UpdateFrame) { order = append(order, "second") }))

	scheduler.Once(0.1)
	scheduler.Once(0.1)
	assert.Equal(t, []string{"first", "second", "first", "second"}, order)
}

func TestSchedulerBindsQueriesAndSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton(storage, Label("initial"))
	scheduler := ecs.NewScheduler(storage)

	spin := &spinSystem{}
	counter := &tintCounter{}
	scheduler.Register(spin)
	scheduler.Register(counter)

	id := storage.Spawn(Cell{}, Spin(0))
	storage.Spawn(Tint{})

	scheduler.Once(0.5)
	scheduler.Once(0.25)

	assert.Equal(t, 2, spin.Runs)
	assert.InDelta(t, 0.75, float64(*ecs.ReadComponent[Spin](storage, id)), 1e-6)
	assert.Equal(t, 1, counter.Seen)

	label, ok := ecs.ReadSingleton[Label](storage)
	require.True(t, ok)
	assert.Equal(t, Label("counted"), *label)
}

func TestSchedulerCommandsVisibleNextTick(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	counter := &tintCounter{}
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(Tint{})
	}))
	scheduler.Register(counter)

	scheduler.Once(0)
	assert.Equal(t, 0, counter.Seen)
	scheduler.Once(0)
	assert.Equal(t, 1, counter.Seen)
	assert.Equal(t, 2, storage.EntityCount())
}

func TestSchedulerStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&spinSystem{})

	stats := scheduler.GetStats()
	assert.Equal(t, 1, stats.SystemCount)
	assert.Equal(t, "spinSystem", stats.Systems[0].Name)
	assert.Zero(t, stats.Systems[0].MinDuration)

	for range 3 {
		scheduler.Once(0)
	}
	stats = scheduler.GetStats()
	assert.Equal(t, int64(3), stats.TotalExecutions)
	assert.LessOrEqual(t, stats.Systems[0].MinDuration, stats.Systems[0].MaxDuration)

	scheduler.Reset()
	assert.Equal(t, 0, scheduler.GetStats().SystemCount)
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	ticks := 0
	scheduler.Register(ecs.SystemFunc(func(*ecs.UpdateFrame) { ticks++ }))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	scheduler.Run(ctx, 5*time.Millisecond)

	assert.Greater(t, ticks, 0)
}
