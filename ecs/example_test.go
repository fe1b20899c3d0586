package ecs_test

import (
	"fmt"

	"github.com/plus3/sampleviewer/ecs"
)

type fadeSystem struct {
	Tinted ecs.Query[struct {
		*Cell
		*Tint
	}]
}

func (s *fadeSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Tinted.Values() {
		item.R = max(0, item.R-float32(frame.DeltaTime))
	}
}

func Example() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Cell](registry)
	ecs.RegisterComponent[Tint](registry)

	storage := ecs.NewStorage(registry)
	id := storage.Spawn(Cell{X: 1}, Tint{R: 1})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&fadeSystem{})
	scheduler.Once(0.25)
	scheduler.Once(0.25)

	fmt.Printf("%.2f\n", ecs.ReadComponent[Tint](storage, id).R)
	// Output: 0.50
}
