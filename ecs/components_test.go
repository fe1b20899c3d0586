package ecs_test

import "github.com/plus3/sampleviewer/ecs"

type Cell struct {
	X, Y, Z int
}

type Tint struct {
	R, G, B float32
}

type Label string

type Spin float32

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Cell](registry)
	ecs.RegisterComponent[Tint](registry)
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Spin](registry)
	return registry
}
