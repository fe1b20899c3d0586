package ecs

import "reflect"

// Commands buffers structural changes made while systems run. The Scheduler
// flushes the buffer after the last system of a tick.
type Commands struct {
	spawns  [][]any
	deletes []EntityId
	adds    []addCommand
	removes []removeCommand
	defers  []func()
}

type addCommand struct {
	entity    EntityId
	component any
}

type removeCommand struct {
	entity EntityId
	typ    reflect.Type
}

func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addCommand{entity: entity, component: component})
}

func (c *Commands) RemoveComponent(entity EntityId, t reflect.Type) {
	c.removes = append(c.removes, removeCommand{entity: entity, typ: t})
}

// Defer runs fn after all structural changes of this flush.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies deletes, removes, adds and spawns in that order, then runs
// deferred functions, and resets the buffer. Adds and removes targeting an
// entity deleted in the same flush are dropped.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]struct{}, len(c.deletes))
	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = struct{}{}
	}
	for _, cmd := range c.removes {
		if _, gone := deleted[cmd.entity]; !gone {
			storage.RemoveComponent(cmd.entity, cmd.typ)
		}
	}
	for _, cmd := range c.adds {
		if _, gone := deleted[cmd.entity]; !gone {
			storage.AddComponent(cmd.entity, cmd.component)
		}
	}
	for _, comps := range c.spawns {
		storage.Spawn(comps...)
	}

	// deferred functions may queue more commands
	defers := c.defers
	c.spawns, c.deletes, c.adds, c.removes, c.defers = c.spawns[:0], c.deletes[:0], c.adds[:0], c.removes[:0], nil
	for _, fn := range defers {
		fn()
	}
	if c.Len() > 0 {
		c.Flush(storage)
	}
}
