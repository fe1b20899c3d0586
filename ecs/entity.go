// Package ecs is the archetype entity store that holds per-instance sample
// state and drives it through registered systems once per tick.
package ecs

import "fmt"

// EntityId packs the archetype id into the upper 32 bits and the slot index
// into the lower 32 bits.
type EntityId uint64

func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%08x:%d", e.ArchetypeId(), e.Index())
}

// EntityRef follows an entity across archetype moves and compaction. Id is
// zero once the entity has been deleted.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}
