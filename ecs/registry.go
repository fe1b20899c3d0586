package ecs

import (
	"iter"
	"reflect"
)

// ComponentRegistry maps component types to their storage constructors. Every
// Storage owns exactly one registry; types must be registered before Spawn.
type ComponentRegistry struct {
	factories map[reflect.Type]func() columnStorage
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() columnStorage),
	}
}

// RegisterComponent registers T with r. Registering twice is a no-op.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	if _, ok := r.factories[t]; ok {
		return
	}
	r.factories[t] = func() columnStorage {
		return &blockColumn[T]{}
	}
}

// IsRegistered reports whether T has been registered with r.
func IsRegistered[T any](r *ComponentRegistry) bool {
	_, ok := r.factories[reflect.TypeFor[T]()]
	return ok
}

func (r *ComponentRegistry) factory(t reflect.Type) func() columnStorage {
	return r.factories[t]
}

// columnStorage is a type-erased column of one component type.
type columnStorage interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Compact() map[int]int
	Iter() iter.Seq[int]
}

const blockSize = 64

// blockColumn stores components in fixed-size blocks so pointers handed out by
// Get stay valid while the column grows.
type blockColumn[T any] struct {
	blocks    []*[blockSize]T
	filled    []*[blockSize]bool
	freeSlots []int
	next      int
}

func (c *blockColumn[T]) slot(index int) (int, int, bool) {
	if index < 0 {
		return 0, 0, false
	}
	b, s := index/blockSize, index%blockSize
	return b, s, b < len(c.blocks)
}

func (c *blockColumn[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(c.freeSlots); n > 0 {
		index = c.freeSlots[n-1]
		c.freeSlots = c.freeSlots[:n-1]
	} else {
		index = c.next
		c.next++
		if index/blockSize >= len(c.blocks) {
			c.blocks = append(c.blocks, new([blockSize]T))
			c.filled = append(c.filled, new([blockSize]bool))
		}
	}

	b, s := index/blockSize, index%blockSize
	c.blocks[b][s] = value
	c.filled[b][s] = true
	return index
}

func (c *blockColumn[T]) Get(index int) any {
	b, s, ok := c.slot(index)
	if !ok || !c.filled[b][s] {
		return nil
	}
	return &c.blocks[b][s]
}

func (c *blockColumn[T]) Delete(index int) {
	b, s, ok := c.slot(index)
	if !ok || !c.filled[b][s] {
		return
	}
	var zero T
	c.blocks[b][s] = zero
	c.filled[b][s] = false
	c.freeSlots = append(c.freeSlots, index)
}

func (c *blockColumn[T]) Has(index int) bool {
	b, s, ok := c.slot(index)
	return ok && c.filled[b][s]
}

func (c *blockColumn[T]) Len() int {
	return c.next - len(c.freeSlots)
}

// Compact moves live components to the front, preserving their order, and
// returns the old index to new index mapping.
func (c *blockColumn[T]) Compact() map[int]int {
	moved := make(map[int]int, c.Len())
	var blocks []*[blockSize]T
	var filled []*[blockSize]bool

	write := 0
	for read := range c.Iter() {
		if write%blockSize == 0 {
			blocks = append(blocks, new([blockSize]T))
			filled = append(filled, new([blockSize]bool))
		}
		rb, rs := read/blockSize, read%blockSize
		wb, ws := write/blockSize, write%blockSize
		blocks[wb][ws] = c.blocks[rb][rs]
		filled[wb][ws] = true
		moved[read] = write
		write++
	}

	c.blocks = blocks
	c.filled = filled
	c.freeSlots = nil
	c.next = write
	return moved
}

func (c *blockColumn[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.next; i++ {
			if c.filled[i/blockSize][i%blockSize] && !yield(i) {
				return
			}
		}
	}
}
