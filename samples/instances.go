package samples

import (
	"iter"

	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/ecs"
	"github.com/plus3/sampleviewer/lattice"
	"github.com/plus3/sampleviewer/render"
)

// Instance is the record kept for one lattice cell.
type Instance struct {
	Cell      int
	Transform lattice.Transform
	Model     asset.Id
	Material  asset.Id
	Mesh      render.MeshHandle
	// MaterialInstance is set once the mesh is acquired.
	MaterialInstance *render.Material
}

func registerComponents(r *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Instance](r)
}

// InstanceStore keeps instance records as entities, remembering cell order.
type InstanceStore struct {
	storage *ecs.Storage
	ids     []ecs.EntityId
}

func NewInstanceStore(storage *ecs.Storage) *InstanceStore {
	return &InstanceStore{storage: storage}
}

func (s *InstanceStore) Add(inst Instance) ecs.EntityId {
	inst.Cell = len(s.ids)
	id := s.storage.Spawn(inst)
	s.ids = append(s.ids, id)
	return id
}

func (s *InstanceStore) Len() int { return len(s.ids) }

// Get returns the record of cell i, or nil.
func (s *InstanceStore) Get(i int) *Instance {
	if i < 0 || i >= len(s.ids) {
		return nil
	}
	return ecs.ReadComponent[Instance](s.storage, s.ids[i])
}

// Update applies fn to the record of cell i and reports whether it exists.
func (s *InstanceStore) Update(i int, fn func(*Instance)) bool {
	inst := s.Get(i)
	if inst == nil {
		return false
	}
	fn(inst)
	return true
}

// All yields records in cell order. Records may be modified in place.
func (s *InstanceStore) All() iter.Seq2[int, *Instance] {
	return func(yield func(int, *Instance) bool) {
		for i, id := range s.ids {
			inst := ecs.ReadComponent[Instance](s.storage, id)
			if inst == nil {
				continue
			}
			if !yield(i, inst) {
				return
			}
		}
	}
}

// Clear deletes every record and compacts storage so the next build fills
// slots in cell order again.
func (s *InstanceStore) Clear() {
	for _, id := range s.ids {
		s.storage.Delete(id)
	}
	s.ids = s.ids[:0]
	s.storage.Compact()
}

// releaseMeshes releases every acquired mesh through arena.
func (s *InstanceStore) releaseMeshes(arena *render.Arena) int {
	n := 0
	for _, inst := range s.All() {
		if inst.Mesh.IsValid() && arena.ReleaseMesh(&inst.Mesh) {
			n++
		}
		inst.MaterialInstance = nil
	}
	return n
}
