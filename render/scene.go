package render

import (
	"fmt"

	"github.com/kamstrup/intmap"
	"github.com/plus3/sampleviewer/asset"
	"github.com/plus3/sampleviewer/lattice"
)

type meshRecord struct {
	model     asset.Id
	material  *Material
	transform lattice.Transform
}

// Scene records feature processor state in memory. Handle values are never
// reused, so a stale handle can not alias a newer object.
type Scene struct {
	nextMesh  uint32
	nextLight uint32
	nextMat   uint32

	meshes      *intmap.Map[MeshHandle, *meshRecord]
	disks       *intmap.Map[LightHandle, *DiskLight]
	directional *intmap.Map[LightHandle, *DirectionalLight]
	shared      map[asset.Id]*Material
	materials   int
}

var _ FeatureProcessors = (*Scene)(nil)

func NewScene() *Scene {
	return &Scene{
		meshes:      intmap.New[MeshHandle, *meshRecord](256),
		disks:       intmap.New[LightHandle, *DiskLight](16),
		directional: intmap.New[LightHandle, *DirectionalLight](2),
		shared:      make(map[asset.Id]*Material),
	}
}

func invalid(kind string, h uint32) error {
	return fmt.Errorf("%s %d: %w", kind, h, ErrInvalidHandle)
}

func (s *Scene) AcquireMesh(desc MeshDescriptor) MeshHandle {
	s.nextMesh++
	h := MeshHandle(s.nextMesh)
	s.meshes.Put(h, &meshRecord{model: desc.Model, material: desc.Material, transform: lattice.Identity()})
	return h
}

func (s *Scene) ReleaseMesh(h *MeshHandle) bool {
	if h == nil || !h.IsValid() {
		return false
	}
	ok := s.meshes.Del(*h)
	*h = 0
	return ok
}

func (s *Scene) mesh(h MeshHandle) (*meshRecord, error) {
	rec, ok := s.meshes.Get(h)
	if !ok {
		return nil, invalid("mesh", uint32(h))
	}
	return rec, nil
}

func (s *Scene) SetTransform(h MeshHandle, t lattice.Transform) error {
	rec, err := s.mesh(h)
	if err != nil {
		return err
	}
	rec.transform = t
	return nil
}

func (s *Scene) Transform(h MeshHandle) (lattice.Transform, error) {
	rec, err := s.mesh(h)
	if err != nil {
		return lattice.Transform{}, err
	}
	return rec.transform, nil
}

func (s *Scene) SetMaterial(h MeshHandle, m *Material) error {
	rec, err := s.mesh(h)
	if err != nil {
		return err
	}
	rec.material = m
	return nil
}

func (s *Scene) Material(h MeshHandle) (*Material, error) {
	rec, err := s.mesh(h)
	if err != nil {
		return nil, err
	}
	return rec.material, nil
}

func (s *Scene) Model(h MeshHandle) (asset.Id, error) {
	rec, err := s.mesh(h)
	if err != nil {
		return asset.Id{}, err
	}
	return rec.model, nil
}

func (s *Scene) newMaterial(source asset.Id, shared bool) *Material {
	s.nextMat++
	s.materials++
	return &Material{id: s.nextMat, source: source, shared: shared}
}

func (s *Scene) CreateMaterial(source asset.Id) *Material {
	return s.newMaterial(source, false)
}

func (s *Scene) FindOrCreateMaterial(source asset.Id) *Material {
	if m, ok := s.shared[source]; ok {
		return m
	}
	m := s.newMaterial(source, true)
	s.shared[source] = m
	return m
}

func (s *Scene) lightHandle() LightHandle {
	s.nextLight++
	return LightHandle(s.nextLight)
}

func (s *Scene) AcquireDiskLight() LightHandle {
	h := s.lightHandle()
	s.disks.Put(h, &DiskLight{Color: [3]float32{1, 1, 1}, Direction: [3]float32{0, 0, -1}})
	return h
}

func (s *Scene) ReleaseDiskLight(h *LightHandle) bool {
	if h == nil || !h.IsValid() {
		return false
	}
	ok := s.disks.Del(*h)
	*h = 0
	return ok
}

func (s *Scene) UpdateDiskLight(h LightHandle, update func(*DiskLight)) error {
	l, ok := s.disks.Get(h)
	if !ok {
		return invalid("disk light", uint32(h))
	}
	update(l)
	l.normalize()
	return nil
}

func (s *Scene) DiskLight(h LightHandle) (DiskLight, error) {
	l, ok := s.disks.Get(h)
	if !ok {
		return DiskLight{}, invalid("disk light", uint32(h))
	}
	return *l, nil
}

func (s *Scene) AcquireDirectionalLight() LightHandle {
	h := s.lightHandle()
	s.directional.Put(h, &DirectionalLight{Color: [3]float32{1, 1, 1}, Direction: [3]float32{0, 0, -1}, CascadeCount: 1})
	return h
}

func (s *Scene) ReleaseDirectionalLight(h *LightHandle) bool {
	if h == nil || !h.IsValid() {
		return false
	}
	ok := s.directional.Del(*h)
	*h = 0
	return ok
}

func (s *Scene) UpdateDirectionalLight(h LightHandle, update func(*DirectionalLight)) error {
	l, ok := s.directional.Get(h)
	if !ok {
		return invalid("directional light", uint32(h))
	}
	update(l)
	l.normalize()
	return nil
}

func (s *Scene) DirectionalLight(h LightHandle) (DirectionalLight, error) {
	l, ok := s.directional.Get(h)
	if !ok {
		return DirectionalLight{}, invalid("directional light", uint32(h))
	}
	return *l, nil
}

// SceneStats counts live objects.
type SceneStats struct {
	Meshes            int
	DiskLights        int
	DirectionalLights int
	Materials         int
}

func (s *Scene) Stats() SceneStats {
	return SceneStats{
		Meshes:            s.meshes.Len(),
		DiskLights:        s.disks.Len(),
		DirectionalLights: s.directional.Len(),
		Materials:         s.materials,
	}
}

// Live reports the number of meshes and lights still acquired.
func (s *Scene) Live() int {
	return s.meshes.Len() + s.disks.Len() + s.directional.Len()
}

// Meshes calls fn for each live mesh in handle order.
func (s *Scene) Meshes(fn func(h MeshHandle, model asset.Id, t lattice.Transform)) {
	handles := make([]MeshHandle, 0, s.meshes.Len())
	s.meshes.ForEach(func(h MeshHandle, _ *meshRecord) bool {
		handles = append(handles, h)
		return true
	})
	sortHandles(handles)
	for _, h := range handles {
		rec, _ := s.meshes.Get(h)
		fn(h, rec.model, rec.transform)
	}
}

// Reset releases everything. Outstanding handles become invalid.
func (s *Scene) Reset() {
	s.meshes.Clear()
	s.disks.Clear()
	s.directional.Clear()
	clear(s.shared)
}
