package render

import (
	"slices"

	"github.com/kamstrup/intmap"
)

func sortHandles[H ~uint32](hs []H) {
	slices.Sort(hs)
}

// Arena owns the handles a sample acquires so they can all be released in one
// call on teardown. Handles released through the arena are forgotten; handles
// released behind its back are skipped by ReleaseAll.
type Arena struct {
	fp     FeatureProcessors
	meshes *intmap.Set[MeshHandle]
	lights *intmap.Map[LightHandle, func(*LightHandle) bool]
}

func NewArena(fp FeatureProcessors) *Arena {
	return &Arena{
		fp:     fp,
		meshes: intmap.NewSet[MeshHandle](64),
		lights: intmap.New[LightHandle, func(*LightHandle) bool](8),
	}
}

func (a *Arena) AcquireMesh(desc MeshDescriptor) MeshHandle {
	h := a.fp.AcquireMesh(desc)
	a.meshes.Add(h)
	return h
}

func (a *Arena) ReleaseMesh(h *MeshHandle) bool {
	if h == nil {
		return false
	}
	a.meshes.Del(*h)
	return a.fp.ReleaseMesh(h)
}

func (a *Arena) AcquireDiskLight() LightHandle {
	h := a.fp.AcquireDiskLight()
	a.lights.Put(h, a.fp.ReleaseDiskLight)
	return h
}

func (a *Arena) AcquireDirectionalLight() LightHandle {
	h := a.fp.AcquireDirectionalLight()
	a.lights.Put(h, a.fp.ReleaseDirectionalLight)
	return h
}

func (a *Arena) ReleaseLight(h *LightHandle) bool {
	if h == nil {
		return false
	}
	release, ok := a.lights.Get(*h)
	if !ok {
		return false
	}
	a.lights.Del(*h)
	return release(h)
}

// Len is the number of handles the arena still tracks.
func (a *Arena) Len() int {
	return a.meshes.Len() + a.lights.Len()
}

// ReleaseAll releases every tracked handle and returns how many were still
// live.
func (a *Arena) ReleaseAll() int {
	released := 0
	meshes := make([]MeshHandle, 0, a.meshes.Len())
	a.meshes.ForEach(func(h MeshHandle) bool {
		meshes = append(meshes, h)
		return true
	})
	sortHandles(meshes)
	for _, h := range meshes {
		if a.fp.ReleaseMesh(&h) {
			released++
		}
	}
	a.meshes.Clear()

	a.lights.ForEach(func(h LightHandle, release func(*LightHandle) bool) bool {
		if release(&h) {
			released++
		}
		return true
	})
	a.lights.Clear()
	return released
}
